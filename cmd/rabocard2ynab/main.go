// Command rabocard2ynab converts Rabobank creditcard transaction exports into
// a CSV file that YNAB can import.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dvloznov/rabocard2ynab/internal/logger"
	"github.com/dvloznov/rabocard2ynab/internal/mapping"
	"github.com/dvloznov/rabocard2ynab/internal/outpath"
	"github.com/dvloznov/rabocard2ynab/internal/pipeline"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	files        []string
	output       string
	logLevel     string
	mappingFile  string
	plainMemo    bool
	printMapping bool
}

func main() {
	// A missing .env is normal; anything else is reported once the logger exists.
	envErr := godotenv.Load()
	if errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	cmd := newRootCmd(outpath.SystemClock{}, envErr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(clock outpath.Clock, envErr error) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rabocard2ynab --files export.csv [--output ynab.csv]",
		Short: "Convert Rabobank creditcard exports to YNAB CSV",
		Long: `Convert Rabobank creditcard transaction exports (CSV or XLSX) into the
YNAB CSV import format: Date,Payee,Memo,Amount.

Without --output the result is written next to the first input as
rabocard_<unix timestamp>_ynab.csv. An existing output file is never
overwritten. Rows that cannot be converted are logged and skipped.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)
			return run(cmd.Context(), opts, clock, envErr, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.files, "files", nil, "Rabobank creditcard export to convert; repeat the flag or pass more paths as arguments")
	flags.StringVar(&opts.output, "output", "", "Path of the YNAB CSV to create (default: rabocard_<timestamp>_ynab.csv next to the first input)")
	flags.StringVar(&opts.logLevel, "log-level", logger.LevelFromEnv(), "Log level: trace, debug, info, warn, error or off (env "+logger.EnvLevel+")")
	flags.StringVar(&opts.mappingFile, "mapping", "", "YAML mapping file replacing the built-in column mapping")
	flags.BoolVar(&opts.plainMemo, "plain-memo", false, "Copy the transaction reference to Memo without the foreign currency details")
	flags.BoolVar(&opts.printMapping, "print-mapping", false, "Print the active mapping as YAML and exit")

	return cmd
}

func run(ctx context.Context, opts *options, clock outpath.Clock, envErr error, stdout, stderr io.Writer) error {
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	log := logger.NewConsole(stderr, level)

	if envErr != nil {
		log.Warn().Err(envErr).Msg("Could not load .env file")
	}

	spec, err := selectSpec(opts)
	if err != nil {
		return err
	}

	if opts.printMapping {
		data, err := mapping.Marshal(spec)
		if err != nil {
			return fmt.Errorf("failed to marshal mapping: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	if len(opts.files) == 0 {
		return errors.New("at least one input file is required (--files)")
	}

	mapper, err := mapping.NewMapper(spec)
	if err != nil {
		return err
	}

	output, err := outpath.New(clock).Resolve(opts.output, opts.files)
	if err != nil {
		return &pipeline.OutputOpenError{Path: output, Err: err}
	}

	converter := pipeline.NewConverter(mapper, log)
	res, err := converter.Convert(ctx, opts.files, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Converted %d of %d rows to %s (%d skipped).\n",
		res.RowsWritten, res.RowsProcessed, res.OutputPath, res.RowsFailed)
	return nil
}

func selectSpec(opts *options) (*mapping.Spec, error) {
	switch {
	case opts.mappingFile != "" && opts.plainMemo:
		return nil, errors.New("--mapping and --plain-memo cannot be combined")
	case opts.mappingFile != "":
		return mapping.LoadFile(opts.mappingFile)
	case opts.plainMemo:
		return mapping.PlainSpec(), nil
	default:
		return mapping.RabocardSpec(), nil
	}
}
