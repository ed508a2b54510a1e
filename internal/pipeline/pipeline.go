package pipeline

import (
	"context"
	"time"

	"github.com/dvloznov/rabocard2ynab/internal/source"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Converter streams bank export files through a RowMapper into one output
// CSV. It logs through the logger it was given and nothing else.
type Converter struct {
	mapper     RowMapper
	opener     source.Opener
	log        zerolog.Logger
	sampleSize int
}

// Option configures a Converter.
type Option func(*Converter)

// WithOpener replaces the default extension based file opener.
func WithOpener(opener source.Opener) Option {
	return func(c *Converter) {
		c.opener = opener
	}
}

// WithSampleSize sets how many recent row errors the Result keeps.
func WithSampleSize(n int) Option {
	return func(c *Converter) {
		c.sampleSize = n
	}
}

// NewConverter creates a Converter with the given mapper and logger.
func NewConverter(mapper RowMapper, log zerolog.Logger, opts ...Option) *Converter {
	c := &Converter{
		mapper:     mapper,
		opener:     source.FileOpener{},
		log:        log,
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs one batch: every input in the given order into output, which
// must not exist yet. Row errors are counted and sampled in the Result and
// never fail the run; open, read, write and flush failures do. The Result is
// returned in both cases.
func (c *Converter) Convert(ctx context.Context, inputs []string, output string) (*Result, error) {
	start := time.Now()

	state := &PipelineState{
		RunID:      uuid.NewString(),
		Inputs:     inputs,
		OutputPath: output,
		State:      StateIdle,
		Errors:     NewErrorSampler(c.sampleSize),
	}
	log := c.log.With().Str("run_id", state.RunID).Logger()

	log.Info().Strs("inputs", inputs).Str("output", output).Msg("Starting conversion")

	p := NewPipeline(
		&OpenInputsStep{Opener: c.opener, Log: log},
		&CreateOutputStep{Header: c.mapper.Header()},
		&StreamRowsStep{Mapper: c.mapper, Log: log},
		&CloseOutputStep{},
	)

	err := p.Execute(ctx, state)

	// Release whatever the failed step left open.
	state.closeSources(log)
	if state.Output != nil {
		state.State = StateClosing
		if closeErr := state.closeOutput(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close output")
		}
	}

	if err != nil {
		state.State = StateFailed
	} else {
		state.State = StateDone
	}

	result := &Result{
		RunID:         state.RunID,
		Inputs:        inputs,
		OutputPath:    output,
		RowsWritten:   state.RowsWritten,
		RowsFailed:    state.Errors.Count(),
		RowsProcessed: state.RowsWritten + state.Errors.Count(),
		ErrorSamples:  state.Errors.Samples(),
		Duration:      time.Since(start),
		State:         state.State,
	}
	if err == nil {
		result.Checksum = state.Checksum
	}

	if err != nil {
		log.Error().Err(err).
			Int("rows_written", result.RowsWritten).
			Int("rows_failed", result.RowsFailed).
			Msg("Conversion failed")
		return result, err
	}

	event := log.Info()
	if result.RowsFailed > 0 {
		event = log.Warn()
	}
	event.
		Int("rows_processed", result.RowsProcessed).
		Int("rows_written", result.RowsWritten).
		Int("rows_failed", result.RowsFailed).
		Str("checksum", result.Checksum).
		Dur("duration", result.Duration).
		Msg("Conversion finished")

	return result, nil
}
