package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dvloznov/rabocard2ynab/internal/logger"
	"github.com/dvloznov/rabocard2ynab/internal/source"
	"github.com/rs/zerolog"
)

// PipelineStep represents a single step of a conversion run.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID      string
	Inputs     []string
	OutputPath string
	State      State

	Sources []source.Reader
	Output  *os.File
	Writer  *csv.Writer
	Digest  *xxhash.Digest

	RowsWritten int
	Errors      *ErrorSampler
	Checksum    string
}

// fail records a dropped row.
func (s *PipelineState) fail(log zerolog.Logger, rowErr *RowError) {
	s.Errors.Add(rowErr)
	log.Warn().Int("row", rowErr.Row).Err(rowErr.Err).Msg("Skipping row")
}

// closeOutput flushes and closes the output once. Later calls are no-ops.
func (s *PipelineState) closeOutput() error {
	if s.Output == nil {
		return nil
	}

	s.Writer.Flush()
	flushErr := s.Writer.Error()
	closeErr := s.Output.Close()
	s.Output = nil

	if err := errors.Join(flushErr, closeErr); err != nil {
		return &OutputFlushError{Path: s.OutputPath, Err: err}
	}
	s.Checksum = fmt.Sprintf("%016x", s.Digest.Sum64())
	return nil
}

// closeSources closes every opened input. Read handles cannot lose data, so
// failures are only logged.
func (s *PipelineState) closeSources(log zerolog.Logger) {
	for i, src := range s.Sources {
		if err := src.Close(); err != nil {
			log.Warn().Err(err).Str("file", s.Inputs[i]).Msg("Failed to close input")
		}
	}
	s.Sources = nil
}

// Step 1: OpenInputsStep opens every input before anything is written.
type OpenInputsStep struct {
	Opener source.Opener
	Log    zerolog.Logger
}

func (s *OpenInputsStep) Execute(ctx context.Context, state *PipelineState) error {
	state.State = StateOpeningInputs

	if len(state.Inputs) == 0 {
		return &InputOpenError{Err: ErrNoInputs}
	}

	for _, path := range state.Inputs {
		src, err := s.Opener.Open(path)
		if err != nil {
			return &InputOpenError{Path: path, Err: err}
		}
		state.Sources = append(state.Sources, src)
		s.Log.Debug().Str("file", path).Strs("columns", src.Header().Names()).Msg("Opened input")
	}
	return nil
}

// Step 2: CreateOutputStep creates the output file and writes the header.
// An existing file is never overwritten.
type CreateOutputStep struct {
	Header []string
}

func (s *CreateOutputStep) Execute(ctx context.Context, state *PipelineState) error {
	f, err := os.OpenFile(state.OutputPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, OutputFileMode)
	if err != nil {
		return &OutputOpenError{Path: state.OutputPath, Err: err}
	}

	state.Output = f
	state.Digest = xxhash.New()
	state.Writer = csv.NewWriter(io.MultiWriter(f, state.Digest))

	if err := state.Writer.Write(s.Header); err != nil {
		return &OutputWriteError{Path: state.OutputPath, Err: err}
	}
	return nil
}

// Step 3: StreamRowsStep maps every row of every input in order and appends
// the result to the output. Rows that cannot be read or mapped are skipped.
type StreamRowsStep struct {
	Mapper RowMapper
	Log    zerolog.Logger
}

func (s *StreamRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	state.State = StateStreaming

	for i, src := range state.Sources {
		path := state.Inputs[i]
		log := logger.WithFields(s.Log, map[string]interface{}{
			"file":       path,
			"file_index": i,
		})

		if missing := s.Mapper.MissingColumns(src.Header()); len(missing) > 0 {
			log.Warn().Strs("missing_columns", missing).Msg("Input header lacks mapped columns; its rows will be skipped")
		}

		written, failed := state.RowsWritten, state.Errors.Count()
		for {
			row, err := src.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				var recErr *source.RecordError
				if !errors.As(err, &recErr) {
					return &InputReadError{Path: path, Err: err}
				}
				state.fail(log, &RowError{File: path, Row: recErr.Row, Err: recErr})
				continue
			}

			target, err := s.Mapper.Map(row)
			if err != nil {
				state.fail(log, &RowError{File: path, Row: row.Index, Err: err})
				continue
			}

			if err := state.Writer.Write(target.Values()); err != nil {
				return &OutputWriteError{Path: state.OutputPath, Err: err}
			}
			state.RowsWritten++
		}

		log.Debug().
			Int("rows_written", state.RowsWritten-written).
			Int("rows_failed", state.Errors.Count()-failed).
			Msg("Finished input")
	}
	return nil
}

// Step 4: CloseOutputStep flushes and closes the output.
type CloseOutputStep struct{}

func (s *CloseOutputStep) Execute(ctx context.Context, state *PipelineState) error {
	state.State = StateClosing
	return state.closeOutput()
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially and stops at the first error. The
// context is checked before every step.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Execute(ctx, state); err != nil {
			return err
		}
	}
	return nil
}
