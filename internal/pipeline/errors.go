package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoInputs is returned when Convert is called without input files.
var ErrNoInputs = errors.New("no input files")

// InputOpenError means an input file could not be opened. The run stops
// before anything is written.
type InputOpenError struct {
	Path string
	Err  error
}

func (e *InputOpenError) Error() string {
	return fmt.Sprintf("cannot open input %s: %v", e.Path, e.Err)
}

func (e *InputOpenError) Unwrap() error { return e.Err }

// InputReadError means an input file failed mid-stream for a reason other
// than a malformed record.
type InputReadError struct {
	Path string
	Err  error
}

func (e *InputReadError) Error() string {
	return fmt.Sprintf("cannot read input %s: %v", e.Path, e.Err)
}

func (e *InputReadError) Unwrap() error { return e.Err }

// OutputOpenError means the output path was rejected or could not be created.
type OutputOpenError struct {
	Path string
	Err  error
}

func (e *OutputOpenError) Error() string {
	return fmt.Sprintf("cannot create output %s: %v", e.Path, e.Err)
}

func (e *OutputOpenError) Unwrap() error { return e.Err }

// OutputWriteError means a record could not be written to the output.
type OutputWriteError struct {
	Path string
	Err  error
}

func (e *OutputWriteError) Error() string {
	return fmt.Sprintf("cannot write output %s: %v", e.Path, e.Err)
}

func (e *OutputWriteError) Unwrap() error { return e.Err }

// OutputFlushError means flushing or closing the output failed. The partial
// file is left on disk.
type OutputFlushError struct {
	Path string
	Err  error
}

func (e *OutputFlushError) Error() string {
	return fmt.Sprintf("cannot flush output %s: %v", e.Path, e.Err)
}

func (e *OutputFlushError) Unwrap() error { return e.Err }

// RowError is a single row that was dropped from the output.
type RowError struct {
	File string
	Row  int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.File, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
