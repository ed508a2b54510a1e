package pipeline

import (
	"time"
)

// State is the phase a conversion run is in.
type State int

const (
	StateIdle State = iota
	StateOpeningInputs
	StateStreaming
	StateClosing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpeningInputs:
		return "opening_inputs"
	case StateStreaming:
		return "streaming"
	case StateClosing:
		return "closing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result summarizes one conversion run. Convert returns it on failure too,
// with the counts reached before the run stopped.
type Result struct {
	RunID      string
	Inputs     []string
	OutputPath string

	RowsProcessed int // RowsWritten + RowsFailed
	RowsWritten   int
	RowsFailed    int
	ErrorSamples  []*RowError // most recent row errors, oldest first

	Checksum string // xxhash64 of the output bytes, hex; empty unless Done
	Duration time.Duration
	State    State
}
