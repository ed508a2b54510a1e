// Package outpath decides where a conversion writes its result.
//
// A requested path is used as given but must not exist yet; an existing file
// or a directory is rejected instead of being overwritten or written into.
// Without a requested path the name rabocard_<unix seconds>_ynab.csv is
// generated next to the first input file.
package outpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrOutputExists is returned when the output path is an existing file.
	ErrOutputExists = errors.New("output file already exists")
	// ErrOutputIsDir is returned when the output path is a directory.
	ErrOutputIsDir = errors.New("output path is a directory")
	// ErrNoInputs is returned when a name must be generated but no input is known.
	ErrNoInputs = errors.New("no input files to derive an output path from")
)

// Clock supplies the wall-clock time used in generated names.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// StatFunc matches os.Stat.
type StatFunc func(name string) (fs.FileInfo, error)

// Resolver resolves output paths.
type Resolver struct {
	clock Clock
	stat  StatFunc
}

// New creates a Resolver reading time from clock and the file system via os.Stat.
func New(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{clock: clock, stat: os.Stat}
}

// FileName returns the generated output file name for t.
func FileName(t time.Time) string {
	return fmt.Sprintf("rabocard_%d_ynab.csv", t.Unix())
}

// Resolve returns the path to write to. On error the returned path is the
// candidate that was rejected, so callers can report it.
func (r *Resolver) Resolve(requested string, inputs []string) (string, error) {
	path := requested
	if path == "" {
		if len(inputs) == 0 {
			return "", ErrNoInputs
		}
		path = filepath.Join(filepath.Dir(inputs[0]), FileName(r.clock.Now()))
	}

	info, err := r.stat(path)
	switch {
	case err == nil && info.IsDir():
		return path, ErrOutputIsDir
	case err == nil:
		return path, ErrOutputExists
	case !errors.Is(err, fs.ErrNotExist):
		return path, fmt.Errorf("failed to check output path: %w", err)
	}

	return path, nil
}
