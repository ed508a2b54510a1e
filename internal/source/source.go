// Package source streams rows out of bank export files.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dvloznov/rabocard2ynab/internal/mapping"
)

// Reader yields the data rows of one input file in on-disk order.
//
// Next returns io.EOF after the last row. A *RecordError means only the
// current record was unreadable and the caller may keep calling Next; any
// other error ends the file.
type Reader interface {
	Header() *mapping.Header
	Next() (mapping.SourceRow, error)
	Close() error
}

// RecordError is a malformed record that does not stop the file.
type RecordError struct {
	File string
	Row  int // 1-based data row number
	Line int // line in the file, 0 when unknown
	Err  error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Opener opens a Reader for a path.
type Opener interface {
	Open(path string) (Reader, error)
}

// FileOpener picks the reader by file extension: .xlsx files are read as
// spreadsheets, everything else as CSV.
type FileOpener struct{}

func (FileOpener) Open(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return OpenXLSX(path)
	default:
		return OpenCSV(path)
	}
}
