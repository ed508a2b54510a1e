package source

import (
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/rabocard2ynab/internal/mapping"

	"github.com/xuri/excelize/v2"
)

// sheetRows is the part of *excelize.Rows the reader uses.
type sheetRows interface {
	Next() bool
	Columns(opts ...excelize.Options) ([]string, error)
	Error() error
	Close() error
}

// XLSXReader streams the first sheet of a workbook. The first row is the
// header; blank rows are skipped.
type XLSXReader struct {
	path   string
	file   *excelize.File
	rows   sheetRows
	header *mapping.Header
	width  int
	line   int
	row    int
	err    error
}

// OpenXLSX opens the workbook and reads the header row of its first sheet.
func OpenXLSX(path string) (*XLSXReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}

	sheetName := f.GetSheetName(0)
	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	r, err := newXLSXReader(path, rows)
	if err != nil {
		rows.Close()
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

func newXLSXReader(path string, rows sheetRows) (*XLSXReader, error) {
	r := &XLSXReader{path: path, rows: rows}

	header, err := r.nextCells()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	r.header = mapping.NewHeader(header)
	r.width = len(header)
	r.row = 0

	return r, nil
}

// nextCells returns the next non-blank row. A row whose cells cannot be
// decoded is a *RecordError. A failure of the sheet stream itself is
// returned as is, and again on every later call.
func (r *XLSXReader) nextCells() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	for r.rows.Next() {
		r.line++
		cells, err := r.rows.Columns()
		if err != nil {
			r.row++
			return nil, &RecordError{File: r.path, Row: r.row, Line: r.line, Err: err}
		}
		if isBlank(cells) {
			continue
		}
		return cells, nil
	}
	if err := r.rows.Error(); err != nil {
		r.err = fmt.Errorf("failed to read sheet: %w", err)
		return nil, r.err
	}
	return nil, io.EOF
}

func (r *XLSXReader) Header() *mapping.Header {
	return r.header
}

func (r *XLSXReader) Next() (mapping.SourceRow, error) {
	cells, err := r.nextCells()
	if err != nil {
		return mapping.SourceRow{}, err
	}
	r.row++

	// Trailing empty cells are not stored in the sheet.
	if len(cells) < r.width {
		padded := make([]string, r.width)
		copy(padded, cells)
		cells = padded
	}

	return mapping.NewSourceRow(r.path, r.row, r.header, cells), nil
}

func (r *XLSXReader) Close() error {
	if r.rows == nil {
		return nil
	}
	rowsErr := r.rows.Close()
	r.rows = nil

	var err error
	if r.file != nil {
		err = r.file.Close()
		r.file = nil
	}
	if err != nil {
		return err
	}
	return rowsErr
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
