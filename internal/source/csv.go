package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dvloznov/rabocard2ynab/internal/mapping"
)

// CSVReader reads a comma separated export with a header line.
type CSVReader struct {
	path   string
	file   *os.File
	reader *csv.Reader
	header *mapping.Header
	row    int
}

// OpenCSV opens path and reads its header line. A file without any line has
// an empty header and no rows.
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := newCSVReader(path, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

func newCSVReader(path string, in io.Reader) (*CSVReader, error) {
	reader := csv.NewReader(in)
	// Short and long records are reported by the row mapper, not the reader.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &CSVReader{
		path:   path,
		reader: reader,
		header: mapping.NewHeader(header),
	}, nil
}

func (r *CSVReader) Header() *mapping.Header {
	return r.header
}

func (r *CSVReader) Next() (mapping.SourceRow, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return mapping.SourceRow{}, io.EOF
	}

	r.row++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return mapping.SourceRow{}, &RecordError{File: r.path, Row: r.row, Line: pe.StartLine, Err: pe.Err}
		}
		return mapping.SourceRow{}, fmt.Errorf("failed to read record %d: %w", r.row, err)
	}

	return mapping.NewSourceRow(r.path, r.row, r.header, record), nil
}

func (r *CSVReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
