package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readAll(t *testing.T, r Reader) (rows [][]string, recordErrs []*RecordError) {
	t.Helper()
	names := r.Header().Names()
	for {
		row, err := r.Next()
		if err == io.EOF {
			return rows, recordErrs
		}
		var re *RecordError
		if errors.As(err, &re) {
			recordErrs = append(recordErrs, re)
			continue
		}
		require.NoError(t, err)

		values := make([]string, 0, len(names))
		for _, n := range names {
			v, _ := row.Get(n)
			values = append(values, v)
		}
		rows = append(rows, values)
	}
}

func TestOpenCSV(t *testing.T) {
	path := writeFile(t, "export.csv", "Datum,Bedrag\n2024-01-01,\"-1,50\"\n2024-01-02,3\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"Datum", "Bedrag"}, r.Header().Names())

	rows, recErrs := readAll(t, r)
	assert.Empty(t, recErrs)
	assert.Equal(t, [][]string{{"2024-01-01", "-1,50"}, {"2024-01-02", "3"}}, rows)
}

func TestCSVReader_RowIdentity(t *testing.T) {
	path := writeFile(t, "export.csv", "A\n1\n2\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	first, err := r.Next()
	require.NoError(t, err)
	second, err := r.Next()
	require.NoError(t, err)

	assert.Equal(t, path, first.File)
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, second.Index)
}

func TestCSVReader_ShortRecordKeepsGoing(t *testing.T) {
	path := writeFile(t, "export.csv", "A,B\n1,2\n3\n4,5\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	var got []string
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		_, hasB := row.Get("B")
		a, _ := row.Get("A")
		got = append(got, a)
		if a == "3" {
			assert.False(t, hasB)
		}
	}
	assert.Equal(t, []string{"1", "3", "4"}, got)
}

func TestCSVReader_MalformedRecord(t *testing.T) {
	path := writeFile(t, "export.csv", "A,B\n1,2\n3,x\"y\n4,5\n")

	r, err := OpenCSV(path)
	require.NoError(t, err)
	defer r.Close()

	rows, recErrs := readAll(t, r)
	require.Len(t, recErrs, 1)
	assert.Equal(t, 2, recErrs[0].Row)
	assert.Equal(t, 3, recErrs[0].Line)
	assert.Equal(t, path, recErrs[0].File)
	assert.Equal(t, [][]string{{"1", "2"}, {"4", "5"}}, rows)
}

func TestOpenCSV_EmptyFile(t *testing.T) {
	r, err := OpenCSV(writeFile(t, "empty.csv", ""))
	require.NoError(t, err)
	defer r.Close()

	assert.Empty(t, r.Header().Names())
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestOpenCSV_MissingFile(t *testing.T) {
	_, err := OpenCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeXLSX(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpenXLSX(t *testing.T) {
	path := writeXLSX(t, [][]interface{}{
		{"Datum", "Omschrijving", "Oorspr munt"},
		{"2024-01-01", "Shop", "USD"},
		{"", "", ""},
		{"2024-01-02", "Cafe"},
	})

	r, err := OpenXLSX(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"Datum", "Omschrijving", "Oorspr munt"}, r.Header().Names())

	first, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, first.Index)

	second, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, second.Index)
	cur, ok := second.Get("Oorspr munt")
	assert.True(t, ok, "trailing empty cell is padded")
	assert.Equal(t, "", cur)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

type fakeRows struct {
	rows    [][]string
	cellErr map[int]error
	err     error
	pos     int
	closed  bool
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Columns(...excelize.Options) ([]string, error) {
	if err := f.cellErr[f.pos]; err != nil {
		return nil, err
	}
	return f.rows[f.pos-1], nil
}

func (f *fakeRows) Error() error { return f.err }

func (f *fakeRows) Close() error {
	f.closed = true
	return nil
}

func TestXLSXReader_CellErrorIsRecordError(t *testing.T) {
	badCell := errors.New("bad shared string")
	rows := &fakeRows{
		rows:    [][]string{{"Datum"}, {"x"}, {"2024-01-02"}},
		cellErr: map[int]error{2: badCell},
	}
	r, err := newXLSXReader("export.xlsx", rows)
	require.NoError(t, err)

	_, err = r.Next()
	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 1, re.Row)
	assert.Equal(t, 2, re.Line)
	assert.ErrorIs(t, err, badCell)

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Index)
}

func TestXLSXReader_StreamFailureIsNotARecordError(t *testing.T) {
	broken := errors.New("zip: checksum error")
	rows := &fakeRows{rows: [][]string{{"Datum"}}, err: broken}
	r, err := newXLSXReader("export.xlsx", rows)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = r.Next()
		require.ErrorIs(t, err, broken)
		var re *RecordError
		assert.False(t, errors.As(err, &re))
	}

	require.NoError(t, r.Close())
	assert.True(t, rows.closed)
	assert.NoError(t, r.Close())
}

func TestFileOpener(t *testing.T) {
	csvPath := writeFile(t, "export.CSV", "Datum\n2024-01-01\n")
	xlsxPath := writeXLSX(t, [][]interface{}{{"Datum"}, {"2024-01-01"}})

	for _, path := range []string{csvPath, xlsxPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			r, err := FileOpener{}.Open(path)
			require.NoError(t, err)
			defer r.Close()

			row, err := r.Next()
			require.NoError(t, err)
			v, ok := row.Get("Datum")
			require.True(t, ok)
			assert.Equal(t, "2024-01-01", v)
		})
	}
}

func TestRecordError(t *testing.T) {
	inner := errors.New("bare quote")
	err := &RecordError{File: "a.csv", Row: 2, Line: 3, Err: inner}

	assert.True(t, strings.Contains(err.Error(), "line 3"))
	assert.ErrorIs(t, err, inner)
}
