package mapping

import "strings"

// utf8BOM is stripped from the first header cell of exports saved by Excel.
const utf8BOM = "\ufeff"

// Header is the column layout of one input file.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader indexes the given column names. When a name repeats, the first
// occurrence wins.
func NewHeader(names []string) *Header {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		h.names[i] = name
		if _, dup := h.index[name]; !dup {
			h.index[name] = i
		}
	}
	return h
}

// Names returns a copy of the column names in file order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Has reports whether the header carries the column.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// SourceRow is one data line of an input file, addressed by header name.
type SourceRow struct {
	File  string // input path the row came from
	Index int    // 1-based data row number, header excluded

	header *Header
	values []string
}

// NewSourceRow binds raw record values to a header. The values slice is
// copied so the row stays immutable when the reader reuses its buffer.
func NewSourceRow(file string, index int, header *Header, values []string) SourceRow {
	v := make([]string, len(values))
	copy(v, values)
	return SourceRow{File: file, Index: index, header: header, values: v}
}

// Get returns the value under the named column. A column that is absent from
// the header, or beyond the end of a short record, is reported as missing.
func (r SourceRow) Get(column string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[column]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// TargetRow is one output line in target header order.
type TargetRow struct {
	header []string
	values []string
}

// Values returns a copy of the row values in header order.
func (r TargetRow) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Get returns the value of a target column.
func (r TargetRow) Get(column string) (string, bool) {
	for i, name := range r.header {
		if name == column {
			return r.values[i], true
		}
	}
	return "", false
}
