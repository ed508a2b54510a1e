package pipeline

import (
	"github.com/dvloznov/rabocard2ynab/internal/mapping"
)

// RowMapper converts one source row into one target row.
// This interface lets the converter run against any declarative mapping.
type RowMapper interface {
	// Header returns the target header written once at the top of the output.
	Header() []string
	// MissingColumns lists referenced source columns a file header lacks.
	MissingColumns(header *mapping.Header) []string
	// Map converts a row or returns the reason it cannot be converted.
	Map(row mapping.SourceRow) (mapping.TargetRow, error)
}

var _ RowMapper = (*mapping.Mapper)(nil)
