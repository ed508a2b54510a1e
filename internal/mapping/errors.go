package mapping

import (
	"errors"
	"fmt"
)

// ErrMissingColumn matches every MissingColumnError via errors.Is.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError reports a source column the row does not carry.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
