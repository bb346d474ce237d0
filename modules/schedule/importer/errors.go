package importer

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRow  = errors.New("malformed row")
	ErrInvalidDate   = errors.New("invalid date")
	ErrMissingField  = errors.New("missing required field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrNoCurrentRow  = errors.New("no current row")
)

// RowError reports a row the driver could not turn into an entity. It always
// matches ErrMalformedRow and unwraps to the underlying cause.
//
// Position indexes the loaded row sequence. Line is the source line when the
// driver knows it; the message prefers it.
type RowError struct {
	Position int
	Line     int
	Field    Field
	Err      error
}

func (e *RowError) Error() string {
	where := fmt.Sprintf("row %d", e.Position+1)
	if e.Line > 0 {
		where = fmt.Sprintf("line %d", e.Line)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", where, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", where, e.Field, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func (e *RowError) Is(target error) bool {
	return target == ErrMalformedRow
}
