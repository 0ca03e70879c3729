package track

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat marks malformed input: bad XML or JSON, a wrong CSV header,
	// a wrong column count or a non-numeric field.
	ErrFormat = errors.New("invalid file format")

	// ErrEmptyInput marks input that produced no points, or a merge that
	// produced no rows.
	ErrEmptyInput = errors.New("no track data")

	// ErrConfig marks an unusable conversion configuration.
	ErrConfig = errors.New("invalid configuration")

	// ErrUnsupportedExtension marks a file whose extension has no parser.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

// FormatError locates a parse failure inside a file. Line and Column are
// optional.
type FormatError struct {
	Format string
	Line   int
	Column string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Format + ": "
	switch {
	case e.Line > 0 && e.Column != "":
		msg += fmt.Sprintf("row %d, column %s: ", e.Line, e.Column)
	case e.Line > 0:
		msg += fmt.Sprintf("line %d: ", e.Line)
	case e.Column != "":
		msg += fmt.Sprintf("column %s: ", e.Column)
	}
	if e.Err != nil {
		msg += e.Err.Error()
	} else {
		msg += ErrFormat.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports every FormatError as ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }
