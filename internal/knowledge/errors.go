package knowledge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIntent is returned when the intent is not a recognized
	// question word or its section has not been created yet.
	ErrInvalidIntent = errors.New("invalid intent")

	// ErrNotFound is returned when the section exists but holds no answer
	// for the entity.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned by Put for entity keys the file format
	// cannot hold. See ValidEntity.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrMalformedHeader is wrapped by ParseError when a section header
	// has no closing bracket.
	ErrMalformedHeader = errors.New("section header missing closing bracket")
)

// ParseError reports a line that aborted Read.
type ParseError struct {
	Line int    // 1-based line number
	Text string // offending line, without the line terminator
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
