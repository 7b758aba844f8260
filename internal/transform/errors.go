package transform

import (
	"errors"
	"fmt"

	"github.com/roach88/tradepatch/internal/field"
)

var (
	ErrInvalidInteger = errors.New("invalid integer expression")
	ErrInvalidBool    = errors.New("invalid boolean")
	ErrUnsupported    = errors.New("unsupported field type")
	ErrUnknownKind    = errors.New("don't know how to handle field")
	ErrInvalidCompare = errors.New("invalid comparison expression")
)

// Error is returned when configuration text cannot be compiled for a kind.
type Error struct {
	Kind  field.Kind
	Input string
	Err   error
}

func (e *Error) Error() string {
	switch e.Err {
	case ErrUnknownKind:
		return fmt.Sprintf("don't know how to handle field of type %s", e.Kind)
	case ErrUnsupported:
		return fmt.Sprintf("unsupported field type %s for value %q, expected \"amount <expression>\"", e.Kind, e.Input)
	default:
		return fmt.Sprintf("%v %q", e.Err, e.Input)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
