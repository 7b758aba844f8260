package field

import (
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned when writing through an accessor without a setter.
	ErrReadOnly = errors.New("field is read-only")

	// ErrNoSuchSlot is returned when addressing an ingredient slot the offer does not have.
	ErrNoSuchSlot = errors.New("no such ingredient slot")

	// ErrTypeMismatch is returned when a value does not match the accessor's kind.
	ErrTypeMismatch = errors.New("value type does not match field")
)

// ResolveError reports a path that could not be resolved.
// Prefix is the first failing dotted prefix of Path.
type ResolveError struct {
	Path   string
	Prefix string
	Reason string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("unresolvable segment %q in path %q: %s", e.Prefix, e.Path, e.Reason)
}

// IsResolveError reports whether err is, or wraps, a *ResolveError.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}
