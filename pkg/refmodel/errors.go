package refmodel

import (
	"errors"
	"fmt"
)

// ErrUnknownEnumerant is returned by the Parse* functions when a string
// does not match any member of the relevant closed enumeration. Per
// spec.md section 3.3, an unrecognised enumerated value is always a
// failure, never a silently-ignored default.
var ErrUnknownEnumerant = errors.New("refmodel: unknown enumerant")

// ErrInvariant is returned by Catalog.Validate when a published entry
// violates one of the structural invariants of spec.md section 3.3.
var ErrInvariant = errors.New("refmodel: invariant violation")

// parseError names the enumeration and offending value for a failed Parse*
// call, while still unwrapping to ErrUnknownEnumerant.
type parseError struct {
	kind  string
	value string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("refmodel: unknown %s enumerant %q", e.kind, e.value)
}

func (e *parseError) Unwrap() error { return ErrUnknownEnumerant }
