package refxml

import (
	"errors"
	"fmt"
)

// ErrMissingMnemonic is returned when a <syntax> element has no mnem child.
var ErrMissingMnemonic = errors.New("refxml: syntax missing mnemonic")

// ErrAmbiguousTypeAddress is returned when an operand specifies its type or
// address both as an attribute and as a child element — spec.md section
// 4.1 treats that double-specification as a loader error, not a silent
// override.
var ErrAmbiguousTypeAddress = errors.New("refxml: operand specifies type/address twice")

// ErrMultipleTextNodes is returned when an element expected to carry at
// most one direct text run carries more than one.
var ErrMultipleTextNodes = errors.New("refxml: element has multiple text nodes")

// ErrUnknownOpcodeSet is returned when the root element contains a child
// other than one-byte or two-byte, or when a pri_opcd element has no value
// attribute.
var ErrUnknownOpcodeSet = errors.New("refxml: unrecognised opcode-set element")

// FormatError wraps one of the sentinels above with the document location
// that triggered it.
type FormatError struct {
	Kind   error
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *FormatError) Unwrap() error { return e.Kind }
