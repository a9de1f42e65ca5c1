package refmodel

import "errors"

// ErrBackReferenceAlreadySet is returned by BindEntry/BindSyntax when
// called a second time on the same Syntax/Operand. Back-references are
// set exactly once, by the loader, before the catalog is published
// (spec.md section 3.3).
var ErrBackReferenceAlreadySet = errors.New("refmodel: back-reference already set")

// Note is an optional brief/detailed explanatory text pair attached to an
// Entry.
type Note struct {
	Brief    string
	Detailed string
}

// Operand is one operand slot of a Syntax.
type Operand struct {
	Text string

	HasRegisterNumber bool
	RegisterNumber    RegisterNumber

	Group OperandGroup

	HasType bool
	Type    Type

	HasAddress bool
	Address    Address

	NoDepend    bool
	NoDisplayed bool

	// Syntax is the back-reference to the enclosing Syntax, set exactly
	// once by the loader via BindSyntax.
	Syntax *Syntax
}

// BindSyntax sets the operand's back-reference to its enclosing Syntax. It
// is a loader-only operation: calling it twice is an invariant violation.
func (o *Operand) BindSyntax(s *Syntax) error {
	if o.Syntax != nil {
		return ErrBackReferenceAlreadySet
	}
	o.Syntax = s
	return nil
}

// Syntax is a mnemonic variant of an Entry, with its ordered source and
// destination operands.
type Syntax struct {
	Mnemonic string
	Mod      ModConstraint

	SrcOperands []*Operand
	DstOperands []*Operand

	// Entry is the back-reference to the enclosing Entry, set exactly once
	// by the loader via BindEntry.
	Entry *Entry
}

// BindEntry sets the syntax's back-reference to its enclosing Entry. It is
// a loader-only operation: calling it twice is an invariant violation.
func (s *Syntax) BindEntry(e *Entry) error {
	if s.Entry != nil {
		return ErrBackReferenceAlreadySet
	}
	s.Entry = e
	return nil
}

// Operands returns the syntax's operands in document order: all source
// operands followed by all destination operands, the order spec.md
// section 4.4's length computation walks them in.
func (s *Syntax) Operands() []*Operand {
	out := make([]*Operand, 0, len(s.SrcOperands)+len(s.DstOperands))
	out = append(out, s.SrcOperands...)
	out = append(out, s.DstOperands...)
	return out
}
