package decoder

import "github.com/x86ref/x86ref/pkg/refmodel"

// Instruction is one decoded encoding: the catalog entry it matched, the
// prefix/ModR/M/SIB/immediate bytes consumed around it, and the total
// byte length to advance the stream by (spec.md section 4.4 Output).
type Instruction struct {
	// Prefixes is the ordered list of legacy prefix bytes consumed before
	// the opcode (LOCK, segment overrides, REP/REPNE, operand/address-size
	// overrides).
	Prefixes []byte

	HasREXPrefix bool
	RexPrefix    byte

	Entry *refmodel.Entry

	HasModRM bool
	ModRM    byte

	// HasSIB/SIB are populated whenever the ModR/M byte's rm field selects
	// a SIB byte, even though the reference model carries no SIB field of
	// its own (spec.md section 9 notes the source doesn't model SIB at
	// the Entry level; this decoder still decodes it from the concrete
	// bytes it reads, since length computation depends on it).
	HasSIB bool
	SIB    byte

	HasImmediate    bool
	ImmediateLength int
	ImmediateValue  int64

	TotalLength int
}
