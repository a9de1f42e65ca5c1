package refmodel

// Entry is one opcode encoding: a primary (and optional prefix/secondary)
// byte sequence, the metadata that constrains when it applies, and the
// mnemonic variants (Syntaxes) that describe its operands.
type Entry struct {
	HasPrefixByte bool
	PrefixByte    byte

	Bytes []byte

	HasSecondaryByte bool
	SecondaryByte    byte

	Groups []Group

	HasProcessorStart bool
	ProcessorStart    ProcessorCode
	HasProcessorEnd   bool
	ProcessorEnd      ProcessorCode

	InstructionExtension Extension

	AliasBytes        []byte
	PartialAliasBytes []byte

	Syntaxes []*Syntax

	IsValidWithLockPrefix bool
	IsUndocumented        bool
	IsParticular          bool
	IsModRMRegister       bool

	// OpcodeExtension is the /0../7 ModR/M.reg sub-opcode, or -1 when the
	// entry does not use one.
	OpcodeExtension int8

	FPush int
	FPop  int

	BitFields Set[BitField]

	Mod  ModConstraint
	Attr Attribute
	Ring Ring
	Mode Mode

	Documentation Documentation

	Flags                      FlagSet[Flag]
	ConditionallyModifiesFlags bool
	FpuFlags                   FlagSet[FpuFlag]

	Note *Note
}

// NewEntry returns an Entry with its collection fields initialized and
// OpcodeExtension defaulted to -1 (none), matching the loader's baseline
// before attributes are applied.
func NewEntry() *Entry {
	return &Entry{
		OpcodeExtension: -1,
		BitFields:       NewSet[BitField](),
		Flags:           NewFlagSet[Flag](),
		FpuFlags:        NewFlagSet[FpuFlag](),
	}
}

// Key returns the full byte sequence the trie indexes this entry by:
// an optional prefix byte, the primary opcode bytes, and an optional
// secondary byte (spec.md section 4.3).
func (e *Entry) Key() []byte {
	key := make([]byte, 0, len(e.Bytes)+2)
	if e.HasPrefixByte {
		key = append(key, e.PrefixByte)
	}
	key = append(key, e.Bytes...)
	if e.HasSecondaryByte {
		key = append(key, e.SecondaryByte)
	}
	return key
}

// HasZOperand reports whether any syntax of this entry has an operand
// using the Z (register-in-opcode) addressing method.
func (e *Entry) HasZOperand() bool {
	for _, syn := range e.Syntaxes {
		for _, op := range syn.Operands() {
			if op.HasAddress && op.Address.IsRegisterSelecting() {
				return true
			}
		}
	}
	return false
}

// CanonicalSyntax returns the syntax used for length and operand
// resolution: the last one in Syntaxes, matching source behaviour
// (spec.md section 4.4).
func (e *Entry) CanonicalSyntax() *Syntax {
	if len(e.Syntaxes) == 0 {
		return nil
	}
	return e.Syntaxes[len(e.Syntaxes)-1]
}
