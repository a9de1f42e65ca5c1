package refmodel

import (
	"fmt"
	"strings"
)

// Flag is one EFLAGS/FLAGS bit, named and positioned per the Intel SDM.
type Flag uint8

const (
	FlagC     Flag = iota // bit 0, carry
	FlagP                 // bit 2, parity
	FlagA                 // bit 4, auxiliary carry
	FlagZ                 // bit 6, zero
	FlagS                 // bit 7, sign
	FlagT                 // bit 8, trap
	FlagI                 // bit 9, interrupt enable
	FlagD                 // bit 10, direction
	FlagO                 // bit 11, overflow
	FlagIOPL1             // bit 12, I/O privilege level low bit
	FlagIOPL2             // bit 13, I/O privilege level high bit
	FlagNT                // bit 14, nested task
	FlagRF                // bit 16, resume
	FlagVM                // bit 17, virtual 8086 mode
	FlagAC                // bit 18, alignment check
	FlagVIF               // bit 19, virtual interrupt flag
	FlagVIP               // bit 20, virtual interrupt pending
	FlagID                // bit 21, CPUID capability
)

// Bit returns the EFLAGS bit position of the flag.
func (f Flag) Bit() uint {
	switch f {
	case FlagC:
		return 0
	case FlagP:
		return 2
	case FlagA:
		return 4
	case FlagZ:
		return 6
	case FlagS:
		return 7
	case FlagT:
		return 8
	case FlagI:
		return 9
	case FlagD:
		return 10
	case FlagO:
		return 11
	case FlagIOPL1:
		return 12
	case FlagIOPL2:
		return 13
	case FlagNT:
		return 14
	case FlagRF:
		return 16
	case FlagVM:
		return 17
	case FlagAC:
		return 18
	case FlagVIF:
		return 19
	case FlagVIP:
		return 20
	case FlagID:
		return 21
	}
	return 0
}

func (f Flag) String() string {
	if s, ok := flagNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

var flagNames = map[Flag]string{
	FlagC: "C", FlagP: "P", FlagA: "A", FlagZ: "Z", FlagS: "S", FlagT: "T",
	FlagI: "I", FlagD: "D", FlagO: "O", FlagIOPL1: "IOPL1", FlagIOPL2: "IOPL2",
	FlagNT: "NT", FlagRF: "RF", FlagVM: "VM", FlagAC: "AC", FlagVIF: "VIF",
	FlagVIP: "VIP", FlagID: "ID",
}

var flagByName = invert(flagNames)

// ParseFlag resolves a flag letter code, case-normalising on lookup.
func ParseFlag(s string) (Flag, error) {
	f, ok := flagByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "flag", value: s}
	}
	return f, nil
}

// ParseFlagLetter resolves the single-letter f_vals encoding (spec.md
// section 4.1): uppercase letters name a Set flag, lowercase an Unset
// flag. Only the letters that have single-character mnemonics are valid
// here (C, P, A, Z, S, T, I, D, O, N — N is ambiguous with NT and is
// rejected; callers should prefer the full-name flags children for those).
func ParseFlagLetter(r rune) (Flag, error) {
	f, ok := flagLetters[upperRune(r)]
	if !ok {
		return 0, &parseError{kind: "flag letter", value: string(r)}
	}
	return f, nil
}

var flagLetters = map[rune]Flag{
	'C': FlagC, 'P': FlagP, 'A': FlagA, 'Z': FlagZ, 'S': FlagS,
	'T': FlagT, 'I': FlagI, 'D': FlagD, 'O': FlagO,
}

func upperRune(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// FpuFlag is one of the four x87 condition-code bits.
type FpuFlag uint8

const (
	FpuC0 FpuFlag = iota
	FpuC1
	FpuC2
	FpuC3
)

func (f FpuFlag) String() string {
	return [...]string{"C0", "C1", "C2", "C3"}[f]
}

var fpuFlagByName = map[string]FpuFlag{"C0": FpuC0, "C1": FpuC1, "C2": FpuC2, "C3": FpuC3}

// ParseFpuFlag resolves an x87 condition-code flag name.
func ParseFpuFlag(s string) (FpuFlag, error) {
	f, ok := fpuFlagByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "fpu flag", value: s}
	}
	return f, nil
}

// ProcessorCode is a point in the closed processor-generation lineage used
// by Entry.ProcessorStart/ProcessorEnd.
type ProcessorCode uint8

const (
	Proc8086 ProcessorCode = iota
	Proc80186
	Proc80286
	Proc80386
	Proc80486
	ProcP1
	ProcP1MMX
	ProcPPro
	ProcPII
	ProcPIII
	ProcP4
	ProcCore1
	ProcCore2
	ProcCoreI7
	ProcItanium
)

var processorNames = map[ProcessorCode]string{
	Proc8086: "8086", Proc80186: "80186", Proc80286: "80286", Proc80386: "80386",
	Proc80486: "80486", ProcP1: "P1", ProcP1MMX: "P1MMX", ProcPPro: "PPRO",
	ProcPII: "PII", ProcPIII: "PIII", ProcP4: "P4", ProcCore1: "CORE1",
	ProcCore2: "CORE2", ProcCoreI7: "COREI7", ProcItanium: "ITANIUM",
}

var processorByName = invert(processorNames)

func (p ProcessorCode) String() string { return processorNames[p] }

// ParseProcessorCode resolves a processor-generation code.
func ParseProcessorCode(s string) (ProcessorCode, error) {
	p, ok := processorByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "processor", value: s}
	}
	return p, nil
}

// Extension is an optional instruction-set extension requirement.
type Extension uint8

const (
	ExtNone Extension = iota
	ExtMMX
	ExtSSE1
	ExtSSE2
	ExtSSE3
	ExtSSSE3
	ExtSSE41
	ExtSSE42
	ExtVMX
	ExtSMX
)

var extensionNames = map[Extension]string{
	ExtNone: "", ExtMMX: "MMX", ExtSSE1: "SSE1", ExtSSE2: "SSE2", ExtSSE3: "SSE3",
	ExtSSSE3: "SSSE3", ExtSSE41: "SSE41", ExtSSE42: "SSE42", ExtVMX: "VMX", ExtSMX: "SMX",
}

var extensionByName = invert(extensionNames)

func (e Extension) String() string { return extensionNames[e] }

// ParseExtension resolves an instruction-extension code.
func ParseExtension(s string) (Extension, error) {
	if s == "" {
		return ExtNone, nil
	}
	e, ok := extensionByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "extension", value: s}
	}
	return e, nil
}

// Mode is the set of operational modes an encoding is valid in.
type Mode uint8

const (
	// ModeR is the default: valid in real, protected, and 64-bit mode.
	ModeR Mode = iota
	// ModeP is valid in protected mode and 64-bit mode, not real mode.
	ModeP
	// ModeE is 64-bit mode only.
	ModeE
	// ModeS is SMM-only.
	ModeS
)

var modeNames = map[Mode]string{ModeR: "R", ModeP: "P", ModeE: "E", ModeS: "S"}
var modeByName = invert(modeNames)

func (m Mode) String() string { return modeNames[m] }

// ParseMode resolves a mode code.
func ParseMode(s string) (Mode, error) {
	m, ok := modeByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "mode", value: s}
	}
	return m, nil
}

// Ring is the privilege-level requirement of an encoding.
type Ring uint8

const (
	Ring0 Ring = iota
	Ring1
	Ring2
	Ring3
	RingF // "f": ring not fixed / not applicable
)

var ringNames = map[Ring]string{Ring0: "0", Ring1: "1", Ring2: "2", Ring3: "3", RingF: "F"}
var ringByName = invert(ringNames)

func (r Ring) String() string { return ringNames[r] }

// ParseRing resolves a ring code.
func ParseRing(s string) (Ring, error) {
	r, ok := ringByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "ring", value: s}
	}
	return r, nil
}

// Documentation classifies how officially documented an encoding is.
type Documentation uint8

const (
	DocDocumented Documentation = iota // "D", the default
	DocMarginal                        // "M"
	DocUndocumented                    // "U"
)

var documentationNames = map[Documentation]string{
	DocDocumented: "D", DocMarginal: "M", DocUndocumented: "U",
}
var documentationByName = invert(documentationNames)

func (d Documentation) String() string { return documentationNames[d] }

// ParseDocumentation resolves a documentation code.
func ParseDocumentation(s string) (Documentation, error) {
	d, ok := documentationByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "documentation", value: s}
	}
	return d, nil
}

// Attribute is a free-standing behavioral tag on an entry.
type Attribute uint8

const (
	AttrNone Attribute = iota
	AttrInvd
	AttrUndef
	AttrNull
	AttrNop
	AttrAcc
	AttrSerial
	AttrSerialCond
	AttrDelaysInt
	AttrDelaysIntCond
)

var attributeNames = map[Attribute]string{
	AttrNone: "", AttrInvd: "invd", AttrUndef: "undef", AttrNull: "null",
	AttrNop: "nop", AttrAcc: "acc", AttrSerial: "serial",
	AttrSerialCond: "serial_cond", AttrDelaysInt: "delaysint",
	AttrDelaysIntCond: "delaysint_cond",
}
var attributeByName = invert(attributeNames)

func (a Attribute) String() string { return attributeNames[a] }

// ParseAttribute resolves an attr code, case-normalising on lookup.
func ParseAttribute(s string) (Attribute, error) {
	if s == "" {
		return AttrNone, nil
	}
	a, ok := attributeByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "attribute", value: s}
	}
	return a, nil
}

// ModConstraint restricts whether ModR/M may select a memory or a register
// form. Used independently by both Entry and Syntax.
type ModConstraint uint8

const (
	ModUnspecified ModConstraint = iota
	ModNoMem
	ModMem
)

var modConstraintNames = map[ModConstraint]string{
	ModUnspecified: "unspecified", ModNoMem: "nomem", ModMem: "mem",
}
var modConstraintByName = invert(modConstraintNames)

func (m ModConstraint) String() string { return modConstraintNames[m] }

// ParseModConstraint resolves a mod constraint code.
func ParseModConstraint(s string) (ModConstraint, error) {
	if s == "" {
		return ModUnspecified, nil
	}
	m, ok := modConstraintByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "mod constraint", value: s}
	}
	return m, nil
}

// OperandGroup names the register file an operand's registerNumber
// indexes into.
type OperandGroup uint8

const (
	OperandGroupNone OperandGroup = iota
	OperandGroupGEN
	OperandGroupMMX
	OperandGroupXMM
	OperandGroupSEG
	OperandGroupX87FPU
	OperandGroupCTRL
	OperandGroupSYSTABP
	OperandGroupMSR
	OperandGroupDEBUG
	OperandGroupXCR
)

var operandGroupNames = map[OperandGroup]string{
	OperandGroupNone: "", OperandGroupGEN: "GEN", OperandGroupMMX: "MMX",
	OperandGroupXMM: "XMM", OperandGroupSEG: "SEG", OperandGroupX87FPU: "X87FPU",
	OperandGroupCTRL: "CTRL", OperandGroupSYSTABP: "SYSTABP", OperandGroupMSR: "MSR",
	OperandGroupDEBUG: "DEBUG", OperandGroupXCR: "XCR",
}
var operandGroupByName = invert(operandGroupNames)

func (g OperandGroup) String() string { return operandGroupNames[g] }

// ParseOperandGroup resolves an operand register-file group code.
func ParseOperandGroup(s string) (OperandGroup, error) {
	if s == "" {
		return OperandGroupNone, nil
	}
	g, ok := operandGroupByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "operand group", value: s}
	}
	return g, nil
}

// BitField names one of the opcode low-order bits whose value varies the
// encoding's meaning.
type BitField uint8

const (
	BitFieldOperandSize BitField = iota // w
	BitFieldSignExtend                  // s
	BitFieldDirection                   // d
	BitFieldCondition                   // tttn
	BitFieldMemoryFormat                // mf
)

func (b BitField) String() string {
	return [...]string{"OPERAND_SIZE", "SIGN_EXTEND", "DIRECTION", "CONDITION", "MEMORY_FORMAT"}[b]
}

// Group is a semantic classification tag attached to an Entry, carrying the
// tier it was declared at: tier 0 from a grp1 element, 1 from grp2, 2 from
// grp3 (spec.md section 3.2 and section 4.1's grp1/grp2/grp3 children).
type Group struct {
	Name string
	Tier int
}

// groupVocabulary is the closed set of recognized semantic tags. The
// x86reference schema's own vocabulary is not reproduced in full by
// spec.md, so this lists the tags actually in public x86reference-style
// corpora; an XML document using a tag outside this set is a loader
// failure per the case-normalizing-enum invariant (spec.md section 3.3).
var groupVocabulary = buildSet(
	"gen", "arith", "binary", "bit", "branch", "break", "cond", "control",
	"conv", "datatransfer", "decimal", "deviceio", "flgctrl", "inout", "int",
	"iret", "load", "logical", "move", "prot", "segreg", "shift", "stack",
	"store", "stringop", "syscall", "syssegreg", "trans", "trap", "xchg",
	"fpu", "fpu_stack", "fpu_ctrl", "mmx", "sse1", "sse2", "ssse3", "sse41",
	"sse42", "system", "prefetch", "rep", "undoc",
)

// ParseGroup resolves a grp1/grp2/grp3 element's text content into a Group
// at the given tier, case-normalising on lookup.
func ParseGroup(s string, tier int) (Group, error) {
	if !groupVocabulary[strings.ToLower(s)] {
		return Group{}, &parseError{kind: "group", value: s}
	}
	return Group{Name: strings.ToLower(s), Tier: tier}, nil
}

func buildSet(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func invert[T comparable](m map[T]string) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		if v == "" {
			continue
		}
		out[strings.ToUpper(v)] = k
	}
	return out
}
