package refmodel

import "strings"

// RegisterNumber is one of the enumerated register indices an Operand may
// carry: 0-15 for general register files, plus a handful of named MSR
// indices that are not sequential with the rest (spec.md section 3.1).
type RegisterNumber struct {
	raw string
}

func (r RegisterNumber) String() string { return r.raw }

// IsZero reports whether no register number was set on the operand.
func (r RegisterNumber) IsZero() bool { return r.raw == "" }

// IsMSR reports whether this register number names an MSR index rather
// than a position in a regular register file.
func (r RegisterNumber) IsMSR() bool {
	switch r.raw {
	case "C0000081", "C0000082", "C0000084", "C0000102", "C0000103":
		return true
	}
	return false
}

var registerNumberVocabulary = buildSet(
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15",
	"8B", "174", "175", "176",
	"C0000081", "C0000082", "C0000084", "C0000102", "C0000103",
)

// ParseRegisterNumber resolves a registerNumber attribute value.
func ParseRegisterNumber(s string) (RegisterNumber, error) {
	norm := strings.ToUpper(s)
	if !registerNumberVocabulary[norm] {
		return RegisterNumber{}, &parseError{kind: "register number", value: s}
	}
	return RegisterNumber{raw: norm}, nil
}
