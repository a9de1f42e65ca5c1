package refmodel

import "strings"

// Type is an operand size/shape code: what the addressing method resolves
// to (byte, word, doubleword, packed SSE form, FPU stack slot, ...). Codes
// are preserved exactly as named in spec.md section 3.2.
type Type uint8

const (
	TypeA Type = iota
	TypeB
	TypeBCD
	TypeBS
	TypeBSQ
	TypeBSS
	TypeC
	TypeD
	TypeDI
	TypeDQ
	TypeDQP
	TypeDR
	TypeDS
	TypeE
	TypeER
	TypeP
	TypePI
	TypePD
	TypePS
	TypePSQ
	TypePT
	TypePTP
	TypeQ
	TypeQI
	TypeQP
	TypeS
	TypeSD
	TypeSI
	TypeSR
	TypeSS
	TypeST
	TypeSTX
	TypeT
	TypeV
	TypeVDS
	TypeVQ
	TypeVQP
	TypeVS
	TypeW
	TypeWI
	TypeVA
	TypeDQA
	TypeWA
	TypeWO
	TypeWS
	TypeDA
	TypeDO
	TypeQA
	TypeQS
)

var typeNames = map[Type]string{
	TypeA: "A", TypeB: "B", TypeBCD: "BCD", TypeBS: "BS", TypeBSQ: "BSQ",
	TypeBSS: "BSS", TypeC: "C", TypeD: "D", TypeDI: "DI", TypeDQ: "DQ",
	TypeDQP: "DQP", TypeDR: "DR", TypeDS: "DS", TypeE: "E", TypeER: "ER",
	TypeP: "P", TypePI: "PI", TypePD: "PD", TypePS: "PS", TypePSQ: "PSQ",
	TypePT: "PT", TypePTP: "PTP", TypeQ: "Q", TypeQI: "QI", TypeQP: "QP",
	TypeS: "S", TypeSD: "SD", TypeSI: "SI", TypeSR: "SR", TypeSS: "SS",
	TypeST: "ST", TypeSTX: "STX", TypeT: "T", TypeV: "V", TypeVDS: "VDS",
	TypeVQ: "VQ", TypeVQP: "VQP", TypeVS: "VS", TypeW: "W", TypeWI: "WI",
	TypeVA: "VA", TypeDQA: "DQA", TypeWA: "WA", TypeWO: "WO", TypeWS: "WS",
	TypeDA: "DA", TypeDO: "DO", TypeQA: "QA", TypeQS: "QS",
}

var typeByName = invert(typeNames)

func (t Type) String() string { return typeNames[t] }

// ParseType resolves an operand-type code, case-normalising on lookup.
func ParseType(s string) (Type, error) {
	t, ok := typeByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "operand type", value: s}
	}
	return t, nil
}
