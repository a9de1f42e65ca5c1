package refmodel

import "strings"

// Address is an Intel SDM Volume 2 addressing-method code: how an operand's
// location is determined from the instruction's encoding (spec.md section
// 6.3). The codes are preserved exactly as the reference names them.
type Address uint8

const (
	AddrA Address = iota
	AddrBA
	AddrBB
	AddrBD
	AddrC
	AddrD
	AddrE
	AddrES
	AddrEST
	AddrF
	AddrG
	AddrH
	AddrI
	AddrJ
	AddrM
	AddrN
	AddrO
	AddrP
	AddrQ
	AddrR
	AddrS
	AddrSC
	AddrT
	AddrU
	AddrV
	AddrW
	AddrX
	AddrY
	AddrZ
	AddrS2
	AddrS30
	AddrS33
)

var addressNames = map[Address]string{
	AddrA: "A", AddrBA: "BA", AddrBB: "BB", AddrBD: "BD", AddrC: "C",
	AddrD: "D", AddrE: "E", AddrES: "ES", AddrEST: "EST", AddrF: "F",
	AddrG: "G", AddrH: "H", AddrI: "I", AddrJ: "J", AddrM: "M", AddrN: "N",
	AddrO: "O", AddrP: "P", AddrQ: "Q", AddrR: "R", AddrS: "S", AddrSC: "SC",
	AddrT: "T", AddrU: "U", AddrV: "V", AddrW: "W", AddrX: "X", AddrY: "Y",
	AddrZ: "Z", AddrS2: "S2", AddrS30: "S30", AddrS33: "S33",
}

var addressByName = invert(addressNames)

func (a Address) String() string { return addressNames[a] }

// ParseAddress resolves an addressing-method code, case-normalising on
// lookup (spec.md section 3.3).
func ParseAddress(s string) (Address, error) {
	a, ok := addressByName[strings.ToUpper(s)]
	if !ok {
		return 0, &parseError{kind: "address", value: s}
	}
	return a, nil
}

// UsesModRM reports whether this addressing method consumes a ModR/M byte
// (spec.md section 4.4's length table: V, G, E, M).
func (a Address) UsesModRM() bool {
	switch a {
	case AddrV, AddrG, AddrE, AddrM:
		return true
	}
	return false
}

// IsRelativeDisplacement reports whether this addressing method is the
// J (relative-offset) form, which adds a fixed 4-byte displacement in the
// minimal decoder (spec.md section 4.4).
func (a Address) IsRelativeDisplacement() bool {
	return a == AddrJ
}

// IsRegisterSelecting reports whether this addressing method is the Z form,
// where the low three bits of the final opcode byte select a register
// (spec.md section 4.3's Z-expansion).
func (a Address) IsRegisterSelecting() bool {
	return a == AddrZ
}
