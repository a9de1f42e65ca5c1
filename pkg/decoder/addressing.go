package decoder

import (
	"errors"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

var errInsufficientBytes = errors.New("decoder: not enough bytes in window")

// decodeModRMForm reads the ModR/M byte at window[off] and, per standard
// x86 addressing rules, whatever SIB byte and displacement it implies. It
// returns the total number of bytes the form occupies (ModR/M plus any
// SIB and displacement) and records the raw ModR/M/SIB bytes on inst.
//
// The reference model's Entry/Operand data never names a SIB field
// (spec.md section 9 notes the source doesn't model it), but length
// computation still depends on what the concrete ModR/M byte says, so
// this reads it directly from the instruction bytes rather than from
// catalog metadata.
func decodeModRMForm(window []byte, off int, inst *Instruction) (int, error) {
	if off >= len(window) {
		return 0, errInsufficientBytes
	}
	modrm := window[off]
	inst.HasModRM, inst.ModRM = true, modrm

	mod := modrm >> 6
	rm := modrm & 0x7
	extra := 1
	if mod == 3 {
		return extra, nil
	}

	pos := off + 1
	var dispSize int
	switch mod {
	case 1:
		dispSize = 1
	case 2:
		dispSize = 4
	}

	if rm == 4 {
		if pos >= len(window) {
			return 0, errInsufficientBytes
		}
		sib := window[pos]
		inst.HasSIB, inst.SIB = true, sib
		extra++
		base := sib & 0x7
		if mod == 0 && base == 5 {
			dispSize = 4
		}
	} else if mod == 0 && rm == 5 {
		dispSize = 4 // RIP-relative disp32
	}

	extra += dispSize
	return extra, nil
}

// readImmediate reads size little-endian bytes at window[off:], sign-
// extending into inst.ImmediateValue when the window holds enough bytes,
// and returns the offset past them regardless (the caller checks the
// overall length against the 15-byte cap).
func readImmediate(window []byte, off, size int, inst *Instruction) int {
	if off+size <= len(window) {
		inst.HasImmediate = true
		inst.ImmediateLength = size
		inst.ImmediateValue = readSignedLE(window[off : off+size])
	}
	return off + size
}

func readSignedLE(b []byte) int64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	bits := uint(len(b) * 8)
	if bits < 64 && u&(1<<(bits-1)) != 0 {
		u |= ^uint64(0) << bits
	}
	return int64(u)
}

// immediateSizeForType resolves the byte width of an I-addressed operand
// from its reference Type, the one case spec.md section 4.4's design
// notes call out as required even though the minimal walker ignores it.
// Packed/FPU-shaped types carry no scalar immediate and return 0.
func immediateSizeForType(t refmodel.Type, hasType bool, rexW bool) int {
	if !hasType {
		return 0
	}
	switch t {
	case refmodel.TypeB:
		return 1
	case refmodel.TypeW:
		return 2
	case refmodel.TypeD, refmodel.TypeDI, refmodel.TypeDS, refmodel.TypeSI:
		return 4
	case refmodel.TypeQ, refmodel.TypeQI:
		return 8
	case refmodel.TypeV, refmodel.TypeVS, refmodel.TypeVDS:
		if rexW {
			return 8
		}
		return 4
	default:
		return 0
	}
}
