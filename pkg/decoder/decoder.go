// Package decoder walks an instruction stream against a built trie and
// emits structured Instructions, per spec.md section 4.4. It implements
// the Scanning -> PrefixConsumed* -> OpcodeMatched -> OperandResolved ->
// Emit state machine as a single Decode call per instruction.
package decoder

import (
	"io"

	"github.com/x86ref/x86ref/pkg/bytetrie"
	"github.com/x86ref/x86ref/pkg/refmodel"
)

// maxInstructionLength is the architectural cap on a single x86
// instruction's encoded length (spec.md section 6.4).
const maxInstructionLength = 15

// Decoder walks one byte stream at a time against an immutable trie.
// Decoders are not safe for concurrent use; a multi-threaded driver should
// own one per stream (spec.md section 5).
type Decoder struct {
	trie *bytetrie.Trie
	mode refmodel.Mode
}

// New returns a Decoder that resolves ambiguous candidates against the
// given operating mode.
func New(trie *bytetrie.Trie, mode refmodel.Mode) *Decoder {
	return &Decoder{trie: trie, mode: mode}
}

// Decode reads exactly one instruction from c, advancing it by the
// instruction's total length on success. It returns io.EOF if c has no
// bytes left.
func (d *Decoder) Decode(c *Cursor) (*Instruction, error) {
	window := c.Peek(maxInstructionLength)
	if len(window) == 0 {
		return nil, io.EOF
	}

	inst := &Instruction{}
	pos := 0

	for pos < len(window) {
		b := window[pos]
		if d.mode == refmodel.ModeE && isREXByte(b) {
			inst.HasREXPrefix, inst.RexPrefix = true, b
			pos++
			break
		}
		if !isLegacyPrefixByte(b) {
			break
		}
		inst.Prefixes = append(inst.Prefixes, b)
		pos++
	}

	candidates := d.trie.Get(window[pos:])
	if len(candidates) == 0 {
		return nil, &DecodeError{Kind: ErrUnknown, Consumed: cloneBytes(window[:pos])}
	}
	entry, err := d.selectEntry(candidates)
	if err != nil {
		return nil, &DecodeError{Kind: err, Consumed: cloneBytes(window[:pos])}
	}
	inst.Entry = entry

	off := pos + len(entry.Key())
	syn := entry.CanonicalSyntax()
	modrmConsumed := false

	if syn != nil {
		for _, op := range syn.Operands() {
			if !op.HasAddress {
				continue
			}
			switch {
			case op.Address.UsesModRM():
				if modrmConsumed {
					continue
				}
				n, err := decodeModRMForm(window, off, inst)
				if err != nil {
					return nil, &DecodeError{Kind: ErrBufferOverflow, Consumed: cloneBytes(window[:pos])}
				}
				off += n
				modrmConsumed = true
			case op.Address == refmodel.AddrJ:
				off = readImmediate(window, off, 4, inst)
			case op.Address == refmodel.AddrZ, op.Address == refmodel.AddrSC:
				// no bytes contributed
			case op.Address == refmodel.AddrI:
				if size := immediateSizeForType(op.Type, op.HasType, inst.HasREXPrefix && inst.RexPrefix&0x08 != 0); size > 0 {
					off = readImmediate(window, off, size, inst)
				}
			default:
				return nil, &DecodeError{Kind: ErrUnsupportedOperand, Consumed: cloneBytes(window[:pos])}
			}
		}
	}

	if off > maxInstructionLength {
		return nil, &DecodeError{Kind: ErrBufferOverflow, Consumed: cloneBytes(window[:pos])}
	}

	inst.TotalLength = off
	c.Commit(off)
	return inst, nil
}

// DecodeStream decodes buf end to end, returning every instruction found
// up to the first error (which is also returned, alongside whatever
// instructions were already decoded).
func (d *Decoder) DecodeStream(buf []byte) ([]*Instruction, error) {
	c := NewCursor(buf)
	var out []*Instruction
	for !c.Done() {
		inst, err := d.Decode(c)
		if err != nil {
			if err == io.EOF {
				break
			}
			return out, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// selectEntry implements spec.md section 4.4's selection policy: an
// unambiguous trie hit wins outright; otherwise restrict to entries valid
// in the current operating mode and require that to narrow to exactly
// one (ErrAmbiguous when more than one or none remain).
func (d *Decoder) selectEntry(candidates []*refmodel.Entry) (*refmodel.Entry, error) {
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	var filtered []*refmodel.Entry
	for _, e := range candidates {
		if modeAllows(e.Mode, d.mode) {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 1 {
		return filtered[0], nil
	}
	return nil, ErrAmbiguous
}

func modeAllows(entryMode, operating refmodel.Mode) bool {
	switch entryMode {
	case refmodel.ModeR:
		return operating == refmodel.ModeR || operating == refmodel.ModeP || operating == refmodel.ModeE
	case refmodel.ModeP:
		return operating == refmodel.ModeP || operating == refmodel.ModeE
	case refmodel.ModeE:
		return operating == refmodel.ModeE
	case refmodel.ModeS:
		return operating == refmodel.ModeS
	}
	return false
}

var legacyPrefixBytes = map[byte]bool{
	0xF0: true, // LOCK
	0xF2: true, // REPNE/REPNZ
	0xF3: true, // REP/REPE/REPZ
	0x2E: true, // CS override
	0x36: true, // SS override
	0x3E: true, // DS override
	0x26: true, // ES override
	0x64: true, // FS override
	0x65: true, // GS override
	0x66: true, // operand-size override
	0x67: true, // address-size override
}

func isLegacyPrefixByte(b byte) bool { return legacyPrefixBytes[b] }

func isREXByte(b byte) bool { return b >= 0x40 && b <= 0x4F }

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
