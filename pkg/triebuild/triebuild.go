// Package triebuild composes a bytetrie.Trie from a reference catalog,
// including the Z-addressing-method expansion spec.md section 4.3
// describes: an opcode whose final byte selects a register in its low 3
// bits is inserted once per register, not once for the base opcode alone.
package triebuild

import (
	"errors"
	"fmt"

	"github.com/x86ref/x86ref/pkg/bytetrie"
	"github.com/x86ref/x86ref/pkg/refmodel"
)

// ErrZExpansionConflict is returned when an entry's Z-addressed opcode
// already has nonzero low bits before expansion — the encoding can't
// possibly select a register that way, so the reference data is
// inconsistent.
var ErrZExpansionConflict = errors.New("triebuild: Z-addressed opcode has nonzero low bits before expansion")

// Build inserts every entry into a fresh trie, keyed by its prefix/bytes/
// secondary-byte composition, expanding any entry with a Z-addressed
// operand into the eight keys it actually matches.
func Build(entries []*refmodel.Entry) (*bytetrie.Trie, error) {
	t := bytetrie.New()
	var errs []error
	for i, e := range entries {
		key := e.Key()
		if len(key) == 0 {
			errs = append(errs, fmt.Errorf("entry %d: empty key", i))
			continue
		}

		if !e.HasZOperand() {
			t.Add(key, e)
			continue
		}

		last := key[len(key)-1]
		if last&0x07 != 0 {
			errs = append(errs, fmt.Errorf("entry %d (opcode %x): %w", i, key, ErrZExpansionConflict))
			continue
		}
		base := make([]byte, len(key))
		copy(base, key)
		t.Add(base, e)
		for reg := byte(1); reg <= 7; reg++ {
			expanded := make([]byte, len(key))
			copy(expanded, key)
			expanded[len(expanded)-1] = last | reg
			t.Add(expanded, e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}
