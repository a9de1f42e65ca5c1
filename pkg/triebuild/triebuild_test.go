package triebuild

import (
	"errors"
	"testing"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

func zEntry(t *testing.T, opcode byte) *refmodel.Entry {
	t.Helper()
	e := refmodel.NewEntry()
	e.Bytes = []byte{opcode}
	syn := &refmodel.Syntax{Mnemonic: "PUSH"}
	if err := syn.BindEntry(e); err != nil {
		t.Fatalf("BindEntry: %v", err)
	}
	op := &refmodel.Operand{HasAddress: true, Address: refmodel.AddrZ}
	if err := op.BindSyntax(syn); err != nil {
		t.Fatalf("BindSyntax: %v", err)
	}
	syn.SrcOperands = []*refmodel.Operand{op}
	e.Syntaxes = []*refmodel.Syntax{syn}
	return e
}

func TestBuildExpandsZOperand(t *testing.T) {
	e := zEntry(t, 0x50)
	trie, err := Build([]*refmodel.Entry{e})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for reg := byte(0); reg <= 7; reg++ {
		got := trie.Get([]byte{0x50 | reg})
		if len(got) != 1 || got[0] != e {
			t.Errorf("Get(%#x) = %v, want [e]", 0x50|reg, got)
		}
	}
}

func TestBuildRejectsNonzeroLowBits(t *testing.T) {
	e := zEntry(t, 0x51)
	_, err := Build([]*refmodel.Entry{e})
	if !errors.Is(err, ErrZExpansionConflict) {
		t.Fatalf("Build() = %v, want ErrZExpansionConflict", err)
	}
}

func TestBuildNonZEntryInsertedOnce(t *testing.T) {
	e := refmodel.NewEntry()
	e.Bytes = []byte{0xC3}
	syn := &refmodel.Syntax{Mnemonic: "RET"}
	if err := syn.BindEntry(e); err != nil {
		t.Fatalf("BindEntry: %v", err)
	}
	e.Syntaxes = []*refmodel.Syntax{syn}

	trie, err := Build([]*refmodel.Entry{e})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := trie.Get([]byte{0xC3}); len(got) != 1 || got[0] != e {
		t.Errorf("Get(0xC3) = %v, want [e]", got)
	}
	if got := trie.Get([]byte{0xC4}); len(got) != 0 {
		t.Errorf("Get(0xC4) = %v, want empty", got)
	}
}
