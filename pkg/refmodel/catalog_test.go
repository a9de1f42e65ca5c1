package refmodel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestEntry(t *testing.T, mnemonic string, bytes []byte) *Entry {
	t.Helper()
	e := NewEntry()
	e.Bytes = bytes
	syn := &Syntax{Mnemonic: mnemonic}
	if err := syn.BindEntry(e); err != nil {
		t.Fatalf("BindEntry: %v", err)
	}
	e.Syntaxes = []*Syntax{syn}
	return e
}

func TestCatalogValidateEmptyBytes(t *testing.T) {
	e := newTestEntry(t, "PUSH rBP", nil)
	cat := NewCatalog([]*Entry{e})
	if err := cat.Validate(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("Validate() = %v, want ErrInvariant", err)
	}
}

func TestCatalogValidateProcessorRange(t *testing.T) {
	e := newTestEntry(t, "RET", []byte{0xC3})
	e.HasProcessorStart, e.ProcessorStart = true, ProcP4
	e.HasProcessorEnd, e.ProcessorEnd = true, Proc8086
	cat := NewCatalog([]*Entry{e})
	if err := cat.Validate(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("Validate() = %v, want ErrInvariant for inverted processor range", err)
	}
}

func TestCatalogValidateZOperandLowBits(t *testing.T) {
	e := newTestEntry(t, "PUSH rBX", []byte{0x51})
	op := &Operand{HasAddress: true, Address: AddrZ}
	syn := e.Syntaxes[0]
	if err := op.BindSyntax(syn); err != nil {
		t.Fatalf("BindSyntax: %v", err)
	}
	syn.SrcOperands = []*Operand{op}

	cat := NewCatalog([]*Entry{e})
	if err := cat.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want error for 0x51 (low 3 bits = 1) with a Z operand")
	}

	e2 := newTestEntry(t, "PUSH rAX", []byte{0x50})
	op2 := &Operand{HasAddress: true, Address: AddrZ}
	syn2 := e2.Syntaxes[0]
	_ = op2.BindSyntax(syn2)
	syn2.SrcOperands = []*Operand{op2}
	cat2 := NewCatalog([]*Entry{e2})
	if err := cat2.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil for 0x50 (low 3 bits = 0)", err)
	}
}

func TestCatalogValidateBackReferenceMismatch(t *testing.T) {
	e := newTestEntry(t, "NOP", []byte{0x90})
	other := NewEntry()
	// Forcibly detach: simulate a corrupted graph where Entry doesn't
	// match (can't happen via BindEntry, but Validate must still catch
	// manual corruption for defense at the publication seam).
	e.Syntaxes[0].Entry = other
	cat := NewCatalog([]*Entry{e})
	if err := cat.Validate(); !errors.Is(err, ErrInvariant) {
		t.Fatalf("Validate() = %v, want ErrInvariant", err)
	}
}

func TestBindEntryTwiceFails(t *testing.T) {
	e1, e2 := NewEntry(), NewEntry()
	syn := &Syntax{Mnemonic: "NOP"}
	if err := syn.BindEntry(e1); err != nil {
		t.Fatalf("first BindEntry: %v", err)
	}
	if err := syn.BindEntry(e2); !errors.Is(err, ErrBackReferenceAlreadySet) {
		t.Fatalf("second BindEntry = %v, want ErrBackReferenceAlreadySet", err)
	}
}

func TestEntryKeyComposition(t *testing.T) {
	e := NewEntry()
	e.HasPrefixByte, e.PrefixByte = true, 0x66
	e.Bytes = []byte{0x0F, 0x1F}
	e.HasSecondaryByte, e.SecondaryByte = true, 0x44
	got := e.Key()
	want := []byte{0x66, 0x0F, 0x1F, 0x44}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Key() mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogGroupHistogram(t *testing.T) {
	e1 := newTestEntry(t, "PUSH", []byte{0x50})
	e1.Groups = []Group{{Name: "stack", Tier: 0}}
	e2 := newTestEntry(t, "POP", []byte{0x58})
	e2.Groups = []Group{{Name: "stack", Tier: 0}, {Name: "gen", Tier: 1}}

	cat := NewCatalog([]*Entry{e1, e2})
	hist := cat.GroupHistogram()
	want := map[string]int{"stack": 2, "gen": 1}
	if diff := cmp.Diff(want, hist); diff != "" {
		t.Errorf("GroupHistogram() mismatch (-want +got):\n%s", diff)
	}

	byGroup := cat.EntriesByGroup("stack")
	if len(byGroup) != 2 || byGroup[0] != e1 || byGroup[1] != e2 {
		t.Errorf("EntriesByGroup(stack) = %v, want [e1 e2]", byGroup)
	}
}
