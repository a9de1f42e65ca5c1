package bytetrie

import (
	"testing"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

func entryNamed(name string) *refmodel.Entry {
	e := refmodel.NewEntry()
	syn := &refmodel.Syntax{Mnemonic: name}
	_ = syn.BindEntry(e)
	e.Syntaxes = []*refmodel.Syntax{syn}
	return e
}

func TestGetAncestorBeforeDescendant(t *testing.T) {
	tr := New()
	short := entryNamed("SHORT")
	long := entryNamed("LONG")
	tr.Add([]byte{0x0F}, short)
	tr.Add([]byte{0x0F, 0x1F}, long)

	got := tr.Get([]byte{0x0F, 0x1F, 0x00})
	if len(got) != 2 {
		t.Fatalf("Get() returned %d entries, want 2", len(got))
	}
	if got[0] != short || got[1] != long {
		t.Errorf("Get() order = [%s %s], want [SHORT LONG]",
			got[0].CanonicalSyntax().Mnemonic, got[1].CanonicalSyntax().Mnemonic)
	}
}

func TestGetInsertionOrderWithinNode(t *testing.T) {
	tr := New()
	a := entryNamed("A")
	b := entryNamed("B")
	tr.Add([]byte{0x90}, a)
	tr.Add([]byte{0x90}, b)

	got := tr.Get([]byte{0x90})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Get() = %v, want [a b] in insertion order", got)
	}
}

func TestGetStopsAtMissingChild(t *testing.T) {
	tr := New()
	tr.Add([]byte{0x0F, 0x1F}, entryNamed("NOP"))
	got := tr.Get([]byte{0x0F, 0xFF, 0x00})
	if len(got) != 0 {
		t.Errorf("Get() = %v, want empty (no match for second byte)", got)
	}
}

func TestGetNonDestructive(t *testing.T) {
	tr := New()
	tr.Add([]byte{0xC3}, entryNamed("RET"))
	stream := []byte{0xC3, 0x90}
	_ = tr.Get(stream)
	if stream[0] != 0xC3 || stream[1] != 0x90 {
		t.Errorf("Get() mutated its input stream: %v", stream)
	}
	if got := tr.Get(stream); len(got) != 1 {
		t.Errorf("second Get() call = %v, want 1 entry (repeatable peek)", got)
	}
}
