package refxml

import (
	"os"
	"testing"

	"github.com/x86ref/x86ref/pkg/refmodel"
)

func loadFixture(t *testing.T) *refmodel.Catalog {
	t.Helper()
	f, err := os.Open("testdata/mini.xml")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()
	cat, err := Load(f)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cat
}

func TestLoadEntryCount(t *testing.T) {
	cat := loadFixture(t)
	if len(cat.Entries) != 4 {
		t.Fatalf("len(Entries) = %d, want 4", len(cat.Entries))
	}
}

func TestLoadOneBytePush(t *testing.T) {
	cat := loadFixture(t)
	var push *refmodel.Entry
	for _, e := range cat.Entries {
		if len(e.Bytes) == 1 && e.Bytes[0] == 0x50 {
			push = e
		}
	}
	if push == nil {
		t.Fatalf("no entry for opcode 0x50")
	}
	if push.CanonicalSyntax().Mnemonic != "PUSH" {
		t.Errorf("mnemonic = %q, want PUSH", push.CanonicalSyntax().Mnemonic)
	}
	if len(push.Groups) != 2 || push.Groups[0].Name != "gen" || push.Groups[1].Name != "stack" {
		t.Errorf("Groups = %+v, want [gen stack]", push.Groups)
	}
	if !push.IsModRMRegister {
		t.Errorf("IsModRMRegister = false, want true (r attribute present)")
	}
	src := push.CanonicalSyntax().SrcOperands
	if len(src) != 1 || !src[0].NoDisplayed || !src[0].HasRegisterNumber || src[0].RegisterNumber.String() != "0" {
		t.Errorf("src operand = %+v", src)
	}
}

func TestLoadTwoBytePrependsOf(t *testing.T) {
	cat := loadFixture(t)
	var nop *refmodel.Entry
	for _, e := range cat.Entries {
		if len(e.Bytes) == 2 && e.Bytes[0] == 0x0F && e.Bytes[1] == 0x1F {
			nop = e
		}
	}
	if nop == nil {
		t.Fatalf("no entry for opcode 0F 1F")
	}
	if nop.OpcodeExtension != 0 {
		t.Errorf("OpcodeExtension = %d, want 0", nop.OpcodeExtension)
	}
}

func TestLoadCallHasJOperand(t *testing.T) {
	cat := loadFixture(t)
	var call *refmodel.Entry
	for _, e := range cat.Entries {
		if len(e.Bytes) == 1 && e.Bytes[0] == 0xe8 {
			call = e
		}
	}
	if call == nil {
		t.Fatalf("no entry for opcode 0xe8")
	}
	dst := call.CanonicalSyntax().DstOperands
	if len(dst) != 1 || !dst[0].HasAddress || dst[0].Address != refmodel.AddrJ {
		t.Errorf("dst operand = %+v, want single J-addressed operand", dst)
	}
}

func TestLoadValidates(t *testing.T) {
	cat := loadFixture(t)
	if err := cat.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
