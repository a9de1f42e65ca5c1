package xhex

import (
	"errors"
	"testing"
)

func TestParseBytesForms(t *testing.T) {
	cases := []struct {
		in   string
		want []byte
	}{
		{"", nil},
		{"55", []byte{0x55}},
		{"48 89 e5", []byte{0x48, 0x89, 0xe5}},
		{"0x48 0x89 0xE5", []byte{0x48, 0x89, 0xe5}},
		{"e8_4e_00_00_00", []byte{0xe8, 0x4e, 0x00, 0x00, 0x00}},
	}
	for _, c := range cases {
		got, err := ParseBytes(c.in)
		if err != nil {
			t.Errorf("ParseBytes(%q) error: %v", c.in, err)
			continue
		}
		if len(got) != len(c.want) {
			t.Errorf("ParseBytes(%q) = %x, want %x", c.in, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("ParseBytes(%q) = %x, want %x", c.in, got, c.want)
				break
			}
		}
	}
}

func TestParseBytesOddLength(t *testing.T) {
	_, err := ParseBytes("abc")
	if !errors.Is(err, ErrOddLength) {
		t.Fatalf("ParseBytes(abc) = %v, want ErrOddLength", err)
	}
}

func TestFormatBytesRoundTrip(t *testing.T) {
	b := []byte{0x0f, 0x1f, 0x44, 0x00, 0x00}
	want := "0F 1F 44 00 00"
	if got := FormatBytes(b); got != want {
		t.Errorf("FormatBytes(%x) = %q, want %q", b, got, want)
	}
	got, err := ParseBytes(FormatBytes(b))
	if err != nil {
		t.Fatalf("ParseBytes(FormatBytes(...)) error: %v", err)
	}
	if len(got) != len(b) {
		t.Fatalf("round trip length mismatch: %x vs %x", got, b)
	}
}
