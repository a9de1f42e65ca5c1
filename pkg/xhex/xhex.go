// Package xhex parses and formats the hex byte sequences used throughout
// the reference model and decoder: opcode keys, disassembly input, test
// fixtures.
package xhex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOddLength is returned when a byte sequence's hex digits don't pair up.
var ErrOddLength = errors.New("xhex: odd number of hex digits")

// ParseBytes parses a whitespace- or underscore-separated sequence of hex
// byte tokens, each written as either "HH" or "0xHH" (spec.md section
// 6.1). An empty string yields an empty, non-nil slice.
func ParseBytes(s string) ([]byte, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '_'
	})
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := parseByteToken(f)
		if err != nil {
			return nil, fmt.Errorf("xhex: token %q: %w", f, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

func parseByteToken(tok string) ([]byte, error) {
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	if len(tok)%2 != 0 {
		return nil, ErrOddLength
	}
	out := make([]byte, 0, len(tok)/2)
	for i := 0; i < len(tok); i += 2 {
		v, err := strconv.ParseUint(tok[i:i+2], 16, 8)
		if err != nil {
			return nil, err
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// FormatBytes renders b in the canonical "HH HH ..." form.
func FormatBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}
