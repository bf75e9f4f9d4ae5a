package apdu

import (
	"strconv"
	"strings"
)

// Tags maps symbolic tag names used in tables, such as kSE05x_TAG_1, to the
// byte they stand for.
type Tags map[string]byte

// Resolve returns the byte value of a table tag. Symbolic names are looked up
// in t; anything else must be a one-byte hex literal, with or without 0x.
func (t Tags) Resolve(tag string) (byte, bool) {
	tag = strings.TrimSpace(tag)
	if v, ok := t[tag]; ok {
		return v, true
	}

	lit := strings.TrimPrefix(strings.TrimPrefix(tag, "0x"), "0X")
	if lit == "" || len(lit) > 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(lit, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
