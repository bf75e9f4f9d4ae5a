package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Value display formats.
const (
	FormatHex   = ""
	FormatASCII = "ascii"
	FormatInt   = "int"
)

// FormatValue renders a decoded TLV value for humans.
// "int" adds the big-endian decimal value, "ascii" adds a printable rendering.
func FormatValue(data []byte, format string) string {
	switch format {
	case FormatASCII:
		return fmt.Sprintf("%X (%q)", data, MakeSafeASCII(data))
	case FormatInt:
		var integer uint64
		for _, b := range data {
			integer = (integer << 8) | uint64(b)
		}
		return fmt.Sprintf("%X (Dec: %d)", data, integer)
	default:
		return strings.ToUpper(hex.EncodeToString(data))
	}
}

// MakeSafeASCII replaces every non-printable byte with a dot.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
