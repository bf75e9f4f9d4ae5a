package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseHex decodes a hex string, ignoring spaces, colons and an optional 0x prefix.
// It accepts the forms captured APDU traces are usually pasted in: "41 02 AA BB 90 00",
// "41:02:AA:BB", "0x4102AABB9000".
func ParseHex(parts ...string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "\t", "").Replace(strings.Join(parts, ""))
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")

	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input %q: %w", clean, err)
	}
	return data, nil
}

// Hex constructs a byte slice from a series of hex strings.
// It panics on malformed input and is meant for fixtures and tests.
func Hex(parts ...string) []byte {
	data, err := ParseHex(parts...)
	if err != nil {
		panic(err.Error())
	}
	return data
}
