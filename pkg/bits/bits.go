// Package bits holds the small bit and byte helpers shared by the ISO 7816
// header model and the SE05x response replay.
package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
// Out of range positions yield 0.
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// Set returns b with bit n raised.
func Set(b byte, n uint) byte {
	return b | Bit(n)
}

// Word combines two bytes big-endian: (hi << 8) | lo.
// This is how a status trailer is folded into a single value.
func Word(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// BigEndian folds up to four bytes into an unsigned value, most significant first.
// Longer inputs keep only the trailing four bytes.
func BigEndian(data []byte) uint32 {
	if len(data) > 4 {
		data = data[len(data)-4:]
	}
	var v uint32
	for _, b := range data {
		v = v<<8 | uint32(b)
	}
	return v
}
