package iso7816

import (
	"fmt"

	"github.com/gregLibert/apdugen/pkg/bits"
)

// Instruction Byte (INS) Logic according to ISO/IEC 7816-4.
//
// Under an interindustry class, bit 1 of INS hints that the data field is
// BER-TLV encoded (READ BINARY 0xB0 vs 0xB1). INS values whose upper nibble
// is '6' or '9' are reserved for SW1 and transport procedures (ISO/IEC 7816-3)
// and never valid.
//
// Under a proprietary class the byte belongs to the applet. The SE05x applet
// splits it in two: the low nibble selects the operation family and the
// upper bits are flags (transient object, auth object, attestation).

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// A few interindustry codes that show up next to applet commands in tables.
const (
	INS_VERIFY                InsCode = 0x20
	INS_EXTERNAL_AUTHENTICATE InsCode = 0x82
	INS_GET_CHALLENGE         InsCode = 0x84
	INS_SELECT                InsCode = 0xA4
	INS_READ_BINARY           InsCode = 0xB0
	INS_READ_BINARY_BER       InsCode = 0xB1
	INS_GET_RESPONSE          InsCode = 0xC0
	INS_GET_DATA              InsCode = 0xCA
	INS_PUT_DATA              InsCode = 0xDA
)

var isoInsNames = map[InsCode]string{
	INS_VERIFY:                "VERIFY",
	INS_EXTERNAL_AUTHENTICATE: "EXTERNAL AUTHENTICATE",
	INS_GET_CHALLENGE:         "GET CHALLENGE",
	INS_SELECT:                "SELECT",
	INS_READ_BINARY:           "READ BINARY",
	INS_READ_BINARY_BER:       "READ BINARY (BER-TLV)",
	INS_GET_RESPONSE:          "GET RESPONSE",
	INS_GET_DATA:              "GET DATA",
	INS_PUT_DATA:              "PUT DATA",
}

// SE05x operation families (low nibble of INS under CLA 0x80).
var appletInsFamilies = map[byte]string{
	0x01: "WRITE",
	0x02: "READ",
	0x03: "CRYPTO",
	0x04: "MGMT",
	0x05: "PROCESS",
	0x06: "IMPORT EXTERNAL",
}

// Instruction represents the parsed INS byte.
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction object with validation.
// It rejects '6X' and '9X' values as they are invalid according to ISO 7816-3.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// Describe names the instruction in the context of the class it is sent with.
func (i Instruction) Describe(cls Class) string {
	if cls.IsProprietary {
		raw := byte(i.Raw)
		family, ok := appletInsFamilies[raw&0x0F]
		if !ok {
			return fmt.Sprintf("INS 0x%02X (proprietary)", raw)
		}
		var flags string
		if bits.IsSet(raw, 8) {
			flags += " +TRANSIENT"
		}
		if bits.IsSet(raw, 7) {
			flags += " +AUTH_OBJECT"
		}
		if bits.IsSet(raw, 6) {
			flags += " +ATTEST"
		}
		return fmt.Sprintf("INS 0x%02X (%s%s)", raw, family, flags)
	}

	name, ok := isoInsNames[i.Raw]
	if !ok {
		name = "unlisted"
	}
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS 0x%02X (%s, %s)", byte(i.Raw), name, format)
}
