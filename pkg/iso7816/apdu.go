package iso7816

import (
	"fmt"
)

// A command APDU is a four byte header (CLA INS P1 P2) optionally followed by
// Lc and the data field, then Le. Which of Lc and Le are present gives the
// ISO 7816-3 case: 1 (header only), 2 (Le), 3 (Lc and data), 4 (all).
//
// The SE05x host library names its transmit calls after cases 3 and 4, and
// large object writes push requests past 255 bytes, which switches both
// length fields to the extended form. The response side is not modelled
// here: wrappers read the data field as TLVs and return the trailing SW1 SW2
// (see StatusWord).

// Length limits of the short and extended forms.
const (
	// MaxShortLc is the largest data field a one byte Lc can announce.
	MaxShortLc = 255
	// MaxShortLe is the largest Ne a one byte Le can ask for; it is sent as 00.
	MaxShortLe = 256
	// MaxExtendedLc is the largest data field a two byte Lc can announce.
	MaxExtendedLc = 65535
	// MaxExtendedLe is the largest Ne a two byte Le can ask for; it is sent as 0000.
	MaxExtendedLe = 65536
)

// CommandAPDU is a request as it would be put on the wire.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	// Ne is the expected response length, 0 when no Le is sent.
	Ne int
}

// NewCommandAPDU assembles a command from its parts.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// IsExtended reports whether Lc or Le need the extended form.
func (c *CommandAPDU) IsExtended() bool {
	return len(c.Data) > MaxShortLc || c.Ne > MaxShortLe
}

// Header returns the four header bytes without encoding the body.
func (c *CommandAPDU) Header() ([4]byte, error) {
	class, err := c.Class.Encode()
	if err != nil {
		return [4]byte{}, fmt.Errorf("failed to encode Class: %w", err)
	}
	return [4]byte{class, byte(c.Instruction.Raw), c.P1, c.P2}, nil
}

// Bytes encodes the command, picking the short or extended form from the
// sizes of Data and Ne.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	hdr, err := c.Header()
	if err != nil {
		return nil, err
	}
	if len(c.Data) > MaxExtendedLc {
		return nil, fmt.Errorf("data field of %d bytes exceeds %d", len(c.Data), MaxExtendedLc)
	}
	if c.Ne < 0 || c.Ne > MaxExtendedLe {
		return nil, fmt.Errorf("expected length %d out of range", c.Ne)
	}

	out := append(make([]byte, 0, 4+3+len(c.Data)+3), hdr[:]...)
	extended := c.IsExtended()

	if nc := len(c.Data); nc > 0 {
		out = appendLc(out, nc, extended)
		out = append(out, c.Data...)
	}
	if c.Ne > 0 {
		// A lone extended Le carries the 00 marker an extended Lc would have.
		if extended && len(c.Data) == 0 {
			out = append(out, 0x00)
		}
		out = appendLe(out, c.Ne, extended)
	}
	return out, nil
}

func appendLc(out []byte, nc int, extended bool) []byte {
	if !extended {
		return append(out, byte(nc))
	}
	return append(out, 0x00, byte(nc>>8), byte(nc))
}

// appendLe writes Ne, folding the maximum of each form to zero.
func appendLe(out []byte, ne int, extended bool) []byte {
	if !extended {
		return append(out, byte(ne%MaxShortLe))
	}
	return append(out, byte((ne%MaxExtendedLe)>>8), byte(ne%MaxExtendedLe))
}

// String returns a one-line summary of the command.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Describe(c.Class), c.P1, c.P2, len(c.Data), c.Ne)
}
