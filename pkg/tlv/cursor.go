package tlv

import (
	"errors"
	"fmt"
)

// Errors reported by Cursor. They mark the point where a generated wrapper
// would take its "goto cleanup" branch.
var (
	ErrTruncated   = errors.New("tlv: truncated")
	ErrTagMismatch = errors.New("tlv: unexpected tag")
	ErrBadLength   = errors.New("tlv: unsupported length encoding")
	ErrTooLarge    = errors.New("tlv: value larger than buffer")
)

// Cursor walks a response buffer one TLV at a time, the way the target
// runtime's tlvGet_* primitives do: single-byte tags, lengths in BER short
// form or 0x81/0x82 long form, and an index shared across calls.
type Cursor struct {
	buf   []byte
	index int
}

// NewCursor starts reading buf at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Index is the number of bytes consumed so far.
func (c *Cursor) Index() int {
	return c.index
}

// Remaining returns the unread bytes.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.index:]
}

// Next reads one TLV whose tag must equal tag and returns its value.
// maxLen bounds the value size; 0 means unbounded.
// On error the cursor does not move.
func (c *Cursor) Next(tag byte, maxLen int) ([]byte, error) {
	i := c.index
	if i >= len(c.buf) {
		return nil, fmt.Errorf("%w: expected tag 0x%02X at offset %d", ErrTruncated, tag, i)
	}
	if c.buf[i] != tag {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X at offset %d", ErrTagMismatch, c.buf[i], tag, i)
	}
	i++

	if i >= len(c.buf) {
		return nil, fmt.Errorf("%w: missing length for tag 0x%02X", ErrTruncated, tag)
	}

	var length int
	switch lb := c.buf[i]; {
	case lb <= 0x7F:
		length = int(lb)
		i++
	case lb == 0x81:
		if i+1 >= len(c.buf) {
			return nil, fmt.Errorf("%w: short 0x81 length for tag 0x%02X", ErrTruncated, tag)
		}
		length = int(c.buf[i+1])
		i += 2
	case lb == 0x82:
		if i+2 >= len(c.buf) {
			return nil, fmt.Errorf("%w: short 0x82 length for tag 0x%02X", ErrTruncated, tag)
		}
		length = int(c.buf[i+1])<<8 | int(c.buf[i+2])
		i += 3
	default:
		return nil, fmt.Errorf("%w: 0x%02X for tag 0x%02X", ErrBadLength, lb, tag)
	}

	if i+length > len(c.buf) {
		return nil, fmt.Errorf("%w: tag 0x%02X declares %d bytes, %d left", ErrTruncated, tag, length, len(c.buf)-i)
	}
	if maxLen > 0 && length > maxLen {
		return nil, fmt.Errorf("%w: tag 0x%02X holds %d bytes, buffer is %d", ErrTooLarge, tag, length, maxLen)
	}

	value := c.buf[i : i+length]
	c.index = i + length
	return value, nil
}
