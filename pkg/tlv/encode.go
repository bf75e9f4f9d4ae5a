// Package tlv handles the Tag-Length-Value fields carried inside SE05x
// command and response data: BER-TLV encoding of request previews, the
// sequential single-tag reader that mirrors the generated tlvGet_* chain,
// and value formatting for reports.
package tlv

import (
	"fmt"

	"github.com/moov-io/bertlv"
)

// Field is one request TLV with a single-byte tag.
type Field struct {
	Tag   byte
	Value []byte
}

// Encode serializes the fields in order as BER-TLV.
func Encode(fields []Field) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	packets := make([]bertlv.TLV, 0, len(fields))
	for _, f := range fields {
		packets = append(packets, bertlv.TLV{
			Tag:   fmt.Sprintf("%02X", f.Tag),
			Value: f.Value,
		})
	}

	data, err := bertlv.Encode(packets)
	if err != nil {
		return nil, fmt.Errorf("bertlv encode failed: %w", err)
	}
	return data, nil
}
