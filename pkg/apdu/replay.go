package apdu

import (
	"errors"
	"fmt"

	"github.com/gregLibert/apdugen/pkg/bits"
	"github.com/gregLibert/apdugen/pkg/iso7816"
	"github.com/gregLibert/apdugen/pkg/tlv"
)

// Replay errors. Any of them makes the generated wrapper return not-ok.
var (
	ErrUnresolvedTag = errors.New("tag does not resolve to a byte")
	ErrScalarWidth   = errors.New("scalar length does not match its type")
	ErrNoTrailer     = errors.New("response does not end with a two byte status")
)

// Value is one decoded response parameter.
type Value struct {
	Param Param
	Raw   []byte
}

// Uint is the big-endian value of a scalar.
func (v Value) Uint() uint32 {
	return bits.BigEndian(v.Raw)
}

func (v Value) String() string {
	switch {
	case v.Param.Type.IsBuffer():
		return tlv.FormatValue(v.Raw, tlv.FormatASCII)
	case v.Param.Type.Descriptor().Width > 0:
		return tlv.FormatValue(v.Raw, tlv.FormatInt)
	default:
		return tlv.FormatValue(v.Raw, tlv.FormatHex)
	}
}

// ReplayResult is what a generated wrapper would hand back for a response.
type ReplayResult struct {
	// Values holds the parameters decoded before any failure.
	Values []Value
	// Status is the wrapper's return value.
	Status iso7816.StatusWord
	// Err explains a not-ok status. It is nil when Status came from the trailer.
	Err error
}

// Replay runs rsp through the decode sequence generated for cmd.
//
// Response parameters are read in index order, one TLV each, and the first
// failure yields SW_NOT_OK. When all of them decode, the two bytes left over
// are the status; any other remainder also yields SW_NOT_OK.
func Replay(cmd Command, rsp []byte, tags Tags) ReplayResult {
	res := ReplayResult{Status: iso7816.SW_NOT_OK}
	cur := tlv.NewCursor(rsp)

	for _, p := range cmd.Response {
		tag, ok := tags.Resolve(p.Tag)
		if !ok {
			res.Err = fmt.Errorf("%s: %w: %s", p.Name, ErrUnresolvedTag, p.Tag)
			return res
		}

		raw, err := cur.Next(tag, 0)
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", p.Name, err)
			return res
		}
		if w := p.Type.Descriptor().Width; w > 0 && len(raw) != w {
			res.Err = fmt.Errorf("%s: %w: got %d bytes, %s is %d", p.Name, ErrScalarWidth, len(raw), p.Type, w)
			return res
		}

		res.Values = append(res.Values, Value{Param: p, Raw: append([]byte(nil), raw...)})
	}

	rest := cur.Remaining()
	if len(rest) != 2 {
		res.Err = fmt.Errorf("%w: %d bytes left at offset %d", ErrNoTrailer, len(rest), cur.Index())
		return res
	}
	res.Status = iso7816.NewStatusWord(rest[0], rest[1])
	return res
}
