package apdu

import (
	"testing"

	"github.com/moov-io/bertlv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregLibert/apdugen/pkg/iso7816"
	"github.com/gregLibert/apdugen/pkg/tlv"
)

func encodeResponse(t *testing.T, trailer []byte, packets ...bertlv.TLV) []byte {
	t.Helper()
	data, err := bertlv.Encode(packets)
	require.NoError(t, err)
	return append(data, trailer...)
}

func readObjectCommand() Command {
	return Command{
		Name: "ReadObject",
		Response: []Param{
			{Index: 0, Tag: "kSE05x_TAG_1", Name: "data", Type: TypeU8Buf},
			{Index: 1, Tag: "42", Name: "size", Type: TypeU16},
		},
	}
}

var replayTags = Tags{"kSE05x_TAG_1": 0x41}

func TestReplay(t *testing.T) {
	rsp := encodeResponse(t, []byte{0x90, 0x00},
		bertlv.TLV{Tag: "41", Value: []byte("hi!")},
		bertlv.TLV{Tag: "42", Value: []byte{0x01, 0x00}},
	)

	res := Replay(readObjectCommand(), rsp, replayTags)
	require.NoError(t, res.Err)
	assert.Equal(t, iso7816.SW_NO_ERROR, res.Status)
	require.Len(t, res.Values, 2)
	assert.Equal(t, []byte("hi!"), res.Values[0].Raw)
	assert.Equal(t, `686921 ("hi!")`, res.Values[0].String())
	assert.Equal(t, uint32(256), res.Values[1].Uint())
	assert.Equal(t, "0100 (Dec: 256)", res.Values[1].String())
}

func TestReplay_LongLength(t *testing.T) {
	big := make([]byte, 300)
	big[299] = 0xAA
	rsp := encodeResponse(t, []byte{0x6A, 0x80},
		bertlv.TLV{Tag: "41", Value: big},
		bertlv.TLV{Tag: "42", Value: []byte{0x00, 0x01}},
	)
	require.Equal(t, tlv.Hex("41 82 012C"), rsp[:4])

	res := Replay(readObjectCommand(), rsp, replayTags)
	require.NoError(t, res.Err)
	assert.Equal(t, iso7816.StatusWord(0x6A80), res.Status)
	assert.Len(t, res.Values[0].Raw, 300)
}

func TestReplay_TrailerLaw(t *testing.T) {
	body := encodeResponse(t, nil,
		bertlv.TLV{Tag: "41", Value: []byte{0x01}},
		bertlv.TLV{Tag: "42", Value: []byte{0x00, 0x02}},
	)

	tests := []struct {
		name    string
		trailer []byte
		want    iso7816.StatusWord
	}{
		{"exactly two bytes", []byte{0x90, 0x00}, iso7816.SW_NO_ERROR},
		{"error status", []byte{0x69, 0x85}, iso7816.StatusWord(0x6985)},
		{"no trailer", nil, iso7816.SW_NOT_OK},
		{"one byte", []byte{0x90}, iso7816.SW_NOT_OK},
		{"three bytes", []byte{0x01, 0x90, 0x00}, iso7816.SW_NOT_OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsp := append(append([]byte(nil), body...), tt.trailer...)
			res := Replay(readObjectCommand(), rsp, replayTags)
			assert.Equal(t, tt.want, res.Status)
			if tt.want == iso7816.SW_NOT_OK {
				assert.ErrorIs(t, res.Err, ErrNoTrailer)
				assert.Len(t, res.Values, 2)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestReplay_DecodeFailures(t *testing.T) {
	tests := []struct {
		name       string
		rsp        []byte
		tags       Tags
		wantErr    error
		wantValues int
	}{
		{
			name:    "tag mismatch",
			rsp:     tlv.Hex("43 01 00", "42 02 0001", "9000"),
			tags:    replayTags,
			wantErr: tlv.ErrTagMismatch,
		},
		{
			name:       "second tag missing",
			rsp:        tlv.Hex("41 01 00", "9000"),
			tags:       replayTags,
			wantErr:    tlv.ErrTagMismatch,
			wantValues: 1,
		},
		{
			name:    "truncated value",
			rsp:     tlv.Hex("41 05 0102"),
			tags:    replayTags,
			wantErr: tlv.ErrTruncated,
		},
		{
			name:       "scalar width",
			rsp:        tlv.Hex("41 00", "42 01 01", "9000"),
			tags:       replayTags,
			wantErr:    ErrScalarWidth,
			wantValues: 1,
		},
		{
			name:    "unresolved tag",
			rsp:     tlv.Hex("41 00", "42 02 0001", "9000"),
			tags:    nil,
			wantErr: ErrUnresolvedTag,
		},
		{
			name:    "empty response",
			rsp:     nil,
			tags:    replayTags,
			wantErr: tlv.ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Replay(readObjectCommand(), tt.rsp, tt.tags)
			assert.Equal(t, iso7816.SW_NOT_OK, res.Status)
			assert.ErrorIs(t, res.Err, tt.wantErr)
			assert.Len(t, res.Values, tt.wantValues)
		})
	}
}

func TestReplay_NoResponseParams(t *testing.T) {
	cmd := Command{Name: "DeleteAll"}

	res := Replay(cmd, tlv.Hex("9000"), nil)
	assert.NoError(t, res.Err)
	assert.Equal(t, iso7816.SW_NO_ERROR, res.Status)

	res = Replay(cmd, nil, nil)
	assert.ErrorIs(t, res.Err, ErrNoTrailer)
	assert.Equal(t, iso7816.SW_NOT_OK, res.Status)
}
