package apdu

import (
	"fmt"
	"strings"
)

// ParamType is the closed set of parameter kinds a table may declare.
type ParamType int

const (
	TypeU8 ParamType = iota + 1
	TypeU16
	TypeU32
	TypeU8Buf
	TypeSession
	TypePolicy
)

// Descriptor is the calling convention of a parameter kind in generated code.
type Descriptor struct {
	// StorageType is the C type of a scalar parameter.
	StorageType string
	// IsBuffer parameters travel as a byte pointer plus a paired length.
	IsBuffer bool
	// Codec is the suffix of the TLVSET_ / tlvGet_ primitives.
	Codec string
	// Width is the encoded size of a scalar, 0 for buffers and objects.
	Width int
}

var descriptors = map[ParamType]Descriptor{
	TypeU8:      {StorageType: "uint8_t", Codec: "U8", Width: 1},
	TypeU16:     {StorageType: "uint16_t", Codec: "U16", Width: 2},
	TypeU32:     {StorageType: "uint32_t", Codec: "U32", Width: 4},
	TypeU8Buf:   {StorageType: "u8buf", IsBuffer: true, Codec: "u8buf"},
	TypeSession: {StorageType: "pSe05xSession_t", Codec: "Se05xSession"},
	TypePolicy:  {StorageType: "pSe05xPolicy_t", Codec: "Se05xPolicy"},
}

// typeTokens maps the spellings accepted in the ParamType column.
// Both "U8" and "u8" are in use in existing tables.
var typeTokens = map[string]ParamType{
	"U8":           TypeU8,
	"u8":           TypeU8,
	"U16":          TypeU16,
	"U32":          TypeU32,
	"u8buf":        TypeU8Buf,
	"Se05xSession": TypeSession,
	"Se05xPolicy":  TypePolicy,
}

// Descriptor returns the calling convention of t.
func (t ParamType) Descriptor() Descriptor {
	return descriptors[t]
}

// IsBuffer reports whether t is passed as pointer plus length.
func (t ParamType) IsBuffer() bool {
	return descriptors[t].IsBuffer
}

func (t ParamType) String() string {
	if d, ok := descriptors[t]; ok {
		return d.Codec
	}
	return fmt.Sprintf("ParamType(%d)", int(t))
}

// LookupType resolves a ParamType column token. Tokens are case-sensitive.
func LookupType(token string) (ParamType, error) {
	t, ok := typeTokens[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedType, token)
	}
	return t, nil
}

// ParseParamSpec splits a "name:type" spec on its first colon and resolves
// the type. Surrounding whitespace is ignored on both halves.
func ParseParamSpec(spec string) (string, ParamType, error) {
	name, token, found := strings.Cut(spec, ":")
	if !found {
		return "", 0, fmt.Errorf("%w: %q must be 'Name:Type'", ErrMalformedParam, spec)
	}

	t, err := LookupType(strings.TrimSpace(token))
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(name), t, nil
}
