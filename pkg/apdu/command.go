// Package apdu turns rows of an APDU command table into command definitions:
// the header bytes of each command and its ordered request and response
// parameters. It also describes definitions for humans and replays captured
// responses through the decode sequence generated code performs.
package apdu

import (
	"errors"
	"fmt"
)

// LeCaseUnset marks a command whose LeCase cell was empty.
const LeCaseUnset = -1

// Fatal assembly errors. Every error returned by Assemble wraps one of them
// inside a *RowError.
var (
	ErrBadHeaderByte   = errors.New("invalid header byte")
	ErrBadLeCase       = errors.New("invalid LeCase")
	ErrMalformedParam  = errors.New("malformed parameter spec")
	ErrUnsupportedType = errors.New("unsupported parameter type")
	ErrEmptyTag        = errors.New("empty tag")
	ErrEmptyParam      = errors.New("empty parameter spec")
	ErrNoCommand       = errors.New("parameter row before any command")
)

// Param is one TLV parameter of a request or response.
type Param struct {
	Index       int
	Tag         string
	Description string
	Name        string
	Type        ParamType
}

// Command is a complete command definition.
type Command struct {
	Name          string
	Description   string
	CLA           byte
	INS           byte
	P1            byte
	P2            byte
	Lc            string
	LeCase        int
	AppletVersion string
	Payload       []Param
	Response      []Param
}

// HasResponse reports whether the command decodes any response parameter.
func (c Command) HasResponse() bool {
	return len(c.Response) > 0
}

// RowError locates a fatal table error.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q, value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
