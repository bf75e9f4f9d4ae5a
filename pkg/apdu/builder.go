package apdu

import (
	"fmt"
	"strconv"
	"strings"
)

// Builder accumulates the definition of one command at a time.
// The zero value is ready to use and has nothing in progress.
type Builder struct {
	current *Command
}

// InProgress reports whether a command has been started and not finalized.
func (b *Builder) InProgress() bool {
	return b.current != nil
}

// Start begins a new command from its scalar fields. Any payload or response
// already set on head is discarded. A command still in progress is dropped,
// so callers finalize first.
func (b *Builder) Start(head Command) {
	head.Payload = nil
	head.Response = nil
	b.current = &head
}

// AddPayload appends a request parameter at the next payload index.
func (b *Builder) AddPayload(tag, description, spec string) error {
	if b.current == nil {
		return ErrNoCommand
	}
	p, err := newParam(len(b.current.Payload), tag, description, spec)
	if err != nil {
		return err
	}
	b.current.Payload = append(b.current.Payload, p)
	return nil
}

// AddResponse appends a response parameter at the next response index.
func (b *Builder) AddResponse(tag, description, spec string) error {
	if b.current == nil {
		return ErrNoCommand
	}
	p, err := newParam(len(b.current.Response), tag, description, spec)
	if err != nil {
		return err
	}
	b.current.Response = append(b.current.Response, p)
	return nil
}

// Finalize hands out the command in progress and resets the builder.
// The returned value shares nothing with the builder.
func (b *Builder) Finalize() (Command, bool) {
	if b.current == nil {
		return Command{}, false
	}
	cmd := *b.current
	cmd.Payload = append([]Param(nil), cmd.Payload...)
	cmd.Response = append([]Param(nil), cmd.Response...)
	b.current = nil
	return cmd, true
}

func newParam(index int, tag, description, spec string) (Param, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Param{}, ErrEmptyTag
	}
	if strings.TrimSpace(spec) == "" {
		return Param{}, ErrEmptyParam
	}

	name, typ, err := ParseParamSpec(spec)
	if err != nil {
		return Param{}, err
	}

	return Param{
		Index:       index,
		Tag:         tag,
		Description: strings.TrimSpace(description),
		Name:        name,
		Type:        typ,
	}, nil
}

// ParseHeaderByte parses a CLA/INS/P1/P2 cell: a hex token of at most two digits.
func ParseHeaderByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a hex byte", ErrBadHeaderByte, s)
	}
	return byte(v), nil
}

// ParseLeCase parses the LeCase cell. Empty means LeCaseUnset.
func ParseLeCase(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LeCaseUnset, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBadLeCase, s)
	}
	return v, nil
}
