package apdu

import (
	"errors"
	"io"

	"github.com/gregLibert/apdugen/pkg/table"
)

// RowSource yields table rows in order and io.EOF at the end.
type RowSource interface {
	Next() (table.Row, error)
}

// Assemble groups consecutive rows into commands and passes each one to emit
// as soon as it is complete, in row order.
//
// A row with a non-empty Name finalizes the command in progress and starts a
// new one. Independently, the same row adds a payload parameter when T:C and
// ParamType are set, and a response parameter when T:R and ParamType are set.
// Both kinds take their description from T:Desc.
//
// The first error stops assembly. The command in progress at that point is
// never emitted. Errors from emit are returned unchanged.
func Assemble(src RowSource, emit func(Command) error) error {
	var b Builder

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if row.Get(table.ColName) != "" {
			if cmd, ok := b.Finalize(); ok {
				if err := emit(cmd); err != nil {
					return err
				}
			}
			head, err := parseHead(row)
			if err != nil {
				return err
			}
			b.Start(head)
		}

		spec := row.Get(table.ColParamType)
		desc := row.Get(table.ColTagDesc)

		if tag := row.Get(table.ColCmdTag); tag != "" && spec != "" {
			if err := b.AddPayload(tag, desc, spec); err != nil {
				return rowError(row, table.ColCmdTag, err)
			}
		}
		if tag := row.Get(table.ColRspTag); tag != "" && spec != "" {
			if err := b.AddResponse(tag, desc, spec); err != nil {
				return rowError(row, table.ColRspTag, err)
			}
		}
	}

	if cmd, ok := b.Finalize(); ok {
		return emit(cmd)
	}
	return nil
}

// AssembleAll collects every command of src.
func AssembleAll(src RowSource) ([]Command, error) {
	var cmds []Command
	err := Assemble(src, func(c Command) error {
		cmds = append(cmds, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cmds, nil
}

func parseHead(row table.Row) (Command, error) {
	head := Command{
		Name:          row.Get(table.ColName),
		Description:   row.Get(table.ColDescription),
		Lc:            row.Get(table.ColLc),
		AppletVersion: row.Get(table.ColAppletVersion),
	}

	for _, f := range []struct {
		column string
		dst    *byte
	}{
		{table.ColCLA, &head.CLA},
		{table.ColINS, &head.INS},
		{table.ColP1, &head.P1},
		{table.ColP2, &head.P2},
	} {
		v, err := ParseHeaderByte(row.Get(f.column))
		if err != nil {
			return Command{}, rowError(row, f.column, err)
		}
		*f.dst = v
	}

	le, err := ParseLeCase(row.Get(table.ColLeCase))
	if err != nil {
		return Command{}, rowError(row, table.ColLeCase, err)
	}
	head.LeCase = le

	return head, nil
}

// rowError attributes err to the cell that caused it. Parameter spec errors
// point at the ParamType column rather than the tag column.
func rowError(row table.Row, column string, err error) error {
	if errors.Is(err, ErrMalformedParam) || errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrEmptyParam) {
		column = table.ColParamType
	}
	return &RowError{Line: row.Line, Column: column, Value: row.Get(column), Err: err}
}
