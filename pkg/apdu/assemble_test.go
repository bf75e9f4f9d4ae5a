package apdu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gregLibert/apdugen/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_GetRandom(t *testing.T) {
	src := rows(
		with(headRow("GetRandom", "80", "01", "00", "00", "4"),
			table.ColRspTag, "41", table.ColParamType, "randomData:u8buf"),
		map[string]string{table.ColRspTag: "42", table.ColParamType: "count:U16"},
	)

	cmds, err := AssembleAll(src)
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	want := Command{
		Name: "GetRandom", CLA: 0x80, INS: 0x01, P1: 0x00, P2: 0x00, LeCase: 4,
		Response: []Param{
			{Index: 0, Tag: "41", Name: "randomData", Type: TypeU8Buf},
			{Index: 1, Tag: "42", Name: "count", Type: TypeU16},
		},
	}
	if diff := cmp.Diff(want, cmds[0]); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_GroupingAndOrder(t *testing.T) {
	src := rows(
		with(headRow("WriteBinary", "80", "01", "00", "00", ""),
			table.ColCmdTag, "kSE05x_TAG_SESSION_ID", table.ColParamType, "session_ctx:Se05xSession"),
		map[string]string{table.ColCmdTag: "kSE05x_TAG_1", table.ColTagDesc: "object id", table.ColParamType: "objectID:U32"},
		map[string]string{table.ColCmdTag: "kSE05x_TAG_2", table.ColParamType: "offset:U16"},
		map[string]string{table.ColDescription: "row without tags is ignored"},
		map[string]string{table.ColCmdTag: "kSE05x_TAG_4", table.ColParamType: "inputData:u8buf"},
		with(headRow("ReadObject", "80", "02", "00", "00", "4"),
			table.ColCmdTag, "kSE05x_TAG_1", table.ColParamType, "objectID:U32"),
		// One row feeding both lists.
		map[string]string{table.ColCmdTag: "kSE05x_TAG_2", table.ColRspTag: "kSE05x_TAG_1", table.ColTagDesc: "shared", table.ColParamType: "data:u8buf"},
	)

	var got []Command
	err := Assemble(src, func(c Command) error {
		got = append(got, c)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	write := got[0]
	assert.Equal(t, "WriteBinary", write.Name)
	assert.Equal(t, LeCaseUnset, write.LeCase)
	assert.Empty(t, write.Response)
	var names []string
	for i, p := range write.Payload {
		assert.Equal(t, i, p.Index)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"session_ctx", "objectID", "offset", "inputData"}, names)
	assert.Equal(t, "object id", write.Payload[1].Description)

	read := got[1]
	require.Len(t, read.Payload, 2)
	require.Len(t, read.Response, 1)
	assert.Equal(t, 0, read.Payload[0].Index)
	assert.Equal(t, 1, read.Payload[1].Index)
	assert.Equal(t, 0, read.Response[0].Index)
	assert.Equal(t, "shared", read.Payload[1].Description)
	assert.Equal(t, "shared", read.Response[0].Description)
	assert.Equal(t, "kSE05x_TAG_1", read.Response[0].Tag)
}

func TestAssemble_NameRowCarriesBothParams(t *testing.T) {
	src := rows(
		with(headRow("Echo", "80", "05", "00", "00", "3"),
			table.ColCmdTag, "41", table.ColRspTag, "42", table.ColParamType, "v:U8"),
	)

	cmds, err := AssembleAll(src)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Len(t, cmds[0].Payload, 1)
	assert.Len(t, cmds[0].Response, 1)
	assert.Equal(t, 3, cmds[0].LeCase)
}

func TestAssemble_DuplicateNamesPassThrough(t *testing.T) {
	src := rows(
		headRow("Ping", "80", "01", "00", "00", ""),
		headRow("Other", "80", "02", "00", "00", ""),
		headRow("Ping", "80", "03", "00", "00", ""),
	)

	cmds, err := AssembleAll(src)
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, byte(0x01), cmds[0].INS)
	assert.Equal(t, byte(0x03), cmds[2].INS)
}

func TestAssemble_EmptyInput(t *testing.T) {
	cmds, err := AssembleAll(rows())
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     *sliceSource
		want    error
		column  string
		value   string
		emitted int
	}{
		{
			name:   "bad CLA",
			src:    rows(headRow("A", "8Z", "01", "00", "00", "")),
			want:   ErrBadHeaderByte,
			column: table.ColCLA,
			value:  "8Z",
		},
		{
			name:   "bad P2",
			src:    rows(headRow("A", "80", "01", "00", "", "")),
			want:   ErrBadHeaderByte,
			column: table.ColP2,
		},
		{
			name:   "bad LeCase",
			src:    rows(headRow("A", "80", "01", "00", "00", "x")),
			want:   ErrBadLeCase,
			column: table.ColLeCase,
			value:  "x",
		},
		{
			name: "unsupported type aborts later commands",
			src: rows(
				headRow("A", "80", "01", "00", "00", ""),
				with(headRow("B", "80", "02", "00", "00", ""), table.ColCmdTag, "41", table.ColParamType, "x:float"),
				headRow("C", "80", "03", "00", "00", ""),
			),
			want:    ErrUnsupportedType,
			column:  table.ColParamType,
			value:   "x:float",
			emitted: 1,
		},
		{
			name: "malformed response spec",
			src: rows(
				with(headRow("A", "80", "01", "00", "00", ""), table.ColRspTag, "41", table.ColParamType, "noColon"),
			),
			want:   ErrMalformedParam,
			column: table.ColParamType,
		},
		{
			name: "blank tag",
			src: rows(
				with(headRow("A", "80", "01", "00", "00", ""), table.ColCmdTag, "   ", table.ColParamType, "x:U8"),
			),
			want:   ErrEmptyTag,
			column: table.ColCmdTag,
		},
		{
			name:   "parameter before any command",
			src:    rows(map[string]string{table.ColCmdTag: "41", table.ColParamType: "x:U8"}),
			want:   ErrNoCommand,
			column: table.ColCmdTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var emitted int
			err := Assemble(tt.src, func(Command) error {
				emitted++
				return nil
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.column, rowErr.Column)
			if tt.value != "" {
				assert.Equal(t, tt.value, rowErr.Value)
				assert.Contains(t, err.Error(), tt.value)
			}
			assert.Equal(t, tt.emitted, emitted)
		})
	}
}

func TestAssemble_EmitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	src := rows(
		headRow("A", "80", "01", "00", "00", ""),
		headRow("B", "80", "02", "00", "00", ""),
	)

	var calls int
	err := Assemble(src, func(Command) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
