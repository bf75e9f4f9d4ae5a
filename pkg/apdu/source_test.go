package apdu

import (
	"io"

	"github.com/gregLibert/apdugen/pkg/table"
)

// sliceSource feeds literal rows to Assemble.
type sliceSource struct {
	rows []table.Row
	next int
}

func (s *sliceSource) Next() (table.Row, error) {
	if s.next >= len(s.rows) {
		return table.Row{}, io.EOF
	}
	r := s.rows[s.next]
	s.next++
	return r, nil
}

// rows numbers each literal row from line 2, as if read after a header.
func rows(fields ...map[string]string) *sliceSource {
	src := &sliceSource{}
	for i, f := range fields {
		src.rows = append(src.rows, table.NewRow(i+2, f))
	}
	return src
}

func headRow(name, cla, ins, p1, p2, leCase string) map[string]string {
	return map[string]string{
		table.ColName:   name,
		table.ColCLA:    cla,
		table.ColINS:    ins,
		table.ColP1:     p1,
		table.ColP2:     p2,
		table.ColLeCase: leCase,
	}
}

func with(base map[string]string, kv ...string) map[string]string {
	out := make(map[string]string, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = kv[i+1]
	}
	return out
}
