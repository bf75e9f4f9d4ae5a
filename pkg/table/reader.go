// Package table reads the command table: a delimited text file with a header
// row, yielding one column-name -> value mapping per line.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names of the command table.
const (
	ColName          = "Name"
	ColDescription   = "Description"
	ColCLA           = "CLA"
	ColINS           = "INS"
	ColP1            = "P1"
	ColP2            = "P2"
	ColLc            = "Lc"
	ColLeCase        = "LeCase"
	ColAppletVersion = "applet version"
	ColCmdTag        = "T:C"
	ColTagDesc       = "T:Desc"
	ColRspTag        = "T:R"
	ColParamType     = "ParamType"
)

// Columns lists every column the table must declare in its header row.
var Columns = []string{
	ColName, ColDescription, ColCLA, ColINS, ColP1, ColP2, ColLc,
	ColLeCase, ColAppletVersion, ColCmdTag, ColTagDesc, ColRspTag, ColParamType,
}

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Row is one data line of the table.
type Row struct {
	Line   int
	fields map[string]string
}

// NewRow builds a Row from literal values, mostly for tests.
func NewRow(line int, fields map[string]string) Row {
	return Row{Line: line, fields: fields}
}

// Get returns the cell for column, or "" when the line was short.
func (r Row) Get(column string) string {
	return r.fields[column]
}

// Reader yields rows in file order. It is single pass.
type Reader struct {
	csv    *csv.Reader
	header []string
}

// NewReader reads and validates the header row from r.
// UTF-8 input with or without a byte order mark and UTF-16 input with a BOM
// are accepted.
func NewReader(r io.Reader) (*Reader, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false
	// Hand-edited descriptions carry stray quotes, e.g. `16" buffer`.
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("table has no header row")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	seen := make(map[string]bool, len(header))
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		seen[header[i]] = true
	}

	var missing []string
	for _, col := range Columns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return &Reader{csv: cr, header: header}, nil
}

// Next returns the next row, or io.EOF once the input is exhausted.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("failed to read table: %w", err)
	}

	line, _ := r.csv.FieldPos(0)
	fields := make(map[string]string, len(r.header))
	for i, col := range r.header {
		if i < len(record) {
			fields[col] = record[i]
		}
	}
	return Row{Line: line, fields: fields}, nil
}
