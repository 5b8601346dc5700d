package artifact

import (
	"bytes"
	"encoding/json"

	"github.com/matchforge/tactics-engine/internal/tacticserr"
)

// Column names recognized by Table. Team is optional; readers must not fail
// when it is absent from a row.
const (
	ColFrameID     = "frame_id"
	ColPlayerID    = "player_id"
	ColX           = "x"
	ColY           = "y"
	ColObjectKind  = "object_kind"
	ColConfidence  = "confidence"
	ColTimestamp   = "timestamp"
	ColTeam        = "team" // optional
)

// requiredColumns is the column set every trajectory table row must carry.
var requiredColumns = []string{ColFrameID, ColPlayerID, ColX, ColY, ColObjectKind, ColConfidence, ColTimestamp}

// Row is a single record, keyed by column name. Optional columns (currently
// just Team) may be absent from a given row's map.
type Row map[string]any

// Table is a columnar, self-describing trajectory table: it carries its own
// column list so a reader can tell which optional columns are present
// without inspecting every row.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a table declaring columns, validating that every required
// trajectory column is present.
func NewTable(columns []string) (*Table, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, req := range requiredColumns {
		if !present[req] {
			return nil, tacticserr.Newf(tacticserr.BadInput, "table missing required column %q", req)
		}
	}
	return &Table{Columns: columns}, nil
}

// HasColumn reports whether the table declares an optional column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddRow appends a row, validating that it carries every declared column.
func (t *Table) AddRow(row Row) error {
	for _, c := range t.Columns {
		if _, ok := row[c]; !ok {
			return tacticserr.Newf(tacticserr.BadInput, "row missing declared column %q", c)
		}
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// wireTable is the on-disk/on-wire encoding of a Table: a JSON envelope
// carrying the column list alongside the row data, so a reader can check
// which optional columns a given encoded table carries before decoding rows
// that might lack them.
type wireTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Encode serializes t to its self-describing form: JSON text holding the
// column list and the rows. No binary encoding is produced.
func (t *Table) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(wireTable{Columns: t.Columns, Rows: t.Rows}); err != nil {
		return nil, tacticserr.Wrap(tacticserr.Internal, err, "encode table")
	}
	return buf.Bytes(), nil
}

// DecodeTable parses the self-describing JSON form produced by Encode.
// It tolerates tables whose column list omits optional columns: rows simply
// will not carry keys for columns not declared.
func DecodeTable(data []byte) (*Table, error) {
	var wire wireTable
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, tacticserr.Wrap(tacticserr.BadInput, err, "decode table")
	}
	present := make(map[string]bool, len(wire.Columns))
	for _, c := range wire.Columns {
		present[c] = true
	}
	for _, req := range requiredColumns {
		if !present[req] {
			return nil, tacticserr.Newf(tacticserr.BadInput, "decoded table missing required column %q", req)
		}
	}
	return &Table{Columns: wire.Columns, Rows: wire.Rows}, nil
}
