package performance

import (
	"encoding/json"
	"fmt"
)

// Table is an ordered metric × column grid of formatted cells.
type Table struct {
	Index   []string   `json:"index" yaml:"index" msgpack:"index"`
	Columns []string   `json:"columns" yaml:"columns" msgpack:"columns"`
	Data    [][]string `json:"data" yaml:"data" msgpack:"data"` // Data[row][column]
}

// NewTable creates an empty table over the given row index.
func NewTable(index []string) *Table {
	t := &Table{
		Index:   append([]string(nil), index...),
		Columns: []string{},
		Data:    make([][]string, len(index)),
	}
	for i := range t.Data {
		t.Data[i] = []string{}
	}
	return t
}

// AddColumn appends a column. cells must follow the row index order.
func (t *Table) AddColumn(name string, cells []string) error {
	if len(cells) != len(t.Index) {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), len(t.Index))
	}
	t.Columns = append(t.Columns, name)
	for i, c := range cells {
		t.Data[i] = append(t.Data[i], c)
	}
	return nil
}

// Get returns the cell at (row, column).
func (t *Table) Get(row, column string) (string, bool) {
	r, c := indexOf(t.Index, row), indexOf(t.Columns, column)
	if r < 0 || c < 0 {
		return "", false
	}
	return t.Data[r][c], true
}

// Column returns the cells of one column in row order.
func (t *Table) Column(name string) ([]string, bool) {
	c := indexOf(t.Columns, name)
	if c < 0 {
		return nil, false
	}
	out := make([]string, len(t.Index))
	for r := range t.Index {
		out[r] = t.Data[r][c]
	}
	return out, true
}

// String renders the table as JSON, mostly for logs and test failures.
func (t *Table) String() string {
	b, _ := json.Marshal(t)
	return string(b)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
