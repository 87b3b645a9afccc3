package types

import "fmt"

// Row is one generated record, positionally aligned with Table.Columns.
type Row []Value

// Table is the in-memory row set of one generated table. Once published to
// dependent generators it is read-only.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row

	index map[string]int
}

func NewTable(name string, columns []string, capacity int) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Rows:    make([]Row, 0, capacity),
	}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Col returns the position of a column. Unknown columns panic.
func (t *Table) Col(name string) int {
	if t.index == nil {
		t.buildIndex()
	}
	i, ok := t.index[name]
	if !ok {
		panic(fmt.Sprintf("types: table %s has no column %s", t.Name, name))
	}
	return i
}

func (t *Table) HasCol(name string) bool {
	if t.index == nil {
		t.buildIndex()
	}
	_, ok := t.index[name]
	return ok
}

// Int reads an integer column of row i.
func (t *Table) Int(i int, column string) int64 {
	return t.Rows[i][t.Col(column)].AsInt()
}

// Ints collects an integer column in row order.
func (t *Table) Ints(column string) []int64 {
	c := t.Col(column)
	out := make([]int64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[c].AsInt()
	}
	return out
}

// IndexBy maps the values of an integer column to their row position.
func (t *Table) IndexBy(column string) map[int64]int {
	c := t.Col(column)
	out := make(map[int64]int, len(t.Rows))
	for i, r := range t.Rows {
		out[r[c].AsInt()] = i
	}
	return out
}

// MaxInt returns the largest value of an integer column, or -1 for an empty table.
func (t *Table) MaxInt(column string) int64 {
	highest := int64(-1)
	if t.Len() == 0 {
		return highest
	}
	c := t.Col(column)
	for _, r := range t.Rows {
		if v := r[c].AsInt(); v > highest {
			highest = v
		}
	}
	return highest
}

// Project returns a copy holding only the named columns. Used to shrink a
// parent set down to what its children read.
func (t *Table) Project(columns ...string) *Table {
	if len(columns) == 0 || len(columns) == len(t.Columns) {
		return t
	}
	pos := make([]int, len(columns))
	for i, c := range columns {
		pos[i] = t.Col(c)
	}
	out := NewTable(t.Name, columns, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(Row, len(pos))
		for i, p := range pos {
			nr[i] = r[p]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}
