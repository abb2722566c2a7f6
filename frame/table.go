package frame

import (
	"fmt"
	"iter"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Table is a materialized set of equally long, uniquely named columns.
// Row order is significant and is never changed by any Table operation.
type Table struct {
	columns []*Column
	height  int
}

// NewTable builds a table from columns. All columns must have the same
// length and distinct names.
func NewTable(columns ...*Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	height := 0
	for i, c := range columns {
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate column name %q", c.Name())
		}
		seen[c.Name()] = true

		if i == 0 {
			height = c.Len()
		} else if c.Len() != height {
			return nil, fmt.Errorf("column %q has %d values, expected %d", c.Name(), c.Len(), height)
		}
	}

	return &Table{columns: columns, height: height}, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(columns ...*Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Height returns the number of rows.
func (t *Table) Height() int { return t.height }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Schema returns the ordered column names and types.
func (t *Table) Schema() Schema {
	schema := make(Schema, len(t.columns))
	for i, c := range t.columns {
		schema[i] = c.Field()
	}
	return schema
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.columns }

// Column returns the i-th column.
func (t *Table) Column(i int) *Column { return t.columns[i] }

// ColumnByName returns the named column.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// NumChunks returns the largest chunk count among the columns.
func (t *Table) NumChunks() int {
	n := 0
	for _, c := range t.columns {
		n = max(n, c.NumChunks())
	}
	return n
}

// Row returns the values of the i-th row in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Value(i)
	}
	return row
}

// Rows iterates over the rows in order. The yielded slice is reused between
// iterations and must be copied if retained.
func (t *Table) Rows() iter.Seq2[int, []any] {
	return func(yield func(int, []any) bool) {
		if len(t.columns) == 0 {
			return
		}

		row := make([]any, len(t.columns))
		cursors := make([]chunkCursor, len(t.columns))
		for j, c := range t.columns {
			cursors[j] = chunkCursor{chunks: c.chunks}
		}

		for i := 0; i < t.height; i++ {
			for j := range cursors {
				row[j] = cursors[j].next()
			}
			if !yield(i, row) {
				return
			}
		}
	}
}

// Append returns a table with the rows of other appended below the rows of t.
// Both tables must have the same column names in the same order; column types
// are widened with Supertype where they differ. Storage chunks are shared, so
// the result has the chunks of both inputs.
func (t *Table) Append(other *Table) (*Table, error) {
	if len(t.columns) == 0 && t.height == 0 {
		return other, nil
	}
	if len(other.columns) != len(t.columns) {
		return nil, fmt.Errorf("cannot append table with %d columns to table with %d columns", len(other.columns), len(t.columns))
	}

	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		o := other.columns[i]
		if o.Name() != c.Name() {
			return nil, fmt.Errorf("column %d name mismatch: %q vs %q", i, c.Name(), o.Name())
		}

		dtype := Supertype(c.Type(), o.Type())
		left, err := c.Cast(dtype)
		if err != nil {
			return nil, err
		}
		right, err := o.Cast(dtype)
		if err != nil {
			return nil, err
		}
		columns[i] = left.append(right)
	}

	return &Table{columns: columns, height: t.height + other.height}, nil
}

// Rechunk consolidates every column into a single contiguous chunk. Columns
// are consolidated in parallel.
func (t *Table) Rechunk() (*Table, error) {
	if t.NumChunks() <= 1 {
		return t, nil
	}

	columns := make([]*Column, len(t.columns))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range t.columns {
		g.Go(func() error {
			columns[i] = c.consolidate()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Table{columns: columns, height: t.height}, nil
}

// Slice returns at most n rows starting at offset.
func (t *Table) Slice(offset, n int) *Table {
	if offset < 0 {
		offset = 0
	}
	if n < 0 {
		n = 0
	}
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		columns[i] = c.slice(offset, n)
	}

	height := max(0, min(t.height-offset, n))
	return &Table{columns: columns, height: height}
}

type chunkCursor struct {
	chunks [][]any
	chunk  int
	pos    int
}

func (c *chunkCursor) next() any {
	for c.pos >= len(c.chunks[c.chunk]) {
		c.chunk++
		c.pos = 0
	}
	v := c.chunks[c.chunk][c.pos]
	c.pos++
	return v
}
