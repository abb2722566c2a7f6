package frame

import (
	"fmt"
)

// Column is a named, typed sequence of nullable values stored in one or more
// chunks. A nil entry is a null. Non-nil entries always have the Go type that
// matches the column type: bool, int64, float64 or string.
//
// Columns are immutable once built; operations return new columns that may
// share chunk storage with the original.
type Column struct {
	name   string
	dtype  DataType
	chunks [][]any
	length int
}

// NewColumn builds a single-chunk column, casting every value to dtype.
func NewColumn(name string, dtype DataType, values []any) (*Column, error) {
	chunk := make([]any, len(values))
	for i, v := range values {
		cast, err := Cast(v, dtype)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		chunk[i] = cast
	}

	return &Column{name: name, dtype: dtype, chunks: [][]any{chunk}, length: len(chunk)}, nil
}

// MustColumn is like NewColumn but panics on error. Intended for tests and
// fixtures with literal values.
func MustColumn(name string, dtype DataType, values ...any) *Column {
	c, err := NewColumn(name, dtype, values)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type.
func (c *Column) Type() DataType { return c.dtype }

// Field returns the column name and type.
func (c *Column) Field() Field { return Field{Name: c.name, Type: c.dtype} }

// Len returns the number of values.
func (c *Column) Len() int { return c.length }

// NumChunks returns the number of storage chunks.
func (c *Column) NumChunks() int { return len(c.chunks) }

// NullCount returns the number of null values.
func (c *Column) NullCount() int {
	n := 0
	for _, chunk := range c.chunks {
		for _, v := range chunk {
			if v == nil {
				n++
			}
		}
	}
	return n
}

// Value returns the i-th value. It panics when i is out of range.
func (c *Column) Value(i int) any {
	if i < 0 || i >= c.length {
		panic(fmt.Sprintf("frame: index %d out of range for column %q with length %d", i, c.name, c.length))
	}
	for _, chunk := range c.chunks {
		if i < len(chunk) {
			return chunk[i]
		}
		i -= len(chunk)
	}
	panic("unreachable")
}

// Values returns a copy of all values in a single slice.
func (c *Column) Values() []any {
	out := make([]any, 0, c.length)
	for _, chunk := range c.chunks {
		out = append(out, chunk...)
	}
	return out
}

// Cast returns the column converted to another type.
func (c *Column) Cast(dtype DataType) (*Column, error) {
	if dtype == c.dtype {
		return c, nil
	}
	return NewColumn(c.name, dtype, c.Values())
}

// Rename returns the column with a different name, sharing storage.
func (c *Column) Rename(name string) *Column {
	clone := *c
	clone.name = name
	return &clone
}

func (c *Column) append(other *Column) *Column {
	switch {
	case other.length == 0:
		return c
	case c.length == 0:
		return &Column{name: c.name, dtype: c.dtype, chunks: other.chunks, length: other.length}
	}

	chunks := make([][]any, 0, len(c.chunks)+len(other.chunks))
	chunks = append(chunks, c.chunks...)
	chunks = append(chunks, other.chunks...)
	return &Column{name: c.name, dtype: c.dtype, chunks: chunks, length: c.length + other.length}
}

func (c *Column) consolidate() *Column {
	if len(c.chunks) <= 1 {
		return c
	}
	return &Column{name: c.name, dtype: c.dtype, chunks: [][]any{c.Values()}, length: c.length}
}

func (c *Column) slice(offset, n int) *Column {
	values := c.Values()
	offset = min(offset, len(values))
	end := offset + min(n, len(values)-offset)
	chunk := values[offset:end]
	return &Column{name: c.name, dtype: c.dtype, chunks: [][]any{chunk}, length: len(chunk)}
}
