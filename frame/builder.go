package frame

import (
	"fmt"
)

// Builder accumulates rows and infers the type of each column when the table
// is finished. Columns may be declared up front or discovered from records.
type Builder struct {
	names  []string
	hints  []DataType
	index  map[string]int
	values [][]any
	rows   int
}

// NewBuilder creates a builder with the given columns declared. The declared
// type is used as the starting point of inference, so an all-null column keeps
// its declared type instead of becoming Null.
func NewBuilder(fields ...Field) *Builder {
	b := &Builder{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		b.addColumn(f.Name, f.Type)
	}
	return b
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return b.rows }

// Append adds a row with one value per declared column, in declaration order.
func (b *Builder) Append(row []any) error {
	if len(row) != len(b.names) {
		return fmt.Errorf("row %d has %d values, expected %d", b.rows, len(row), len(b.names))
	}
	for i, v := range row {
		if _, ok := TypeOf(v); !ok {
			return fmt.Errorf("row %d column %q: unsupported value type %T", b.rows, b.names[i], v)
		}
		b.values[i] = append(b.values[i], v)
	}
	b.rows++
	return nil
}

// AppendRecord adds a row given as parallel key and value slices. Unknown keys
// become new columns, back-filled with nulls; declared columns missing from the
// record get a null. A repeated key keeps its last value.
func (b *Builder) AppendRecord(keys []string, values []any) error {
	if len(keys) != len(values) {
		return fmt.Errorf("record has %d keys and %d values", len(keys), len(values))
	}

	for i, key := range keys {
		if _, ok := TypeOf(values[i]); !ok {
			return fmt.Errorf("row %d column %q: unsupported value type %T", b.rows, key, values[i])
		}
		j, ok := b.index[key]
		if !ok {
			j = b.addColumn(key, Null)
		}
		if len(b.values[j]) > b.rows {
			b.values[j][b.rows] = values[i]
			continue
		}
		b.values[j] = append(b.values[j], values[i])
	}

	b.rows++
	for j := range b.values {
		if len(b.values[j]) < b.rows {
			b.values[j] = append(b.values[j], nil)
		}
	}
	return nil
}

// Finish infers column types and returns the table. The builder must not be
// used afterwards.
func (b *Builder) Finish() (*Table, error) {
	columns := make([]*Column, len(b.names))
	for i, name := range b.names {
		dtype := b.hints[i]
		for _, v := range b.values[i] {
			t, _ := TypeOf(v)
			dtype = Supertype(dtype, t)
		}

		c, err := NewColumn(name, dtype, b.values[i])
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}

	return NewTable(columns...)
}

func (b *Builder) addColumn(name string, hint DataType) int {
	j := len(b.names)
	b.names = append(b.names, name)
	b.hints = append(b.hints, hint)
	b.index[name] = j
	b.values = append(b.values, make([]any, b.rows, max(b.rows, 16)))
	return j
}
