// Package frame is the intermediate tabular representation every format reads
// into and writes from.
//
// A Frame is a deferred plan: a source that produces a Table plus a list of
// operations applied on top of it. Building a Frame does no work; Collect runs
// the source and the operations and returns the materialized Table. Errors
// raised by the source (for example malformed rows in a lazily scanned file)
// therefore surface from Collect, not from the call that built the Frame.
//
//	f := frame.Scan("parquet data.parquet", scanFn).Limit(10)
//	table, err := f.Collect()
//
// Tables are column oriented. Each Column holds nullable values of a single
// DataType, possibly split into several chunks; Rechunk consolidates them.
package frame

import (
	"fmt"
	"strings"
)

// SourceFunc produces the table a Frame starts from.
type SourceFunc func() (*Table, error)

type op struct {
	name string
	fn   func(*Table) (*Table, error)
}

// Frame is a lazily evaluated table.
//
// Frames are immutable values: every operator returns a new Frame and leaves
// the receiver untouched, so a Frame can be shared, but each Collect call
// re-runs the whole plan.
type Frame struct {
	desc   string
	source SourceFunc
	ops    []op
}

// Scan returns a Frame whose data is produced by fn on Collect. desc is a
// short human-readable description of the source used by Plan.
func Scan(desc string, fn SourceFunc) *Frame {
	return &Frame{desc: desc, source: fn}
}

// FromTable wraps an already materialized table.
func FromTable(t *Table) *Frame {
	return Scan(fmt.Sprintf("table[%dx%d]", t.Height(), t.Width()), func() (*Table, error) {
		return t, nil
	})
}

// Limit keeps at most n leading rows.
func (f *Frame) Limit(n int) *Frame {
	return f.with(fmt.Sprintf("limit %d", n), func(t *Table) (*Table, error) {
		if n >= t.Height() {
			return t, nil
		}
		return t.Slice(0, n), nil
	})
}

// Rechunk consolidates every column into a single chunk.
func (f *Frame) Rechunk() *Frame {
	return f.with("rechunk", func(t *Table) (*Table, error) {
		return t.Rechunk()
	})
}

// Collect executes the plan and returns the resulting table.
func (f *Frame) Collect() (*Table, error) {
	t, err := f.source()
	if err != nil {
		return nil, err
	}
	for _, o := range f.ops {
		t, err = o.fn(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.name, err)
		}
	}
	return t, nil
}

// Plan describes the deferred computation, source first.
func (f *Frame) Plan() string {
	parts := make([]string, 0, len(f.ops)+1)
	parts = append(parts, f.desc)
	for _, o := range f.ops {
		parts = append(parts, o.name)
	}
	return strings.Join(parts, " -> ")
}

func (f *Frame) with(name string, fn func(*Table) (*Table, error)) *Frame {
	ops := make([]op, len(f.ops), len(f.ops)+1)
	copy(ops, f.ops)
	return &Frame{desc: f.desc, source: f.source, ops: append(ops, op{name: name, fn: fn})}
}
