package format

import (
	"iter"
	"maps"
	"slices"
)

// Options is the advisory set of configuration keys a Format understands.
// It describes a format; it is never used to reject an Args bag.
type Options struct {
	keys map[string]struct{}
}

// NewOptions builds a descriptor. Duplicate keys collapse.
func NewOptions(keys ...string) Options {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return Options{keys: set}
}

// All iterates over the keys in no particular order.
func (o Options) All() iter.Seq[string] {
	return maps.Keys(o.keys)
}

// Has reports whether key is declared.
func (o Options) Has(key string) bool {
	_, ok := o.keys[key]
	return ok
}

// Len returns the number of keys.
func (o Options) Len() int { return len(o.keys) }

// Sorted returns the keys in lexical order, for display.
func (o Options) Sorted() []string {
	return slices.Sorted(o.All())
}
