package format

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Args is the named-parameter bag passed to a single Read or Write call.
//
// Each key maps to an ordered list of values. Args is immutable; build one with
// ArgsBuilder or ArgsFromPairs. Accessors never fail: a missing key, an empty
// list or an unparsable value all report ok == false.
type Args struct {
	values map[string][]string
}

// NewArgs returns an empty bag.
func NewArgs() Args {
	return Args{}
}

// ArgsFromPairs parses "key=value" strings, splitting on the first '='.
// Repeated keys accumulate values in order.
func ArgsFromPairs(pairs ...string) (Args, error) {
	var b ArgsBuilder
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return Args{}, fmt.Errorf("%w: expected key=value, got %q", ErrInvalidArgument, pair)
		}
		b.Add(key, value)
	}
	return b.Build(), nil
}

// List returns all values of key in insertion order.
func (a Args) List(key string) ([]string, bool) {
	values, ok := a.values[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(values), true
}

// String returns the first value of key.
func (a Args) String(key string) (string, bool) {
	values := a.values[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Long parses the first value of key as a base-10 signed integer. A value
// that does not parse is reported as absent.
func (a Args) Long(key string) (int64, bool) {
	s, ok := a.String(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Char returns the first byte of the first value of key.
func (a Args) Char(key string) (byte, bool) {
	s, ok := a.String(key)
	if !ok || s == "" {
		return 0, false
	}
	return s[0], true
}

// Keys returns the keys present in the bag, sorted.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a.values))
}

// Len returns the number of distinct keys.
func (a Args) Len() int { return len(a.values) }

// ArgsBuilder accumulates values for an Args bag. The zero value is ready to use.
type ArgsBuilder struct {
	values map[string][]string
}

// Add appends value to the list of key.
func (b *ArgsBuilder) Add(key, value string) *ArgsBuilder {
	if b.values == nil {
		b.values = make(map[string][]string)
	}
	b.values[key] = append(b.values[key], value)
	return b
}

// Build returns an immutable snapshot of the accumulated values.
func (b *ArgsBuilder) Build() Args {
	values := make(map[string][]string, len(b.values))
	for k, v := range b.values {
		values[k] = slices.Clone(v)
	}
	return Args{values: values}
}
