// Package formats wires the built-in formats into a registry.
package formats

import (
	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats/avro"
	"github.com/vegasq/pandata/formats/csv"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/formats/json"
	"github.com/vegasq/pandata/formats/parquet"
)

// Builtin returns the built-in formats: csv, tsv, json, parquet and avro.
func Builtin(opts ...fileio.Option) []format.Format {
	return []format.Format{
		csv.New(opts...),
		csv.NewTSV(opts...),
		json.New(opts...),
		parquet.New(opts...),
		avro.New(opts...),
	}
}

// NewRegistry returns a registry holding the built-in formats. The logger
// option, when given, is shared by the registry and every format.
func NewRegistry(opts ...fileio.Option) *format.Registry {
	env := fileio.New(opts...)
	reg := format.NewRegistry(format.WithLogger(env.Logger))
	for _, f := range Builtin(opts...) {
		reg.Add(f)
	}
	return reg
}
