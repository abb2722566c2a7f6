// Package format defines the pluggable format capability and the registry
// that routes a conversion through it.
//
// A conversion resolves a format name for each side, looks both names up in a
// Registry, reads the source into a lazy frame.Frame and hands that frame to
// the destination format's Write, which forces the computation:
//
//	reg := format.NewRegistry()
//	reg.Add(csv.New())
//	reg.Add(parquet.New())
//
//	from, _ := format.Resolve("", "data.csv")
//	to, _ := format.Resolve("", "data.parquet")
//	if err := reg.Convert("data.csv", "data.parquet", from, to); err != nil {
//	    log.Fatal(err)
//	}
//
// The registry knows nothing about encodings. Each Format declares the option
// keys it understands (Options) and reads them from the Args bag it receives;
// keys a format does not recognize are ignored.
//
// # Error phases
//
// Unknown format names fail before any file is touched. Formats that parse
// eagerly (csv, tsv, json, avro) report malformed input from Read. Formats
// that scan lazily (parquet) validate the file header in Read and report
// malformed row data from Write, when the frame is collected.
package format

import (
	"github.com/vegasq/pandata/frame"
)

// Format is the capability every encoding implements.
//
// Implementations must be safe for concurrent use: they hold no mutable state
// between calls and every Read or Write opens and closes its own files.
type Format interface {
	// Name is the stable lowercase registry key, also the default extension.
	Name() string

	// ReadOptions lists the Args keys this format's reader and writer
	// understand. It may be empty.
	ReadOptions() Options

	// Read opens path and returns a lazy frame over its contents. It must not
	// modify the file.
	Read(path string, args Args) (*frame.Frame, error)

	// Write creates or truncates path and serializes data into it, forcing
	// the frame. A failed Write may leave a partial file behind.
	Write(path string, args Args, data *frame.Frame) error
}
