package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedFormat is returned by New for an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Listing is a small ordered table: the CLI's format list or a file schema.
type Listing struct {
	Columns []string
	Rows    [][]any
}

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a listing in the formatter's
// specific format and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the listing in the formatter's specific format
	Format(l Listing) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Names lists the formats New accepts.
func Names() []string {
	return []string{"csv", "json", "table", "yaml"}
}

// New returns the formatter registered under name, writing to w.
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table":
		return NewTableFormatter(w), nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "yaml":
		return NewYAMLFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedFormat, name, strings.Join(Names(), ", "))
	}
}
