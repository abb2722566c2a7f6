package format

import "github.com/vegasq/pandata/frame"

// ColumnInfo describes one stored column in the terms of its own format next
// to the intermediate type it reads as.
type ColumnInfo struct {
	Name     string         `json:"name" yaml:"name"`
	Type     frame.DataType `json:"type" yaml:"type"`
	Physical string         `json:"physical_type" yaml:"physical_type"`
	Logical  string         `json:"logical_type,omitempty" yaml:"logical_type,omitempty"`
	Nullable bool           `json:"nullable" yaml:"nullable"`
}

// Describer is implemented by formats that carry a schema in the file itself
// and can report it without decoding any rows.
type Describer interface {
	Describe(path string, args Args) ([]ColumnInfo, error)
}
