package output

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter outputs a listing as a YAML sequence of mappings
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// SetOutput sets the output writer
func (y *YAMLFormatter) SetOutput(w io.Writer) {
	y.writer = w
}

// Format writes the listing as one YAML document. Mapping keys keep the
// column order.
func (y *YAMLFormatter) Format(l Listing) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range l.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range l.Columns {
			value := &yaml.Node{}
			if err := value.Encode(row[i]); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: col}, value)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(y.writer)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
