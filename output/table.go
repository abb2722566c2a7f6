package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter outputs a listing as an aligned text table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the listing with a header row
func (t *TableFormatter) Format(l Listing) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(l.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range l.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatValue(v)
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
