package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/pandata/frame"
)

// CSVFormatter outputs a listing as CSV with a header row
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the listing as CSV
func (c *CSVFormatter) Format(l Listing) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(l.Columns); err != nil {
		return err
	}

	record := make([]string, len(l.Columns))
	for _, row := range l.Rows {
		for i := range record {
			record[i] = formatValue(row[i])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// formatValue converts a value to string for text output
func formatValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return frame.FormatValue(v)
	}

	// Sanitize against CSV injection by prefixing characters that trigger
	// formula execution in spreadsheet applications
	if len(s) > 0 {
		switch s[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(s, "'", "''")
		}
	}
	return s
}
