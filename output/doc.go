// Package output provides formatters for the listings the CLI prints: the
// registered formats and the schema of a file.
//
// This package defines the Formatter interface and provides implementations
// for an aligned text table, JSON Lines, YAML and CSV. All formatters work
// with a Listing: ordered column names plus rows of values.
//
// # Supported Formats
//
//   - table: aligned columns with a header (the default for terminals)
//   - json: One JSON object per line, keys in column order
//   - yaml: a sequence of mappings, keys in column order
//   - csv: Comma-separated values with header row
//
// # Basic Usage
//
//	formatter, err := output.New("table", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	return formatter.Format(output.Listing{
//	    Columns: []string{"name", "type"},
//	    Rows:    [][]any{{"id", "INT64"}},
//	})
//
// # Type Handling
//
// Values are rendered with the same text form the delimited formats use:
// floats always carry a fraction, nil is empty in text output and null in
// JSON and YAML. CSV and table output prefix values that a spreadsheet would
// treat as a formula with a single quote.
package output
