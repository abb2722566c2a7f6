// Package parquet implements the parquet format.
//
// Reading is lazy. Read opens the file, validates the footer and checks that
// every column can be represented, then returns a Frame; row groups are only
// decoded when the Frame is collected, so corrupt pages surface from Collect
// (and therefore from the Write of whatever format consumes the Frame). Each
// row group becomes one chunk of the resulting table.
//
// # Type Mapping
//
// On read, physical types map to frame types as follows:
//
//	BOOLEAN                      -> BOOLEAN
//	INT32, INT64                 -> INT64
//	FLOAT, DOUBLE                -> FLOAT64
//	BYTE_ARRAY, FIXED_LEN, INT96 -> STRING (UUID logical types are formatted)
//
// Nested groups are flattened into leaf columns named with dot notation
// (e.g. "address.street"). Repeated columns have no flat representation and
// are rejected as malformed input.
//
// On write, every column is optional. Parquet groups order their fields by
// name, so the original column order and any NULL column types are kept in
// the "pandata.columns" key/value metadata and restored on read.
//
// # Options
//
// Write understands "compression" (none, snappy, gzip, zstd; default zstd)
// and "row-group-size" (maximum rows per row group).
//
// The package uses github.com/parquet-go/parquet-go for the underlying
// parquet file operations.
package parquet
