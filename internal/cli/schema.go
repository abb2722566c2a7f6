package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/output"
)

func (a *app) newSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema FILE",
		Short: "Print the columns of a file",
		Long: `Print the columns of a file.

Parquet and avro report the stored physical and logical types without
decoding any rows. Text formats are read in full and report the inferred
types.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runSchema,
	}
	f := cmd.Flags()
	f.StringP("from", "f", "", "force the input format")
	f.StringArrayP("read-arg", "r", nil, "read option as key=value (repeatable)")
	f.StringP("output", "o", "table", "output format: "+strings.Join(output.Names(), ", "))
	return cmd
}

func (a *app) runSchema(cmd *cobra.Command, args []string) error {
	cfg, logger, reg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	path := argAt(args, 0)
	name, ok := format.Resolve(cfg.From, path)
	if !ok {
		return &format.ResolutionError{Side: format.Source, Path: path}
	}
	f, ok := reg.Lookup(name)
	if !ok {
		return &format.UnknownFormatError{Side: format.Source, Name: name}
	}

	readArgs, err := format.ArgsFromPairs(cfg.ReadArgs...)
	if err != nil {
		return err
	}

	formatter, err := output.New(cfg.Output, a.streams.Out)
	if err != nil {
		return err
	}

	if path == stdio {
		spooled, err := a.spoolIn()
		if err != nil {
			return err
		}
		defer a.remove(spooled, logger)
		path = spooled
	}

	var columns []format.ColumnInfo
	if d, ok := f.(format.Describer); ok {
		columns, err = d.Describe(path, readArgs)
	} else {
		columns, err = inferColumns(f, path, readArgs)
	}
	if err != nil {
		return err
	}
	logger.Debug("described file", zap.String("format", name), zap.Int("columns", len(columns)))

	listing := output.Listing{Columns: []string{"name", "type", "physical_type", "logical_type", "nullable"}}
	for _, c := range columns {
		listing.Rows = append(listing.Rows, []any{c.Name, c.Type.String(), c.Physical, c.Logical, c.Nullable})
	}
	return formatter.Format(listing)
}

// inferColumns reads the whole file and reports the resulting column types.
// The physical type is the format name, since text formats store none.
func inferColumns(f format.Format, path string, args format.Args) ([]format.ColumnInfo, error) {
	data, err := f.Read(path, args)
	if err != nil {
		return nil, err
	}
	t, err := data.Collect()
	if err != nil {
		return nil, err
	}

	columns := make([]format.ColumnInfo, t.Width())
	for i, c := range t.Columns() {
		columns[i] = format.ColumnInfo{
			Name:     c.Name(),
			Type:     c.Type(),
			Physical: f.Name(),
			Nullable: c.NullCount() > 0,
		}
	}
	return columns, nil
}
