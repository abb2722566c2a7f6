// Package cli implements the pandata command line tool.
package cli

import (
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/formats"
	"github.com/vegasq/pandata/formats/fileio"
	"github.com/vegasq/pandata/internal/config"
	"github.com/vegasq/pandata/internal/logging"
)

// Streams are the standard streams of a command invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type app struct {
	streams Streams
	fs      afero.Fs
}

// Option configures the command tree.
type Option func(*app)

// WithFs sets the filesystem files are read from and written to.
func WithFs(fs afero.Fs) Option {
	return func(a *app) { a.fs = fs }
}

// NewRootCommand builds the pandata command tree.
func NewRootCommand(streams Streams, opts ...Option) *cobra.Command {
	a := &app{streams: streams, fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(a)
	}

	root := &cobra.Command{
		Use:   "pandata [FROM_FILE] [TO_FILE]",
		Short: "Convert tabular data between csv, tsv, json, parquet and avro",
		Long: `Convert tabular data between csv, tsv, json, parquet and avro.

Formats are taken from the file extensions unless --from or --to is given.
A missing file argument or "-" reads from stdin or writes to stdout; the
format must then be explicit.`,
		Example: `  pandata data.csv data.parquet
  pandata --from csv - out.json < data.csv
  pandata data.parquet --to csv --limit 10
  pandata data.txt out.csv --from tsv --read-arg quote-char="'"`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runConvert,
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "log debug details to stderr")
	pf.String("log-format", logging.Console, "log encoding: console or json")
	pf.String("config", "", "path to a YAML config file")

	f := root.Flags()
	f.StringP("from", "f", "", "force the input format")
	f.StringP("to", "t", "", "force the output format")
	f.StringArrayP("read-arg", "r", nil, "read option as key=value (repeatable)")
	f.StringArrayP("write-arg", "w", nil, "write option as key=value (repeatable)")
	f.IntP("limit", "n", 0, "convert at most N rows (0 = unlimited)")
	f.String("avro-name", "", "record name for avro output")

	root.AddCommand(a.newFormatsCommand(), a.newSchemaCommand())
	return root
}

// Execute runs the command tree with args.
func Execute(args []string, streams Streams, opts ...Option) error {
	cmd := NewRootCommand(streams, opts...)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// setup loads the configuration and builds the logger and registry.
func (a *app) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, *format.Registry, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.New(a.streams.Err, cfg.Verbose, cfg.LogFormat)
	reg := formats.NewRegistry(fileio.WithFs(a.fs), fileio.WithLogger(logger))
	return cfg, logger, reg, nil
}
