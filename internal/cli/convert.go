package cli

import (
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vegasq/pandata/format"
	"github.com/vegasq/pandata/frame"
	"github.com/vegasq/pandata/internal/config"
)

// stdio is the path argument naming stdin or stdout.
const stdio = "-"

func argAt(args []string, i int) string {
	if i < len(args) && args[i] != "" {
		return args[i]
	}
	return stdio
}

// writePairs appends the avro record name after the explicit write args, so
// an explicit name= wins.
func writePairs(cfg *config.Config) []string {
	if cfg.AvroName == "" {
		return cfg.WriteArgs
	}
	return slices.Concat(cfg.WriteArgs, []string{"name=" + cfg.AvroName})
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger, reg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fromPath, toPath := argAt(args, 0), argAt(args, 1)

	fromFormat, ok := format.Resolve(cfg.From, fromPath)
	if !ok {
		return &format.ResolutionError{Side: format.Source, Path: fromPath}
	}
	toFormat, ok := format.Resolve(cfg.To, toPath)
	if !ok {
		return &format.ResolutionError{Side: format.Destination, Path: toPath}
	}

	// Unknown names fail before stdin is consumed.
	if _, ok := reg.Lookup(fromFormat); !ok {
		return &format.UnknownFormatError{Side: format.Source, Name: fromFormat}
	}
	if _, ok := reg.Lookup(toFormat); !ok {
		return &format.UnknownFormatError{Side: format.Destination, Name: toFormat}
	}

	readArgs, err := format.ArgsFromPairs(cfg.ReadArgs...)
	if err != nil {
		return err
	}
	writeArgs, err := format.ArgsFromPairs(writePairs(cfg)...)
	if err != nil {
		return err
	}

	logger.Debug("resolved formats",
		zap.String("from", fromFormat),
		zap.String("to", toFormat),
		zap.Strings("read_args", readArgs.Keys()),
		zap.Strings("write_args", writeArgs.Keys()),
	)

	src := fromPath
	if fromPath == stdio {
		spooled, err := a.spoolIn()
		if err != nil {
			return err
		}
		defer a.remove(spooled, logger)
		src = spooled
	}

	dst := toPath
	if toPath == stdio {
		dst = a.spoolPath()
		defer a.remove(dst, logger)
	}

	var transforms []format.Transform
	if cfg.Limit > 0 {
		limit := cfg.Limit
		transforms = append(transforms, func(f *frame.Frame) *frame.Frame { return f.Limit(limit) })
	}

	err = reg.ConvertWith(
		format.Endpoint{Path: src, Format: fromFormat, Args: readArgs},
		format.Endpoint{Path: dst, Format: toFormat, Args: writeArgs},
		transforms...,
	)
	if err != nil {
		return err
	}

	if toPath == stdio {
		return a.spoolOut(dst)
	}
	return nil
}
