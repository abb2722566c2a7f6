package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vegasq/pandata/output"
)

func (a *app) newFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported formats and their read options",
		Args:  cobra.NoArgs,
		RunE:  a.runFormats,
	}
	cmd.Flags().StringP("output", "o", "table", "output format: "+strings.Join(output.Names(), ", "))
	return cmd
}

func (a *app) runFormats(cmd *cobra.Command, _ []string) error {
	cfg, logger, reg, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	formatter, err := output.New(cfg.Output, a.streams.Out)
	if err != nil {
		return err
	}

	listing := output.Listing{Columns: []string{"name", "read_options"}}
	for _, f := range reg.Formats() {
		listing.Rows = append(listing.Rows, []any{f.Name(), strings.Join(f.ReadOptions().Sorted(), ",")})
	}
	return formatter.Format(listing)
}
