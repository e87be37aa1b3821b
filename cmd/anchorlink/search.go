package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-anchorlink/internal/commands"
	searchcmd "github.com/goliatone/go-anchorlink/internal/commands/search"
)

func newSearchCmd(a *app) *cobra.Command {
	var msg searchcmd.ReadMoreSearchCommand

	cmd := &cobra.Command{
		Use:   "dmg-read-more-search",
		Short: "List posts flagged with the DMG anchor link block",
		Long: `Lists the IDs of posts carrying the dmg-read-more flag whose last
modification falls within the date range. Without dates the last 30 days are
searched; --date-before alone searches the 30 days before it.`,
		Example: `  anchorlink dmg-read-more-search
  anchorlink dmg-read-more-search --date-after=01-01-2024 --date-before=31-01-2024
  anchorlink dmg-read-more-search --post-type=post,page,product`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, cfg, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			msg.Layout = cfg.Search.DateLayout
			opts := []commands.HandlerOption[searchcmd.ReadMoreSearchCommand]{
				commands.WithTimeout[searchcmd.ReadMoreSearchCommand](0),
			}
			if a.verbose {
				logger := commands.CommandLogger(module.Container().LoggerProvider(), "search")
				opts = append(opts, commands.WithTelemetry(commands.LogTelemetry[searchcmd.ReadMoreSearchCommand](logger)))
			}
			handler := module.Container().SearchHandler(newPrinter(a.stdout, a.stderr), opts...)
			return handler.Execute(cmd.Context(), msg)
		},
	}

	cmd.Flags().StringVar(&msg.DateBefore, "date-before", "", "Upper bound, dd-mm-yyyy (defaults to today)")
	cmd.Flags().StringVar(&msg.DateAfter, "date-after", "", "Lower bound, dd-mm-yyyy (defaults to 30 days before date-before)")
	cmd.Flags().StringVar(&msg.PostType, "post-type", "", "Comma separated post types (defaults to post,page)")
	return cmd
}
