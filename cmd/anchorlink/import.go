package main

import (
	"fmt"

	"github.com/spf13/cobra"

	importcmd "github.com/goliatone/go-anchorlink/internal/commands/importer"
	"github.com/goliatone/go-anchorlink/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		pattern     string
		dryRun      bool
		noRecursive bool
	)

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import markdown documents as posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, cfg, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			out := newPrinter(a.stdout, a.stderr)
			handler := module.Container().ImportHandler(importcmd.WithReporter(func(report *importer.Report) {
				for _, item := range report.Items {
					line := fmt.Sprintf("%s %s -> %d", item.Action, item.Path, item.PostID)
					switch {
					case item.Target > 0:
						line += fmt.Sprintf(" (read more -> %d)", item.Target)
					case item.ReadMore:
						line += " (read more)"
					}
					_ = out.Line(line)
				}
			}))

			msg := importcmd.ImportMarkdownCommand{
				Directory: args[0],
				Pattern:   pattern,
				Recursive: cfg.Import.Recursive && !noRecursive,
				DryRun:    dryRun,
			}
			if err := handler.Execute(cmd.Context(), msg); err != nil {
				return err
			}
			if dryRun {
				return out.Info("Dry run: nothing was written.")
			}
			return out.Success("Import finished.")
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob applied to file names (defaults to the configured pattern)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned changes without writing")
	cmd.Flags().BoolVar(&noRecursive, "no-recursive", false, "Only import the top level of dir")
	return cmd
}
