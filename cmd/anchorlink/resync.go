package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	metasynccmd "github.com/goliatone/go-anchorlink/internal/commands/metasync"
	"github.com/goliatone/go-anchorlink/internal/metasync"
)

func newResyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dmg-read-more-resync <id>...",
		Short: "Recompute the read-more flag of existing posts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid post id %q", arg)
				}
				ids = append(ids, id)
			}

			module, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer module.Close()

			out := newPrinter(a.stdout, a.stderr)
			changed := 0
			handler := module.Container().ResyncHandler(metasynccmd.WithReporter(func(id int64, action metasync.Action) {
				if action.Writes() {
					changed++
				}
				_ = out.Line(fmt.Sprintf("%d: %s", id, action))
			}))
			if err := handler.Execute(cmd.Context(), metasynccmd.ResyncPostMetaCommand{PostIDs: ids}); err != nil {
				return err
			}
			return out.Success(fmt.Sprintf("Resynced %d of %d posts.", changed, len(ids)))
		},
	}
}
