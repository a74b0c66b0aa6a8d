package main

import (
	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit receipts interactively",
		Long: `Open the interactive receipt browser.

Navigate the list, select receipts, edit fields inline, and adjust
the date range with a calendar. Press ? inside the browser for keys.`,
	}
	resolveRange := rangeFlags(cmd)

	cmd.RunE = func(c *cobra.Command, _ []string) error {
		backend, err := initBackend()
		if err != nil {
			return err
		}

		r, err := resolveRange()
		if err != nil {
			return err
		}

		return tui.Run(c.Context(),
			tui.WithBackend(backend),
			tui.WithDateRange(r),
		)
	}
	return cmd
}
