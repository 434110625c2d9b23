package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/addup/internal/live"
)

func newLiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Edit text interactively with a running sum",
		Long: `Open a terminal editor that re-sums its contents on every keystroke and
charts the running total line by line. The final sum is printed on exit.

Keys:
  ctrl+y  copy the sum to the clipboard
  esc     quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			model, err := live.NewModel(a.settings(cmd), a.clipboard)
			if err != nil {
				return err
			}
			summary, err := live.Run(cmd.Context(), model, os.Stdin, a.stderr)
			if err != nil {
				return err
			}
			return a.presenter(false, true).Summary(summary)
		},
	}
	addSettingsFlags(cmd)
	return cmd
}
