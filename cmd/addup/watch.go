package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/logging"
	"github.com/fyrsmithlabs/addup/internal/source"
)

const watchSource = "watch"

func newWatchCmd(a *app) *cobra.Command {
	var (
		jsonOut  bool
		noColor  bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-sum a file every time it changes",
		Long: `Print the sum of a file now and again after every write, until interrupted.

Examples:
  addup watch budget.txt
  addup watch --debounce 1s --json budget.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wait := a.cfg.Watch.Debounce.Duration()
			if cmd.Flags().Changed("debounce") {
				wait = debounce
			}

			w, err := source.NewWatcher(args[0], wait, a.logger.Underlying().Named("watch"))
			if err != nil {
				return err
			}

			settings := a.settings(cmd)
			presenter := a.presenter(jsonOut, noColor)
			a.logger.Info(cmd.Context(), "watching", zap.String("path", w.Path()), zap.Duration("debounce", wait))

			return w.Run(cmd.Context(), func(ctx context.Context, b source.Block) error {
				ctx = logging.WithSource(logging.WithScanID(ctx, ""), watchSource)
				scanner, err := a.newScanner(ctx, settings)
				if err != nil {
					return err
				}
				summary, err := scanner.Summarize(ctx, []string{b.Text})
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("scan of %s failed: %w", b.Name, err)
				}
				return presenter.Summary(summary)
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print summaries as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable styled output")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period after a write before re-scanning (default from watch.debounce)")
	addSettingsFlags(cmd)
	return cmd
}
