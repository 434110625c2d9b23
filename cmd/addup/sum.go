package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/logging"
	"github.com/fyrsmithlabs/addup/internal/metrics"
	"github.com/fyrsmithlabs/addup/internal/source"
)

const cliSource = "cli"

type sumOptions struct {
	clipboard   bool
	json        bool
	noColor     bool
	profile     bool
	metricsFile string
}

func newSumCmd(a *app) *cobra.Command {
	var opts sumOptions

	cmd := &cobra.Command{
		Use:   "sum [file|-]...",
		Short: "Sum the numbers in files or stdin",
		Long: `Scan each argument as one selection and print the sum of every number found.

With no arguments, or with "-", the selection is read from stdin.

Examples:
  # Sum a file
  addup sum invoice.txt

  # Sum two files and stdin, in that order
  cat extra.txt | addup sum a.txt b.txt -

  # Copy the result and print JSON
  addup sum --clipboard --json report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSum(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.clipboard, "clipboard", false, "copy the result to the clipboard (default from display.clipboard)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable styled output")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "print elapsed time to stderr")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	addSettingsFlags(cmd)
	return cmd
}

// addSettingsFlags registers the precision overrides shared by scanning
// commands.
func addSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32("max-precision", 0, "significant digits kept; longer numbers are skipped (default from scan.max_precision)")
	cmd.Flags().Bool("no-scientific", false, "reject exponents such as 7.5E-12")
}

func (a *app) runSum(cmd *cobra.Command, args []string, opts sumOptions) error {
	start := time.Now()

	blocks, err := a.reader.Read(args)
	if err != nil {
		if errors.Is(err, source.ErrNoInput) {
			return err
		}
		return fmt.Errorf("failed to read input: %w", err)
	}

	ctx := logging.WithSource(logging.WithScanID(cmd.Context(), ""), cliSource)
	a.logger.Debug(ctx, "scanning", zap.String("blocks", source.Names(blocks)))

	m := metrics.New()
	scanner, err := a.newScanner(ctx, a.settings(cmd), m)
	if err != nil {
		return err
	}

	scanStart := time.Now()
	summary, err := scanner.Summarize(ctx, source.Texts(blocks))
	if err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}
	m.RecordScan(cliSource, summary, time.Since(scanStart))

	presenter := a.presenter(opts.json, opts.noColor)
	if err := presenter.Summary(summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	copyResult := a.cfg.Display.Clipboard
	if cmd.Flags().Changed("clipboard") {
		copyResult = opts.clipboard
	}
	if copyResult {
		if err := display.Copy(a.clipboard, summary.DisplayString); err != nil {
			a.logger.Warn(ctx, "clipboard copy failed", zap.Error(err))
		}
	}

	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics file: %w", err)
		}
	}

	if opts.profile {
		presenter.Profile(time.Since(start))
	}
	return nil
}
