// Package main implements the addup CLI.
//
// addup sums the numbers found in free-form text. Each file argument is one
// selection; with no arguments the selection is read from stdin.
//
// Usage:
//
//	# Sum a file
//	addup sum notes.txt
//
//	# Sum piped text and copy the result
//	pbpaste | addup sum --clipboard
//
//	# Explain why tokens were or were not counted
//	addup check '$1,000.--' '12/31'
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/addup/internal/config"
	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/logging"
	"github.com/fyrsmithlabs/addup/internal/numscan"
	"github.com/fyrsmithlabs/addup/internal/source"
	"github.com/fyrsmithlabs/addup/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

const instrumentationName = "github.com/fyrsmithlabs/addup/cmd/addup"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, newApp(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// app carries the process-wide state shared by every subcommand.
type app struct {
	// Flags on the root command.
	configPath string
	logLevel   string

	reader    *source.Reader
	stdout    io.Writer
	stderr    io.Writer
	clipboard display.Clipboard

	// Set up by the persistent pre-run.
	cfg    *config.Config
	logger *logging.Logger
	tel    *telemetry.Telemetry
}

func newApp() *app {
	return &app{
		reader:    source.NewReader(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		clipboard: display.SystemClipboard{},
		logger:    logging.Nop(),
	}
}

// execute runs the command tree once and releases telemetry and logger
// resources afterwards, whether or not the command failed.
func execute(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	defer a.close()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "addup",
		Short: "Sum the numbers in selected text",
		Long: `addup extracts plausible numbers from free-form text and adds them up.

Currency symbols, brackets, quotes, thousands separators and trailing dash
runs ("100.--") are understood. Tokens that look like dates, percentages,
addresses or arithmetic are skipped.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/addup/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newSumCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newLiveCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger and telemetry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithFile(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	logCfg, err := logging.FromAppConfig(cfg.Logging)
	if err != nil {
		return err
	}
	logCfg.Sink = zapcore.AddSync(a.stderr)

	var provider otellog.LoggerProvider
	if cfg.Telemetry.Enabled {
		logCfg.Output.OTEL = true
		provider = global.GetLoggerProvider()
	}
	logger, err := logging.NewLogger(logCfg, provider)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	tel, err := telemetry.New(cmd.Context(), telemetry.FromAppConfig(cfg.Telemetry, version),
		telemetry.WithLogger(logger.Underlying().Named("telemetry")))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.tel = tel

	logger.Debug(cmd.Context(), "addup starting",
		zap.String("command", cmd.Name()),
		zap.String("version", version),
		zap.Bool("telemetry", tel.IsEnabled()))
	return nil
}

func (a *app) close() {
	if a.tel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tel.Shutdown(ctx); err != nil {
			a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// settings returns the configured precision context with any command-line
// overrides applied.
func (a *app) settings(cmd *cobra.Command) numscan.Settings {
	settings := a.cfg.Scan.Settings()
	flags := cmd.Flags()
	if flags.Changed("max-precision") {
		if p, err := flags.GetUint32("max-precision"); err == nil {
			settings.MaxPrecision = p
		}
	}
	if flags.Changed("no-scientific") {
		if off, err := flags.GetBool("no-scientific"); err == nil && off {
			settings.Scientific = false
		}
	}
	return settings
}

// newScanner builds a scanner wired to the logger, tracer and observers.
func (a *app) newScanner(ctx context.Context, settings numscan.Settings, observers ...numscan.Observer) (*numscan.Scanner, error) {
	opts := []numscan.Option{
		numscan.WithLogger(a.logger.Underlying().With(zap.String("scan.id", logging.ScanIDFromContext(ctx)))),
		numscan.WithTracer(a.tel.Tracer(instrumentationName)),
	}
	for _, obs := range observers {
		opts = append(opts, numscan.WithObserver(obs))
	}
	return numscan.NewScanner(settings, opts...)
}

func (a *app) presenter(jsonOut bool, noColor bool) *display.Presenter {
	return display.NewPresenter(a.stdout, a.stderr, display.Options{
		JSON:  jsonOut,
		Color: a.cfg.Display.Color && !noColor,
	})
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "addup by Fyrsmith Labs\n")
			fmt.Fprintf(a.stdout, "Version:    %s\n", version)
			fmt.Fprintf(a.stdout, "Commit:     %s\n", gitCommit)
			fmt.Fprintf(a.stdout, "Build Date: %s\n", buildDate)
		},
	}
}
