package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DrSkyle/campuslab/pkg/config"
	"github.com/DrSkyle/campuslab/pkg/engine"
	"github.com/DrSkyle/campuslab/pkg/version"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings config.Settings

	logFile *os.File
}

// Execute runs the CLI and exits non-zero on error. SIGINT and SIGTERM
// cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "[ERROR]", err)
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:   "campuslab",
		Short: "Campus living-lab dashboard",
		Long: `Campus Living Lab - footfall, occupancy and power for every campus zone.

Simulated sensor readings are classified for crowd risk, summarised and
refreshed on an interval.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	d := config.Default()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default ~/.campuslab.yaml)")
	pf.Duration("interval", d.Interval, "Refresh interval")
	pf.Uint64("seed", 0, "Random seed for reproducible readings (0 = random)")
	pf.Bool("json-logs", false, "Emit JSON logs")
	pf.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("otel-endpoint", "", "OTLP HTTP endpoint for traces")
	pf.Bool("no-telemetry", false, "Disable OpenTelemetry tracing")
	a.bindFlags(pf, map[string]string{
		"interval":      "interval",
		"seed":          "seed",
		"json_logs":     "json-logs",
		"log_level":     "log-level",
		"log_file":      "log-file",
		"otel_endpoint": "otel-endpoint",
		"no_telemetry":  "no-telemetry",
	})

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderFutureGlassHelp(cmd)
	})

	rootCmd.AddCommand(
		newWatchCmd(a),
		newSnapshotCmd(a),
		newExportCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

// bindFlags maps viper keys to flag names.
func (a *app) bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		// Lookup cannot fail for flags defined above.
		_ = a.v.BindPFlag(key, fs.Lookup(flag))
	}
}

func (a *app) initConfig() error {
	path, explicit := a.cfgFile, a.cfgFile != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".campuslab.yaml")
		}
	}
	if path != "" {
		if err := config.ReadFile(a.v, path, explicit); err != nil {
			return err
		}
	}

	s, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = s
	return nil
}

// logger builds the process logger. Logs go to --log-file when set,
// otherwise to fallback.
func (a *app) logger(fallback io.Writer) (*slog.Logger, error) {
	w := fallback
	if a.settings.LogFile != "" {
		f, err := os.OpenFile(a.settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		w = f
	}
	logger, err := engine.NewLogger(w, a.settings.LogLevel, a.settings.JSONLogs)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func (a *app) newEngine(ctx context.Context, logger *slog.Logger) (*engine.Engine, error) {
	return engine.New(ctx,
		engine.WithLogger(logger),
		engine.WithConfig(engine.Config{
			Seed:          a.settings.Seed,
			OtelEndpoint:  a.settings.OTelEndpoint,
			SkipTelemetry: a.settings.NoTelemetry,
			Logger:        logger,
		}),
	)
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// closeEngine flushes telemetry with a fresh context since ctx may already
// be cancelled by a signal.
func closeEngine(eng *engine.Engine, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := eng.Close(ctx); err != nil {
		logger.Warn("Telemetry flush failed", "error", err)
	}
}

func renderFutureGlassHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("CAMPUS LIVING LAB %s", version.Current)))
	fmt.Fprintln(out, version.Tagline)
	fmt.Fprintln(out)

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, flagStyle.Render(line))
	})
	fmt.Fprintln(out)
}
