package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/DrSkyle/campuslab/pkg/engine"
	"github.com/DrSkyle/campuslab/pkg/engine/report"
	"github.com/DrSkyle/campuslab/pkg/engine/scheduler"
	"github.com/DrSkyle/campuslab/pkg/tui"
)

const telemetryFlushTimeout = 5 * time.Second

func newWatchCmd(a *app) *cobra.Command {
	var (
		headless bool
		cycles   int
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live terminal dashboard",
		Long: `Run the dashboard in the terminal, refreshing every --interval.

Keys: r refreshes now, q quits. With --headless a plain-text frame is
printed to stdout on every cycle instead.`,
		Example: `  campuslab watch
  campuslab watch --interval 5s
  campuslab watch --headless --cycles 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if headless {
				return a.runHeadless(ctx, out, cmd.ErrOrStderr(), cycles)
			}
			return a.runTUI(ctx, out)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Print plain-text frames instead of the interactive UI")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "Stop after this many cycles in headless mode (0 = run until interrupted)")
	return cmd
}

func (a *app) runTUI(ctx context.Context, out io.Writer) error {
	// The alt screen owns the terminal, so logs only go to --log-file.
	logger, err := a.logger(io.Discard)
	if err != nil {
		return err
	}
	eng, err := a.newEngine(ctx, logger)
	if err != nil {
		return err
	}
	defer closeEngine(eng, logger)

	p := tea.NewProgram(tui.NewModel(ctx, eng, a.settings.Interval), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	if m, ok := final.(tui.Model); ok {
		tui.PrintExitSummary(out, m)
	}
	return nil
}

func (a *app) runHeadless(ctx context.Context, out, logOut io.Writer, limit int) error {
	logger, err := a.logger(logOut)
	if err != nil {
		return err
	}
	eng, err := a.newEngine(ctx, logger)
	if err != nil {
		return err
	}
	defer closeEngine(eng, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	task := headlessTask(eng, out, limit, cancel)
	sched, err := scheduler.New(a.settings.Interval, task, scheduler.WithLogger(logger))
	if err != nil {
		return err
	}

	err = sched.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// headlessTask prints one frame per cycle and cancels after limit frames
// when limit is positive.
func headlessTask(eng *engine.Engine, out io.Writer, limit int, cancel context.CancelFunc) scheduler.Task {
	printed := 0
	return func(ctx context.Context) error {
		frame, err := eng.Cycle(ctx)
		if err != nil {
			return err
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		if err := report.WriteText(out, frame); err != nil {
			return err
		}
		printed++
		if limit > 0 && printed >= limit {
			cancel()
		}
		return nil
	}
}
