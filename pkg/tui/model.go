// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// Cycler produces a new frame per call. *engine.Engine satisfies it.
type Cycler interface {
	Cycle(ctx context.Context) (campus.Frame, error)
}

type Model struct {
	// core components
	spinner  spinner.Model
	progress progress.Model
	cycler   Cycler
	ctx      context.Context
	interval time.Duration

	// state
	frame    campus.Frame
	hasFrame bool
	loading  bool
	quitting bool
	err      error
	width    int

	// metrics
	cycles    int
	startTime time.Time
	updatedAt time.Time

	// seq tags the pending refresh tick; ticks from before a manual refresh
	// carry an old seq and are dropped.
	seq int
}

type tickMsg struct{ seq int }

type frameMsg struct {
	frame campus.Frame
	err   error
	at    time.Time
}

func NewModel(ctx context.Context, c Cycler, interval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = special

	prog := progress.New(progress.WithGradient("#00FF99", "#00CCFF"), progress.WithWidth(20))

	return Model{
		spinner:   s,
		progress:  prog,
		cycler:    c,
		ctx:       ctx,
		interval:  interval,
		loading:   true,
		startTime: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// fetch runs one cycle off the UI goroutine.
func (m Model) fetch() tea.Cmd {
	c, ctx := m.cycler, m.ctx
	return func() tea.Msg {
		frame, err := c.Cycle(ctx)
		return frameMsg{frame: frame, err: err, at: time.Now()}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	seq := m.seq
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.seq++
			return m, m.fetch()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		m.loading = false
		m.cycles++
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.frame = msg.frame
			m.hasFrame = true
			m.updatedAt = msg.at
		}
		m.seq++
		return m, m.scheduleTick()

	case tickMsg:
		if msg.seq != m.seq || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

// Frame returns the frame currently on screen.
func (m Model) Frame() (campus.Frame, bool) {
	return m.frame, m.hasFrame
}

// Cycles returns how many refreshes completed, including failed ones.
func (m Model) Cycles() int {
	return m.cycles
}

// Err returns the error from the latest refresh, if it failed.
func (m Model) Err() error {
	return m.err
}
