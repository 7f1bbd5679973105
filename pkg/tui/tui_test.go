package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

type stubCycler struct {
	calls int
	frame campus.Frame
	err   error
}

func (c *stubCycler) Cycle(context.Context) (campus.Frame, error) {
	c.calls++
	return c.frame, c.err
}

func frameOf(readings ...campus.ZoneReading) campus.Frame {
	var insights []campus.Insight
	for _, r := range readings {
		if campus.NeedsUpgrade(r) {
			insights = append(insights, campus.Insight{Zone: r.Zone, Rule: "infrastructure-upgrade", Message: "Consider infrastructure upgrade near " + r.Zone.String()})
		}
	}
	return campus.NewFrame("frame-test", time.Now(), campus.Snapshot(readings), insights)
}

// deliver runs msg through Update and returns the new model.
func deliver(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTUI_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		frame    campus.Frame
		want     []string
		dontWant []string
	}{
		{
			name: "Mixed risk with upgrade",
			frame: frameOf(
				campus.NewReading(campus.MainGate, 250, 88, 71),
				campus.NewReading(campus.HostelArea, 95, 42, 33),
				campus.NewReading(campus.AcademicBlock, 180, 67, 55),
				campus.NewReading(campus.Cafeteria, 210, 100, 90),
			),
			want: []string{
				"Campus Living Lab AI", "Total Footfall", "735", "Avg Occupancy", "74%",
				"High Risk Zones", "Active Zones", "Traffic & Mobility",
				"High crowd risk at Main Gate", "Hostel Area is safe", "Moderate crowding at Academic Block",
				"Consider infrastructure upgrade near Main Gate", "Campus as a Living Lab",
			},
			dontWant: []string{"upgrade near Cafeteria", "No upgrades needed"},
		},
		{
			name: "Quiet campus",
			frame: frameOf(
				campus.NewReading(campus.MainGate, 60, 30, 20),
				campus.NewReading(campus.Cafeteria, 120, 31, 20),
			),
			want:     []string{"Main Gate is safe", "Cafeteria is safe", "No upgrades needed right now", "30%"},
			dontWant: []string{"[HIGH]", "[INFO]"},
		},
		{
			name:  "Empty snapshot",
			frame: frameOf(),
			want:  []string{"n/a", "Active Zones", "No upgrades needed right now"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model := NewModel(context.Background(), &stubCycler{}, 20*time.Second)
			model, _ = deliver(t, model, frameMsg{frame: tc.frame, at: time.Now()})
			view := model.View()

			for _, w := range tc.want {
				if !strings.Contains(view, w) {
					t.Errorf("[%s] FAIL: Expected view to contain '%s'.\nGot:\n%s", tc.name, w, view)
				}
			}
			for _, dw := range tc.dontWant {
				if strings.Contains(view, dw) {
					t.Errorf("[%s] FAIL: Expected view NOT to contain '%s'.\nGot:\n%s", tc.name, dw, view)
				}
			}
		})
	}
}

func TestTUI_LoadingState(t *testing.T) {
	model := NewModel(context.Background(), &stubCycler{}, 20*time.Second)
	view := model.View()

	if !strings.Contains(view, "Collecting sensor readings") {
		t.Errorf("Expected loading message, got:\n%s", view)
	}
	if model.Init() == nil {
		t.Error("Init should start the first cycle")
	}
}

func TestTUI_FetchRunsCycle(t *testing.T) {
	c := &stubCycler{frame: frameOf(campus.NewReading(campus.MainGate, 100, 50, 50))}
	model := NewModel(context.Background(), c, time.Second)

	msg := model.fetch()()
	fm, ok := msg.(frameMsg)
	if !ok {
		t.Fatalf("Expected frameMsg, got %T", msg)
	}
	if c.calls != 1 || fm.frame.ID != "frame-test" {
		t.Errorf("Unexpected fetch result: calls=%d frame=%+v", c.calls, fm.frame)
	}
}

func TestTUI_TickSequencing(t *testing.T) {
	model := NewModel(context.Background(), &stubCycler{}, 20*time.Second)

	model, cmd := deliver(t, model, frameMsg{frame: frameOf(), at: time.Now()})
	if cmd == nil {
		t.Fatal("A frame should schedule the next tick")
	}
	pending := model.seq

	// Manual refresh invalidates the pending tick.
	model, cmd = deliver(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil || !model.loading {
		t.Fatal("'r' should start a refresh")
	}

	// A second 'r' while loading is ignored.
	if _, cmd := deliver(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}); cmd != nil {
		t.Error("'r' during a refresh should be ignored")
	}

	model, _ = deliver(t, model, frameMsg{frame: frameOf(), at: time.Now()})
	if model.loading {
		t.Fatal("Frame should clear loading")
	}

	if _, cmd := deliver(t, model, tickMsg{seq: pending}); cmd != nil {
		t.Error("Stale tick should be dropped")
	}

	model, cmd = deliver(t, model, tickMsg{seq: model.seq})
	if cmd == nil || !model.loading {
		t.Error("Current tick should start a refresh")
	}
	if model.Cycles() != 2 {
		t.Errorf("Expected 2 cycles, got %d", model.Cycles())
	}
}

func TestTUI_ErrorKeepsLastFrame(t *testing.T) {
	model := NewModel(context.Background(), &stubCycler{}, time.Second)
	good := frameOf(campus.NewReading(campus.Cafeteria, 230, 90, 80))

	model, _ = deliver(t, model, frameMsg{frame: good, at: time.Now()})
	model, _ = deliver(t, model, frameMsg{err: errors.New("sensor offline")})

	view := model.View()
	if !strings.Contains(view, "High crowd risk at Cafeteria") {
		t.Errorf("Last good frame should stay on screen:\n%s", view)
	}
	if !strings.Contains(view, "sensor offline") {
		t.Errorf("Refresh error should be shown:\n%s", view)
	}
}

func TestTUI_Quit(t *testing.T) {
	model := NewModel(context.Background(), &stubCycler{}, time.Second)

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		next, cmd := deliver(t, model, key)
		if cmd == nil || !next.quitting {
			t.Errorf("%q should quit", key.String())
		}
		if msg := cmd(); msg != tea.Quit() {
			t.Errorf("%q should return tea.Quit, got %T", key.String(), msg)
		}
	}
}

func TestPrintExitSummary(t *testing.T) {
	model := NewModel(context.Background(), &stubCycler{}, time.Second)
	model, _ = deliver(t, model, frameMsg{frame: frameOf(campus.NewReading(campus.MainGate, 201, 60, 40)), at: time.Now()})

	var buf bytes.Buffer
	PrintExitSummary(&buf, model)
	out := buf.String()

	for _, want := range []string{"Cycles:   1", "frame-test", "Footfall 201", "High risk 1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary missing %q:\n%s", want, out)
		}
	}
}
