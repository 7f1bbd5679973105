package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/campuslab/pkg/engine/report"
)

// PrintExitSummary prints a short recap once the program has exited.
func PrintExitSummary(w io.Writer, m Model) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorNeonPurple).
		Padding(0, 2)

	lines := []string{
		highlight.Render(report.Title + " session"),
		fmt.Sprintf("Cycles:   %d", m.Cycles()),
		fmt.Sprintf("Duration: %s", time.Since(m.startTime).Round(time.Second)),
	}

	if f, ok := m.Frame(); ok {
		lines = append(lines,
			fmt.Sprintf("Last frame: %s", f.ID),
			fmt.Sprintf("Footfall %d · Occupancy %s · High risk %d/%d",
				f.Metrics.TotalFootfall, report.FormatOccupancy(f.Metrics), f.Metrics.HighRiskZones, f.Metrics.ActiveZones),
		)
	}
	if err := m.Err(); err != nil {
		lines = append(lines, danger.Render("Last error: "+err.Error()))
	}

	fmt.Fprintln(w, box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
