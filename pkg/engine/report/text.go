package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// Dashboard copy shared by every surface.
const (
	Title          = "Campus Living Lab AI"
	Subtitle       = "Turning campuses into living labs for traffic, utilities, safety & planning"
	Footer         = "Campus as a Living Lab"
	NoInsightsText = "No upgrades needed right now"
)

// FormatOccupancy renders the average occupancy card value.
func FormatOccupancy(m campus.Metrics) string {
	if !m.HasOccupancy() {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", m.AvgOccupancy)
}

// WriteText writes a plain-text rendering of the frame, used in headless mode.
func WriteText(w io.Writer, frame campus.Frame) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n", Title, Subtitle)
	fmt.Fprintf(&b, "Frame %s at %s\n\n", frame.ID, frame.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	m := frame.Metrics
	fmt.Fprintf(&b, "Total Footfall: %d | Avg Occupancy: %s | High Risk Zones: %d | Active Zones: %d\n\n",
		m.TotalFootfall, FormatOccupancy(m), m.HighRiskZones, m.ActiveZones)

	b.WriteString("Traffic & Mobility\n")
	fmt.Fprintf(&b, "%-16s %9s %10s %6s  %s\n", "Zone", "Footfall", "Occupancy", "Power", "Risk")
	for _, r := range frame.Snapshot {
		fmt.Fprintf(&b, "%-16s %9d %10d %6d  %s\n", r.Zone, r.Footfall, r.Occupancy, r.Power, r.Risk)
	}

	b.WriteString("\nSafety Alerts\n")
	for _, a := range frame.Alerts {
		fmt.Fprintf(&b, "  [%-6s] %s\n", strings.ToUpper(a.Risk.String()), a.Message)
	}

	b.WriteString("\nPlanning Insights\n")
	if len(frame.Insights) == 0 {
		fmt.Fprintf(&b, "  %s\n", NoInsightsText)
	}
	for _, in := range frame.Insights {
		fmt.Fprintf(&b, "  - %s\n", in.Message)
	}

	fmt.Fprintf(&b, "\n%s\n", Footer)

	_, err := io.WriteString(w, b.String())
	return err
}
