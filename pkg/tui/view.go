package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DrSkyle/campuslab/pkg/campus"
	"github.com/DrSkyle/campuslab/pkg/engine/report"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(titleStyle.Render(report.Title))
	s.WriteString("\n")
	s.WriteString(subtle.Render(" " + report.Subtitle))
	s.WriteString("\n\n")

	if !m.hasFrame {
		if m.err != nil {
			s.WriteString(danger.Render(" Refresh failed: "+m.err.Error()) + "\n")
		} else {
			s.WriteString(fmt.Sprintf("   %s Collecting sensor readings...\n", m.spinner.View()))
		}
		s.WriteString(m.viewFooter())
		return s.String()
	}

	s.WriteString(m.viewCards())
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("Traffic & Mobility"))
	s.WriteString("\n")
	s.WriteString(viewTable(m.frame.Snapshot))
	s.WriteString(sectionStyle.Render("Safety Alerts"))
	s.WriteString("\n")
	s.WriteString(viewAlerts(m.frame.Alerts))
	s.WriteString(sectionStyle.Render("Planning Insights"))
	s.WriteString("\n")
	s.WriteString(viewInsights(m.frame.Insights))
	s.WriteString(m.viewFooter())
	return s.String()
}

func (m Model) viewCards() string {
	metrics := m.frame.Metrics

	occupancy := cardValueStyle.Render(report.FormatOccupancy(metrics))
	pct := 0.0
	if metrics.HasOccupancy() {
		pct = float64(metrics.AvgOccupancy) / 100
	}
	occupancy = lipgloss.JoinVertical(lipgloss.Left, occupancy, m.progress.ViewAs(pct))

	highRisk := cardValueStyle.Render(fmt.Sprint(metrics.HighRiskZones))
	if metrics.HighRiskZones > 0 {
		highRisk = danger.Render(fmt.Sprint(metrics.HighRiskZones))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Footfall", cardValueStyle.Render(fmt.Sprint(metrics.TotalFootfall))),
		card("Avg Occupancy", occupancy),
		card("High Risk Zones", highRisk),
		card("Active Zones", cardValueStyle.Render(fmt.Sprint(metrics.ActiveZones))),
	)
}

func card(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cardLabelStyle.Render(label), value))
}

func viewTable(s campus.Snapshot) string {
	b := strings.Builder{}
	header := fmt.Sprintf("  %-16s %9s %10s %6s  %s", "ZONE", "FOOTFALL", "OCCUPANCY", "POWER", "RISK")
	b.WriteString(subtle.Render(header) + "\n")
	b.WriteString(subtle.Render("  "+strings.Repeat("─", 52)) + "\n")

	for _, r := range s {
		line := fmt.Sprintf("  %-16s %9d %10d %6d  ", r.Zone, r.Footfall, r.Occupancy, r.Power)
		b.WriteString(line + riskStyle(r.Risk).Render(r.Risk.String()) + "\n")
	}
	return b.String()
}

func viewAlerts(alerts []campus.Alert) string {
	b := strings.Builder{}
	for _, a := range alerts {
		b.WriteString("  " + riskIcon(a.Risk).Render() + " " + a.Message + "\n")
	}
	return b.String()
}

func viewInsights(insights []campus.Insight) string {
	if len(insights) == 0 {
		return "  " + subtle.Render(report.NoInsightsText) + "\n"
	}
	b := strings.Builder{}
	for _, in := range insights {
		b.WriteString("  " + iconInfo.Render() + " " + in.Message + "\n")
	}
	return b.String()
}

func (m Model) viewFooter() string {
	status := fmt.Sprintf("cycle %d · refresh every %s · r refresh · q quit", m.cycles, m.interval.Round(time.Second))
	if m.loading && m.hasFrame {
		status = m.spinner.View() + " refreshing · " + status
	}
	if !m.updatedAt.IsZero() {
		status += " · updated " + m.updatedAt.Format("15:04:05")
	}

	lines := []string{highlight.Render(report.Footer), subtle.Render(status)}
	if m.err != nil && m.hasFrame {
		lines = append(lines, warning.Render("last refresh failed: "+m.err.Error()))
	}
	return footerStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func riskStyle(r campus.Risk) lipgloss.Style {
	switch r {
	case campus.RiskHigh:
		return danger
	case campus.RiskMedium:
		return warning
	default:
		return special
	}
}

func riskIcon(r campus.Risk) lipgloss.Style {
	switch r {
	case campus.RiskHigh:
		return iconHigh
	case campus.RiskMedium:
		return iconMedium
	default:
		return iconSafe
	}
}
