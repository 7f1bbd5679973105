package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Future-Glass Palette
	colorNeonGreen  = lipgloss.Color("#00FF99") // Low risk / Success
	colorNeonPurple = lipgloss.Color("#874BFD") // Header / Border
	colorTextMain   = lipgloss.Color("#E2E8F0") // Main Text
	colorTextSub    = lipgloss.Color("#64748B") // Subtext
	colorDanger     = lipgloss.Color("#FF0055") // High risk
	colorWarning    = lipgloss.Color("#F59E0B") // Medium risk

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	highlight = lipgloss.NewStyle().Foreground(colorNeonPurple).Bold(true)
	special   = lipgloss.NewStyle().Foreground(colorNeonGreen).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warning   = lipgloss.NewStyle().Foreground(colorWarning)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorNeonPurple).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorTextMain).
			Bold(true).
			Underline(true).
			MarginTop(1).
			PaddingLeft(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTextSub).
			Padding(0, 2).
			Margin(0, 1)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(colorTextSub).
			Bold(true)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(colorNeonGreen).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorTextSub).
			MarginTop(1).
			PaddingLeft(1)

	// Icon Styles (Text Based - No Emojis)
	iconHigh   = lipgloss.NewStyle().Foreground(colorDanger).SetString("[HIGH]")
	iconMedium = lipgloss.NewStyle().Foreground(colorWarning).SetString("[MED] ")
	iconSafe   = lipgloss.NewStyle().Foreground(colorNeonGreen).SetString("[SAFE]")
	iconInfo   = lipgloss.NewStyle().Foreground(colorNeonPurple).SetString("[INFO]")
)
