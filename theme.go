package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/aperture/internal/align"
	"github.com/jask/aperture/internal/risk"
)

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorMaroon   lipgloss.Color = "#eba0ac"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorSky      lipgloss.Color = "#89dceb"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 2)
	footerStyle    = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface1).Padding(0, 2)
	paneStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorOverlay1).Padding(0, 1)
	focusPaneStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFocus).Padding(0, 1)
	bannerStyle    = lipgloss.NewStyle().Foreground(colorMantle).Background(colorError).Bold(true).Padding(0, 2)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorAccent).Padding(0, 1)
	dimStyle       = lipgloss.NewStyle().Foreground(colorSubtext0)
	chipStyle      = lipgloss.NewStyle().Foreground(colorSubtext0).Background(colorSurface0).Padding(0, 1)
)

// severityColor maps a finding severity onto the palette.
func severityColor(s risk.Severity) lipgloss.Color {
	switch s {
	case risk.SeverityCritical:
		return colorError
	case risk.SeverityHigh:
		return colorMaroon
	case risk.SeverityMedium:
		return colorPeach
	case risk.SeverityLow:
		return colorYellow
	}
	return colorInfo
}

// statusColor maps an alignment verdict onto the palette.
func statusColor(s align.Status) lipgloss.Color {
	switch s {
	case align.StatusMatch:
		return colorSuccess
	case align.StatusMismatch:
		return colorError
	case align.StatusUnknown:
		return colorYellow
	}
	return colorSubtext0
}
