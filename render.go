package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/aperture/internal/layout"
)

func (m model) View() string {
	if m.width == 0 {
		return "starting aperture…"
	}

	header := m.renderHeader()
	banner := m.renderConsentBanner()
	body := m.renderBody()

	sections := []string{header}
	if banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, body)
	base := strings.Join(sections, "\n")

	statusLine := m.renderStatusLine()
	footer := m.renderFooter()

	if m.picking {
		return m.composeOverlay(base, statusLine, footer, m.renderPicker())
	}
	if m.showDrawer {
		return m.composeOverlay(base, statusLine, footer, m.renderDrawer())
	}
	return m.placeWithFooter(base, statusLine, footer)
}

func (m model) renderHeader() string {
	left := titleStyle.Foreground(colorAccent).Render("aperture") + dimStyle.Render(" · "+m.scen.Title)
	progress := chipStyle.Render(fmt.Sprintf("%d/%d", len(m.events), len(m.script)))
	state := chipStyle.Render("paused")
	if m.playing {
		state = lipgloss.NewStyle().Foreground(colorMantle).Background(colorSuccess).Padding(0, 1).Render("playing")
	}
	right := progress + " " + state
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderConsentBanner reflects the unfiltered focus decision, so a trace or
// domain filter can never hide a pending consent from the operator.
func (m model) renderConsentBanner() string {
	if !m.global.Override {
		return ""
	}
	text := fmt.Sprintf("⚠ CONSENT REQUIRED — %d pending · press r to resolve", m.global.UnresolvedConsents)
	return bannerStyle.Width(m.width).Render(truncate(text, m.width-4))
}

func (m model) renderBody() string {
	timelineRows := m.timelineVisibleRows()

	if m.spec.Timeline.Mode == layout.TimelineStrip {
		main := m.renderMainColumn(m.width)
		strip := m.renderTimeline(m.width, timelineRows)
		return lipgloss.JoinVertical(lipgloss.Left, main, strip)
	}

	sidebarWidth := m.spec.Timeline.Width
	mainWidth := m.width - sidebarWidth
	if mainWidth < 20 {
		mainWidth = 20
	}
	sidebar := m.renderTimeline(sidebarWidth, timelineRows)
	main := m.renderMainColumn(mainWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// renderMainColumn stacks the focus panel, the secondary panels, and the
// alignment table. FocusHeightRatio shifts weight toward the focus panel
// when a consent decision is pending.
func (m model) renderMainColumn(width int) string {
	focusHeight := 0
	if m.height > 0 {
		focusHeight = int(m.spec.FocusHeightRatio * float64(m.height-4))
	}
	focusPane := m.renderFocus(width, focusHeight)
	secondary := m.renderSecondary(width)
	alignment := m.renderAlignment(width)
	return lipgloss.JoinVertical(lipgloss.Left, focusPane, secondary, alignment)
}

func (m model) renderStatusLine() string {
	parts := []string{m.status, "filter: " + m.filterLabel()}
	if n := len(m.findings); n > 0 {
		parts = append(parts, fmt.Sprintf("findings: %d", n))
	}
	return statusBarStyle.Width(m.width).Render(truncate(strings.Join(parts, "  ·  "), m.width-4))
}

func (m model) renderFooter() string {
	bindings := m.keys.ShortHelp()
	if m.picking {
		bindings = pickerKeyMap{m.keys}.ShortHelp()
	}
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Width(m.width).Render(truncate(strings.Join(parts, "  ·  "), m.width-4))
}
