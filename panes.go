package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/aperture/internal/event"
	"github.com/jask/aperture/internal/focus"
	"github.com/jask/aperture/internal/layout"
)

func panelTitle(p focus.Panel) string {
	switch p {
	case focus.PanelTimeline:
		return "Timeline"
	case focus.PanelExtraction:
		return "Extraction"
	case focus.PanelAutomation:
		return "Automation"
	case focus.PanelCapsule:
		return "Capsule"
	case focus.PanelIntent:
		return "Intent"
	case focus.PanelConsent:
		return "Consent"
	case focus.PanelAttestation:
		return "Attestation"
	}
	return string(p)
}

func panelDomain(p focus.Panel) (event.Domain, bool) {
	for _, d := range event.Domains() {
		if focus.PanelForDomain(d) == p {
			return d, true
		}
	}
	return "", false
}

func eventLine(e event.Event, width int, selected bool) string {
	marker := " "
	if e.Type == event.TypeConsentRequired {
		if e.Resolved {
			marker = "✓"
		} else {
			marker = "!"
		}
	}
	line := fmt.Sprintf("%s %3d  %-20s %s", marker, e.Seq, string(e.Type), e.TraceID)
	line = truncate(line, width)
	if selected {
		return lipgloss.NewStyle().Foreground(colorMantle).Background(colorAccent).Render(padRight(line, width))
	}
	if e.Type == event.TypeConsentRequired && !e.Resolved {
		return lipgloss.NewStyle().Foreground(colorError).Render(line)
	}
	return line
}

// renderTimeline lists the filtered events with cursor windowing. The same
// body serves both the sidebar and the strip; only the frame differs.
func (m model) renderTimeline(width, rows int) string {
	innerWidth := width - paneStyle.GetHorizontalFrameSize()
	if innerWidth < 8 {
		innerWidth = 8
	}
	header := titleStyle.Render(truncate(fmt.Sprintf("Timeline · %d/%d", len(m.visible), len(m.events)), innerWidth))
	var lines []string
	lines = append(lines, header)
	if len(m.visible) == 0 {
		lines = append(lines, dimStyle.Render("no events match the filter"))
	}
	end := m.topIndex + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for i := m.topIndex; i < end; i++ {
		lines = append(lines, eventLine(m.visible[i], innerWidth, i == m.cursor))
	}
	if end < len(m.visible) {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("… %d more", len(m.visible)-end)))
	}
	return paneStyle.Width(innerWidth).Render(strings.Join(lines, "\n"))
}

// renderFocus draws the primary attention panel. Consent gets a decision
// prompt; attestation is always shown as pending, never as verified.
func (m model) renderFocus(width, height int) string {
	innerWidth := width - focusPaneStyle.GetHorizontalFrameSize()
	if innerWidth < 10 {
		innerWidth = 10
	}
	style := focusPaneStyle.Width(innerWidth)
	if height > focusPaneStyle.GetVerticalFrameSize()+2 {
		style = style.Height(height - focusPaneStyle.GetVerticalFrameSize())
	}
	st := m.focusState

	var lines []string
	title := "Focus · " + panelTitle(st.Panel)
	if st.StickinessApplied {
		title += " (held)"
	}
	lines = append(lines, titleStyle.Foreground(colorFocus).Render(truncate(title, innerWidth)))
	lines = append(lines, dimStyle.Render(truncate(st.Reason, innerWidth)))

	if st.Panel == focus.PanelConsent && st.Override {
		lines = append(lines,
			"",
			lipgloss.NewStyle().Foreground(colorError).Bold(true).Render("Decision required before execution continues."),
			fmt.Sprintf("Pending consents: %d", st.UnresolvedConsents),
		)
		if e, ok := findEvent(m.events, st.EventID); ok {
			if scope := e.Str(event.KeyScope); scope != "" {
				lines = append(lines, "Scope: "+scope)
			}
			lines = append(lines, "Trace: "+e.TraceID)
		}
		lines = append(lines, "", dimStyle.Render("press r to resolve"))
		return style.Render(strings.Join(lines, "\n"))
	}

	if e, ok := findEvent(m.visible, st.EventID); ok {
		lines = append(lines, "")
		lines = append(lines, m.describeEvent(e, innerWidth)...)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m model) describeEvent(e event.Event, width int) []string {
	var out []string
	out = append(out, truncate(fmt.Sprintf("#%d %s @%d", e.Seq, string(e.Type), e.Timestamp), width))
	out = append(out, truncate("trace "+e.TraceID, width))
	if e.CapsuleID != "" {
		out = append(out, truncate("capsule "+e.CapsuleID, width))
	}
	switch e.Type {
	case event.TypeAttestation:
		out = append(out, lipgloss.NewStyle().Foreground(colorWarning).Render("attestation: PENDING (verification not implemented)"))
	case event.TypeDepackaging:
		if e.Has(event.KeyVerified) && !e.Bool(event.KeyVerified) {
			out = append(out, lipgloss.NewStyle().Foreground(colorError).Render("integrity: unverified capsule"))
		}
	case event.TypePackaging:
		if e.Bool(event.KeyExternalEgress) {
			out = append(out, lipgloss.NewStyle().Foreground(colorError).Render("external egress → "+e.Str(event.KeyEgressDomain)))
		}
	case event.TypeIntentDetection:
		if name := e.Str(event.KeyModel); name != "" {
			out = append(out, "model "+name)
		}
		if intent := e.Str(event.KeyDetectedIntent); intent != "" {
			out = append(out, truncate("intent "+intent, width))
		}
	}
	return out
}

// panelSummary is the compact per-domain body used by the secondary panels.
func (m model) panelSummary(p focus.Panel, width int) string {
	d, ok := panelDomain(p)
	if !ok {
		return dimStyle.Render("—")
	}
	count := 0
	var last event.Event
	for _, e := range m.visible {
		if e.Domain() == d {
			count++
			last = e
		}
	}
	if count == 0 {
		return dimStyle.Render("no activity")
	}
	lines := []string{fmt.Sprintf("%d event(s)", count)}
	if p == focus.PanelAttestation {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorWarning).Render("all pending"))
	} else {
		lines = append(lines, truncate(fmt.Sprintf("last: #%d %s", last.Seq, string(last.Type)), width))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderSecondary(width int) string {
	switch m.spec.Secondary.Mode {
	case layout.SecondaryMinimized:
		return m.renderSecondaryMinimized(width)
	case layout.SecondaryTabbed:
		return m.renderSecondaryTabbed(width)
	}
	return m.renderSecondaryGrid(width)
}

func (m model) renderSecondaryGrid(width int) string {
	order := m.spec.Secondary.Order
	cols := 3
	cellWidth := width/cols - paneStyle.GetHorizontalFrameSize()
	if cellWidth < 12 {
		cellWidth = 12
	}
	var rows []string
	for i := 0; i < len(order); i += cols {
		var cells []string
		for j := i; j < i+cols && j < len(order); j++ {
			p := order[j]
			style := paneStyle
			if p == m.focusState.Panel {
				style = focusPaneStyle
			}
			body := titleStyle.Render(panelTitle(p)) + "\n" + m.panelSummary(p, cellWidth)
			cells = append(cells, style.Width(cellWidth).Render(body))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func (m model) renderSecondaryTabbed(width int) string {
	order := m.spec.Secondary.Order
	var tabs []string
	for _, p := range order {
		label := panelTitle(p)
		if p == order[0] {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(label))
		} else {
			tabs = append(tabs, dimStyle.Render(label))
		}
	}
	innerWidth := width - paneStyle.GetHorizontalFrameSize()
	if innerWidth < 12 {
		innerWidth = 12
	}
	body := truncate(strings.Join(tabs, " │ "), innerWidth) + "\n\n" + m.panelSummary(order[0], innerWidth)
	return paneStyle.Width(innerWidth).Render(body)
}

func (m model) renderSecondaryMinimized(width int) string {
	var chips []string
	for _, p := range m.spec.Secondary.Order {
		chips = append(chips, chipStyle.Render(panelTitle(p)))
	}
	return truncate(strings.Join(chips, " "), width)
}

// renderAlignment draws the claims-versus-observations table.
func (m model) renderAlignment(width int) string {
	innerWidth := width - paneStyle.GetHorizontalFrameSize()
	if innerWidth < 20 {
		innerWidth = 20
	}
	lines := []string{titleStyle.Render("Claims vs. Observations")}
	for _, r := range m.rows {
		badge := lipgloss.NewStyle().Foreground(statusColor(r.Status)).Bold(true).Render(string(r.Status))
		line := fmt.Sprintf("%-14s %-24s claimed: %-16s observed: %s", badge, r.Label, r.Claimed, r.Observed)
		lines = append(lines, truncate(line, innerWidth))
	}
	return paneStyle.Width(innerWidth).Render(strings.Join(lines, "\n"))
}

// renderDrawer is the risk-findings overlay body.
func (m model) renderDrawer() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Risk Findings (%d)", len(m.findings)))}
	if len(m.findings) == 0 {
		lines = append(lines, "", dimStyle.Render("no findings for the current view"))
	}
	for _, f := range m.findings {
		sev := lipgloss.NewStyle().Foreground(severityColor(f.Severity)).Bold(true).Render(f.Severity.String())
		lines = append(lines, "", fmt.Sprintf("%s  %s  %s", sev, f.RuleID, f.Title))
		lines = append(lines, dimStyle.Render(f.Detail))
		lines = append(lines, dimStyle.Render(fmt.Sprintf("trace %s · event %s", f.TraceID, f.EventID)))
	}
	lines = append(lines, "", dimStyle.Render("esc to close"))
	return strings.Join(lines, "\n")
}

// renderPicker is the fuzzy domain-filter overlay body.
func (m model) renderPicker() string {
	lines := []string{
		titleStyle.Render("Filter Domains"),
		"› " + m.picker.query + "█",
		"",
	}
	for i, c := range m.picker.candidates() {
		var line string
		if c.isTrace {
			marker := "  "
			if m.filter.TraceID == c.trace {
				marker = "● "
			}
			line = fmt.Sprintf("%strace %s", marker, c.label)
		} else {
			enabled := m.filter.Domains == nil || m.filter.Domains[c.domain]
			box := "[ ]"
			if enabled {
				box = "[x]"
			}
			line = fmt.Sprintf("%s %s", box, c.label)
		}
		if i == m.picker.cursor {
			line = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", dimStyle.Render("enter selects · esc closes"))
	return strings.Join(lines, "\n")
}

func findEvent(events []event.Event, id string) (event.Event, bool) {
	for _, e := range events {
		if e.ID == id {
			return e, true
		}
	}
	return event.Event{}, false
}
