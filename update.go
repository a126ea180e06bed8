package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/aperture/internal/event"
	"github.com/jask/aperture/internal/layout"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// A resize re-plans the layout only; the focus decision and the
		// stickiness counter track events, not renders.
		m.width = msg.Width
		m.height = msg.Height
		m.spec = layout.Compute(m.focusState, layout.Viewport{Width: m.width, Height: m.height})
		m.ensureCursorInWindow()
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.reveal() {
			m.eventsChanged()
			return m, m.tickCmd()
		}
		m.playing = false
		m.status = "Scenario complete."
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.playing = !m.playing
		if m.playing {
			m.status = "Playing."
			return m, m.tickCmd()
		}
		m.status = "Paused."
		return m, nil

	case key.Matches(msg, m.keys.Step):
		m.playing = false
		if m.reveal() {
			m.eventsChanged()
			m.status = "Stepped one event."
		} else {
			m.status = "Scenario complete."
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		fresh, err := newModel(m.cfg)
		if err != nil {
			m.status = "Restart failed: " + err.Error()
			return m, nil
		}
		fresh.width = m.width
		fresh.height = m.height
		fresh.recompute()
		return fresh, fresh.Init()

	case key.Matches(msg, m.keys.Resolve):
		if m.resolveAnchoredConsent() {
			m.eventsChanged()
			m.status = "Consent resolved."
		} else {
			m.status = "No pending consent."
		}
		return m, nil

	case key.Matches(msg, m.keys.Trace):
		m.cycleTrace()
		m.recompute()
		m.status = "Filter: " + m.filterLabel()
		return m, nil

	case key.Matches(msg, m.keys.Picker):
		m.picking = true
		m.picker = newPickerState(m.traces())
		return m, nil

	case key.Matches(msg, m.keys.Drawer):
		m.showDrawer = !m.showDrawer
		return m, nil

	case key.Matches(msg, m.keys.Close):
		m.showDrawer = false
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorInWindow()
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureCursorInWindow()
		}
		return m, nil
	}
	return m, nil
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Only ctrl+c quits here; "q" is query text while the picker is open.
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Close) {
		m.picking = false
		return m, nil
	}

	switch msg.String() {
	case "up":
		m.picker.moveCursor(-1)
		return m, nil
	case "down":
		m.picker.moveCursor(1)
		return m, nil
	case "enter", " ":
		if c, ok := m.picker.selected(); ok {
			if c.isTrace {
				// Selecting the active trace again clears the jump.
				if m.filter.TraceID == c.trace {
					m.filter.TraceID = event.TraceAll
				} else {
					m.filter.TraceID = c.trace
				}
			} else {
				m.toggleDomain(c.domain)
			}
			m.recompute()
			m.status = "Filter: " + m.filterLabel()
		}
		return m, nil
	case "backspace":
		m.picker.backspace()
		return m, nil
	default:
		m.picker.typeRune(msg.String())
		return m, nil
	}
}
