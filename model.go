package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/aperture/internal/align"
	"github.com/jask/aperture/internal/config"
	"github.com/jask/aperture/internal/event"
	"github.com/jask/aperture/internal/focus"
	"github.com/jask/aperture/internal/layout"
	"github.com/jask/aperture/internal/risk"
	"github.com/jask/aperture/internal/scenario"
)

// model is the bubbletea state for the dashboard. All engine results are
// recomputed from the revealed event list on every change; the only engine
// state the app persists is the focus stickiness record.
type model struct {
	cfg  config.Config
	scen scenario.Scenario

	// script is the full scenario; events is the revealed prefix, sharing
	// the same backing array so consent resolution is visible in both.
	script []event.Event
	events []event.Event

	filter event.Filter
	stick  focus.Stickiness

	// Derived per recompute, all from the filtered view…
	visible    []event.Event
	focusState focus.State
	findings   []risk.Finding
	rows       []align.Row
	spec       layout.Spec
	// …except the consent banner, which is deliberately computed on the
	// unfiltered list so a filter can never hide a pending decision.
	global focus.State

	playing bool
	width   int
	height  int
	status  string
	keys    keyMap

	cursor   int // timeline selection within visible
	topIndex int

	showDrawer bool
	picking    bool
	picker     pickerState
}

type tickMsg time.Time

func newModel(cfg config.Config) (model, error) {
	name := cfg.Playback.Scenario
	if name == "" {
		name = scenario.DefaultName
	}
	scen, ok := scenario.Load(name)
	if !ok {
		return model{}, fmt.Errorf("unknown scenario %q (have %v)", name, scenario.Names())
	}

	// Config may override parts of the declared claim set for what-if runs.
	if len(cfg.Claims.IngressKinds) > 0 {
		scen.Claims.IngressKinds = cfg.Claims.IngressKinds
	}
	if len(cfg.Claims.EgressKinds) > 0 {
		scen.Claims.EgressKinds = cfg.Claims.EgressKinds
	}
	if len(cfg.Claims.AllowedEgressDomains) > 0 {
		scen.Claims.AllowedEgressDomains = cfg.Claims.AllowedEgressDomains
	}

	var seq event.Sequencer
	script := scen.Events(&seq)

	m := model{
		cfg:     cfg,
		scen:    scen,
		script:  script,
		events:  script[:0],
		stick:   focus.Stickiness{Threshold: cfg.Engine.StickinessThreshold},
		playing: cfg.Playback.Autoplay,
		status:  "Scenario: " + scen.Title,
		keys:    newKeyMap(),
	}
	m.recompute()
	return m, nil
}

func (m model) Init() tea.Cmd {
	if m.playing {
		return m.tickCmd()
	}
	return nil
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(time.Duration(m.cfg.Playback.TickMs)*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// reveal appends the next scripted event to the live view. The tick only
// delivers events; their order and timestamps come from the scenario.
func (m *model) reveal() bool {
	if len(m.events) >= len(m.script) {
		return false
	}
	m.events = m.script[:len(m.events)+1]
	return true
}

// recompute reruns the whole engine pipeline without advancing the
// stickiness record, so resizes and filter edits are idempotent: the
// hysteresis window only burns down when the event list itself changes.
// Everything except the global consent banner runs on the filtered view.
func (m *model) recompute() {
	m.visible = m.filter.Apply(m.events)
	m.focusState, _ = focus.Compute(m.visible, m.stick)
	m.rederive()
}

// eventsChanged advances the stickiness record and rederives everything.
// Only a changed event list, a new reveal or a consent flip, may call this;
// the elapsed-event counter counts events, not renders.
func (m *model) eventsChanged() {
	m.visible = m.filter.Apply(m.events)
	m.focusState, m.stick = focus.Compute(m.visible, m.stick)
	m.rederive()
}

// rederive recomputes everything downstream of the focus decision.
func (m *model) rederive() {
	m.findings = risk.Generate(m.visible, m.scen.Claims.NoExternalEgress)
	m.rows = align.ComputeAlignment(m.scen.Claims, align.ComputeObservations(m.visible))
	m.global, _ = focus.Compute(m.events, focus.Stickiness{Threshold: m.stick.Threshold})
	m.spec = layout.Compute(m.focusState, layout.Viewport{Width: m.width, Height: m.height})
	m.ensureCursorInWindow()
}

// traces returns the distinct trace ids seen so far, in first-seen order.
func (m *model) traces() []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range m.events {
		if !seen[e.TraceID] {
			seen[e.TraceID] = true
			out = append(out, e.TraceID)
		}
	}
	return out
}

// cycleTrace advances the trace filter: all → each trace → all.
func (m *model) cycleTrace() {
	traces := m.traces()
	if len(traces) == 0 {
		return
	}
	current := m.filter.TraceID
	if current == "" || current == event.TraceAll {
		m.filter.TraceID = traces[0]
		return
	}
	for i, tr := range traces {
		if tr == current {
			if i+1 < len(traces) {
				m.filter.TraceID = traces[i+1]
			} else {
				m.filter.TraceID = event.TraceAll
			}
			return
		}
	}
	m.filter.TraceID = event.TraceAll
}

// toggleDomain flips one domain in the filter set.
func (m *model) toggleDomain(d event.Domain) {
	if m.filter.Domains == nil {
		m.filter.Domains = map[event.Domain]bool{}
		for _, dom := range event.Domains() {
			m.filter.Domains[dom] = true
		}
	}
	m.filter.Domains[d] = !m.filter.Domains[d]
	// All domains enabled is the same as no filter; drop the map so the
	// status line reads clean again.
	all := true
	for _, dom := range event.Domains() {
		if !m.filter.Domains[dom] {
			all = false
			break
		}
	}
	if all {
		m.filter.Domains = nil
	}
}

// resolveAnchoredConsent resolves the consent the global banner points at.
func (m *model) resolveAnchoredConsent() bool {
	if !m.global.Override {
		return false
	}
	return event.Resolve(m.events, m.global.EventID)
}

func (m *model) filterLabel() string {
	trace := m.filter.TraceID
	if trace == "" {
		trace = event.TraceAll
	}
	if m.filter.Domains == nil {
		return trace
	}
	n := 0
	for _, on := range m.filter.Domains {
		if on {
			n++
		}
	}
	return fmt.Sprintf("%s · %d/%d domains", trace, n, len(event.Domains()))
}
