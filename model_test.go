package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/aperture/internal/config"
	"github.com/jask/aperture/internal/event"
	"github.com/jask/aperture/internal/focus"
)

func testConfig(scenario string) config.Config {
	return config.Config{
		Playback: config.PlaybackConfig{Scenario: scenario, TickMs: 50},
		Engine:   config.EngineConfig{StickinessThreshold: 2},
	}
}

func revealAll(m *model) {
	for m.reveal() {
		m.eventsChanged()
	}
}

func TestNewModelUnknownScenarioFails(t *testing.T) {
	if _, err := newModel(testConfig("does-not-exist")); err == nil {
		t.Fatalf("expected error for unknown scenario")
	}
}

func TestRevealAdvancesOneEventAtATime(t *testing.T) {
	m, err := newModel(testConfig("clean-run"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if len(m.events) != 0 {
		t.Fatalf("expected empty reveal at start, got %d", len(m.events))
	}
	for i := 1; i <= len(m.script); i++ {
		if !m.reveal() {
			t.Fatalf("reveal returned false at %d of %d", i, len(m.script))
		}
		if len(m.events) != i {
			t.Fatalf("expected %d revealed, got %d", i, len(m.events))
		}
	}
	if m.reveal() {
		t.Fatalf("reveal past the end should return false")
	}
}

func TestCycleTraceVisitsEachTraceThenAll(t *testing.T) {
	m, err := newModel(testConfig("consent-gate"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	revealAll(&m)

	traces := m.traces()
	if len(traces) < 2 {
		t.Fatalf("consent-gate should span multiple traces, got %v", traces)
	}
	for _, want := range traces {
		m.cycleTrace()
		if m.filter.TraceID != want {
			t.Fatalf("expected trace %q, got %q", want, m.filter.TraceID)
		}
	}
	m.cycleTrace()
	if m.filter.TraceID != event.TraceAll {
		t.Fatalf("expected cycle back to %q, got %q", event.TraceAll, m.filter.TraceID)
	}
}

func TestToggleDomainNormalizesAllEnabledToNil(t *testing.T) {
	m, err := newModel(testConfig("clean-run"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.toggleDomain(event.DomainConsent)
	if m.filter.Domains == nil {
		t.Fatalf("expected explicit domain map after first toggle")
	}
	if m.filter.Domains[event.DomainConsent] {
		t.Fatalf("toggled domain should be disabled")
	}
	m.toggleDomain(event.DomainConsent)
	if m.filter.Domains != nil {
		t.Fatalf("re-enabling the last disabled domain should clear the map")
	}
}

func TestResolveAnchoredConsentClearsBanner(t *testing.T) {
	m, err := newModel(testConfig("consent-gate"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	revealAll(&m)

	if !m.global.Override {
		t.Fatalf("consent-gate should end with a pending consent")
	}
	if !m.resolveAnchoredConsent() {
		t.Fatalf("resolve should succeed while a consent is pending")
	}
	m.eventsChanged()
	if m.global.Override {
		t.Fatalf("banner should clear after resolving the anchored consent")
	}
	if m.resolveAnchoredConsent() {
		t.Fatalf("second resolve should find nothing pending")
	}
}

func TestResizeDoesNotReleaseFocusLock(t *testing.T) {
	m, err := newModel(testConfig("clean-run"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	m.width, m.height = 120, 40

	// Reveal through the packaging event so focus locks on capsule.
	for i := 0; i < 4; i++ {
		if !m.reveal() {
			t.Fatalf("scenario shorter than expected at event %d", i)
		}
		m.eventsChanged()
	}
	if m.focusState.Panel != focus.PanelCapsule {
		t.Fatalf("setup: panel = %s, want capsule", m.focusState.Panel)
	}
	if m.stick.EventsSince != 0 {
		t.Fatalf("setup: elapsed counter = %d, want 0", m.stick.EventsSince)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 130, Height: 42})
	m = next.(model)
	next, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	if m.stick.EventsSince != 0 {
		t.Fatalf("resizes advanced the elapsed counter to %d", m.stick.EventsSince)
	}

	// The trailing low-priority attestation event must still be held out.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(model)
	if m.focusState.Panel != focus.PanelCapsule || !m.focusState.StickinessApplied {
		t.Fatalf("resizes alone must not release the lock, got %+v", m.focusState)
	}
}

func TestConfigClaimOverridesReplaceScenarioClaims(t *testing.T) {
	cfg := testConfig("egress-violation")
	cfg.Claims.AllowedEgressDomains = []string{"api.example.com"}
	m, err := newModel(cfg)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if got := m.scen.Claims.AllowedEgressDomains; len(got) != 1 || got[0] != "api.example.com" {
		t.Fatalf("expected overridden allow-list, got %v", got)
	}
	// Ingress kinds were not overridden, so the scenario's own claim stands.
	if len(m.scen.Claims.IngressKinds) == 0 {
		t.Fatalf("untouched claim fields should keep scenario values")
	}
}

func TestFilterLabelReportsDomainCount(t *testing.T) {
	m, err := newModel(testConfig("clean-run"))
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	if got := m.filterLabel(); got != event.TraceAll {
		t.Fatalf("default label should be %q, got %q", event.TraceAll, got)
	}
	m.toggleDomain(event.DomainCapsule)
	got := m.filterLabel()
	if !strings.Contains(got, "5/6 domains") {
		t.Fatalf("expected domain count in label, got %q", got)
	}
}
