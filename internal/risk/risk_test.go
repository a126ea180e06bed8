package risk

import (
	"reflect"
	"testing"

	"github.com/jask/aperture/internal/event"
)

func egressEvent() event.Event {
	return event.Event{
		ID: "pkg1", Seq: 1, Timestamp: 100,
		Type: event.TypePackaging, TraceID: "trace_A", CapsuleID: "cap_1",
		Payload: map[string]any{event.KeyExternalEgress: true, event.KeyEgressDomain: "api.example.com"},
	}
}

func TestEgressWithNoEgressClaimRaisesBothFindings(t *testing.T) {
	findings := Generate([]event.Event{egressEvent()}, true)
	if len(findings) != 2 {
		t.Fatalf("got %d findings, want 2: %+v", len(findings), findings)
	}
	// Critical alignment violation sorts before the high egress finding.
	if findings[0].RuleID != RuleNoEgressLie || findings[0].Severity != SeverityCritical {
		t.Errorf("findings[0] = %s/%s, want %s/critical", findings[0].RuleID, findings[0].Severity, RuleNoEgressLie)
	}
	if findings[1].RuleID != RuleEgress || findings[1].Severity != SeverityHigh {
		t.Errorf("findings[1] = %s/%s, want %s/high", findings[1].RuleID, findings[1].Severity, RuleEgress)
	}
}

func TestNoEgressRuleNeedsTheClaimFlag(t *testing.T) {
	findings := Generate([]event.Event{egressEvent()}, false)
	for _, f := range findings {
		if f.RuleID == RuleNoEgressLie {
			t.Fatal("ALIGN-README-001 must not fire without the claim flag")
		}
	}
	if len(findings) != 1 || findings[0].RuleID != RuleEgress {
		t.Fatalf("findings = %+v, want only %s", findings, RuleEgress)
	}
}

func TestConsentRuleTracksResolvedFlag(t *testing.T) {
	consent := event.Event{
		ID: "c1", Seq: 1, Timestamp: 10, Type: event.TypeConsentRequired,
		Payload: map[string]any{event.KeyScope: event.ScopeExternalAPI},
	}
	findings := Generate([]event.Event{consent}, false)
	if !hasRule(findings, RuleConsent) {
		t.Error("unresolved consent must raise CONSENT-001")
	}
	if !hasRule(findings, RuleScope) {
		t.Error("external-api scope must raise SCOPE-001")
	}

	consent.Resolved = true
	findings = Generate([]event.Event{consent}, false)
	if hasRule(findings, RuleConsent) {
		t.Error("resolved consent must not raise CONSENT-001")
	}
	if !hasRule(findings, RuleScope) {
		t.Error("SCOPE-001 is about the scope, not resolution state")
	}
}

func TestUnverifiedCapsuleNeedsExplicitFalse(t *testing.T) {
	implicit := event.Event{ID: "d1", Seq: 1, Type: event.TypeDepackaging, Payload: map[string]any{}}
	if hasRule(Generate([]event.Event{implicit}, false), RuleUnverified) {
		t.Error("missing verified field must not count as unverified")
	}
	explicit := event.Event{ID: "d2", Seq: 2, Type: event.TypeDepackaging,
		Payload: map[string]any{event.KeyVerified: false}}
	if !hasRule(Generate([]event.Event{explicit}, false), RuleUnverified) {
		t.Error("verified=false must raise CAPSULE-001")
	}
}

func TestNonDeterminismOnIntentEventsOnly(t *testing.T) {
	intent := event.Event{ID: "i1", Seq: 1, Type: event.TypeIntentDetection,
		Payload: map[string]any{event.KeyModel: "intent-ranker-v2"}}
	other := event.Event{ID: "s1", Seq: 2, Type: event.TypeAutomationStep,
		Payload: map[string]any{event.KeyModel: "intent-ranker-v2"}}
	findings := Generate([]event.Event{intent, other}, false)
	if !hasRule(findings, RuleNonDet) {
		t.Error("model id on intent-detection must raise NONDET-001")
	}
	for _, f := range findings {
		if f.RuleID == RuleNonDet && f.EventID != "i1" {
			t.Errorf("NONDET-001 fired on %q, want i1 only", f.EventID)
		}
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	events := []event.Event{
		egressEvent(),
		{ID: "c1", Seq: 2, Timestamp: 100, Type: event.TypeConsentRequired,
			Payload: map[string]any{event.KeyScope: event.ScopeExternalAPI}},
		{ID: "d1", Seq: 3, Timestamp: 90, Type: event.TypeDepackaging,
			Payload: map[string]any{event.KeyVerified: false}},
	}
	first := Generate(events, true)
	second := Generate(events, true)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input must yield identical finding lists")
	}
}

func TestOrderingBreaksTimestampTiesOnSeq(t *testing.T) {
	a := event.Event{ID: "a", Seq: 2, Timestamp: 100, Type: event.TypeConsentRequired}
	b := event.Event{ID: "b", Seq: 1, Timestamp: 100, Type: event.TypeConsentRequired}
	findings := Generate([]event.Event{a, b}, false)
	var consent []Finding
	for _, f := range findings {
		if f.RuleID == RuleConsent {
			consent = append(consent, f)
		}
	}
	if len(consent) != 2 || consent[0].EventID != "b" || consent[1].EventID != "a" {
		t.Fatalf("same-severity findings must tie-break on seq, got %+v", consent)
	}
}

func hasRule(findings []Finding, ruleID string) bool {
	for _, f := range findings {
		if f.RuleID == ruleID {
			return true
		}
	}
	return false
}
