// Package scenario provides the scripted demo sequences that seed the
// dashboard until a live feed exists. Every sequence is fully deterministic:
// logical timestamps come from the script, sequence numbers from the
// caller's sequencer, and ids from stable v5 UUIDs, so replaying a scenario
// reproduces byte-identical engine output.
package scenario

import (
	"fmt"

	"github.com/jask/aperture/internal/align"
	"github.com/jask/aperture/internal/event"
)

type step struct {
	typ     event.Type
	at      int64 // ms offset from scenario start
	trace   string
	capsule string
	payload map[string]any
}

// Scenario is one scripted run with the claim set its README would declare.
type Scenario struct {
	Name   string
	Title  string
	Claims align.ClaimSet
	steps  []step
}

// Events materialises the script, drawing sequence numbers from seq.
func (s Scenario) Events(seq *event.Sequencer) []event.Event {
	out := make([]event.Event, 0, len(s.steps))
	for i, st := range s.steps {
		e := event.Event{
			ID:        event.NewID(fmt.Sprintf("%s/%03d", s.Name, i)),
			Seq:       seq.Next(),
			Type:      st.typ,
			Timestamp: st.at,
			TraceID:   st.trace,
			CapsuleID: st.capsule,
			Payload:   st.payload,
		}
		out = append(out, e)
	}
	return out
}

// Names lists the available scenarios in display order.
func Names() []string {
	out := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, s.Name)
	}
	return out
}

// Load fetches a scenario by name.
func Load(name string) (Scenario, bool) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// DefaultName is the scenario used when the config names none.
const DefaultName = "consent-gate"

var scenarios = []Scenario{
	{
		Name:  "clean-run",
		Title: "Clean local run",
		Claims: align.ClaimSet{
			NoExternalEgress:  true,
			DeterministicOnly: true,
			ConsentRequired:   true,
			Integrity:         true,
			IngressKinds:      []string{"document"},
			EgressKinds:       []string{"archive"},
		},
		steps: []step{
			{typ: event.TypeExtraction, at: 0, trace: "trace_A",
				payload: map[string]any{event.KeyIngressKind: "document", "source": "quarterly-report.pdf"}},
			{typ: event.TypeAutomationStep, at: 40, trace: "trace_A",
				payload: map[string]any{"step": "normalise tables"}},
			{typ: event.TypeAutomationStep, at: 80, trace: "trace_A",
				payload: map[string]any{"step": "compute summary"}},
			{typ: event.TypePackaging, at: 120, trace: "trace_A", capsule: "cap_1",
				payload: map[string]any{event.KeyEgressKind: "archive"}},
			{typ: event.TypeAttestation, at: 160, trace: "trace_A", capsule: "cap_1",
				payload: map[string]any{"note": "attestation pending"}},
		},
	},
	{
		Name:  "egress-violation",
		Title: "Undeclared egress with AI step",
		Claims: align.ClaimSet{
			NoExternalEgress:     true,
			DeterministicOnly:    true,
			ConsentRequired:      true,
			Integrity:            true,
			IngressKinds:         []string{"document"},
			EgressKinds:          []string{"archive"},
			AllowedEgressDomains: []string{"localhost"},
		},
		steps: []step{
			{typ: event.TypeExtraction, at: 0, trace: "trace_A",
				payload: map[string]any{event.KeyIngressKind: "document", "source": "contacts.csv"}},
			{typ: event.TypeIntentDetection, at: 50, trace: "trace_A",
				payload: map[string]any{event.KeyModel: "intent-ranker-v2", event.KeyDetectedIntent: "share externally"}},
			{typ: event.TypePackaging, at: 100, trace: "trace_A", capsule: "cap_7",
				payload: map[string]any{event.KeyExternalEgress: true, event.KeyEgressDomain: "Api.Example.com", event.KeyEgressKind: "telemetry"}},
			{typ: event.TypeDepackaging, at: 150, trace: "trace_A", capsule: "cap_9",
				payload: map[string]any{event.KeyVerified: false}},
			{typ: event.TypeAutomationStep, at: 200, trace: "trace_A",
				payload: map[string]any{"step": "cleanup"}},
		},
	},
	{
		Name:  "consent-gate",
		Title: "Consent gate across two traces",
		Claims: align.ClaimSet{
			NoExternalEgress:  false,
			DeterministicOnly: true,
			ConsentRequired:   true,
			Integrity:         true,
			IngressKinds:      []string{"document"},
			EgressKinds:       []string{"summary"},
		},
		steps: []step{
			{typ: event.TypeExtraction, at: 0, trace: "trace_A",
				payload: map[string]any{event.KeyIngressKind: "document", "source": "notes.md"}},
			{typ: event.TypeAutomationStep, at: 60, trace: "trace_A",
				payload: map[string]any{"step": "draft summary"}},
			{typ: event.TypeConsentRequired, at: 120, trace: "trace_A",
				payload: map[string]any{event.KeyScope: event.ScopeExternalAPI, "action": "upload summary"}},
			{typ: event.TypeExtraction, at: 180, trace: "trace_B",
				payload: map[string]any{event.KeyIngressKind: "document", "source": "inbox.mbox"}},
			{typ: event.TypeAutomationStep, at: 240, trace: "trace_B",
				payload: map[string]any{"step": "thread triage"}},
			{typ: event.TypePackaging, at: 300, trace: "trace_B", capsule: "cap_2",
				payload: map[string]any{event.KeyEgressKind: "summary"}},
		},
	},
}
