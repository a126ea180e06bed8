// Package align reconciles declared system claims against what the event
// stream actually shows. Observations are a pure fold over the events;
// alignment rows are a pure diff of claims against observations. Nothing in
// this package keeps state between calls.
package align

import (
	"sort"
	"strings"

	"github.com/jask/aperture/internal/event"
)

// Observations summarises everything actually seen across a set of events.
// It has no identity of its own and is recomputed from scratch every time.
type Observations struct {
	EgressDetected   bool
	EgressDomains    []string // normalized, sorted, de-duplicated
	AIInvolved       bool
	IngressKinds     []string
	EgressKinds      []string
	UnverifiedSteps  []string // capsule id where present, event id otherwise
	ConsentRequested bool     // consent explicitly requested for an external call
}

// ComputeObservations folds the event list into an observation summary in a
// single forward pass.
func ComputeObservations(events []event.Event) Observations {
	var obs Observations
	egressDomains := map[string]bool{}
	ingressKinds := map[string]bool{}
	egressKinds := map[string]bool{}
	unverified := map[string]bool{}

	for _, e := range events {
		switch e.Type {
		case event.TypePackaging, event.TypeDepackaging:
			if e.Bool(event.KeyExternalEgress) {
				obs.EgressDetected = true
				if d := normalizeDomain(e.Str(event.KeyEgressDomain)); d != "" {
					egressDomains[d] = true
				}
			}
			if e.Type == event.TypeDepackaging && e.Has(event.KeyVerified) && !e.Bool(event.KeyVerified) {
				step := e.CapsuleID
				if step == "" {
					step = e.ID
				}
				unverified[step] = true
			}
		case event.TypeIntentDetection:
			if e.Str(event.KeyModel) != "" || e.Str(event.KeyDetectedIntent) != "" {
				obs.AIInvolved = true
			}
		case event.TypeConsentRequired:
			if e.Str(event.KeyScope) == event.ScopeExternalAPI {
				obs.ConsentRequested = true
			}
		}
		if k := e.Str(event.KeyIngressKind); k != "" {
			ingressKinds[k] = true
		}
		if k := e.Str(event.KeyEgressKind); k != "" {
			egressKinds[k] = true
		}
	}

	obs.EgressDomains = sortedKeys(egressDomains)
	obs.IngressKinds = sortedKeys(ingressKinds)
	obs.EgressKinds = sortedKeys(egressKinds)
	obs.UnverifiedSteps = sortedKeys(unverified)
	return obs
}

func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
