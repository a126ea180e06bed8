// Package focus decides which dashboard panel deserves the user's attention.
// The decision is a pure reducer over (events, prior stickiness): callers
// must persist the returned Stickiness and thread it into the next call; the
// package holds no hidden state and consults neither clocks nor randomness.
package focus

import (
	"github.com/jask/aperture/internal/event"
)

// Panel identifies one attention target on the dashboard.
type Panel string

const (
	// PanelTimeline is the neutral default when nothing demands attention.
	PanelTimeline    Panel = "timeline"
	PanelExtraction  Panel = "extraction"
	PanelAutomation  Panel = "automation"
	PanelCapsule     Panel = "capsule"
	PanelIntent      Panel = "intent"
	PanelConsent     Panel = "consent"
	PanelAttestation Panel = "attestation"
)

// PanelForDomain maps an event domain to its secondary panel.
func PanelForDomain(d event.Domain) Panel {
	switch d {
	case event.DomainExtraction:
		return PanelExtraction
	case event.DomainAutomation:
		return PanelAutomation
	case event.DomainCapsule:
		return PanelCapsule
	case event.DomainIntent:
		return PanelIntent
	case event.DomainConsent:
		return PanelConsent
	case event.DomainAttestation:
		return PanelAttestation
	}
	return PanelTimeline
}

// SecondaryPanels returns the domain panels in canonical display order.
func SecondaryPanels() []Panel {
	return []Panel{
		PanelExtraction, PanelAutomation, PanelCapsule,
		PanelIntent, PanelConsent, PanelAttestation,
	}
}

// DefaultThreshold is how many consecutive non-override events must elapse
// before focus may move to a panel of equal or lower priority.
const DefaultThreshold = 2

// overridePriority outranks every entry in typePriority, so an unresolved
// consent always wins.
const overridePriority = 100

var typePriority = map[event.Type]int{
	event.TypeIntentDetection: 60,
	event.TypePackaging:       50,
	event.TypeDepackaging:     50,
	event.TypeConsentRequired: 40, // resolved consent; unresolved is the override path
	event.TypeExtraction:      30,
	event.TypeAutomationStep:  20,
	event.TypeAttestation:     10,
}

// State is the computed focus decision for one render.
type State struct {
	Panel             Panel
	EventID           string
	Priority          int
	Override          bool
	StickinessApplied bool
	Reason            string
	// UnresolvedConsents counts every pending consent, not just the anchored
	// one; older consents stay visible through this count only and never
	// cause focus to flap among themselves.
	UnresolvedConsents int
}

// Stickiness is the only record carried between invocations. The caller owns
// it; a zero value means no focus lock and the default threshold.
type Stickiness struct {
	Panel       Panel
	EventID     string
	EventsSince int
	Threshold   int
}

// Compute derives the focus decision from the current event list and the
// prior stickiness record, returning the record to carry into the next call.
func Compute(events []event.Event, prior Stickiness) (State, Stickiness) {
	threshold := prior.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	if len(events) == 0 {
		st := State{Panel: PanelTimeline, Reason: "awaiting activity"}
		return st, Stickiness{Panel: PanelTimeline, Threshold: threshold}
	}

	if anchor, pending := latestUnresolvedConsent(events); pending > 0 {
		st := State{
			Panel:              PanelConsent,
			EventID:            anchor.ID,
			Priority:           overridePriority,
			Override:           true,
			Reason:             "unresolved consent requires a decision",
			UnresolvedConsents: pending,
		}
		// An override bypasses stickiness entirely and re-arms the lock.
		return st, Stickiness{Panel: PanelConsent, EventID: anchor.ID, Threshold: threshold}
	}

	latest, _ := event.Latest(events)
	naturalPanel := PanelForDomain(latest.Domain())
	naturalPriority := typePriority[latest.Type]

	// A newer event inside the locked panel is not a hold: it falls through
	// to adoption below, which moves the anchor and keeps the lock counting.
	locked := prior.Panel
	if locked != "" && locked != PanelTimeline && naturalPanel != locked &&
		prior.EventsSince < threshold &&
		naturalPriority <= priorityByID(events, prior.EventID) {
		st := State{
			Panel:             locked,
			EventID:           prior.EventID,
			Priority:          priorityByID(events, prior.EventID),
			StickinessApplied: true,
			Reason:            "holding focus on " + string(locked),
		}
		next := Stickiness{Panel: locked, EventID: prior.EventID, EventsSince: prior.EventsSince + 1, Threshold: threshold}
		return st, next
	}

	st := State{
		Panel:    naturalPanel,
		EventID:  latest.ID,
		Priority: naturalPriority,
		Reason:   "recent " + string(latest.Domain()) + " activity",
	}
	next := Stickiness{Panel: naturalPanel, EventID: latest.ID, Threshold: threshold}
	if naturalPanel == locked {
		// Same panel, newer event within it: the lock survives.
		next.EventsSince = prior.EventsSince + 1
	}
	return st, next
}

// latestUnresolvedConsent returns the most recent unresolved consent event by
// total order, and the count of all pending consents.
func latestUnresolvedConsent(events []event.Event) (event.Event, int) {
	var anchor event.Event
	pending := 0
	for _, e := range events {
		if e.Type != event.TypeConsentRequired || e.Resolved {
			continue
		}
		if pending == 0 || event.Less(anchor, e) {
			anchor = e
		}
		pending++
	}
	return anchor, pending
}

func priorityByID(events []event.Event, id string) int {
	if id == "" {
		return 0
	}
	for _, e := range events {
		if e.ID == id {
			return typePriority[e.Type]
		}
	}
	return 0
}
