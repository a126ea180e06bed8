package event

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Type is the closed set of things a run can report. Adding a type here
// requires a matching entry in domainByType.
type Type string

const (
	TypeExtraction      Type = "extraction"
	TypeAutomationStep  Type = "automation-step"
	TypePackaging       Type = "packaging"
	TypeDepackaging     Type = "depackaging"
	TypeIntentDetection Type = "intent-detection"
	TypeConsentRequired Type = "consent-required"
	TypeAttestation     Type = "attestation-placeholder"
)

// Domain groups event types into the panels the dashboard knows about.
type Domain string

const (
	DomainExtraction  Domain = "extraction"
	DomainAutomation  Domain = "automation"
	DomainCapsule     Domain = "capsule"
	DomainIntent      Domain = "intent"
	DomainConsent     Domain = "consent"
	DomainAttestation Domain = "attestation"
)

var domainByType = map[Type]Domain{
	TypeExtraction:      DomainExtraction,
	TypeAutomationStep:  DomainAutomation,
	TypePackaging:       DomainCapsule,
	TypeDepackaging:     DomainCapsule,
	TypeIntentDetection: DomainIntent,
	TypeConsentRequired: DomainConsent,
	TypeAttestation:     DomainAttestation,
}

// DomainOf maps a type to its domain. The mapping is total over the declared
// type set; an unmapped type is a contract violation by the producer and
// panics rather than silently landing events in a wrong panel.
func DomainOf(t Type) Domain {
	d, ok := domainByType[t]
	if !ok {
		panic(fmt.Sprintf("event: no domain mapping for type %q", t))
	}
	return d
}

// Types returns every declared event type in canonical order.
func Types() []Type {
	return []Type{
		TypeExtraction, TypeAutomationStep, TypePackaging, TypeDepackaging,
		TypeIntentDetection, TypeConsentRequired, TypeAttestation,
	}
}

// Domains returns every domain in canonical order.
func Domains() []Domain {
	return []Domain{
		DomainExtraction, DomainAutomation, DomainCapsule,
		DomainIntent, DomainConsent, DomainAttestation,
	}
}

// Payload keys shared between producers and the engine.
const (
	KeyExternalEgress = "externalEgress"
	KeyEgressDomain   = "egressDomain"
	KeyVerified       = "verified"
	KeyModel          = "model"
	KeyDetectedIntent = "detectedIntent"
	KeyScope          = "scope"
	KeyIngressKind    = "ingressKind"
	KeyEgressKind     = "egressKind"
)

// ScopeExternalAPI marks a consent request that gates an external API call.
const ScopeExternalAPI = "external-api"

// Event is one immutable record of something that happened during a run.
// Only Resolved may change after creation, and only once.
type Event struct {
	ID        string
	Seq       uint64
	Type      Type
	Timestamp int64 // logical milliseconds, not wall clock
	TraceID   string
	CapsuleID string
	Resolved  bool
	Payload   map[string]any
}

// Domain returns the panel domain this event belongs to.
func (e Event) Domain() Domain { return DomainOf(e.Type) }

// Bool reads a boolean payload field. Missing or mistyped fields read false.
func (e Event) Bool(key string) bool {
	v, ok := e.Payload[key].(bool)
	return ok && v
}

// Str reads a string payload field. Missing or mistyped fields read "".
func (e Event) Str(key string) string {
	v, _ := e.Payload[key].(string)
	return v
}

// Has reports whether the payload carries the key at all, regardless of value.
func (e Event) Has(key string) bool {
	_, ok := e.Payload[key]
	return ok
}

// Less is the total order over events: timestamp first, sequence number as
// the deterministic tie-breaker. No other input may influence ordering.
func Less(a, b Event) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.Seq < b.Seq
}

// SortTotalOrder sorts events in place by (timestamp, seq).
func SortTotalOrder(events []Event) {
	sort.SliceStable(events, func(i, j int) bool { return Less(events[i], events[j]) })
}

// Latest returns the most recent event by total order.
func Latest(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	best := events[0]
	for _, e := range events[1:] {
		if Less(best, e) {
			best = e
		}
	}
	return best, true
}

// Resolve flips the resolved flag on the consent event with the given id.
// It reports false when the event is absent, is not a consent requirement,
// or was already resolved — the flag only ever moves false→true.
func Resolve(events []Event, id string) bool {
	for i := range events {
		if events[i].ID != id {
			continue
		}
		if events[i].Type != TypeConsentRequired || events[i].Resolved {
			return false
		}
		events[i].Resolved = true
		return true
	}
	return false
}

// Sequencer hands out process-wide strictly increasing sequence numbers.
// It is a plain caller-owned value so tests can reset it freely; the single
// event-producing timeline never increments it concurrently.
type Sequencer struct {
	next uint64
}

// Next returns the next sequence number, starting at 1.
func (s *Sequencer) Next() uint64 {
	s.next++
	return s.next
}

// idNamespace anchors the deterministic v5 event ids below.
var idNamespace = uuid.MustParse("9f2c1f6e-5b7a-4a3e-8d41-2e6f0c9b7a55")

// NewID derives a stable UUID from a producer-chosen name, so replaying the
// same scenario yields byte-identical events.
func NewID(name string) string {
	return uuid.NewSHA1(idNamespace, []byte(name)).String()
}
