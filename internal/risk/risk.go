// Package risk classifies events into findings via a declarative rule table.
// Every rule is an exact boolean predicate over declared fields; there is no
// scoring and no fuzzy matching, so identical input always produces the
// identical finding list.
package risk

import (
	"sort"

	"github.com/jask/aperture/internal/event"
)

// Severity orders findings from background noise to show-stopper.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Finding is one risk classification raised against exactly one event.
// Multiple rules may fire on the same event, one finding per rule.
type Finding struct {
	ID        string
	Severity  Severity
	Category  string
	Title     string
	Detail    string
	RuleID    string
	TraceID   string
	EventID   string
	Timestamp int64
	Seq       uint64
}

// Rule ids, referenced by alignment rows to pivot from a verdict to its
// supporting findings.
const (
	RuleEgress      = "EGRESS-001"
	RuleNoEgressLie = "ALIGN-README-001"
	RuleNonDet      = "NONDET-001"
	RuleConsent     = "CONSENT-001"
	RuleUnverified  = "CAPSULE-001"
	RuleScope       = "SCOPE-001"
)

type rule struct {
	id       string
	severity Severity
	category string
	title    string
	detail   string
	when     func(e event.Event, all []event.Event, noEgressClaimed bool) bool
}

func isEgress(e event.Event) bool {
	if e.Type != event.TypePackaging && e.Type != event.TypeDepackaging {
		return false
	}
	return e.Bool(event.KeyExternalEgress)
}

// rules is data, not control flow: extend by appending, never by branching.
var rules = []rule{
	{
		id:       RuleEgress,
		severity: SeverityHigh,
		category: "egress",
		title:    "External egress detected",
		detail:   "A capsule operation declared that data left the local boundary.",
		when: func(e event.Event, _ []event.Event, _ bool) bool {
			return isEgress(e)
		},
	},
	{
		id:       RuleNoEgressLie,
		severity: SeverityCritical,
		category: "alignment",
		title:    "Declared no-egress guarantee violated",
		detail:   "The README claims no external egress, yet an egress event occurred.",
		when: func(e event.Event, _ []event.Event, noEgressClaimed bool) bool {
			// The one context-sensitive rule: it only exists relative to the
			// caller-supplied claim flag.
			return noEgressClaimed && isEgress(e)
		},
	},
	{
		id:       RuleNonDet,
		severity: SeverityMedium,
		category: "determinism",
		title:    "Non-deterministic component detected",
		detail:   "An intent-detection step involved a model, so its output is not reproducible.",
		when: func(e event.Event, _ []event.Event, _ bool) bool {
			if e.Type != event.TypeIntentDetection {
				return false
			}
			return e.Str(event.KeyModel) != "" || e.Str(event.KeyDetectedIntent) != ""
		},
	},
	{
		id:       RuleConsent,
		severity: SeverityHigh,
		category: "consent",
		title:    "Consent requirement unresolved",
		detail:   "Execution reached a step that requires an explicit user decision.",
		when: func(e event.Event, _ []event.Event, _ bool) bool {
			return e.Type == event.TypeConsentRequired && !e.Resolved
		},
	},
	{
		id:       RuleUnverified,
		severity: SeverityMedium,
		category: "integrity",
		title:    "Capsule opened without verification",
		detail:   "A depackaging step was explicitly marked unverified.",
		when: func(e event.Event, _ []event.Event, _ bool) bool {
			if e.Type != event.TypeDepackaging || !e.Has(event.KeyVerified) {
				return false
			}
			return !e.Bool(event.KeyVerified)
		},
	},
	{
		id:       RuleScope,
		severity: SeverityLow,
		category: "policy",
		title:    "Consent scoped to external API access",
		detail:   "The requested permission reaches beyond the local execution scope.",
		when: func(e event.Event, _ []event.Event, _ bool) bool {
			return e.Type == event.TypeConsentRequired && e.Str(event.KeyScope) == event.ScopeExternalAPI
		},
	},
}

// RuleIDs returns the ids of every registered rule, table order.
func RuleIDs() []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.id)
	}
	return out
}

// Generate evaluates every rule against every event and returns the findings
// sorted by severity descending, then timestamp and sequence ascending.
// Finding ids derive from (event id, rule id), so re-running on the same
// events yields identical ids in identical order.
func Generate(events []event.Event, noEgressClaimed bool) []Finding {
	var out []Finding
	for _, e := range events {
		for _, r := range rules {
			if !r.when(e, events, noEgressClaimed) {
				continue
			}
			out = append(out, Finding{
				ID:        event.NewID(e.ID + "/" + r.id),
				Severity:  r.severity,
				Category:  r.category,
				Title:     r.title,
				Detail:    r.detail,
				RuleID:    r.id,
				TraceID:   e.TraceID,
				EventID:   e.ID,
				Timestamp: e.Timestamp,
				Seq:       e.Seq,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}
