package align

import (
	"strings"

	"github.com/jask/aperture/internal/risk"
)

// ClaimSet is the caller-declared contract of what the system is supposed to
// guarantee. It is supplied, never derived.
type ClaimSet struct {
	NoExternalEgress  bool
	DeterministicOnly bool
	ConsentRequired   bool
	Integrity         bool
	IngressKinds      []string
	EgressKinds       []string
	// AllowedEgressDomains is an optional allow-list. nil means no such
	// claim was made; an empty non-nil list claims "no domain is allowed".
	AllowedEgressDomains []string
}

// Status is the verdict of one claim-vs-observation comparison.
type Status string

const (
	StatusMatch         Status = "match"
	StatusMismatch      Status = "mismatch"
	StatusUnknown       Status = "unknown"
	StatusNotApplicable Status = "not-applicable"
)

// Row is one claim compared against what was observed. RuleIDs lets the
// rendering layer pivot from a verdict to the findings that support it.
type Row struct {
	Key      string
	Label    string
	Claimed  string
	Observed string
	Status   Status
	RuleIDs  []string
}

// Row keys, stable across releases so hosts can key UI state off them.
const (
	RowNoEgress       = "readme.noExternalEgress"
	RowDeterministic  = "readme.deterministicOnly"
	RowConsent        = "readme.consentRequired"
	RowDataKinds      = "readme.dataKinds"
	RowIntegrity      = "readme.integrity"
	RowAllowedDomains = "readme.allowedDomains"
)

// ComputeAlignment emits exactly one row per declared claim dimension, plus
// the allow-list row when the claim set declares one. A non-empty claim set
// never yields zero rows.
func ComputeAlignment(claims ClaimSet, obs Observations) []Row {
	rows := []Row{
		noEgressRow(claims, obs),
		deterministicRow(claims, obs),
		consentRow(claims, obs),
		dataKindsRow(claims, obs),
		integrityRow(claims, obs),
	}
	if claims.AllowedEgressDomains != nil {
		rows = append(rows, allowedDomainsRow(claims, obs))
	}
	return rows
}

func noEgressRow(claims ClaimSet, obs Observations) Row {
	row := Row{
		Key:      RowNoEgress,
		Label:    "No external egress",
		Claimed:  claimedBool(claims.NoExternalEgress, "no data leaves the device", "egress permitted"),
		Observed: observedEgress(obs),
		RuleIDs:  []string{risk.RuleEgress, risk.RuleNoEgressLie},
	}
	switch {
	case !claims.NoExternalEgress:
		row.Status = StatusNotApplicable
	case obs.EgressDetected:
		row.Status = StatusMismatch
	default:
		row.Status = StatusMatch
	}
	return row
}

func deterministicRow(claims ClaimSet, obs Observations) Row {
	row := Row{
		Key:      RowDeterministic,
		Label:    "Deterministic-only processing",
		Claimed:  claimedBool(claims.DeterministicOnly, "no AI-influenced steps", "AI steps permitted"),
		Observed: claimedBool(obs.AIInvolved, "AI involvement detected", "no AI involvement observed"),
		RuleIDs:  []string{risk.RuleNonDet},
	}
	switch {
	case !claims.DeterministicOnly:
		row.Status = StatusNotApplicable
	case obs.AIInvolved:
		row.Status = StatusMismatch
	default:
		row.Status = StatusMatch
	}
	return row
}

func consentRow(claims ClaimSet, obs Observations) Row {
	row := Row{
		Key:      RowConsent,
		Label:    "Consent before external calls",
		Claimed:  claimedBool(claims.ConsentRequired, "consent gates every external call", "consent not required"),
		Observed: claimedBool(obs.ConsentRequested, "consent requested for external API", "no consent request observed"),
		RuleIDs:  []string{risk.RuleConsent, risk.RuleScope},
	}
	switch {
	case !claims.ConsentRequired:
		row.Status = StatusNotApplicable
	case obs.ConsentRequested:
		row.Status = StatusMatch
	default:
		// Absence of a negative observation is not proof of compliance.
		row.Status = StatusUnknown
	}
	return row
}

func dataKindsRow(claims ClaimSet, obs Observations) Row {
	row := Row{
		Key:      RowDataKinds,
		Label:    "Declared data kinds",
		Claimed:  kindsLabel(claims.IngressKinds, claims.EgressKinds),
		Observed: kindsLabel(obs.IngressKinds, obs.EgressKinds),
		RuleIDs:  []string{risk.RuleEgress},
	}
	if undeclared(obs.IngressKinds, claims.IngressKinds) || undeclared(obs.EgressKinds, claims.EgressKinds) {
		row.Status = StatusMismatch
	} else {
		row.Status = StatusMatch
	}
	return row
}

func integrityRow(claims ClaimSet, obs Observations) Row {
	row := Row{
		Key:      RowIntegrity,
		Label:    "Capsule integrity verified",
		Claimed:  claimedBool(claims.Integrity, "every capsule step verified", "verification optional"),
		Observed: observedUnverified(obs),
		RuleIDs:  []string{risk.RuleUnverified},
	}
	switch {
	case !claims.Integrity:
		row.Status = StatusNotApplicable
	case len(obs.UnverifiedSteps) > 0:
		row.Status = StatusMismatch
	default:
		row.Status = StatusMatch
	}
	return row
}

func allowedDomainsRow(claims ClaimSet, obs Observations) Row {
	allowed := map[string]bool{}
	for _, d := range claims.AllowedEgressDomains {
		allowed[normalizeDomain(d)] = true
	}
	row := Row{
		Key:      RowAllowedDomains,
		Label:    "Egress limited to allow-list",
		Claimed:  listLabel(claims.AllowedEgressDomains, "no domains allowed"),
		Observed: listLabel(obs.EgressDomains, "no egress domains observed"),
		RuleIDs:  []string{risk.RuleEgress},
		Status:   StatusMatch,
	}
	for _, d := range obs.EgressDomains {
		if !allowed[d] {
			row.Status = StatusMismatch
			break
		}
	}
	return row
}

func undeclared(observed, declared []string) bool {
	set := map[string]bool{}
	for _, k := range declared {
		set[k] = true
	}
	for _, k := range observed {
		if !set[k] {
			return true
		}
	}
	return false
}

func claimedBool(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func observedEgress(obs Observations) string {
	if !obs.EgressDetected {
		return "no egress observed"
	}
	if len(obs.EgressDomains) == 0 {
		return "egress detected"
	}
	return "egress to " + strings.Join(obs.EgressDomains, ", ")
}

func observedUnverified(obs Observations) string {
	if len(obs.UnverifiedSteps) == 0 {
		return "no unverified steps"
	}
	return "unverified: " + strings.Join(obs.UnverifiedSteps, ", ")
}

func kindsLabel(ingress, egress []string) string {
	return "in: " + listLabel(ingress, "none") + "; out: " + listLabel(egress, "none")
}

func listLabel(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
