package align

import (
	"reflect"
	"testing"

	"github.com/jask/aperture/internal/event"
	"github.com/jask/aperture/internal/risk"
)

func observationFixture() []event.Event {
	return []event.Event{
		{ID: "e1", Seq: 1, Timestamp: 10, Type: event.TypeExtraction,
			Payload: map[string]any{event.KeyIngressKind: "document"}},
		{ID: "p1", Seq: 2, Timestamp: 20, Type: event.TypePackaging, CapsuleID: "cap_1",
			Payload: map[string]any{event.KeyExternalEgress: true, event.KeyEgressDomain: " Api.Example.com ", event.KeyEgressKind: "telemetry"}},
		{ID: "p2", Seq: 3, Timestamp: 30, Type: event.TypePackaging,
			Payload: map[string]any{event.KeyExternalEgress: true, event.KeyEgressDomain: "api.example.com"}},
		{ID: "i1", Seq: 4, Timestamp: 40, Type: event.TypeIntentDetection,
			Payload: map[string]any{event.KeyModel: "intent-ranker-v2"}},
		{ID: "d1", Seq: 5, Timestamp: 50, Type: event.TypeDepackaging, CapsuleID: "cap_9",
			Payload: map[string]any{event.KeyVerified: false}},
		{ID: "c1", Seq: 6, Timestamp: 60, Type: event.TypeConsentRequired,
			Payload: map[string]any{event.KeyScope: event.ScopeExternalAPI}},
	}
}

func TestComputeObservationsFoldsTheStream(t *testing.T) {
	obs := ComputeObservations(observationFixture())
	if !obs.EgressDetected {
		t.Error("egress not detected")
	}
	if !reflect.DeepEqual(obs.EgressDomains, []string{"api.example.com"}) {
		t.Errorf("egress domains = %v, want normalized de-duplicated [api.example.com]", obs.EgressDomains)
	}
	if !obs.AIInvolved {
		t.Error("AI involvement not detected")
	}
	if !reflect.DeepEqual(obs.IngressKinds, []string{"document"}) {
		t.Errorf("ingress kinds = %v", obs.IngressKinds)
	}
	if !reflect.DeepEqual(obs.EgressKinds, []string{"telemetry"}) {
		t.Errorf("egress kinds = %v", obs.EgressKinds)
	}
	if !reflect.DeepEqual(obs.UnverifiedSteps, []string{"cap_9"}) {
		t.Errorf("unverified steps = %v, want capsule id", obs.UnverifiedSteps)
	}
	if !obs.ConsentRequested {
		t.Error("external-api consent request not observed")
	}
}

func TestObservationsOfEmptyStream(t *testing.T) {
	obs := ComputeObservations(nil)
	if obs.EgressDetected || obs.AIInvolved || obs.ConsentRequested {
		t.Errorf("empty stream produced observations: %+v", obs)
	}
}

func fullClaims() ClaimSet {
	return ClaimSet{
		NoExternalEgress:  true,
		DeterministicOnly: true,
		ConsentRequired:   true,
		Integrity:         true,
		IngressKinds:      []string{"document"},
		EgressKinds:       []string{"archive"},
	}
}

func rowByKey(t *testing.T, rows []Row, key string) Row {
	t.Helper()
	for _, r := range rows {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("no row with key %q in %+v", key, rows)
	return Row{}
}

func TestAlignmentEveryDimensionProducesExactlyOneRow(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{})
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5 (allow-list undeclared)", len(rows))
	}
	seen := map[string]int{}
	for _, r := range rows {
		seen[r.Key]++
	}
	for key, n := range seen {
		if n != 1 {
			t.Errorf("row %q emitted %d times", key, n)
		}
	}
}

func TestAllowListRowIsConditional(t *testing.T) {
	claims := fullClaims()
	claims.AllowedEgressDomains = []string{"localhost"}
	rows := ComputeAlignment(claims, Observations{})
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6 with allow-list declared", len(rows))
	}
	row := rowByKey(t, rows, RowAllowedDomains)
	if row.Status != StatusMatch {
		t.Errorf("no observed egress: allow-list row = %s, want match", row.Status)
	}

	rows = ComputeAlignment(claims, Observations{EgressDomains: []string{"api.example.com"}})
	row = rowByKey(t, rows, RowAllowedDomains)
	if row.Status != StatusMismatch {
		t.Errorf("off-list domain: allow-list row = %s, want mismatch", row.Status)
	}
}

func TestNoEgressClaimVerdicts(t *testing.T) {
	cases := []struct {
		name   string
		claim  bool
		egress bool
		want   Status
	}{
		{"claimed and clean", true, false, StatusMatch},
		{"claimed and violated", true, true, StatusMismatch},
		{"not claimed", false, true, StatusNotApplicable},
	}
	for _, tc := range cases {
		claims := fullClaims()
		claims.NoExternalEgress = tc.claim
		rows := ComputeAlignment(claims, Observations{EgressDetected: tc.egress})
		row := rowByKey(t, rows, RowNoEgress)
		if row.Status != tc.want {
			t.Errorf("%s: status = %s, want %s", tc.name, row.Status, tc.want)
		}
	}
}

func TestConsentClaimIsNeverProvedByAbsence(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{})
	row := rowByKey(t, rows, RowConsent)
	if row.Status != StatusUnknown {
		t.Fatalf("unobserved consent: status = %s, want unknown", row.Status)
	}

	rows = ComputeAlignment(fullClaims(), Observations{ConsentRequested: true})
	row = rowByKey(t, rows, RowConsent)
	if row.Status != StatusMatch {
		t.Fatalf("observed consent request: status = %s, want match", row.Status)
	}
}

func TestDeterministicClaimVerdicts(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{AIInvolved: true})
	if row := rowByKey(t, rows, RowDeterministic); row.Status != StatusMismatch {
		t.Errorf("AI observed: status = %s, want mismatch", row.Status)
	}
	rows = ComputeAlignment(fullClaims(), Observations{})
	if row := rowByKey(t, rows, RowDeterministic); row.Status != StatusMatch {
		t.Errorf("no AI observed: status = %s, want match", row.Status)
	}
}

func TestDataKindsMismatchOnUndeclaredKind(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{EgressKinds: []string{"telemetry"}})
	if row := rowByKey(t, rows, RowDataKinds); row.Status != StatusMismatch {
		t.Errorf("undeclared egress kind: status = %s, want mismatch", row.Status)
	}
	rows = ComputeAlignment(fullClaims(), Observations{IngressKinds: []string{"document"}, EgressKinds: []string{"archive"}})
	if row := rowByKey(t, rows, RowDataKinds); row.Status != StatusMatch {
		t.Errorf("declared kinds only: status = %s, want match", row.Status)
	}
}

func TestIntegrityMismatchOnAnyUnverifiedStep(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{UnverifiedSteps: []string{"cap_9"}})
	if row := rowByKey(t, rows, RowIntegrity); row.Status != StatusMismatch {
		t.Errorf("unverified step: status = %s, want mismatch", row.Status)
	}
}

func TestRowsCarryTheCorrelatedRuleIDs(t *testing.T) {
	rows := ComputeAlignment(fullClaims(), Observations{EgressDetected: true})
	row := rowByKey(t, rows, RowNoEgress)
	want := []string{risk.RuleEgress, risk.RuleNoEgressLie}
	if !reflect.DeepEqual(row.RuleIDs, want) {
		t.Fatalf("rule ids = %v, want %v", row.RuleIDs, want)
	}
}
