package diplomacy

import "testing"

// stubPolicy endorses war justifications by fixed answer.
type stubPolicy struct {
	hate, opportunity bool
}

func (p stubPolicy) WantWarOfHate(_, _ *Embassy) bool        { return p.hate }
func (p stubPolicy) WantWarOfOpportunity(_, _ *Embassy) bool { return p.opportunity }

func TestBeginWarPreparations(t *testing.T) {
	e := testEmbassy(0)
	e.HeedThreat()
	e.HeedSpyThreat()

	inc := &Incident{Kind: KindColonyCaptured, Severity: -15, Duration: 10, TurnOccurred: 0, System: "Altair"}
	e.BeginWarPreparations(JustAttacked, inc, 0)

	if !e.WarFooting() {
		t.Error("embassy should be on a war footing")
	}
	if e.Justification() != JustAttacked || e.CasusBelli() != inc {
		t.Error("justification and casus belli should be recorded")
	}
	if e.Threatened() || e.SpyThreat() {
		t.Error("standing threats are moot once war is being prepared")
	}
}

func TestBeginWarPreparationsKeepsStrongerCasusBelli(t *testing.T) {
	e := testEmbassy(0)
	strong := &Incident{Kind: KindColonyCaptured, Severity: -30, Duration: 10, TurnOccurred: 0, System: "Altair"}
	weak := &Incident{Kind: KindEspionage, Severity: -10, Duration: 10, TurnOccurred: 0}

	e.BeginWarPreparations(JustAttacked, strong, 0)
	e.BeginWarPreparations(JustSpying, weak, 0)

	if e.CasusBelli() != strong || e.Justification() != JustAttacked {
		t.Error("a weaker grievance should not displace a stronger casus belli")
	}

	stronger := &Incident{Kind: KindGenocide, Severity: -50, Duration: 50, TurnOccurred: 0, Third: 2}
	e.BeginWarPreparations(JustGenocide, stronger, 0)
	if e.CasusBelli() != stronger || e.Justification() != JustGenocide {
		t.Error("a strictly more severe grievance should take over")
	}
}

func TestEndWarPreparations(t *testing.T) {
	e := testEmbassy(0)
	e.BeginWarPreparations(JustHate, nil, 0)
	e.EndWarPreparations()

	if e.WarFooting() || e.Justification() != JustNone || e.CasusBelli() != nil {
		t.Error("ending preparations should clear the full footing")
	}
}

func TestEvaluateWarPreparationsIncidentBacked(t *testing.T) {
	e := testEmbassy(0)
	inc := &Incident{Kind: KindColonyCaptured, Severity: -15, Duration: 10, TurnOccurred: 0, System: "Altair"}
	e.BeginWarPreparations(JustAttacked, inc, 0)

	// An incident that still justifies war keeps the footing, regardless of
	// any policy.
	e.evaluateWarPreparations(nil, nil)
	if !e.WarFooting() {
		t.Error("incident-backed footing should stand while the incident justifies war")
	}

	// Swap in an incident that cannot justify war; the footing collapses.
	e.casusBelli = &Incident{Kind: KindBreakTrade, Severity: -5, Duration: 10, TurnOccurred: 0}
	e.evaluateWarPreparations(nil, nil)
	if e.WarFooting() {
		t.Error("footing should end when its incident no longer justifies war")
	}
}

func TestEvaluateWarPreparationsPolicyBacked(t *testing.T) {
	tests := []struct {
		name   string
		just   Justification
		policy Policy
		want   bool
	}{
		{"hate endorsed", JustHate, stubPolicy{hate: true}, true},
		{"hate withdrawn", JustHate, stubPolicy{}, false},
		{"hate without policy", JustHate, nil, false},
		{"opportunity endorsed", JustOpportunity, stubPolicy{opportunity: true}, true},
		{"opportunity withdrawn", JustOpportunity, stubPolicy{}, false},
		{"erratic stands unchallenged", JustErratic, stubPolicy{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := testEmbassy(0)
			e.BeginWarPreparations(tc.just, nil, 0)
			e.evaluateWarPreparations(tc.policy, nil)
			if e.WarFooting() != tc.want {
				t.Errorf("WarFooting = %v, want %v", e.WarFooting(), tc.want)
			}
		})
	}
}
