package diplomacy

import (
	"math"
	"testing"

	"github.com/aldred/star-concord/internal/empire"
)

func TestIncidentDecay(t *testing.T) {
	inc := &Incident{Kind: KindEspionage, Severity: -10, Duration: 10, TurnOccurred: 5}

	tests := []struct {
		turn int
		want float64
	}{
		{5, -10},
		{10, -5},
		{14, -1},
		{15, 0},
		{20, 0},
	}
	for _, tc := range tests {
		if got := inc.CurrentSeverity(tc.turn); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("CurrentSeverity(%d) = %v, want %v", tc.turn, got, tc.want)
		}
	}

	if inc.Forgotten(14) {
		t.Error("incident forgotten one turn early")
	}
	if !inc.Forgotten(15) {
		t.Error("incident not forgotten after full duration")
	}
}

func TestIncidentMoreSevere(t *testing.T) {
	weak := &Incident{Kind: KindEspionage, Severity: -5, Duration: 10, TurnOccurred: 0}
	strong := &Incident{Kind: KindEspionage, Severity: -15, Duration: 10, TurnOccurred: 0}
	praise := &Incident{Kind: KindSignPact, Severity: 10, Duration: 10, TurnOccurred: 0}

	if !strong.MoreSevere(weak, 0) {
		t.Error("strong incident should outweigh weak")
	}
	if weak.MoreSevere(strong, 0) {
		t.Error("weak incident should not outweigh strong")
	}
	if !weak.MoreSevere(nil, 0) {
		t.Error("any incident should outweigh nil")
	}
	// Comparison is by absolute value; a +10 outweighs a -5.
	if !praise.MoreSevere(weak, 0) {
		t.Error("larger magnitude should win regardless of sign")
	}
	// Decay shifts the comparison: at turn 8 strong is at -3, weak at -1.
	if !strong.MoreSevere(weak, 8) {
		t.Error("decayed strong should still outweigh decayed weak")
	}
}

func TestIncidentKeys(t *testing.T) {
	tests := []struct {
		inc  *Incident
		want string
	}{
		{&Incident{Kind: KindColonyCaptured, System: "Altair"}, "ColonyCaptured:Altair"},
		{&Incident{Kind: KindGenocide, Third: 3}, "Genocide:3"},
		{&Incident{Kind: KindEnemyAid, Third: 2}, "EnemyAid:2"},
		{&Incident{Kind: KindKillGuardian, System: "Orion"}, "KillGuardian:Orion"},
		{&Incident{Kind: KindSignJointWar, Third: 4}, "JointWar:4"},
		{&Incident{Kind: KindExchangeTech, Tech: "warp drives"}, "ExchangeTech:warp drives"},
		{&Incident{Kind: KindEspionage}, "Espionage"},
		{&Incident{Kind: KindDeclareWar}, "DeclareWar"},
	}
	for _, tc := range tests {
		if got := tc.inc.Key(); got != tc.want {
			t.Errorf("Key() = %q, want %q", got, tc.want)
		}
	}
}

func TestIncidentClassification(t *testing.T) {
	esp := &Incident{Kind: KindEspionage}
	sab := &Incident{Kind: KindSabotage}
	capture := &Incident{Kind: KindColonyCaptured}
	war := &Incident{Kind: KindDeclareWar}

	if !esp.Spying() || !sab.Spying() || capture.Spying() {
		t.Error("Spying misclassified")
	}
	if !capture.Attacking() || esp.Attacking() {
		t.Error("Attacking misclassified")
	}
	if esp.TimerKey() != TimerSpyWarning {
		t.Errorf("espionage TimerKey = %v, want TimerSpyWarning", esp.TimerKey())
	}
	if capture.TimerKey() != TimerAttackWarning {
		t.Errorf("capture TimerKey = %v, want TimerAttackWarning", capture.TimerKey())
	}
	if war.TimerKey() != TimerNone {
		t.Errorf("declare-war TimerKey = %v, want TimerNone", war.TimerKey())
	}
}

func TestWarJustification(t *testing.T) {
	tests := []struct {
		kind Kind
		want Justification
	}{
		{KindColonyCaptured, JustAttacked},
		{KindEspionage, JustSpying},
		{KindSabotage, JustSpying},
		{KindExpansion, JustExpansion},
		{KindGenocide, JustGenocide},
		{KindDeclareWar, JustNone},
		{KindBreakTrade, JustNone},
	}
	for _, tc := range tests {
		inc := &Incident{Kind: tc.kind}
		if got := inc.WarJustification(); got != tc.want {
			t.Errorf("%v WarJustification = %v, want %v", tc.kind, got, tc.want)
		}
		if inc.TriggersWar() != (tc.want != JustNone) {
			t.Errorf("%v TriggersWar inconsistent with justification", tc.kind)
		}
	}
}

func TestTriggersImmediateWar(t *testing.T) {
	severe := &Incident{Kind: KindColonyCaptured, Severity: -30}
	mild := &Incident{Kind: KindColonyCaptured, Severity: -12.5}
	spying := &Incident{Kind: KindEspionage, Severity: -40}

	if !severe.TriggersImmediateWar() {
		t.Error("severe capture should trigger immediate war")
	}
	if mild.TriggersImmediateWar() {
		t.Error("mild capture should not trigger immediate war")
	}
	if spying.TriggersImmediateWar() {
		t.Error("espionage should never trigger immediate war")
	}
}

type staticNamer map[empire.ID]string

func (n staticNamer) EmpireName(id empire.ID) string { return n[id] }

func TestIncidentDescribe(t *testing.T) {
	namer := staticNamer{0: "Terrans", 1: "Krell", 2: "Vauln"}

	inc := &Incident{
		Kind:   KindColonyCaptured,
		Actor:  1,
		Target: 0,
		Third:  empire.None,
		System: "Altair",
		Amount: 32,
	}
	want := "Krell captured the Terrans colony at Altair, killing 32 million"
	if got := inc.Describe(namer); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}

	inc = &Incident{Kind: KindSignJointWar, Actor: 1, Target: 0, Third: 2}
	want = "Krell agreed to join Terrans's war against Vauln"
	if got := inc.Describe(namer); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
