package empire

import "testing"

func TestParsePersonality(t *testing.T) {
	for i, name := range personalityNames {
		p, ok := ParsePersonality(name)
		if !ok || p != Personality(i) {
			t.Errorf("ParsePersonality(%q) = (%v, %v), want (%v, true)", name, p, ok, Personality(i))
		}
		if p.String() != name {
			t.Errorf("Personality(%d).String() = %q, want %q", i, p.String(), name)
		}
	}
	if _, ok := ParsePersonality("bellicose"); ok {
		t.Error("unknown personality should not parse")
	}
}

func TestParseObjective(t *testing.T) {
	for i, name := range objectiveNames {
		o, ok := ParseObjective(name)
		if !ok || o != Objective(i) {
			t.Errorf("ParseObjective(%q) = (%v, %v), want (%v, true)", name, o, ok, Objective(i))
		}
	}
	if _, ok := ParseObjective("conqueror"); ok {
		t.Error("unknown objective should not parse")
	}
}

func TestBaseRelations(t *testing.T) {
	tests := []struct {
		name string
		a, b Leader
		want float64
	}{
		{
			"two pacifists",
			Leader{Personality: Pacifist}, Leader{Personality: Pacifist},
			20,
		},
		{
			"pacifist diplomat meets honorable",
			Leader{Personality: Pacifist, Objective: Diplomat}, Leader{Personality: Honorable, Objective: Militarist},
			25,
		},
		{
			"mutual xenophobia clamps low",
			Leader{Personality: Xenophobic}, Leader{Personality: Xenophobic, Objective: Militarist},
			-40,
		},
		{
			"aggressive meets ruthless",
			Leader{Personality: Aggressive}, Leader{Personality: Ruthless},
			-20,
		},
		{
			"erratic meets erratic",
			Leader{Personality: Erratic}, Leader{Personality: Erratic},
			-10,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := &Empire{ID: 0, Leader: tc.a}
			b := &Empire{ID: 1, Leader: tc.b}
			if got := a.BaseRelations(b); got != tc.want {
				t.Errorf("BaseRelations = %v, want %v", got, tc.want)
			}
			// Baseline is symmetric; both parties sum the same dispositions.
			if got := b.BaseRelations(a); got != tc.want {
				t.Errorf("reverse BaseRelations = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBaseRelationsClampHigh(t *testing.T) {
	// Two pacifist diplomats would sum to 40; the clamp holds exactly there.
	a := &Empire{Leader: Leader{Personality: Pacifist, Objective: Diplomat}}
	b := &Empire{Leader: Leader{Personality: Pacifist, Objective: Diplomat}}
	if got := a.BaseRelations(b); got != 40 {
		t.Errorf("BaseRelations = %v, want clamp at 40", got)
	}
}

func TestLeaderPredicates(t *testing.T) {
	l := Leader{Personality: Xenophobic, Objective: Diplomat}
	if !l.IsXenophobic() || !l.IsDiplomat() {
		t.Error("predicates should reflect the leader's disposition")
	}
	if l.IsPacifist() || l.IsErratic() || l.IsAggressive() || l.IsHonorable() {
		t.Error("unrelated predicates should be false")
	}
}
