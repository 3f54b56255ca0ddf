package galaxy

import (
	"testing"

	"github.com/aldred/star-concord/internal/diplomacy"
	"github.com/aldred/star-concord/internal/empire"
)

func testRoster() []*empire.Empire {
	return []*empire.Empire{
		{ID: 0, Name: "Terrans", Human: true, Leader: empire.Leader{Personality: empire.Honorable}, Production: 100, FleetPower: 100, Colonies: 5},
		{ID: 1, Name: "Krell", Leader: empire.Leader{Personality: empire.Aggressive, Objective: empire.Militarist}, Production: 120, FleetPower: 150, Colonies: 6},
		{ID: 2, Name: "Vauln", Leader: empire.Leader{Personality: empire.Pacifist}, Production: 140, FleetPower: 60, Colonies: 4},
	}
}

func TestNewSimulationEstablishesContact(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	for _, a := range sim.Empires {
		for _, b := range sim.Empires {
			if a.ID == b.ID {
				continue
			}
			if !sim.Registry.Embassy(a.ID, b.ID).Contact() {
				t.Errorf("embassy %d->%d not in contact after setup", a.ID, b.ID)
			}
		}
	}
}

func TestSimulationRosterInterface(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	if sim.Empire(1).Name != "Krell" {
		t.Errorf("Empire(1) = %q, want Krell", sim.Empire(1).Name)
	}
	ids := sim.EmpireIDs()
	if len(ids) != 3 {
		t.Fatalf("EmpireIDs = %v, want 3 entries", ids)
	}
}

func TestSimulationObserver(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	if sim.FleetPower(1) != 150 {
		t.Errorf("FleetPower(1) = %v, want 150", sim.FleetPower(1))
	}
	if sim.ColonyCount(2) != 4 {
		t.Errorf("ColonyCount(2) = %v, want 4", sim.ColonyCount(2))
	}
	if sim.AverageColonyCount() != 5 {
		t.Errorf("AverageColonyCount = %v, want 5", sim.AverageColonyCount())
	}
	if sim.TrespassingFleets(0, 1) != 0 {
		t.Error("no trespass should be reported initially")
	}

	sim.Empires[2].Extinct = true
	if sim.AverageColonyCount() != 5.5 {
		t.Errorf("AverageColonyCount = %v, want 5.5 excluding the extinct", sim.AverageColonyCount())
	}
}

func TestWantWarOfHate(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	// An honorable leader needs a deeply hostile relation.
	e := sim.Registry.Embassy(0, 1)
	if sim.WantWarOfHate(e, nil) {
		t.Error("a fresh relation should not justify a hate war")
	}

	// The aggressive Krell trip at -50 already. Grind the relation down
	// with repeated sabotage until it crosses the threshold.
	agg := sim.Registry.Embassy(1, 0)
	for sim.Registry.Relations(1, 0) > -60 {
		sim.Registry.AddIncident(1, 0, diplomacy.NewSabotage(sim.LastTurn, 0, 1), sim.LastTurn)
		sim.LastTurn++
	}
	if !sim.WantWarOfHate(agg, nil) {
		t.Errorf("aggressive leader at relation %v should want a hate war", agg.Relation())
	}
	if sim.WantWarOfHate(sim.Registry.Embassy(0, 1), nil) {
		t.Error("honorable leader should hold out past -70")
	}
}

func TestWantWarOfOpportunity(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	// Krell (150) against Vauln (60) is only a 2.5x edge: not enough.
	if sim.WantWarOfOpportunity(sim.Registry.Embassy(1, 2), nil) {
		t.Error("a 2.5x fleet edge should not tempt an opportunist")
	}

	sim.Empires[1].FleetPower = 200
	if !sim.WantWarOfOpportunity(sim.Registry.Embassy(1, 2), nil) {
		t.Error("a 3.3x fleet edge should tempt an aggressive opportunist")
	}

	// Honorable and pacifist leaders never take the opening.
	sim.Empires[0].FleetPower = 1000
	if sim.WantWarOfOpportunity(sim.Registry.Embassy(0, 2), nil) {
		t.Error("an honorable leader refuses wars of opportunity")
	}
}

func TestNextTurnAdvances(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)

	for turn := 1; turn <= 25; turn++ {
		sim.NextTurn(turn)
	}
	if sim.CurrentTurn() != 25 {
		t.Errorf("CurrentTurn = %d, want 25", sim.CurrentTurn())
	}

	// Relations stay within bounds and treaties stay symmetric throughout.
	for _, a := range sim.Empires {
		for _, b := range sim.Empires {
			if a.ID == b.ID {
				continue
			}
			e := sim.Registry.Embassy(a.ID, b.ID)
			if e.Relation() < -100 || e.Relation() > 100 {
				t.Errorf("relation %d->%d = %v out of bounds", a.ID, b.ID, e.Relation())
			}
			o := sim.Registry.Embassy(b.ID, a.ID)
			if e.Treaty().Kind != o.Treaty().Kind {
				t.Errorf("treaty asymmetry between %d and %d", a.ID, b.ID)
			}
		}
	}
}

func TestAgentsEventuallySignPeace(t *testing.T) {
	empires := []*empire.Empire{
		{ID: 0, Name: "Krell", Leader: empire.Leader{Personality: empire.Honorable}, Production: 100, FleetPower: 100, Colonies: 5},
		{ID: 1, Name: "Vauln", Leader: empire.Leader{Personality: empire.Pacifist}, Production: 100, FleetPower: 100, Colonies: 5},
	}
	sim := NewSimulation(empires, 1)
	sim.Registry.DeclareWar(0, 1, 1)

	peaceTurn := 0
	for turn := 2; turn <= 120; turn++ {
		sim.NextTurn(turn)
		if !sim.Registry.AtWarWith(0, 1) {
			peaceTurn = turn
			break
		}
	}
	if peaceTurn == 0 {
		t.Fatalf("war never ended; relation %v", sim.Registry.Relations(0, 1))
	}
	// The war has to run at least 15 turns past its declaration before
	// either side considers peace.
	if peaceTurn <= 16 {
		t.Errorf("peace at turn %d, want the minimum war length respected", peaceTurn)
	}
	if !sim.Registry.Embassy(0, 1).AtPeace() {
		t.Error("the war should end in a signed peace treaty")
	}
}

func TestNextTurnSkipsExtinct(t *testing.T) {
	sim := NewSimulation(testRoster(), 1)
	sim.Empires[2].Extinct = true

	sim.NextTurn(1)

	// The extinct empire's records are left untouched (contact age frozen).
	e := sim.Registry.Embassy(0, 2)
	if len(e.NewIncidents()) != 0 {
		t.Error("no assessment should run against an extinct empire")
	}
}

func TestEngineStep(t *testing.T) {
	eng := NewEngine()
	var seen []int
	eng.OnTurn = func(turn int) { seen = append(seen, turn) }

	eng.Step()
	eng.Step()
	eng.Step()

	if eng.Turn != 3 {
		t.Errorf("Turn = %d, want 3", eng.Turn)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("OnTurn calls = %v, want [1 2 3]", seen)
	}
}
