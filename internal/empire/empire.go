// Package empire defines the participants of the diplomacy engine.
// An Empire is an autonomous party identified by a stable ID; its leader
// disposition shapes baseline relations and cooldown behavior.
package empire

// ID is a unique identifier for an empire.
type ID int

// None marks the absence of an empire (e.g. a notice addressed to everyone).
const None ID = -1

// Personality describes a leader's temperament.
type Personality uint8

const (
	Erratic Personality = iota
	Pacifist
	Honorable
	Ruthless
	Aggressive
	Xenophobic
)

var personalityNames = [...]string{"erratic", "pacifist", "honorable", "ruthless", "aggressive", "xenophobic"}

func (p Personality) String() string {
	if int(p) < len(personalityNames) {
		return personalityNames[p]
	}
	return "unknown"
}

// ParsePersonality maps a config string to a Personality.
func ParsePersonality(s string) (Personality, bool) {
	for i, name := range personalityNames {
		if name == s {
			return Personality(i), true
		}
	}
	return 0, false
}

// Objective describes what a leader values most.
type Objective uint8

const (
	Diplomat Objective = iota
	Militarist
	Ecologist
	Industrialist
	Expansionist
	Technologist
)

var objectiveNames = [...]string{"diplomat", "militarist", "ecologist", "industrialist", "expansionist", "technologist"}

func (o Objective) String() string {
	if int(o) < len(objectiveNames) {
		return objectiveNames[o]
	}
	return "unknown"
}

// ParseObjective maps a config string to an Objective.
func ParseObjective(s string) (Objective, bool) {
	for i, name := range objectiveNames {
		if name == s {
			return Objective(i), true
		}
	}
	return 0, false
}

// Leader is an empire's ruling disposition.
type Leader struct {
	Personality Personality
	Objective   Objective
}

func (l Leader) IsDiplomat() bool   { return l.Objective == Diplomat }
func (l Leader) IsXenophobic() bool { return l.Personality == Xenophobic }
func (l Leader) IsErratic() bool    { return l.Personality == Erratic }
func (l Leader) IsPacifist() bool   { return l.Personality == Pacifist }
func (l Leader) IsAggressive() bool { return l.Personality == Aggressive }
func (l Leader) IsHonorable() bool  { return l.Personality == Honorable }

// dispositionMod is a leader's contribution to baseline relations with anyone.
func (l Leader) dispositionMod() float64 {
	var mod float64
	switch l.Personality {
	case Pacifist:
		mod += 10
	case Honorable:
		mod += 5
	case Erratic:
		mod -= 5
	case Aggressive, Ruthless:
		mod -= 10
	case Xenophobic:
		mod -= 20
	}
	if l.Objective == Diplomat {
		mod += 10
	}
	return mod
}

// Empire is one party to diplomacy. Production, fleet and colony numbers
// are flat snapshots owned by the surrounding simulation; the engine only
// reads them to compute incident severities and posture.
type Empire struct {
	ID      ID
	Name    string
	Human   bool // human-controlled party (affects cooldown policy)
	Extinct bool
	Leader  Leader

	Production float64 // total planetary production per turn
	FleetPower float64
	Colonies   int
}

// BaseRelations is the static baseline relation value from this empire
// toward another. Relations drift 1/100th of the way toward it each turn.
func (e *Empire) BaseRelations(other *Empire) float64 {
	base := e.Leader.dispositionMod() + other.Leader.dispositionMod()
	if base < -40 {
		base = -40
	}
	if base > 40 {
		base = 40
	}
	return base
}
