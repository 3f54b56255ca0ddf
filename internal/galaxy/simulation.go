package galaxy

import (
	"log/slog"
	"math/rand"

	"github.com/aldred/star-concord/internal/diplomacy"
	"github.com/aldred/star-concord/internal/empire"
	"github.com/aldred/star-concord/internal/notify"
)

// Simulation holds the galaxy state and wires the diplomacy registry to
// its collaborators. It implements the registry's Roster, Observer,
// Policy and StrategyHook interfaces.
type Simulation struct {
	Empires  []*empire.Empire
	Index    map[empire.ID]*empire.Empire
	Registry *diplomacy.Registry
	Notices  *notify.Recorder
	LastTurn int

	// Transient fleet trespass reports per directed pair, in turns left.
	trespass map[[2]empire.ID]int

	rng *rand.Rand
}

// NewSimulation builds a simulation from a roster. Every pair of empires
// makes contact during setup; relationships persist for the whole run.
func NewSimulation(empires []*empire.Empire, seed int64) *Simulation {
	index := make(map[empire.ID]*empire.Empire, len(empires))
	for _, e := range empires {
		index[e.ID] = e
	}

	sim := &Simulation{
		Empires:  empires,
		Index:    index,
		Notices:  &notify.Recorder{Next: notify.LogDispatcher{}},
		trespass: make(map[[2]empire.ID]int),
		rng:      rand.New(rand.NewSource(seed)),
	}

	reg := diplomacy.NewRegistry(sim, seed)
	reg.SetDispatcher(sim.Notices)
	reg.SetObserver(sim)
	reg.SetPolicy(sim)
	reg.SetStrategyHook(sim)
	sim.Registry = reg

	for i, a := range empires {
		for _, b := range empires[i+1:] {
			reg.MakeContact(a.ID, b.ID, 0)
		}
	}
	return sim
}

// CurrentTurn returns the most recently processed turn number.
func (s *Simulation) CurrentTurn() int { return s.LastTurn }

// ── Roster ──────────────────────────────────────────────────────────────

func (s *Simulation) Empire(id empire.ID) *empire.Empire { return s.Index[id] }

func (s *Simulation) EmpireIDs() []empire.ID {
	ids := make([]empire.ID, 0, len(s.Empires))
	for _, e := range s.Empires {
		ids = append(ids, e.ID)
	}
	return ids
}

// ── Observer ────────────────────────────────────────────────────────────

func (s *Simulation) TrespassingFleets(owner, other empire.ID) int {
	if s.trespass[[2]empire.ID{owner, other}] > 0 {
		return 1 + s.rng.Intn(3)
	}
	return 0
}

func (s *Simulation) FleetPower(id empire.ID) float64 { return s.Index[id].FleetPower }

func (s *Simulation) ColonyCount(id empire.ID) int { return s.Index[id].Colonies }

func (s *Simulation) AverageColonyCount() float64 {
	total := 0
	alive := 0
	for _, e := range s.Empires {
		if !e.Extinct {
			total += e.Colonies
			alive++
		}
	}
	if alive == 0 {
		return 0
	}
	return float64(total) / float64(alive)
}

// ── Policy ──────────────────────────────────────────────────────────────

// WantWarOfHate endorses a hate war while the owner's relation stays
// deeply negative; aggressive and ruthless leaders need less provocation.
func (s *Simulation) WantWarOfHate(e, _ *diplomacy.Embassy) bool {
	threshold := -70.0
	p := s.Index[e.Owner].Leader.Personality
	if p == empire.Aggressive || p == empire.Ruthless {
		threshold = -50
	}
	return e.Relation() < threshold
}

// WantWarOfOpportunity endorses an opportunistic war only with an
// overwhelming fleet advantage, and never for honorable or pacifist
// leaders.
func (s *Simulation) WantWarOfOpportunity(e, _ *diplomacy.Embassy) bool {
	leader := s.Index[e.Owner].Leader
	if leader.IsHonorable() || leader.IsPacifist() {
		return false
	}
	other := s.Index[e.Other].FleetPower
	return other > 0 && s.Index[e.Owner].FleetPower/other >= 3
}

// ── StrategyHook ────────────────────────────────────────────────────────

func (s *Simulation) RecalcDistances(id empire.ID) {
	slog.Debug("recalculating fleet distances", "empire", s.Index[id].Name)
}

func (s *Simulation) ShareSystemInfo(owner, ally empire.ID) {
	slog.Debug("sharing system intelligence", "empire", s.Index[owner].Name, "ally", s.Index[ally].Name)
}

// ── Per-turn processing ─────────────────────────────────────────────────

// NextTurn advances all relationships by one turn: each ordered pair is
// assessed exactly once, fleet movements update trespass reports, and the
// agent-controlled empires act on their diplomatic posture.
func (s *Simulation) NextTurn(turn int) {
	s.LastTurn = turn
	s.moveFleets(turn)

	for i, a := range s.Empires {
		for j, b := range s.Empires {
			if i == j || a.Extinct || b.Extinct {
				continue
			}
			s.Registry.AssessTurn(a.ID, b.ID, turn)
		}
	}

	s.stepAgents(turn)
	s.logTurnSummary(turn)
}

// moveFleets ages out trespass reports and occasionally sends an
// aggressive empire's fleets straying into a neighbor's territory.
func (s *Simulation) moveFleets(turn int) {
	for k, left := range s.trespass {
		if left <= 1 {
			delete(s.trespass, k)
		} else {
			s.trespass[k] = left - 1
		}
	}
	for _, a := range s.Empires {
		if a.Extinct || a.Human || !a.Leader.IsAggressive() {
			continue
		}
		if s.rng.Float64() > 0.05 {
			continue
		}
		b := s.Empires[s.rng.Intn(len(s.Empires))]
		if b.ID == a.ID || b.Extinct {
			continue
		}
		s.trespass[[2]empire.ID{b.ID, a.ID}] = 2 + s.rng.Intn(3)
	}
}

// stepAgents runs the agent-controlled empires' diplomatic behavior for
// the turn: war footing on deep hostility, declarations once prepared,
// and treaty-building while relations are warm.
func (s *Simulation) stepAgents(turn int) {
	for _, a := range s.Empires {
		if a.Human || a.Extinct {
			continue
		}
		for _, b := range s.Empires {
			if b.ID == a.ID || b.Extinct {
				continue
			}
			e := s.Registry.Embassy(a.ID, b.ID)
			if !e.Contact() {
				continue
			}

			switch {
			case e.WarFooting() && !e.War():
				s.Registry.DeclareWar(a.ID, b.ID, turn)
			case !e.War() && s.WantWarOfHate(e, nil):
				e.BeginWarPreparations(diplomacy.JustHate, nil, turn)
			case !e.War() && a.Leader.IsErratic() && s.rng.Float64() < 0.002:
				e.BeginWarPreparations(diplomacy.JustErratic, nil, turn)
			case e.War() && e.TreatyTurn() >= 0 && turn-e.TreatyTurn() > 15 &&
				e.Relation() > -20 && e.ReadyForPeace():
				s.Registry.SignPeace(a.ID, b.ID, turn)
				e.ResetPeaceTimer(1)
			case e.NoTreaty() && e.Relation() > 60 && e.ReadyForPact():
				s.Registry.SignPact(a.ID, b.ID, turn)
				e.ResetPactTimer()
			case e.Pact() && e.Relation() > 80 && e.ReadyForAlliance():
				s.Registry.SignAlliance(a.ID, b.ID, turn)
				e.ResetAllianceTimer()
			case e.TradeLevel() == 0 && !e.War() && e.Relation() > 30:
				level := int(min(a.Production, b.Production) / 10)
				if level > 0 && e.ReadyForTrade(level) {
					s.Registry.EstablishTradeTreaty(a.ID, b.ID, level)
					e.ResetTradeTimer(level)
				}
			case e.TradeLevel() > 0 && !e.TradePraised() && e.Relation() > 50:
				e.PraiseTrade()
				e.PraiseSent()
			}
		}
	}
}

func (s *Simulation) logTurnSummary(turn int) {
	var wars, alliances, pacts, peaces int
	var totalRelation float64
	var relations int
	for i, a := range s.Empires {
		for _, b := range s.Empires[i+1:] {
			if a.Extinct || b.Extinct {
				continue
			}
			e := s.Registry.Embassy(a.ID, b.ID)
			totalRelation += e.Relation()
			relations++
			switch e.Treaty().Kind {
			case diplomacy.TreatyWar:
				wars++
			case diplomacy.TreatyAlliance:
				alliances++
			case diplomacy.TreatyPact:
				pacts++
			case diplomacy.TreatyPeace:
				peaces++
			}
		}
	}
	avg := 0.0
	if relations > 0 {
		avg = totalRelation / float64(relations)
	}
	slog.Info("turn report",
		"turn", turn,
		"wars", wars,
		"alliances", alliances,
		"pacts", pacts,
		"peace_treaties", peaces,
		"avg_relation", avg,
		"notices", len(s.Notices.Notices),
	)
}
