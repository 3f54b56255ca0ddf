package diplomacy

import (
	"math"

	"github.com/aldred/star-concord/internal/empire"
)

// Observer supplies the world posture the per-turn pattern detectors read.
// Unlike the discrete incident factories, detectors synthesize incidents
// from current state each turn; their incidents live one turn and share a
// fixed key so a persisting condition never double-counts.
type Observer interface {
	// TrespassingFleets counts the other empire's fleets inside the
	// owner's territory.
	TrespassingFleets(owner, other empire.ID) int
	FleetPower(id empire.ID) float64
	ColonyCount(id empire.ID) int
	AverageColonyCount() float64
}

// runDetectors synthesizes the fixed per-turn pattern incidents for one
// directed embassy. obs may be nil when the engine runs without a world.
func (r *Registry) runDetectors(e *Embassy, turn int) {
	r.detectAtWarWithAlly(e, turn)
	r.detectAlliedWithEnemy(e, turn)
	if r.observer == nil {
		return
	}
	r.detectTrespassing(e, turn)
	r.detectExpansion(e, turn)
	r.detectMilitaryBuildup(e, turn)
}

func (r *Registry) detectAtWarWithAlly(e *Embassy, turn int) {
	for _, ally := range r.Allies(e.Owner) {
		if ally == e.Other {
			continue
		}
		if r.AtWarWith(e.Other, ally) {
			r.postIncident(e, &Incident{
				Kind:         KindAtWarWithAlly,
				Severity:     -15,
				Duration:     detectorDuration,
				TurnOccurred: turn,
				Actor:        e.Other,
				Target:       e.Owner,
				Third:        ally,
			}, turn)
			return
		}
	}
}

func (r *Registry) detectAlliedWithEnemy(e *Embassy, turn int) {
	for _, enemy := range r.WarEnemies(e.Owner) {
		if enemy == e.Other {
			continue
		}
		if r.AlliedWith(e.Other, enemy) {
			r.postIncident(e, &Incident{
				Kind:         KindAlliedWithEnemy,
				Severity:     -15,
				Duration:     detectorDuration,
				TurnOccurred: turn,
				Actor:        e.Other,
				Target:       e.Owner,
				Third:        enemy,
			}, turn)
			return
		}
	}
}

func (r *Registry) detectTrespassing(e *Embassy, turn int) {
	fleets := r.observer.TrespassingFleets(e.Owner, e.Other)
	if fleets <= 0 || e.IsFriend() || e.War() {
		return
	}
	r.postIncident(e, &Incident{
		Kind:         KindTrespassing,
		Severity:     math.Max(-10, -2*float64(fleets)),
		Duration:     detectorDuration,
		TurnOccurred: turn,
		Actor:        e.Other,
		Target:       e.Owner,
		Third:        empire.None,
	}, turn)
}

func (r *Registry) detectMilitaryBuildup(e *Embassy, turn int) {
	ownerPower := r.observer.FleetPower(e.Owner)
	otherPower := r.observer.FleetPower(e.Other)
	if ownerPower <= 0 || otherPower/ownerPower < 2 {
		return
	}
	ratio := otherPower / ownerPower
	r.postIncident(e, &Incident{
		Kind:         KindMilitaryBuildup,
		Severity:     math.Max(-15, -5*(ratio-1)),
		Duration:     detectorDuration,
		TurnOccurred: turn,
		Actor:        e.Other,
		Target:       e.Owner,
		Third:        empire.None,
	}, turn)
}

func (r *Registry) detectExpansion(e *Embassy, turn int) {
	avg := r.observer.AverageColonyCount()
	if avg <= 0 {
		return
	}
	ratio := float64(r.observer.ColonyCount(e.Other)) / avg
	if ratio <= 1.5 {
		return
	}
	r.postIncident(e, &Incident{
		Kind:         KindExpansion,
		Severity:     math.Max(-20, -10*(ratio-1)),
		Duration:     detectorDuration,
		TurnOccurred: turn,
		Actor:        e.Other,
		Target:       e.Owner,
		Third:        empire.None,
	}, turn)
}
