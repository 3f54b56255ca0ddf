package diplomacy

// Ledger operations: the deduplicating, turn-aware incident store carried
// by each embassy.

// Incidents returns all live incidents in the ledger.
func (e *Embassy) Incidents() []*Incident {
	out := make([]*Incident, 0, len(e.incidents))
	for _, inc := range e.incidents {
		out = append(out, inc)
	}
	return out
}

// IncidentWithKey returns the live incident stored under a canonical key,
// or nil.
func (e *Embassy) IncidentWithKey(key string) *Incident { return e.incidents[key] }

// NewIncidents is the set of incidents that arrived within the last turn,
// used to drive player-facing notifications.
func (e *Embassy) NewIncidents() []*Incident { return e.newIncidents }

// addIncident stores an incident unless a strictly more severe one is
// already live under the same key, and folds its severity into the
// relation score. At most one live incident per key is an invariant, not
// an optimization: it stops one provocation from double-counting while
// its window is active. Reports whether the incident was accepted.
func (e *Embassy) addIncident(inc *Incident, turn int) bool {
	k := inc.Key()
	if !inc.MoreSevere(e.incidents[k], turn) {
		return false
	}
	e.incidents[k] = inc
	e.applySeverity(inc.CurrentSeverity(turn))
	return true
}

// clearForgottenIncidents prunes fully decayed entries.
func (e *Embassy) clearForgottenIncidents(turn int) {
	for k, inc := range e.incidents {
		if inc.Forgotten(turn) {
			delete(e.incidents, k)
		}
	}
}

// refreshNewIncidents rebuilds the new-this-turn view.
func (e *Embassy) refreshNewIncidents(turn int) {
	e.newIncidents = e.newIncidents[:0]
	for _, inc := range e.incidents {
		if turn-inc.TurnOccurred < 1 {
			e.newIncidents = append(e.newIncidents, inc)
		}
	}
}

// CurrentSpyIncidentSeverity sums the live espionage incidents' current
// severity, floored at -50.
func (e *Embassy) CurrentSpyIncidentSeverity(turn int) float64 {
	sev := 0.0
	for _, inc := range e.incidents {
		if inc.Spying() {
			sev += inc.CurrentSeverity(turn)
		}
	}
	if sev < -50 {
		sev = -50
	}
	return sev
}

// HasCurrentSpyIncident reports whether any espionage incident occurred
// this turn.
func (e *Embassy) HasCurrentSpyIncident(turn int) bool {
	for _, inc := range e.incidents {
		if inc.Spying() && inc.TurnOccurred == turn {
			return true
		}
	}
	return false
}

// HasCurrentAttackIncident reports whether any attack incident occurred
// this turn.
func (e *Embassy) HasCurrentAttackIncident(turn int) bool {
	for _, inc := range e.incidents {
		if inc.Attacking() && inc.TurnOccurred == turn {
			return true
		}
	}
	return false
}
