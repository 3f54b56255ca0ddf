package diplomacy

// War preparation: a pending, re-validated justification held prior to an
// actual war declaration.

// Policy answers whether an empire's current evaluation still endorses a
// non-incident-backed war justification. The surrounding simulation
// provides it; a nil policy endorses nothing.
type Policy interface {
	WantWarOfHate(owner, other *Embassy) bool
	WantWarOfOpportunity(owner, other *Embassy) bool
}

// BeginWarPreparations puts the owner on a war footing toward the other
// party. An existing casus-belli incident is only replaced by a strictly
// more severe one.
func (e *Embassy) BeginWarPreparations(j Justification, inc *Incident, turn int) {
	if e.casusBelli != nil && e.casusBelli.MoreSevere(inc, turn) {
		return
	}
	e.warFooting = true
	e.justification = j
	e.casusBelli = inc
	e.IgnoreSpyThreat()
	e.IgnoreThreat()
}

// EndWarPreparations cancels any pending war footing.
func (e *Embassy) EndWarPreparations() {
	e.warFooting = false
	e.justification = JustNone
	e.casusBelli = nil
}

// evaluateWarPreparations re-validates the pending justification at the
// start of each turn. An incident-backed footing stands only while its
// incident still justifies war; hate and opportunity footings stand only
// while the owner's policy still endorses them.
func (e *Embassy) evaluateWarPreparations(policy Policy, otherEmbassy *Embassy) {
	if e.casusBelli != nil {
		if !e.casusBelli.TriggersWar() {
			e.EndWarPreparations()
		}
		return
	}
	switch e.justification {
	case JustHate:
		if policy == nil || !policy.WantWarOfHate(e, otherEmbassy) {
			e.EndWarPreparations()
		}
	case JustOpportunity:
		if policy == nil || !policy.WantWarOfOpportunity(e, otherEmbassy) {
			e.EndWarPreparations()
		}
	}
}
