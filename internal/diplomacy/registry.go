package diplomacy

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/aldred/star-concord/internal/empire"
	"github.com/aldred/star-concord/internal/notify"
)

// Roster resolves empire identities for the engine.
type Roster interface {
	Empire(id empire.ID) *empire.Empire
	EmpireIDs() []empire.ID
}

// StrategyHook receives treaty side effects that matter to collaborators:
// alliance changes force distance recalculation, and new allies share
// system intelligence.
type StrategyHook interface {
	RecalcDistances(id empire.ID)
	ShareSystemInfo(owner, ally empire.ID)
}

type pairKey struct {
	owner empire.ID
	other empire.ID
}

// Registry owns every directed embassy record, addressed by (owner, other)
// pair key. All pair-mutating treaty operations live here and update both
// directed records before posting any incident, so re-entrant incident
// hooks can never observe a half-updated pair.
type Registry struct {
	roster     Roster
	policy     Policy
	observer   Observer
	strategy   StrategyHook
	dispatcher notify.Dispatcher
	rng        *rand.Rand
	embassies  map[pairKey]*Embassy
}

// NewRegistry creates an empty relationship table. The seed drives the
// peace-duration roll so simulations stay deterministic.
func NewRegistry(roster Roster, seed int64) *Registry {
	return &Registry{
		roster:     roster,
		dispatcher: notify.LogDispatcher{},
		rng:        rand.New(rand.NewSource(seed)),
		embassies:  make(map[pairKey]*Embassy),
	}
}

func (r *Registry) SetPolicy(p Policy)               { r.policy = p }
func (r *Registry) SetObserver(o Observer)           { r.observer = o }
func (r *Registry) SetStrategyHook(s StrategyHook)   { r.strategy = s }
func (r *Registry) SetDispatcher(d notify.Dispatcher) { r.dispatcher = d }

// EmpireName implements Namer for incident descriptions.
func (r *Registry) EmpireName(id empire.ID) string {
	if e := r.roster.Empire(id); e != nil {
		return e.Name
	}
	return fmt.Sprintf("empire %d", id)
}

// Embassy returns the directed record for owner toward other. Reading
// state for a pair that never made contact is an ordering bug in the
// caller, and fails loudly rather than defaulting.
func (r *Registry) Embassy(owner, other empire.ID) *Embassy {
	e, ok := r.embassies[pairKey{owner, other}]
	if !ok {
		panic(fmt.Sprintf("diplomacy: no embassy for %d toward %d", owner, other))
	}
	return e
}

// HasEmbassy reports whether a directed record exists.
func (r *Registry) HasEmbassy(owner, other empire.ID) bool {
	_, ok := r.embassies[pairKey{owner, other}]
	return ok
}

// Relations returns owner's relation score toward other.
func (r *Registry) Relations(owner, other empire.ID) float64 {
	return r.Embassy(owner, other).Relation()
}

// MakeContact creates (or re-establishes) the paired directed records for
// two empires and notifies any human party. Calling it on a pair already
// in contact is a no-op.
func (r *Registry) MakeContact(a, b empire.ID, turn int) {
	ea := r.ensureEmbassy(a, b)
	eb := r.ensureEmbassy(b, a)
	newContact := false
	for _, e := range []*Embassy{ea, eb} {
		if !e.contact {
			e.contact = true
			e.contactTurn = turn
			newContact = true
		}
	}
	if !newContact {
		return
	}
	slog.Info("first contact", "empire", r.EmpireName(a), "other", r.EmpireName(b), "turn", turn)
	for _, e := range []*Embassy{ea, eb} {
		if r.roster.Empire(e.Other).Human {
			r.dispatcher.Dispatch(notify.Notice{
				Turn:     turn,
				Audience: e.Other,
				Event:    notify.EventFirstContact,
				Message:  fmt.Sprintf("contact established with %s", r.EmpireName(e.Owner)),
			})
		}
	}
}

func (r *Registry) ensureEmbassy(owner, other empire.ID) *Embassy {
	k := pairKey{owner, other}
	if e, ok := r.embassies[k]; ok {
		return e
	}
	e := newEmbassy(r.roster.Empire(owner), r.roster.Empire(other))
	r.embassies[k] = e
	return e
}

// RemoveContact severs the relationship: treaty reset, trade stopped,
// spies hidden, both sides marked out of contact.
func (r *Registry) RemoveContact(a, b empire.ID) {
	ea := r.Embassy(a, b)
	eb := r.Embassy(b, a)
	r.setTreaty(a, b, Treaty{Kind: TreatyNone})
	for _, e := range []*Embassy{ea, eb} {
		e.contact = false
		e.tradeLevel = 0
		e.spiesHidden = true
	}
}

// Allies lists the empires id holds an alliance with.
func (r *Registry) Allies(id empire.ID) []empire.ID {
	var out []empire.ID
	for k, e := range r.embassies {
		if k.owner == id && e.contact && e.Alliance() {
			out = append(out, k.other)
		}
	}
	return out
}

// WarEnemies lists the empires id is at war with.
func (r *Registry) WarEnemies(id empire.ID) []empire.ID {
	var out []empire.ID
	for k, e := range r.embassies {
		if k.owner == id && e.contact && e.War() {
			out = append(out, k.other)
		}
	}
	return out
}

// AlliedWith reports whether two empires hold an alliance.
func (r *Registry) AlliedWith(a, b empire.ID) bool {
	return r.HasEmbassy(a, b) && r.Embassy(a, b).Alliance()
}

// AtWarWith reports whether two empires are at war.
func (r *Registry) AtWarWith(a, b empire.ID) bool {
	return r.HasEmbassy(a, b) && r.Embassy(a, b).War()
}

// AlliedWithEnemy reports whether the other party of this pair holds an
// alliance with any war enemy of owner.
func (r *Registry) AlliedWithEnemy(owner, other empire.ID) bool {
	for _, enemy := range r.WarEnemies(owner) {
		if enemy != other && r.AlliedWith(other, enemy) {
			return true
		}
	}
	return false
}

// AddIncident posts an incident to owner's ledger toward other, folding
// its severity into the relation score and letting the standing treaty
// react. Duplicate keys keep only the more severe incident.
func (r *Registry) AddIncident(owner, other empire.ID, inc *Incident, turn int) {
	r.postIncident(r.Embassy(owner, other), inc, turn)
}

// postIncident is the ledger insert plus the treaty incident-notice hook.
// Sufficiently severe unprovoked attacks escalate straight to war; the
// treaty is always fully mirrored before the hook runs, so the hook can
// never re-mutate a half-written pair.
func (r *Registry) postIncident(e *Embassy, inc *Incident, turn int) {
	if !e.addIncident(inc, turn) {
		slog.Debug("incident discarded", "key", inc.Key(), "owner", int(e.Owner))
		return
	}
	slog.Debug("incident added", "key", inc.Key(), "owner", int(e.Owner), "severity", inc.CurrentSeverity(turn))
	if r.roster.Empire(e.Owner).Human {
		r.dispatcher.Dispatch(notify.Notice{
			Turn:     turn,
			Audience: e.Owner,
			Event:    notify.EventIncident,
			Message:  inc.Describe(r),
		})
	}
	if !e.War() && inc.TriggersImmediateWar() {
		r.declareWar(e.Owner, e.Other, empire.None, inc, turn)
	}
}

// setTreaty writes the treaty variant to both directed records.
func (r *Registry) setTreaty(a, b empire.ID, t Treaty) {
	r.Embassy(a, b).treaty = t
	r.Embassy(b, a).treaty = t
}

// beginTreaty stamps the start turn on both directed records.
func (r *Registry) beginTreaty(a, b empire.ID, turn int) {
	r.Embassy(a, b).treatyTurn = turn
	r.Embassy(b, a).treatyTurn = turn
}

// endTreaty clears the start turn and restarts the pact and alliance
// cooldowns on both sides.
func (r *Registry) endTreaty(a, b empire.ID) {
	for _, e := range []*Embassy{r.Embassy(a, b), r.Embassy(b, a)} {
		e.treatyTurn = -1
		e.ResetPactTimer()
		e.ResetAllianceTimer()
	}
	if r.strategy != nil {
		r.strategy.RecalcDistances(a)
		r.strategy.RecalcDistances(b)
	}
}

// DeclareWar moves the pair to war. Already-warring pairs keep their
// treaty but still reset warning timers and withdraw ambassadors. The
// originating incident is chosen from, in order: the pending casus-belli
// incident, a justification-specific incident, or the generic declaration.
func (r *Registry) DeclareWar(owner, other empire.ID, turn int) *Incident {
	return r.declareWar(owner, other, empire.None, nil, turn)
}

// DeclareJointWar declares war as a result of a joint-war agreement with
// requestor. Any existing casus belli is discarded so the declaration is
// announced as the generic incident naming the requestor's war.
func (r *Registry) DeclareJointWar(owner, other, requestor empire.ID, turn int) *Incident {
	e := r.Embassy(owner, other)
	e.justification = JustNone
	e.casusBelli = nil
	return r.declareWar(owner, other, requestor, nil, turn)
}

// declareWar is the shared declaration path. cause, when set, is the
// incident that escalated straight to war; it backs the announced reason
// when no war preparations supplied one.
func (r *Registry) declareWar(owner, other, requestor empire.ID, cause *Incident, turn int) *Incident {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)

	oathBreak := 0
	if e.Alliance() {
		oathBreak = 1
	} else if e.Pact() {
		oathBreak = 2
	}
	r.endTreaty(owner, other)
	e.tradeLevel = 0
	o.tradeLevel = 0

	reason := e.justification
	if reason == JustNone {
		if e.casusBelli != nil {
			reason = e.casusBelli.WarJustification()
		} else if cause != nil {
			reason = cause.WarJustification()
		}
	}

	wasAtWar := e.War()
	if !wasAtWar {
		r.setTreaty(owner, other, Treaty{Kind: TreatyWar})
		r.beginTreaty(owner, other, turn)
		if r.roster.Empire(other).Human {
			msg := fmt.Sprintf("%s has declared war", r.EmpireName(owner))
			switch {
			case requestor != empire.None:
				msg = fmt.Sprintf("%s has declared war, joining %s's campaign", r.EmpireName(owner), r.EmpireName(requestor))
			case reason != JustNone:
				msg = fmt.Sprintf("%s has declared war (%s)", r.EmpireName(owner), reason)
			}
			r.dispatcher.Dispatch(notify.Notice{
				Turn:     turn,
				Audience: other,
				Event:    notify.EventWarDeclared,
				Message:  msg,
			})
		}
		slog.Info("war declared", "owner", r.EmpireName(owner), "other", r.EmpireName(other), "justification", reason.String(), "turn", turn)
	}

	e.ResetTimer(TimerSpyWarning)
	e.ResetTimer(TimerAttackWarning)
	e.ResetPeaceTimer(3)
	e.WithdrawAmbassador(r.roster.Empire(other).Leader)
	o.WithdrawAmbassador(r.roster.Empire(owner).Leader)

	inc := e.casusBelli
	if inc == nil {
		switch e.justification {
		case JustErratic:
			inc = NewErraticWar(turn, owner, other)
		case JustNone:
			inc = NewDeclareWar(turn, owner, other)
		default:
			inc = NewDeclareWar(turn, owner, other)
			oathBreak = 0
		}
	}
	r.postIncident(o, inc, turn)

	switch oathBreak {
	case 1:
		r.dispatcher.Dispatch(notify.Notice{
			Turn:     turn,
			Audience: empire.None,
			Event:    notify.EventAllianceBroken,
			Message:  fmt.Sprintf("the alliance between %s and %s has collapsed", r.EmpireName(owner), r.EmpireName(other)),
		})
		r.alertOathBreaker(owner, other, requestor, true, false, turn)
	case 2:
		r.alertOathBreaker(owner, other, requestor, false, false, turn)
	}

	// Human allies of either combatant hear that their ally is at war.
	r.notifyAlliesAtWar(owner, other, turn)
	r.notifyAlliesAtWar(other, owner, turn)

	e.EndWarPreparations()
	return inc
}

func (r *Registry) notifyAlliesAtWar(id, enemy empire.ID, turn int) {
	for _, ally := range r.Allies(id) {
		if r.roster.Empire(ally).Human {
			r.dispatcher.Dispatch(notify.Notice{
				Turn:     turn,
				Audience: ally,
				Event:    notify.EventAllyAtWar,
				Message:  fmt.Sprintf("your ally %s is at war with %s", r.EmpireName(id), r.EmpireName(enemy)),
			})
		}
	}
}

// alertOathBreaker raises the oath-breaker reputation incident with every
// third party in contact with the breaker. requestor, when set, is exempt:
// it asked for the betrayal.
func (r *Registry) alertOathBreaker(breaker, betrayed, requestor empire.ID, wasAlliance, caughtSpying bool, turn int) {
	for _, id := range r.roster.EmpireIDs() {
		if id == breaker || id == betrayed || id == requestor {
			continue
		}
		if !r.HasEmbassy(id, breaker) || !r.Embassy(id, breaker).Contact() {
			continue
		}
		r.postIncident(r.Embassy(id, breaker), NewOathBreaker(turn, id, breaker, betrayed, wasAlliance, caughtSpying), turn)
	}
}

// SignPeace ends a war with a rolled 10-15 turn peace treaty and
// reciprocal goodwill on both sides.
func (r *Registry) SignPeace(owner, other empire.ID, turn int) *Incident {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)
	r.beginTreaty(owner, other, turn)
	duration := 10 + r.rng.Intn(6)
	e.EndWarPreparations()
	o.EndWarPreparations()
	r.setTreaty(owner, other, Treaty{Kind: TreatyPeace, PeaceLeft: duration})
	e.spiesHidden = true
	o.spiesHidden = true
	inc := NewSignPeace(turn, owner, other, duration)
	r.postIncident(e, NewSignPeace(turn, other, owner, duration), turn)
	r.postIncident(o, inc, turn)
	slog.Info("peace signed", "owner", r.EmpireName(owner), "other", r.EmpireName(other), "duration", duration, "turn", turn)
	r.dispatchTreatyNotice(owner, other, notify.EventPeaceSigned, turn,
		fmt.Sprintf("%s and %s signed a %d-turn peace treaty", r.EmpireName(owner), r.EmpireName(other), duration))
	return inc
}

// SignPact establishes a non-aggression pact.
func (r *Registry) SignPact(owner, other empire.ID, turn int) *Incident {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)
	r.beginTreaty(owner, other, turn)
	e.EndWarPreparations()
	e.spiesHidden = true
	o.spiesHidden = true
	r.setTreaty(owner, other, Treaty{Kind: TreatyPact})
	inc := NewSignPact(turn, owner, other)
	r.postIncident(e, NewSignPact(turn, other, owner), turn)
	r.postIncident(o, inc, turn)
	slog.Info("pact signed", "owner", r.EmpireName(owner), "other", r.EmpireName(other), "turn", turn)
	r.dispatchTreatyNotice(owner, other, notify.EventPactSigned, turn,
		fmt.Sprintf("%s and %s signed a non-aggression pact", r.EmpireName(owner), r.EmpireName(other)))
	return inc
}

// SignAlliance forms an alliance: shared system intelligence, forced
// distance recalculation, and a galactic announcement.
func (r *Registry) SignAlliance(owner, other empire.ID, turn int) *Incident {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)
	r.beginTreaty(owner, other, turn)
	e.EndWarPreparations()
	r.setTreaty(owner, other, Treaty{Kind: TreatyAlliance})
	if r.strategy != nil {
		r.strategy.RecalcDistances(owner)
		r.strategy.RecalcDistances(other)
		r.strategy.ShareSystemInfo(owner, other)
		r.strategy.ShareSystemInfo(other, owner)
	}
	e.spiesHidden = true
	o.spiesHidden = true
	inc := NewSignAlliance(turn, owner, other)
	r.postIncident(e, NewSignAlliance(turn, other, owner), turn)
	r.postIncident(o, inc, turn)
	slog.Info("alliance formed", "owner", r.EmpireName(owner), "other", r.EmpireName(other), "turn", turn)
	r.dispatcher.Dispatch(notify.Notice{
		Turn:     turn,
		Audience: empire.None,
		Event:    notify.EventAllianceFormed,
		Message:  fmt.Sprintf("%s and %s have formed an alliance", r.EmpireName(owner), r.EmpireName(other)),
	})
	return inc
}

// BreakPact unilaterally ends a pact, penalizing the breaker with the
// counterparty and with observers.
func (r *Registry) BreakPact(owner, other empire.ID, caughtSpying bool, turn int) *Incident {
	o := r.Embassy(other, owner)
	r.endTreaty(owner, other)
	r.setTreaty(owner, other, Treaty{Kind: TreatyNone})
	inc := NewBreakPact(turn, owner, other, caughtSpying)
	r.postIncident(o, inc, turn)
	r.alertOathBreaker(owner, other, empire.None, false, caughtSpying, turn)
	r.dispatchTreatyNotice(owner, other, notify.EventPactBroken, turn,
		fmt.Sprintf("%s withdrew from its pact with %s", r.EmpireName(owner), r.EmpireName(other)))
	return inc
}

// BreakAlliance unilaterally dissolves an alliance.
func (r *Registry) BreakAlliance(owner, other empire.ID, caughtSpying bool, turn int) *Incident {
	o := r.Embassy(other, owner)
	r.endTreaty(owner, other)
	r.setTreaty(owner, other, Treaty{Kind: TreatyNone})
	inc := NewBreakAlliance(turn, owner, other, caughtSpying)
	r.postIncident(o, inc, turn)
	r.dispatcher.Dispatch(notify.Notice{
		Turn:     turn,
		Audience: empire.None,
		Event:    notify.EventAllianceBroken,
		Message:  fmt.Sprintf("the alliance between %s and %s has collapsed", r.EmpireName(owner), r.EmpireName(other)),
	})
	r.alertOathBreaker(owner, other, empire.None, true, caughtSpying, turn)
	return inc
}

// EstablishTradeTreaty starts a trade route at the given level.
func (r *Registry) EstablishTradeTreaty(owner, other empire.ID, level int) {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)
	e.tradePraised = false
	e.tradeLevel = level
	o.tradeLevel = level
}

// BreakTrade stops the trade route and penalizes the breaker.
func (r *Registry) BreakTrade(owner, other empire.ID, turn int) *Incident {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)
	e.tradeLevel = 0
	o.tradeLevel = 0
	inc := NewBreakTrade(turn, owner, other)
	r.postIncident(o, inc, turn)
	r.dispatchTreatyNotice(owner, other, notify.EventTradeBroken, turn,
		fmt.Sprintf("%s ended its trade agreement with %s", r.EmpireName(owner), r.EmpireName(other)))
	return inc
}

// ExchangeTechnology completes a tech swap, crediting goodwill on both
// sides in proportion to what each received.
func (r *Registry) ExchangeTechnology(a, b empire.ID, techToA, techToB string, valueToA, valueToB float64, turn int) *Incident {
	ea := r.Embassy(a, b)
	eb := r.Embassy(b, a)
	ea.LogTechExchangeRequest(techToA, []string{techToB})
	inc := NewExchangeTech(turn, r.roster.Empire(a), r.roster.Empire(b), techToA, valueToA)
	r.postIncident(ea, inc, turn)
	r.postIncident(eb, NewExchangeTech(turn, r.roster.Empire(b), r.roster.Empire(a), techToB, valueToB), turn)
	return inc
}

// RecordGenocide broadcasts the extermination of victim to every empire
// in contact with the attacker.
func (r *Registry) RecordGenocide(attacker, victim empire.ID, turn int) {
	for _, id := range r.roster.EmpireIDs() {
		if id == attacker || id == victim {
			continue
		}
		if !r.HasEmbassy(id, attacker) || !r.Embassy(id, attacker).Contact() {
			continue
		}
		inc := NewGenocide(turn, r.roster.Empire(id), r.roster.Empire(attacker), r.roster.Empire(victim), r)
		r.postIncident(r.Embassy(id, attacker), inc, turn)
	}
}

// RecordGuardianKill broadcasts a guardian kill to every empire in
// contact with the killer.
func (r *Registry) RecordGuardianKill(killer empire.ID, guardian string, turn int) {
	for _, id := range r.roster.EmpireIDs() {
		if id == killer {
			continue
		}
		if !r.HasEmbassy(id, killer) || !r.Embassy(id, killer).Contact() {
			continue
		}
		r.postIncident(r.Embassy(id, killer), NewKillGuardian(turn, id, killer, guardian), turn)
	}
}

// NoteJointWarAgreement records, in the war target's ledger, that signer
// agreed to join partner's war against it.
func (r *Registry) NoteJointWarAgreement(signer, partner, against empire.ID, turn int) {
	if !r.HasEmbassy(against, signer) {
		return
	}
	r.postIncident(r.Embassy(against, signer), NewSignJointWar(turn, signer, partner, against), turn)
}

func (r *Registry) dispatchTreatyNotice(a, b empire.ID, event string, turn int, msg string) {
	for _, id := range []empire.ID{a, b} {
		if r.roster.Empire(id).Human {
			r.dispatcher.Dispatch(notify.Notice{Turn: turn, Audience: id, Event: event, Message: msg})
		}
	}
}

// AssessTurn advances one directed embassy by one turn, in the fixed
// order: war-preparation re-evaluation, relation drift, incident
// prune/refresh and pattern detection, named timer decay per the
// human/agent policy split, generic timer decay with threat-flag
// clearing, ambassador return, quota reset, hysteresis decay.
//
// The simulation must call this exactly once per ordered pair per turn;
// it is deliberately not idempotent within a turn.
func (r *Registry) AssessTurn(owner, other empire.ID, turn int) {
	e := r.Embassy(owner, other)
	o := r.Embassy(other, owner)

	e.evaluateWarPreparations(r.policy, o)

	ownerEmp := r.roster.Empire(owner)
	otherEmp := r.roster.Empire(other)
	e.driftRelations(ownerEmp.BaseRelations(otherEmp))

	// Peace treaties tick down once per pair per turn, on the canonical
	// direction, and the lapse is written through to both records.
	if e.treaty.IsPeace() && owner < other {
		t := e.treaty
		t.PeaceLeft--
		if t.PeaceLeft <= 0 {
			r.setTreaty(owner, other, Treaty{Kind: TreatyNone})
			r.beginTreatyLapse(owner, other)
		} else {
			r.setTreaty(owner, other, t)
		}
	}

	e.newIncidents = e.newIncidents[:0]
	e.clearForgottenIncidents(turn)
	r.runDetectors(e, turn)
	e.refreshNewIncidents(turn)

	// Human refusals are remembered across turns to discourage proposal
	// spam; agent refusals reset every turn so a human may re-ask freely.
	if e.ownerHuman {
		e.tradeTimer = max(0, e.tradeTimer-1)
		e.techTimer = max(0, e.techTimer-1)
		e.peaceTimer = max(0, e.peaceTimer-1)
		e.pactTimer = max(0, e.pactTimer-1)
		e.allianceTimer = max(0, e.allianceTimer-1)
		e.jointWarTimer = max(0, e.jointWarTimer-1)
	} else {
		e.tradeTimer = 0
		e.techTimer = 0
		e.peaceTimer = 0
		e.pactTimer = 0
		e.allianceTimer = 0
		e.jointWarTimer = 0
	}

	for i := range e.timers {
		e.timers[i] = max(0, e.timers[i]-1)
	}
	if !e.TimerIsActive(TimerAttackWarning) {
		e.IgnoreThreat()
	}
	if !e.TimerIsActive(TimerSpyWarning) {
		e.IgnoreSpyThreat()
	}

	e.diplomatGoneTimer = max(0, e.diplomatGoneTimer-1)

	e.requestCount = 0
	e.currentMaxRequests = min(e.currentMaxRequests+1, MaxRequestsPerTurn)

	e.minimumPraiseLevel = min(20, e.minimumPraiseLevel)
	e.minimumWarnLevel = min(20, e.minimumWarnLevel)
	e.minimumPraiseLevel = e.MinimumPraiseLevel() - 1
	e.minimumWarnLevel = e.MinimumWarnLevel() - 1
}

// beginTreatyLapse clears the start turn when a peace expires quietly.
func (r *Registry) beginTreatyLapse(a, b empire.ID) {
	r.Embassy(a, b).treatyTurn = -1
	r.Embassy(b, a).treatyTurn = -1
}
