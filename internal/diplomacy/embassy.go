package diplomacy

import (
	"math"

	"github.com/aldred/star-concord/internal/empire"
)

// Cooldown delays in turns for each proposal type, and the diplomatic
// bandwidth cap.
const (
	TechDelay          = 1
	TradeDelay         = 10
	PeaceDelay         = 10
	PactDelay          = 20
	AllianceDelay      = 30
	JointWarDelay      = 20
	MaxRequestsPerTurn = 4
)

// ambassadorRecalled is the sentinel withdrawal for a closed embassy.
const ambassadorRecalled = math.MaxInt32

// Embassy is one empire's directed diplomatic record toward another.
// Relation, incidents, timers and quotas are owned by this side alone;
// the treaty fields are owned jointly by the pair and are only written
// through Registry operations that update both directed records.
type Embassy struct {
	Owner empire.ID
	Other empire.ID

	relation    float64
	contact     bool
	contactTurn int

	treaty     Treaty
	treatyTurn int

	incidents    map[string]*Incident
	newIncidents []*Incident
	offeredTechs map[string][]string

	warFooting    bool
	justification Justification
	casusBelli    *Incident

	// Whether each side of the pair is human-controlled. Fixed at contact;
	// drives the refusal-memory policy split.
	ownerHuman bool
	otherHuman bool

	tradeTimer              int
	techTimer               int
	peaceTimer              int
	pactTimer               int
	allianceTimer           int
	jointWarTimer           int
	lastRequestedTradeLevel int
	tradeRefusalCount       int
	tradeLevel              int
	tradePraised            bool

	timers            [numGenericTimers]int
	diplomatGoneTimer int

	requestCount       int
	currentMaxRequests int

	minimumPraiseLevel int
	minimumWarnLevel   int
	warningLevel       int
	threatened         bool
	spyThreat          bool
	spiesHidden        bool
}

func newEmbassy(owner, other *empire.Empire) *Embassy {
	return &Embassy{
		Owner:              owner.ID,
		Other:              other.ID,
		relation:           owner.BaseRelations(other),
		treaty:             Treaty{Kind: TreatyNone},
		treatyTurn:         -1,
		incidents:          make(map[string]*Incident),
		offeredTechs:       make(map[string][]string),
		ownerHuman:         owner.Human,
		otherHuman:         other.Human,
		currentMaxRequests: MaxRequestsPerTurn,
	}
}

func (e *Embassy) Relation() float64  { return e.relation }
func (e *Embassy) Treaty() Treaty     { return e.treaty }
func (e *Embassy) TreatyTurn() int    { return e.treatyTurn }
func (e *Embassy) Contact() bool      { return e.contact }
func (e *Embassy) ContactTurn() int   { return e.contactTurn }
func (e *Embassy) War() bool          { return e.treaty.IsWar() }
func (e *Embassy) NoTreaty() bool     { return e.treaty.IsNone() }
func (e *Embassy) Pact() bool         { return e.treaty.IsPact() }
func (e *Embassy) Alliance() bool     { return e.treaty.IsAlliance() }
func (e *Embassy) AtPeace() bool      { return e.treaty.IsPeace() }
func (e *Embassy) IsFriend() bool     { return e.Pact() || e.Alliance() }
func (e *Embassy) IsEnemy() bool      { return e.War() || e.warFooting }
func (e *Embassy) WarFooting() bool   { return e.warFooting }
func (e *Embassy) Threatened() bool   { return e.threatened }
func (e *Embassy) SpyThreat() bool    { return e.spyThreat }
func (e *Embassy) SpiesHidden() bool  { return e.spiesHidden }
func (e *Embassy) TradeLevel() int    { return e.tradeLevel }
func (e *Embassy) TradePraised() bool { return e.tradePraised }
func (e *Embassy) RequestCount() int  { return e.requestCount }

// ContactAge is the number of turns since first contact.
func (e *Embassy) ContactAge(turn int) int { return turn - e.contactTurn }

// Justification is the pending war justification, JustNone when not on a
// war footing or when the footing is backed by a specific incident.
func (e *Embassy) Justification() Justification { return e.justification }

// CasusBelli is the incident backing a pending war declaration, if any.
func (e *Embassy) CasusBelli() *Incident { return e.casusBelli }

// CanAttackWithoutPenalty reports whether the owner may attack the other
// party without diplomatic consequence: always at war or with no treaty,
// never under an alliance, and under a pact only reports false here (the
// system-scoped variant carves out contested systems).
func (e *Embassy) CanAttackWithoutPenalty() bool {
	return e.War() || e.NoTreaty()
}

// CanAttackSystemWithoutPenalty is the system-scoped legality check: a
// pact permits fighting in systems where either party holds a colony.
func (e *Embassy) CanAttackSystemWithoutPenalty(ownerColony, otherColony bool) bool {
	if e.War() || e.NoTreaty() {
		return true
	}
	if e.Pact() {
		return ownerColony || otherColony
	}
	if e.Alliance() {
		return false
	}
	return !e.AtPeace()
}

// ── Named proposal timers ───────────────────────────────────────────────

// ReadyForTrade gates a new trade proposal: the cooldown must have lapsed
// and the offered level must exceed the last requested level by 25% per
// consecutive refusal.
func (e *Embassy) ReadyForTrade(level int) bool {
	return e.tradeTimer <= 0 &&
		float64(level) > float64(e.lastRequestedTradeLevel)*(1+float64(e.tradeRefusalCount)/4)
}

// ResetTradeTimer starts the trade cooldown. When the counterparty is
// human the timer is nominal, so the human may be re-asked next turn.
func (e *Embassy) ResetTradeTimer(level int) {
	if e.otherHuman {
		e.tradeTimer = 1
	} else {
		e.tradeTimer = TradeDelay
		e.lastRequestedTradeLevel = level
	}
}

func (e *Embassy) TradeRefused()            { e.tradeRefusalCount++ }
func (e *Embassy) TradeAccepted()           { e.tradeRefusalCount = 0 }
func (e *Embassy) AlreadyOfferedTrade() bool { return e.tradeTimer == TradeDelay }

func (e *Embassy) ReadyForTech() bool        { return e.techTimer <= 0 }
func (e *Embassy) ResetTechTimer()           { e.techTimer = TechDelay }
func (e *Embassy) AlreadyOfferedTech() bool  { return e.techTimer == TechDelay }
func (e *Embassy) ReadyForPeace() bool       { return e.peaceTimer <= 0 }
func (e *Embassy) ResetPeaceTimer(mult int)  { e.peaceTimer = mult * PeaceDelay }
func (e *Embassy) AlreadyOfferedPeace() bool { return e.peaceTimer == PeaceDelay }
func (e *Embassy) ReadyForPact() bool        { return e.pactTimer <= 0 }
func (e *Embassy) ResetPactTimer()           { e.pactTimer = PactDelay }
func (e *Embassy) AlreadyOfferedPact() bool  { return e.pactTimer == PactDelay }
func (e *Embassy) ReadyForAlliance() bool    { return e.allianceTimer <= 0 }
func (e *Embassy) ResetAllianceTimer()       { e.allianceTimer = AllianceDelay }
func (e *Embassy) AlreadyOfferedAlliance() bool { return e.allianceTimer == AllianceDelay }
func (e *Embassy) ReadyForJointWar() bool    { return e.jointWarTimer <= 0 }
func (e *Embassy) AlreadyOfferedJointWar() bool { return e.jointWarTimer == JointWarDelay }

// ResetJointWarTimer starts the joint-war cooldown, nominal when the
// counterparty is an agent so humans can re-propose each turn.
func (e *Embassy) ResetJointWarTimer() {
	if e.otherHuman {
		e.jointWarTimer = JointWarDelay
	} else {
		e.jointWarTimer = 1
	}
}

// ── Generic warning timers and threat flags ─────────────────────────────

// TimerIsActive reports whether a generic warning timer is still running.
func (e *Embassy) TimerIsActive(k TimerIndex) bool {
	return k >= 0 && int(k) < len(e.timers) && e.timers[k] > 0
}

// ResetTimer zeroes one generic warning timer.
func (e *Embassy) ResetTimer(k TimerIndex) {
	if k < 0 || int(k) >= len(e.timers) {
		return
	}
	e.timers[k] = 0
}

// LogWarning records a formal warning sent over an incident: the warning
// threshold rises and the incident's warning timer is armed for the
// incident's remaining life.
func (e *Embassy) LogWarning(inc *Incident) {
	e.minimumWarnLevel = e.MinimumWarnLevel() + 5
	if k := inc.TimerKey(); k != TimerNone {
		e.timers[k] += inc.Duration
	}
}

func (e *Embassy) HeedThreat()      { e.threatened = true }
func (e *Embassy) IgnoreThreat()    { e.threatened = false }
func (e *Embassy) HeedSpyThreat()   { e.spyThreat = true }
func (e *Embassy) IgnoreSpyThreat() { e.spyThreat = false }

// ── Praise / warning hysteresis ─────────────────────────────────────────

// MinimumPraiseLevel is the severity a goodwill act must reach before the
// owner praises again. The threshold is raised while at war.
func (e *Embassy) MinimumPraiseLevel() int {
	if e.War() {
		return max(50, e.minimumPraiseLevel)
	}
	return max(10, e.minimumPraiseLevel)
}

// MinimumWarnLevel is the severity threshold for repeated warnings.
func (e *Embassy) MinimumWarnLevel() int { return max(10, e.minimumWarnLevel) }

func (e *Embassy) PraiseSent() { e.minimumPraiseLevel = e.MinimumPraiseLevel() + 10 }

// PraiseTrade marks the established trade route as praised, so the owner
// compliments a flourishing route at most once.
func (e *Embassy) PraiseTrade() { e.tradePraised = true }

func (e *Embassy) GiveExpansionWarning()     { e.warningLevel = 1 }
func (e *Embassy) GaveExpansionWarning() bool { return e.warningLevel > 0 }

// ── Request quota ───────────────────────────────────────────────────────

func (e *Embassy) NoteRequest()          { e.requestCount++ }
func (e *Embassy) TooManyRequests() bool { return e.requestCount > e.currentMaxRequests }

// OverloadRequests shrinks the bandwidth ceiling after an over-quota
// turn; it recovers by one per turn up to MaxRequestsPerTurn.
func (e *Embassy) OverloadRequests() { e.currentMaxRequests = max(1, e.currentMaxRequests-1) }

// ── Ambassador presence ─────────────────────────────────────────────────

func (e *Embassy) withdrawAmbassadorFor(turns int) { e.diplomatGoneTimer = turns }

// WithdrawAmbassador pulls the ambassador for a duration scaled by the
// owner's disposition, doubled while at war.
func (e *Embassy) WithdrawAmbassador(leader empire.Leader) {
	baseTurns := 2
	if leader.IsDiplomat() {
		baseTurns /= 2
	} else if leader.IsXenophobic() {
		baseTurns *= 2
	}
	if e.War() {
		baseTurns *= 2
	}
	e.withdrawAmbassadorFor(baseTurns + 1)
}

func (e *Embassy) DiplomatGone() bool { return e.diplomatGoneTimer > 0 }
func (e *Embassy) RecallAmbassador()  { e.diplomatGoneTimer = ambassadorRecalled }
func (e *Embassy) ReopenEmbassy()     { e.diplomatGoneTimer = 0 }

// ── Tech exchange bookkeeping ───────────────────────────────────────────

// LogTechExchangeRequest remembers which counter-offers have already been
// made for a wanted tech, so the same counters are not re-offered.
func (e *Embassy) LogTechExchangeRequest(wantedTech string, counterTechs []string) {
	list := e.offeredTechs[wantedTech]
	for _, t := range counterTechs {
		if !containsString(list, t) {
			list = append(list, t)
		}
	}
	e.offeredTechs[wantedTech] = list
}

// AlreadyOfferedTechs returns the counter-offers previously made for a
// wanted tech, or nil if none were.
func (e *Embassy) AlreadyOfferedTechs(wantedTech string) []string {
	return e.offeredTechs[wantedTech]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
