package diplomacy

import (
	"math"

	"github.com/aldred/star-concord/internal/empire"
)

// Incident durations in turns.
const (
	colonyCapturedDuration = 10
	genocideDuration       = 50
	enemyAidDuration       = 10
	killGuardianDuration   = 50
	jointWarDuration       = 5
	declareWarDuration     = 10
	oathBreakerDuration    = 30
	breakTradeDuration     = 10
	breakPactDuration      = 15
	breakAllianceDuration  = 20
	signPactDuration       = 20
	signAllianceDuration   = 30
	exchangeTechDuration   = 10
	espionageDuration      = 10
	sabotageDuration       = 10
	detectorDuration       = 1 // re-synthesized each turn while the condition holds
)

// NewColonyCaptured records the capture of one of defender's colonies.
// Returns false if the defender is already extinct.
func NewColonyCaptured(turn int, attacker, defender *empire.Empire, system string, popLost int) (*Incident, bool) {
	if defender.Extinct {
		return nil, false
	}
	sev := -5 + math.Min(-7.5, -float64(popLost)/4)
	return &Incident{
		Kind:         KindColonyCaptured,
		Severity:     sev,
		Duration:     colonyCapturedDuration,
		TurnOccurred: turn,
		Actor:        attacker.ID,
		Target:       defender.ID,
		Third:        empire.None,
		System:       system,
		Amount:       popLost,
	}, true
}

// GenocideContext answers the relationship questions that dampen an
// observer's outrage at an extermination.
type GenocideContext interface {
	AlliedWith(a, b empire.ID) bool
	AtWarWith(a, b empire.ID) bool
}

// NewGenocide records the extermination of victim as seen by one observer.
// Outrage is halved when the observer is allied with the attacker and at
// war with the victim.
func NewGenocide(turn int, observer, attacker, victim *empire.Empire, ctx GenocideContext) *Incident {
	sev := -50.0
	if ctx.AlliedWith(attacker.ID, observer.ID) && ctx.AtWarWith(observer.ID, victim.ID) {
		sev /= 2
	}
	return &Incident{
		Kind:         KindGenocide,
		Severity:     sev,
		Duration:     genocideDuration,
		TurnOccurred: turn,
		Actor:        attacker.ID,
		Target:       observer.ID,
		Third:        victim.ID,
	}
}

// NewEnemyFinancialAid records donor sending funds to an enemy of emp.
// Returns false when the donor is the aggrieved party itself.
func NewEnemyFinancialAid(turn int, emp, enemy, donor *empire.Empire, amount int) (*Incident, bool) {
	if emp.ID == donor.ID {
		return nil, false
	}
	pct := float64(amount) / emp.Production
	return &Incident{
		Kind:         KindEnemyAid,
		Severity:     -math.Min(5, 5*pct),
		Duration:     enemyAidDuration,
		TurnOccurred: turn,
		Actor:        donor.ID,
		Target:       emp.ID,
		Third:        enemy.ID,
		Amount:       amount,
	}, true
}

// NewEnemyTechAid records donor giving technology to an enemy of emp.
// Severity scales with the tech's wartime value relative to the enemy's
// production.
func NewEnemyTechAid(turn int, emp, enemy, donor *empire.Empire, techID string, techValue float64) (*Incident, bool) {
	if emp.ID == donor.ID {
		return nil, false
	}
	pct := techValue / enemy.Production
	return &Incident{
		Kind:         KindEnemyAid,
		Severity:     -math.Min(10, 15*pct),
		Duration:     enemyAidDuration,
		TurnOccurred: turn,
		Actor:        donor.ID,
		Target:       emp.ID,
		Third:        enemy.ID,
		Tech:         techID,
	}, true
}

// NewKillGuardian records killer destroying a system guardian, an act of
// awe-inspiring power observed by others.
func NewKillGuardian(turn int, observer, killer empire.ID, guardian string) *Incident {
	return &Incident{
		Kind:         KindKillGuardian,
		Severity:     100,
		Duration:     killGuardianDuration,
		TurnOccurred: turn,
		Actor:        killer,
		Target:       observer,
		Third:        empire.None,
		System:       guardian,
	}
}

// NewSignJointWar records actor agreeing to join target's war against a
// third empire. Severity is zero; the incident exists to carry the
// announcement and dedup repeated agreements against the same target.
func NewSignJointWar(turn int, actor, target, against empire.ID) *Incident {
	return &Incident{
		Kind:         KindSignJointWar,
		Severity:     0,
		Duration:     jointWarDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        against,
	}
}

// NewDeclareWar is the generic declaration-of-war incident used when no
// specific casus belli exists.
func NewDeclareWar(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindDeclareWar,
		Severity:     -10,
		Duration:     declareWarDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewErraticWar is the declaration incident for a war begun on a whim.
func NewErraticWar(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindErraticWar,
		Severity:     -5,
		Duration:     declareWarDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewOathBreaker is the reputation incident observers record when breaker
// unilaterally abandons a pact or alliance. Alliance betrayal weighs more;
// a break provoked by caught spying is half as damning.
func NewOathBreaker(turn int, observer, breaker, betrayed empire.ID, wasAlliance, caughtSpying bool) *Incident {
	sev := -20.0
	if wasAlliance {
		sev = -30
	}
	if caughtSpying {
		sev /= 2
	}
	return &Incident{
		Kind:         KindOathBreaker,
		Severity:     sev,
		Duration:     oathBreakerDuration,
		TurnOccurred: turn,
		Actor:        breaker,
		Target:       observer,
		Third:        betrayed,
	}
}

// NewBreakTrade records actor ending its trade agreement with target.
func NewBreakTrade(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindBreakTrade,
		Severity:     -5,
		Duration:     breakTradeDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewBreakPact records actor withdrawing from a non-aggression pact.
func NewBreakPact(turn int, actor, target empire.ID, caughtSpying bool) *Incident {
	sev := -10.0
	if caughtSpying {
		sev /= 2
	}
	return &Incident{
		Kind:         KindBreakPact,
		Severity:     sev,
		Duration:     breakPactDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewBreakAlliance records actor dissolving an alliance.
func NewBreakAlliance(turn int, actor, target empire.ID, caughtSpying bool) *Incident {
	sev := -20.0
	if caughtSpying {
		sev /= 2
	}
	return &Incident{
		Kind:         KindBreakAlliance,
		Severity:     sev,
		Duration:     breakAllianceDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewSignPeace is the reciprocal goodwill incident for a signed peace.
// It lasts as long as the treaty itself.
func NewSignPeace(turn int, actor, target empire.ID, duration int) *Incident {
	return &Incident{
		Kind:         KindSignPeace,
		Severity:     10,
		Duration:     duration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewSignPact is the reciprocal goodwill incident for a signed pact.
func NewSignPact(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindSignPact,
		Severity:     5,
		Duration:     signPactDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewSignAlliance is the reciprocal goodwill incident for a new alliance.
func NewSignAlliance(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindSignAlliance,
		Severity:     10,
		Duration:     signAllianceDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewExchangeTech records a completed technology exchange. Goodwill scales
// with the received tech's value relative to the receiver's production.
func NewExchangeTech(turn int, receiver, giver *empire.Empire, techID string, techValue float64) *Incident {
	pct := techValue / receiver.Production
	return &Incident{
		Kind:         KindExchangeTech,
		Severity:     math.Min(5, 10*pct),
		Duration:     exchangeTechDuration,
		TurnOccurred: turn,
		Actor:        giver.ID,
		Target:       receiver.ID,
		Third:        empire.None,
		Tech:         techID,
	}
}

// NewEspionage records spies of actor caught stealing from target.
func NewEspionage(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindEspionage,
		Severity:     -10,
		Duration:     espionageDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}

// NewSabotage records agents of actor destroying target installations.
func NewSabotage(turn int, actor, target empire.ID) *Incident {
	return &Incident{
		Kind:         KindSabotage,
		Severity:     -15,
		Duration:     sabotageDuration,
		TurnOccurred: turn,
		Actor:        actor,
		Target:       target,
		Third:        empire.None,
	}
}
