// Package diplomacy implements the inter-empire relations and treaty
// engine: decaying incident ledgers, the nonlinear relation scorer, the
// cooldown timer bank, and the mutually-mirrored treaty state machine.
package diplomacy

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aldred/star-concord/internal/empire"
)

// Kind enumerates every variety of diplomatic incident.
type Kind uint8

const (
	KindColonyCaptured Kind = iota
	KindGenocide
	KindEnemyAid
	KindKillGuardian
	KindSignJointWar
	KindDeclareWar
	KindErraticWar
	KindOathBreaker
	KindBreakTrade
	KindBreakPact
	KindBreakAlliance
	KindSignPeace
	KindSignPact
	KindSignAlliance
	KindExchangeTech
	KindEspionage
	KindSabotage
	KindTrespassing
	KindMilitaryBuildup
	KindExpansion
	KindAlliedWithEnemy
	KindAtWarWithAlly
)

var kindNames = [...]string{
	"ColonyCaptured", "Genocide", "EnemyAid", "KillGuardian", "JointWar",
	"DeclareWar", "ErraticWar", "OathBreaker", "BreakTrade", "BreakPact",
	"BreakAlliance", "SignPeace", "SignPact", "SignAlliance", "ExchangeTech",
	"Espionage", "Sabotage", "Trespassing", "MilitaryBuildup", "Expansion",
	"AlliedWithEnemy", "AtWarWithAlly",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// TimerIndex addresses the generic countdown timer array on an embassy.
type TimerIndex int

const (
	TimerNone          TimerIndex = -1
	TimerSpyWarning    TimerIndex = 0
	TimerAttackWarning TimerIndex = 1

	numGenericTimers = 2
)

// Justification is a closed enumeration of reasons for declaring war.
type Justification uint8

const (
	JustNone Justification = iota
	JustHate
	JustOpportunity
	JustErratic
	JustAttacked
	JustSpying
	JustExpansion
	JustGenocide
)

var justificationNames = [...]string{
	"none", "hate", "opportunity", "erratic", "attacked", "spying", "expansion", "genocide",
}

func (j Justification) String() string {
	if int(j) < len(justificationNames) {
		return justificationNames[j]
	}
	return "none"
}

// Incident is an immutable diplomatic event. Severity is computed once at
// construction from contextual inputs; the contribution to the relation
// score decays linearly to zero over Duration turns.
type Incident struct {
	Kind         Kind    `json:"kind"`
	Severity     float64 `json:"severity"`
	Duration     int     `json:"duration"`
	TurnOccurred int     `json:"turn_occurred"`

	// Payload. Actor is the party responsible, Target the party affected;
	// Third is any observed third party (enemy aided, joint-war target).
	Actor  empire.ID `json:"actor"`
	Target empire.ID `json:"target"`
	Third  empire.ID `json:"third"`
	System string    `json:"system,omitempty"`
	Amount int       `json:"amount,omitempty"`
	Tech   string    `json:"tech,omitempty"`
}

// Key is the canonical dedup key. At most one live incident per key exists
// in a ledger; recurring detector incidents share a fixed key so repeated
// triggers within the active window cannot double-count.
func (in *Incident) Key() string {
	switch in.Kind {
	case KindColonyCaptured:
		return "ColonyCaptured:" + in.System
	case KindGenocide:
		return "Genocide:" + strconv.Itoa(int(in.Third))
	case KindEnemyAid:
		return "EnemyAid:" + strconv.Itoa(int(in.Third))
	case KindKillGuardian:
		return "KillGuardian:" + in.System
	case KindSignJointWar:
		return "JointWar:" + strconv.Itoa(int(in.Third))
	case KindExchangeTech:
		return "ExchangeTech:" + in.Tech
	default:
		return in.Kind.String()
	}
}

// remainingTime is the number of turns before the incident is forgotten.
func (in *Incident) remainingTime(turn int) float64 {
	return math.Max(0, float64(in.TurnOccurred+in.Duration-turn))
}

// CurrentSeverity decays linearly from the base severity to zero.
func (in *Incident) CurrentSeverity(turn int) float64 {
	return in.Severity * in.remainingTime(turn) / float64(in.Duration)
}

// Forgotten reports whether the incident has fully decayed.
func (in *Incident) Forgotten(turn int) bool {
	return in.remainingTime(turn) <= 0
}

// MoreSevere reports whether this incident outweighs another by absolute
// current severity. A nil other always loses.
func (in *Incident) MoreSevere(other *Incident, turn int) bool {
	if other == nil {
		return true
	}
	return math.Abs(in.CurrentSeverity(turn)) > math.Abs(other.CurrentSeverity(turn))
}

// Spying reports whether the incident is an espionage act.
func (in *Incident) Spying() bool {
	return in.Kind == KindEspionage || in.Kind == KindSabotage
}

// Attacking reports whether the incident is a military attack.
func (in *Incident) Attacking() bool {
	return in.Kind == KindColonyCaptured
}

// TimerKey is the generic warning timer this incident arms when the owner
// formally warns the actor about it.
func (in *Incident) TimerKey() TimerIndex {
	switch in.Kind {
	case KindEspionage, KindSabotage:
		return TimerSpyWarning
	case KindColonyCaptured:
		return TimerAttackWarning
	default:
		return TimerNone
	}
}

// WarJustification is the casus-belli tag this incident can back, or
// JustNone if it cannot justify a war declaration.
func (in *Incident) WarJustification() Justification {
	switch in.Kind {
	case KindColonyCaptured:
		return JustAttacked
	case KindEspionage, KindSabotage:
		return JustSpying
	case KindExpansion:
		return JustExpansion
	case KindGenocide:
		return JustGenocide
	default:
		return JustNone
	}
}

// TriggersWar reports whether the incident can justify a war declaration.
func (in *Incident) TriggersWar() bool { return in.WarJustification() != JustNone }

// TriggersImmediateWar reports whether the incident is severe enough that
// the standing treaty escalates to war on receipt without preparation.
func (in *Incident) TriggersImmediateWar() bool {
	return in.Kind == KindColonyCaptured && in.Severity <= -20
}

// Namer resolves empire IDs to display names for description text.
type Namer interface {
	EmpireName(id empire.ID) string
}

var kindTemplates = map[Kind]string{
	KindColonyCaptured:  "[actor] captured the [target] colony at [system], killing [amt] million",
	KindGenocide:        "[actor] has exterminated the [third] species",
	KindEnemyAid:        "[actor] gave aid to [third], an enemy of [target]",
	KindKillGuardian:    "[actor] destroyed the guardian of [system]",
	KindSignJointWar:    "[actor] agreed to join [target]'s war against [third]",
	KindDeclareWar:      "[actor] declared war on [target]",
	KindErraticWar:      "[actor] declared war on [target] for no discernible reason",
	KindOathBreaker:     "[actor] broke a solemn oath sworn to [target]",
	KindBreakTrade:      "[actor] ended its trade agreement with [target]",
	KindBreakPact:       "[actor] withdrew from its non-aggression pact with [target]",
	KindBreakAlliance:   "[actor] dissolved its alliance with [target]",
	KindSignPeace:       "[actor] signed a peace treaty with [target]",
	KindSignPact:        "[actor] signed a non-aggression pact with [target]",
	KindSignAlliance:    "[actor] formed an alliance with [target]",
	KindExchangeTech:    "[actor] traded [tech] technology with [target]",
	KindEspionage:       "[actor] spies were caught stealing from [target]",
	KindSabotage:        "[actor] agents sabotaged [target] installations",
	KindTrespassing:     "[actor] fleets are trespassing in [target] territory",
	KindMilitaryBuildup: "[actor] is massing fleets near [target] space",
	KindExpansion:       "[actor] is expanding at an alarming rate",
	KindAlliedWithEnemy: "[actor] is allied with [third], an enemy of [target]",
	KindAtWarWithAlly:   "[actor] is at war with [third], an ally of [target]",
}

// Describe renders the incident's display text with tokens substituted.
func (in *Incident) Describe(n Namer) string {
	s := kindTemplates[in.Kind]
	s = strings.ReplaceAll(s, "[year]", strconv.Itoa(in.TurnOccurred))
	s = strings.ReplaceAll(s, "[system]", in.System)
	s = strings.ReplaceAll(s, "[amt]", strconv.Itoa(in.Amount))
	s = strings.ReplaceAll(s, "[tech]", in.Tech)
	s = strings.ReplaceAll(s, "[actor]", n.EmpireName(in.Actor))
	s = strings.ReplaceAll(s, "[target]", n.EmpireName(in.Target))
	if in.Third != empire.None {
		s = strings.ReplaceAll(s, "[third]", n.EmpireName(in.Third))
	}
	return s
}

func (in *Incident) String() string {
	return fmt.Sprintf("%d: %s = %.1f", in.TurnOccurred, in.Key(), in.Severity)
}
