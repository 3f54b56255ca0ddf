// Package notify carries fire-and-forget notification requests out of the
// diplomacy engine. The engine never awaits or depends on the outcome of
// a dispatch.
package notify

import (
	"log/slog"

	"github.com/aldred/star-concord/internal/empire"
)

// Notice event names.
const (
	EventFirstContact   = "first_contact"
	EventWarDeclared    = "war_declared"
	EventAllyAtWar      = "ally_at_war"
	EventPeaceSigned    = "peace_signed"
	EventPactSigned     = "pact_signed"
	EventAllianceFormed = "alliance_formed"
	EventAllianceBroken = "alliance_broken"
	EventPactBroken     = "pact_broken"
	EventTradeBroken    = "trade_broken"
	EventIncident       = "incident"
)

// Notice is a single player-facing notification request. Audience is the
// empire the notice is addressed to, or empire.None for a galactic
// broadcast heard by everyone.
type Notice struct {
	Turn     int
	Audience empire.ID
	Event    string
	Message  string
}

// Galactic reports whether the notice is addressed to everyone.
func (n Notice) Galactic() bool { return n.Audience == empire.None }

// Dispatcher receives notification requests.
type Dispatcher interface {
	Dispatch(n Notice)
}

// LogDispatcher writes notices to the structured log.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(n Notice) {
	if n.Galactic() {
		slog.Info("galactic notice", "turn", n.Turn, "event", n.Event, "message", n.Message)
		return
	}
	slog.Info("diplomatic notice", "turn", n.Turn, "event", n.Event, "audience", int(n.Audience), "message", n.Message)
}

// Recorder retains dispatched notices and forwards them to the next
// dispatcher, if any.
type Recorder struct {
	Notices []Notice
	Next    Dispatcher
}

func (r *Recorder) Dispatch(n Notice) {
	r.Notices = append(r.Notices, n)
	if r.Next != nil {
		r.Next.Dispatch(n)
	}
}

// Recent returns the most recent n notices, newest last.
func (r *Recorder) Recent(n int) []Notice {
	if len(r.Notices) <= n {
		return r.Notices
	}
	return r.Notices[len(r.Notices)-n:]
}
