package diplomacy

import "github.com/aldred/star-concord/internal/empire"

// EmbassySnapshot is the persisted form of a directed embassy record.
// The casus-belli incident is referenced by ledger key and re-linked on
// restore.
type EmbassySnapshot struct {
	Owner       empire.ID   `json:"owner"`
	Other       empire.ID   `json:"other"`
	Relation    float64     `json:"relation"`
	Contact     bool        `json:"contact"`
	ContactTurn int         `json:"contact_turn"`
	TreatyKind  TreatyKind  `json:"treaty"`
	PeaceLeft   int         `json:"peace_left"`
	TreatyTurn  int         `json:"treaty_turn"`
	Incidents   []*Incident `json:"incidents"`

	WarFooting    bool          `json:"war_footing,omitempty"`
	Justification Justification `json:"justification,omitempty"`
	CasusBelliKey string        `json:"casus_belli_key,omitempty"`

	TradeLevel         int  `json:"trade_level"`
	TradePraised       bool `json:"trade_praised,omitempty"`
	LastRequestedTrade int  `json:"last_requested_trade,omitempty"`
	TradeRefusals      int  `json:"trade_refusals,omitempty"`

	TradeTimer    int `json:"trade_timer"`
	TechTimer     int `json:"tech_timer"`
	PeaceTimer    int `json:"peace_timer"`
	PactTimer     int `json:"pact_timer"`
	AllianceTimer int `json:"alliance_timer"`
	JointWarTimer int `json:"joint_war_timer"`

	GenericTimers     [numGenericTimers]int `json:"generic_timers"`
	DiplomatGoneTimer int                   `json:"diplomat_gone_timer"`
	RequestCount      int                   `json:"request_count"`
	MaxRequests       int                   `json:"max_requests"`

	MinPraiseLevel int  `json:"min_praise_level,omitempty"`
	MinWarnLevel   int  `json:"min_warn_level,omitempty"`
	WarningLevel   int  `json:"warning_level,omitempty"`
	Threatened     bool `json:"threatened,omitempty"`
	SpyThreat      bool `json:"spy_threat,omitempty"`
	SpiesHidden    bool `json:"spies_hidden,omitempty"`
}

// Snapshot captures the embassy for persistence.
func (e *Embassy) Snapshot() EmbassySnapshot {
	snap := EmbassySnapshot{
		Owner:              e.Owner,
		Other:              e.Other,
		Relation:           e.relation,
		Contact:            e.contact,
		ContactTurn:        e.contactTurn,
		TreatyKind:         e.treaty.Kind,
		PeaceLeft:          e.treaty.PeaceLeft,
		TreatyTurn:         e.treatyTurn,
		WarFooting:         e.warFooting,
		Justification:      e.justification,
		TradeLevel:         e.tradeLevel,
		TradePraised:       e.tradePraised,
		LastRequestedTrade: e.lastRequestedTradeLevel,
		TradeRefusals:      e.tradeRefusalCount,
		TradeTimer:         e.tradeTimer,
		TechTimer:          e.techTimer,
		PeaceTimer:         e.peaceTimer,
		PactTimer:          e.pactTimer,
		AllianceTimer:      e.allianceTimer,
		JointWarTimer:      e.jointWarTimer,
		GenericTimers:      e.timers,
		DiplomatGoneTimer:  e.diplomatGoneTimer,
		RequestCount:       e.requestCount,
		MaxRequests:        e.currentMaxRequests,
		MinPraiseLevel:     e.minimumPraiseLevel,
		MinWarnLevel:       e.minimumWarnLevel,
		WarningLevel:       e.warningLevel,
		Threatened:         e.threatened,
		SpyThreat:          e.spyThreat,
		SpiesHidden:        e.spiesHidden,
	}
	if e.casusBelli != nil {
		snap.CasusBelliKey = e.casusBelli.Key()
	}
	for _, inc := range e.incidents {
		snap.Incidents = append(snap.Incidents, inc)
	}
	return snap
}

// Snapshots captures every directed embassy record.
func (r *Registry) Snapshots() []EmbassySnapshot {
	out := make([]EmbassySnapshot, 0, len(r.embassies))
	for _, e := range r.embassies {
		out = append(out, e.Snapshot())
	}
	return out
}

// Restore rebuilds embassy records from persisted snapshots.
func (r *Registry) Restore(snaps []EmbassySnapshot) {
	for _, s := range snaps {
		e := r.ensureEmbassy(s.Owner, s.Other)
		e.relation = s.Relation
		e.contact = s.Contact
		e.contactTurn = s.ContactTurn
		e.treaty = Treaty{Kind: s.TreatyKind, PeaceLeft: s.PeaceLeft}
		e.treatyTurn = s.TreatyTurn
		e.warFooting = s.WarFooting
		e.justification = s.Justification
		e.tradeLevel = s.TradeLevel
		e.tradePraised = s.TradePraised
		e.lastRequestedTradeLevel = s.LastRequestedTrade
		e.tradeRefusalCount = s.TradeRefusals
		e.tradeTimer = s.TradeTimer
		e.techTimer = s.TechTimer
		e.peaceTimer = s.PeaceTimer
		e.pactTimer = s.PactTimer
		e.allianceTimer = s.AllianceTimer
		e.jointWarTimer = s.JointWarTimer
		e.timers = s.GenericTimers
		e.diplomatGoneTimer = s.DiplomatGoneTimer
		e.requestCount = s.RequestCount
		if s.MaxRequests > 0 {
			e.currentMaxRequests = s.MaxRequests
		}
		e.minimumPraiseLevel = s.MinPraiseLevel
		e.minimumWarnLevel = s.MinWarnLevel
		e.warningLevel = s.WarningLevel
		e.threatened = s.Threatened
		e.spyThreat = s.SpyThreat
		e.spiesHidden = s.SpiesHidden
		e.incidents = make(map[string]*Incident, len(s.Incidents))
		for _, inc := range s.Incidents {
			e.incidents[inc.Key()] = inc
		}
		if s.CasusBelliKey != "" {
			e.casusBelli = e.incidents[s.CasusBelliKey]
		}
	}
}
