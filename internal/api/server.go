// Package api provides the read-only HTTP API for observing the
// diplomatic state of a running simulation.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/aldred/star-concord/internal/diplomacy"
	"github.com/aldred/star-concord/internal/galaxy"
	"github.com/aldred/star-concord/internal/persistence"
)

// Server serves the diplomatic state over HTTP.
type Server struct {
	Sim  *galaxy.Simulation
	Eng  *galaxy.Engine
	DB   *persistence.DB
	Port int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/empires", s.handleEmpires)
	mux.HandleFunc("/api/v1/relations", s.handleRelations)
	mux.HandleFunc("/api/v1/notices", s.handleNotices)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var wars, alliances, pacts int
	for i, a := range s.Sim.Empires {
		for _, b := range s.Sim.Empires[i+1:] {
			if a.Extinct || b.Extinct {
				continue
			}
			switch s.Sim.Registry.Embassy(a.ID, b.ID).Treaty().Kind {
			case diplomacy.TreatyWar:
				wars++
			case diplomacy.TreatyAlliance:
				alliances++
			case diplomacy.TreatyPact:
				pacts++
			}
		}
	}

	writeJSON(w, map[string]any{
		"name":      "Star Concord",
		"turn":      s.Sim.CurrentTurn(),
		"speed":     s.Eng.Speed,
		"running":   s.Eng.Running,
		"empires":   len(s.Sim.Empires),
		"wars":      wars,
		"alliances": alliances,
		"pacts":     pacts,
	})
}

func (s *Server) handleEmpires(w http.ResponseWriter, r *http.Request) {
	type empireSummary struct {
		ID          int     `json:"id"`
		Name        string  `json:"name"`
		Human       bool    `json:"human"`
		Extinct     bool    `json:"extinct"`
		Personality string  `json:"personality"`
		Objective   string  `json:"objective"`
		Production  float64 `json:"production"`
		FleetPower  float64 `json:"fleet_power"`
		Colonies    int     `json:"colonies"`
	}

	result := make([]empireSummary, 0, len(s.Sim.Empires))
	for _, e := range s.Sim.Empires {
		result = append(result, empireSummary{
			ID:          int(e.ID),
			Name:        e.Name,
			Human:       e.Human,
			Extinct:     e.Extinct,
			Personality: e.Leader.Personality.String(),
			Objective:   e.Leader.Objective.String(),
			Production:  e.Production,
			FleetPower:  e.FleetPower,
			Colonies:    e.Colonies,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleRelations(w http.ResponseWriter, r *http.Request) {
	type incidentEntry struct {
		Kind     string  `json:"kind"`
		Severity float64 `json:"severity"`
		Current  float64 `json:"current"`
		Turn     int     `json:"turn"`
		Text     string  `json:"text"`
	}
	type relationEntry struct {
		Owner      string          `json:"owner"`
		Other      string          `json:"other"`
		Relation   float64         `json:"relation"`
		Treaty     string          `json:"treaty"`
		TradeLevel int             `json:"trade_level"`
		WarFooting bool            `json:"war_footing"`
		Incidents  []incidentEntry `json:"incidents,omitempty"`
	}

	turn := s.Sim.CurrentTurn()
	result := make([]relationEntry, 0, len(s.Sim.Empires)*len(s.Sim.Empires))
	for _, a := range s.Sim.Empires {
		for _, b := range s.Sim.Empires {
			if a.ID == b.ID || a.Extinct || b.Extinct {
				continue
			}
			e := s.Sim.Registry.Embassy(a.ID, b.ID)
			if !e.Contact() {
				continue
			}
			entry := relationEntry{
				Owner:      a.Name,
				Other:      b.Name,
				Relation:   e.Relation(),
				Treaty:     e.Treaty().Kind.String(),
				TradeLevel: e.TradeLevel(),
				WarFooting: e.WarFooting(),
			}
			for _, inc := range e.Incidents() {
				entry.Incidents = append(entry.Incidents, incidentEntry{
					Kind:     inc.Kind.String(),
					Severity: inc.Severity,
					Current:  inc.CurrentSeverity(turn),
					Turn:     inc.TurnOccurred,
					Text:     inc.Describe(s.Sim.Registry),
				})
			}
			sort.Slice(entry.Incidents, func(i, j int) bool {
				return entry.Incidents[i].Turn > entry.Incidents[j].Turn
			})
			result = append(result, entry)
		}
	}
	writeJSON(w, result)
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	// Pending in-memory notices first, then the persisted backlog.
	recent := s.Sim.Notices.Recent(limit)
	if len(recent) < limit && s.DB != nil {
		stored, err := s.DB.RecentNotices(limit - len(recent))
		if err == nil {
			recent = append(recent, stored...)
		}
	}
	writeJSON(w, recent)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
