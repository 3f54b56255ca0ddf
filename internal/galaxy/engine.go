// Package galaxy provides the turn-based simulation loop around the
// diplomacy engine.
package galaxy

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward one turn at a time.
type Engine struct {
	Turn     int           // Current turn counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base turn interval (default 1 second)
	Running  bool

	// Called once per turn with the new turn number.
	OnTurn func(turn int)
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "turn", e.Turn, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "turn", e.Turn)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by one turn.
func (e *Engine) Step() {
	e.Turn++
	if e.OnTurn != nil {
		e.OnTurn(e.Turn)
	}
}
