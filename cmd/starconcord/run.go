package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aldred/star-concord/internal/api"
	"github.com/aldred/star-concord/internal/config"
	"github.com/aldred/star-concord/internal/galaxy"
	"github.com/aldred/star-concord/internal/persistence"
)

var (
	runConfig string
	runTurns  int
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the diplomacy simulation",
		RunE:  runSimulation,
	}
	cmd.Flags().StringVar(&runConfig, "config", "starconcord.yaml", "Path to the run configuration")
	cmd.Flags().IntVar(&runTurns, "turns", 0, "Run a fixed number of turns and exit (overrides config)")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfig)
	if err != nil {
		return err
	}
	if runTurns > 0 {
		cfg.Turns = runTurns
	}

	// ── Database ──────────────────────────────────────────────────────
	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = "data/starconcord.db"
	}
	os.MkdirAll(filepath.Dir(dbPath), 0755)
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Simulation ────────────────────────────────────────────────────
	sim := galaxy.NewSimulation(cfg.Roster(), cfg.Seed)

	startTurn := 0
	if db.HasState() {
		slog.Info("found saved state, restoring...")
		snaps, err := db.LoadEmbassies()
		if err != nil {
			return fmt.Errorf("loading embassies: %w", err)
		}
		sim.Registry.Restore(snaps)
		if turnStr, err := db.GetMeta("last_turn"); err == nil {
			if t, err := strconv.Atoi(turnStr); err == nil {
				startTurn = t
			}
		}
		sim.LastTurn = startTurn
		slog.Info("state restored", "embassies", len(snaps), "turn", startTurn)
	} else {
		if err := db.SaveState(sim); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := galaxy.NewEngine()
	eng.Turn = startTurn
	eng.OnTurn = func(turn int) {
		sim.NextTurn(turn)
		if turn%10 == 0 {
			if err := db.SaveState(sim); err != nil {
				slog.Error("periodic save failed", "error", err)
			}
		}
	}

	// ── Fixed-turn batch mode ─────────────────────────────────────────
	if cfg.Turns > 0 {
		for i := 0; i < cfg.Turns; i++ {
			eng.Step()
		}
		if err := db.SaveState(sim); err != nil {
			slog.Error("final save failed", "error", err)
		}
		fmt.Printf("Ran %d turns; now at turn %d.\n", cfg.Turns, eng.Turn)
		return nil
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiPort := cfg.APIPort
	if apiPort == 0 {
		apiPort = 8080
	}
	apiServer := &api.Server{Sim: sim, Eng: eng, DB: db, Port: apiPort}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\nStar Concord: %d empires negotiating.\n", len(sim.Empires))
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiPort)
	if startTurn > 0 {
		fmt.Printf("Resuming from turn %d\n", startTurn)
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	slog.Info("final save...")
	if err := db.SaveState(sim); err != nil {
		slog.Error("final save failed", "error", err)
	}

	fmt.Println("Simulation stopped. Diplomatic state saved.")
	return nil
}
