package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aldred/star-concord/internal/config"
	"github.com/aldred/star-concord/internal/persistence"
)

var noticesLimit int

func noticesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notices",
		Short: "Print recent diplomatic notices from the saved state",
		RunE:  runNotices,
	}
	cmd.Flags().StringVar(&runConfig, "config", "starconcord.yaml", "Path to the run configuration")
	cmd.Flags().IntVar(&noticesLimit, "limit", 25, "Number of notices to print")
	return cmd
}

func runNotices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfig)
	if err != nil {
		return err
	}

	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = "data/starconcord.db"
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	notices, err := db.RecentNotices(noticesLimit)
	if err != nil {
		return fmt.Errorf("reading notices: %w", err)
	}
	if len(notices) == 0 {
		fmt.Fprintln(os.Stdout, "No notices recorded yet.")
		return nil
	}

	roster := cfg.Roster()
	for _, n := range notices {
		audience := "galactic"
		if !n.Galactic() {
			for _, e := range roster {
				if e.ID == n.Audience {
					audience = e.Name
					break
				}
			}
		}
		fmt.Fprintf(os.Stdout, "turn %4d  [%s] %s: %s\n", n.Turn, n.Event, audience, n.Message)
	}
	return nil
}
