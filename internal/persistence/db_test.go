package persistence

import (
	"path/filepath"
	"testing"

	"github.com/aldred/star-concord/internal/empire"
	"github.com/aldred/star-concord/internal/galaxy"
	"github.com/aldred/star-concord/internal/notify"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSim() *galaxy.Simulation {
	empires := []*empire.Empire{
		{ID: 0, Name: "Terrans", Human: true, Leader: empire.Leader{Personality: empire.Honorable}, Production: 100, FleetPower: 100, Colonies: 5},
		{ID: 1, Name: "Krell", Leader: empire.Leader{Personality: empire.Aggressive}, Production: 120, FleetPower: 150, Colonies: 6},
	}
	return galaxy.NewSimulation(empires, 1)
}

func TestSaveStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	sim := testSim()
	sim.Registry.SignPact(0, 1, 3)
	sim.Registry.EstablishTradeTreaty(0, 1, 25)
	sim.LastTurn = 7

	if db.HasState() {
		t.Fatal("fresh database should hold no state")
	}
	if err := db.SaveState(sim); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if !db.HasState() {
		t.Fatal("saved database should report state")
	}

	snaps, err := db.LoadEmbassies()
	if err != nil {
		t.Fatalf("LoadEmbassies failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("loaded %d embassies, want 2 directed records", len(snaps))
	}

	fresh := testSim()
	// A second NewSimulation re-runs contact; restoring overwrites it.
	fresh.Registry.Restore(snaps)
	e := fresh.Registry.Embassy(0, 1)
	if !e.Pact() || e.TreatyTurn() != 3 {
		t.Error("restored treaty state differs")
	}
	if e.TradeLevel() != 25 {
		t.Errorf("restored trade level = %d, want 25", e.TradeLevel())
	}

	turn, err := db.GetMeta("last_turn")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if turn != "7" {
		t.Errorf("last_turn = %q, want \"7\"", turn)
	}
}

func TestSaveStateDrainsNotices(t *testing.T) {
	db := openTestDB(t)
	sim := testSim()
	sim.Notices.Dispatch(notify.Notice{Turn: 1, Audience: 0, Event: notify.EventIncident, Message: "one"})
	sim.Notices.Dispatch(notify.Notice{Turn: 2, Audience: empire.None, Event: notify.EventAllianceFormed, Message: "two"})

	if err := db.SaveState(sim); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}
	if len(sim.Notices.Notices) != 0 {
		t.Error("saved notices should be drained from the recorder")
	}

	got, err := db.RecentNotices(10)
	if err != nil {
		t.Fatalf("RecentNotices failed: %v", err)
	}
	// Setup dispatches may add first-contact notices; ours must be present,
	// newest first.
	if len(got) < 2 {
		t.Fatalf("loaded %d notices, want at least 2", len(got))
	}
	if got[0].Message != "two" || !got[0].Galactic() {
		t.Errorf("newest notice = %+v, want the galactic broadcast", got[0])
	}

	// A second save appends nothing.
	if err := db.SaveState(sim); err != nil {
		t.Fatalf("second SaveState failed: %v", err)
	}
	again, _ := db.RecentNotices(10)
	if len(again) != len(got) {
		t.Errorf("notice count changed from %d to %d on an empty save", len(got), len(again))
	}
}

func TestMetaOverwrite(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveMeta("last_turn", "1"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_turn", "2"); err != nil {
		t.Fatal(err)
	}
	v, err := db.GetMeta("last_turn")
	if err != nil {
		t.Fatal(err)
	}
	if v != "2" {
		t.Errorf("last_turn = %q, want \"2\"", v)
	}
}
