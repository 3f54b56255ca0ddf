// Package persistence provides SQLite-based storage for diplomatic state.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/aldred/star-concord/internal/diplomacy"
	"github.com/aldred/star-concord/internal/empire"
	"github.com/aldred/star-concord/internal/galaxy"
	"github.com/aldred/star-concord/internal/notify"
)

// DB wraps a SQLite connection for diplomatic state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS empires (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		human INTEGER NOT NULL,
		extinct INTEGER NOT NULL,
		personality INTEGER NOT NULL,
		objective INTEGER NOT NULL,
		production REAL NOT NULL,
		fleet_power REAL NOT NULL,
		colonies INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS embassies (
		owner INTEGER NOT NULL,
		other INTEGER NOT NULL,
		relation REAL NOT NULL,
		treaty INTEGER NOT NULL,
		treaty_turn INTEGER NOT NULL,
		contact INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		PRIMARY KEY (owner, other)
	);

	CREATE TABLE IF NOT EXISTS notices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		turn INTEGER NOT NULL,
		audience INTEGER NOT NULL,
		event TEXT NOT NULL,
		message TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notices_turn ON notices(turn);
	CREATE INDEX IF NOT EXISTS idx_embassies_treaty ON embassies(treaty);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEmpires writes the empire roster (full replace).
func (db *DB) SaveEmpires(empires []*empire.Empire) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM empires"); err != nil {
		return err
	}

	for _, e := range empires {
		_, err := tx.Exec(`INSERT INTO empires
			(id, name, human, extinct, personality, objective, production, fleet_power, colonies)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, boolInt(e.Human), boolInt(e.Extinct),
			e.Leader.Personality, e.Leader.Objective,
			e.Production, e.FleetPower, e.Colonies,
		)
		if err != nil {
			return fmt.Errorf("insert empire %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEmbassies writes every directed embassy record (full replace).
func (db *DB) SaveEmbassies(snaps []diplomacy.EmbassySnapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM embassies"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO embassies
		(owner, other, relation, treaty, treaty_turn, contact, state_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snaps {
		stateJSON, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal embassy %d->%d: %w", s.Owner, s.Other, err)
		}
		_, err = stmt.Exec(s.Owner, s.Other, s.Relation, s.TreatyKind, s.TreatyTurn,
			boolInt(s.Contact), string(stateJSON))
		if err != nil {
			return fmt.Errorf("insert embassy %d->%d: %w", s.Owner, s.Other, err)
		}
	}

	return tx.Commit()
}

// LoadEmbassies reads back every persisted embassy snapshot.
func (db *DB) LoadEmbassies() ([]diplomacy.EmbassySnapshot, error) {
	var rows []string
	if err := db.conn.Select(&rows, "SELECT state_json FROM embassies"); err != nil {
		return nil, err
	}
	snaps := make([]diplomacy.EmbassySnapshot, 0, len(rows))
	for _, raw := range rows {
		var s diplomacy.EmbassySnapshot
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("unmarshal embassy: %w", err)
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

// HasState reports whether a previous save exists.
func (db *DB) HasState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM embassies"); err != nil {
		return false
	}
	return count > 0
}

// SaveNotices appends dispatched notices.
func (db *DB) SaveNotices(notices []notify.Notice) error {
	if len(notices) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, n := range notices {
		_, err := tx.Exec(
			"INSERT INTO notices (turn, audience, event, message) VALUES (?, ?, ?, ?)",
			n.Turn, n.Audience, n.Event, n.Message,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// noticeRow maps the notices table for sqlx scanning.
type noticeRow struct {
	Turn     int    `db:"turn"`
	Audience int    `db:"audience"`
	Event    string `db:"event"`
	Message  string `db:"message"`
}

// RecentNotices returns the most recent N notices, newest first.
func (db *DB) RecentNotices(limit int) ([]notify.Notice, error) {
	var rows []noticeRow
	err := db.conn.Select(&rows,
		"SELECT turn, audience, event, message FROM notices ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]notify.Notice, 0, len(rows))
	for _, r := range rows {
		out = append(out, notify.Notice{
			Turn:     r.Turn,
			Audience: empire.ID(r.Audience),
			Event:    r.Event,
			Message:  r.Message,
		})
	}
	return out, nil
}

// SaveMeta stores a key-value pair in simulation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}

// SaveState performs a full save of the simulation. Saved notices are
// drained from the in-memory recorder so they are not re-appended.
func (db *DB) SaveState(sim *galaxy.Simulation) error {
	slog.Info("saving diplomatic state", "empires", len(sim.Empires))

	if err := db.SaveEmpires(sim.Empires); err != nil {
		return fmt.Errorf("save empires: %w", err)
	}
	if err := db.SaveEmbassies(sim.Registry.Snapshots()); err != nil {
		return fmt.Errorf("save embassies: %w", err)
	}
	if err := db.SaveNotices(sim.Notices.Notices); err != nil {
		return fmt.Errorf("save notices: %w", err)
	}
	sim.Notices.Notices = sim.Notices.Notices[:0]
	if err := db.SaveMeta("last_turn", fmt.Sprintf("%d", sim.CurrentTurn())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Info("diplomatic state saved")
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
