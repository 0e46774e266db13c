// Package statestore persists the small bits of local state that must survive
// restarts: goal drafts, the staff profile, and the last applied batch id.
// Single-writer, single-process; there is no conflict resolution.
package statestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"chapterops/internal/goals"

	_ "modernc.org/sqlite"
)

const lastBatchKey = "last_batch_id"

// Store wraps the SQLite state database.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Profile remembers who the operator is between sessions.
type Profile struct {
	StaffName   string `json:"staffName"`
	LastRegion  string `json:"lastRegion"`
	LastChapter string `json:"lastChapter"`
}

// Open opens or creates the state database at path.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve state db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure state db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	s := &Store{DBPath: absPath, db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS drafts (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS profile (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	staff_name   TEXT NOT NULL,
	last_region  TEXT NOT NULL,
	last_chapter TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure state schema: %w", err)
	}
	return nil
}

// LoadDraft returns the draft stored under key, or nil when none exists.
func (s *Store) LoadDraft(key string) (goals.GoalsByMonth, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var g goals.GoalsByMonth
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return g, nil
}

// SaveDraft writes the draft under key, replacing any previous value.
func (s *Store) SaveDraft(key string, g goals.GoalsByMonth) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	_, err = s.db.Exec(`
INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(payload), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// ClearDraft removes the draft under key. Clearing a missing draft is fine.
func (s *Store) ClearDraft(key string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// LastBatchID returns the persisted last batch id, "" when none is recorded.
func (s *Store) LastBatchID() (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, lastBatchKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last batch id: %w", err)
	}
	return value, nil
}

// SetLastBatchID records id as the last applied batch; "" clears the slot.
func (s *Store) SetLastBatchID(id string) error {
	_, err := s.db.Exec(`
INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, lastBatchKey, id)
	if err != nil {
		return fmt.Errorf("persist last batch id: %w", err)
	}
	return nil
}

// LoadProfile returns the stored operator profile, or nil when none exists.
func (s *Store) LoadProfile() (*Profile, error) {
	var p Profile
	err := s.db.QueryRow(`SELECT staff_name, last_region, last_chapter FROM profile WHERE id = 1`).
		Scan(&p.StaffName, &p.LastRegion, &p.LastChapter)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &p, nil
}

// SaveProfile stores the operator profile, replacing any previous one.
func (s *Store) SaveProfile(p Profile) error {
	_, err := s.db.Exec(`
INSERT INTO profile (id, staff_name, last_region, last_chapter, updated_at) VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	staff_name = excluded.staff_name,
	last_region = excluded.last_region,
	last_chapter = excluded.last_chapter,
	updated_at = excluded.updated_at`,
		p.StaffName, p.LastRegion, p.LastChapter, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
