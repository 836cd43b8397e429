package snapshot

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/mkarpis/railbird/internal/models"
)

const (
	createStateTable = `CREATE TABLE IF NOT EXISTS tournament_state (
		id smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		doc jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`
	selectStateDoc = `SELECT doc FROM tournament_state WHERE id = 1`
	upsertStateDoc = `INSERT INTO tournament_state (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`
)

// PGStore persists the same single JSON document as FileStore, in a
// one-row Postgres table. Chosen over a relational schema because the
// store's whole contract is "mirror the in-memory state".
type PGStore struct {
	db *sql.DB
}

// NewPGStore connects to Postgres and ensures the state table exists.
func NewPGStore(dsn string) (*PGStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state table: %w", err)
	}
	return &PGStore{db: db}, nil
}

// Load reads the persisted document; an empty table yields a nil
// state.
func (s *PGStore) Load() (*models.TournamentState, error) {
	var doc []byte
	err := s.db.QueryRow(selectStateDoc).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state row: %w", err)
	}

	var state models.TournamentState
	if err := json.Unmarshal(doc, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state document: %w", err)
	}
	return &state, nil
}

// Save upserts the document into the single state row.
func (s *PGStore) Save(state *models.TournamentState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if _, err := s.db.Exec(upsertStateDoc, doc); err != nil {
		return fmt.Errorf("failed to upsert state row: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PGStore) Close() error {
	return s.db.Close()
}
