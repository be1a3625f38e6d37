package checkpoint

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS run_steps (
	run_id       TEXT NOT NULL,
	step         TEXT NOT NULL,
	result       BLOB,
	completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (run_id, step)
)`

// SQLiteStore persists checkpoints on disk so a re-invoked run resumes after
// a process crash.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint db %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init checkpoint schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(runID, step string) ([]byte, bool, error) {
	var result []byte
	err := s.db.QueryRow(
		`SELECT result FROM run_steps WHERE run_id = ? AND step = ?`,
		runID, step,
	).Scan(&result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (s *SQLiteStore) Put(runID, step string, result []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO run_steps (run_id, step, result) VALUES (?, ?, ?)`,
		runID, step, result,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
