package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/samber/oops"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS inventory (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	payload TEXT NOT NULL
);`

// SQLiteStore persists the inventory document as a single serialized row.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "open inventory store")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, oops.With("path", path).Wrapf(err, "create inventory schema")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load() (State, bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM inventory WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, oops.Wrapf(err, "read inventory row")
	}
	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return State{}, false, oops.Wrapf(err, "decode inventory payload")
	}
	return state, true, nil
}

func (s *SQLiteStore) Save(state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return oops.Wrapf(err, "encode inventory payload")
	}
	_, err = s.db.Exec(
		`INSERT INTO inventory (id, payload) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload),
	)
	if err != nil {
		return oops.Wrapf(err, "write inventory row")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
