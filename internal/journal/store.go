package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/binding-state/internal/state"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS revisions (
	revision_id   TEXT PRIMARY KEY,
	parent_id     TEXT,
	mode          TEXT NOT NULL,
	state_json    TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES revisions(revision_id)
);

CREATE TABLE IF NOT EXISTS dispatch_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	revision_id   TEXT NOT NULL,
	action_kind   TEXT NOT NULL,
	action_json   TEXT,
	mode_before   TEXT NOT NULL,
	mode_after    TEXT NOT NULL,
	decision      TEXT NOT NULL,
	reason        TEXT,
	elapsed_us    INTEGER,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (revision_id) REFERENCES revisions(revision_id)
);

CREATE TABLE IF NOT EXISTS head (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	revision_id   TEXT NOT NULL,
	FOREIGN KEY (revision_id) REFERENCES revisions(revision_id)
);
`

// #endregion schema

// #region store-struct
// Store manages the revision journal in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-open database. The caller keeps ownership
// of the connection and is responsible for the schema.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other functions in this
// package that log against an open journal.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region append-initial
// AppendInitial writes the boot revision and points head at it.
func (s *Store) AppendInitial(app state.App, mode string) (Revision, error) {
	rec := Revision{
		RevisionID: uuid.New().String(),
		ParentID:   "",
		Mode:       mode,
		State:      app,
		CreatedAt:  time.Now().UTC(),
	}

	stateJSON, err := encodeState(app)
	if err != nil {
		return Revision{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Revision{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO revisions (revision_id, parent_id, mode, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.RevisionID, nil, rec.Mode, stateJSON, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Revision{}, fmt.Errorf("insert revision: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO head (id, revision_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET revision_id = excluded.revision_id`,
		rec.RevisionID,
	)
	if err != nil {
		return Revision{}, fmt.Errorf("set head: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Revision{}, fmt.Errorf("commit: %w", err)
	}

	return rec, nil
}

// #endregion append-initial

// #region append
// Append inserts a new revision and moves head to it atomically.
func (s *Store) Append(rec Revision) error {
	stateJSON, err := encodeState(rec.State)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentPtr interface{}
	if rec.ParentID != "" {
		parentPtr = rec.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO revisions (revision_id, parent_id, mode, state_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.RevisionID, parentPtr, rec.Mode, stateJSON, rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert revision: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE head SET revision_id = ? WHERE id = 1`, rec.RevisionID,
	)
	if err != nil {
		return fmt.Errorf("update head: %w", err)
	}

	return tx.Commit()
}

// #endregion append

// #region head
// Head reads the revision the head pointer currently names.
func (s *Store) Head() (Revision, error) {
	var revisionID string
	err := s.db.QueryRow(`SELECT revision_id FROM head WHERE id = 1`).Scan(&revisionID)
	if err != nil {
		return Revision{}, fmt.Errorf("get head: %w", err)
	}
	return s.GetRevision(revisionID)
}

// #endregion head

// #region get-revision
// GetRevision retrieves a specific revision by ID.
func (s *Store) GetRevision(id string) (Revision, error) {
	var rec Revision
	var parentID sql.NullString
	var stateJSON string
	var createdStr string

	err := s.db.QueryRow(
		`SELECT revision_id, parent_id, mode, state_json, created_at
		 FROM revisions WHERE revision_id = ?`, id,
	).Scan(&rec.RevisionID, &parentID, &rec.Mode, &stateJSON, &createdStr)
	if err != nil {
		return Revision{}, fmt.Errorf("get revision %s: %w", id, err)
	}

	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	rec.State, err = decodeState(stateJSON)
	if err != nil {
		return Revision{}, fmt.Errorf("revision %s: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	return rec, nil
}

// #endregion get-revision

// #region set-head
// SetHead rewinds the head pointer to an earlier revision.
func (s *Store) SetHead(revisionID string) error {
	// Verify the target revision exists
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM revisions WHERE revision_id = ?`, revisionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check revision: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("revision %s not found", revisionID)
	}

	_, err = s.db.Exec(`UPDATE head SET revision_id = ? WHERE id = 1`, revisionID)
	if err != nil {
		return fmt.Errorf("set head: %w", err)
	}
	return nil
}

// #endregion set-head

// #region list-revisions
// ListRevisions returns the most recent revisions, newest first.
func (s *Store) ListRevisions(limit int) ([]Revision, error) {
	rows, err := s.db.Query(
		`SELECT revision_id, parent_id, mode, state_json, created_at
		 FROM revisions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var records []Revision
	for rows.Next() {
		var rec Revision
		var parentID sql.NullString
		var stateJSON string
		var createdStr string

		if err := rows.Scan(&rec.RevisionID, &parentID, &rec.Mode, &stateJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if parentID.Valid {
			rec.ParentID = parentID.String
		}
		rec.State, err = decodeState(stateJSON)
		if err != nil {
			return nil, fmt.Errorf("revision %s: %w", rec.RevisionID, err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-revisions

// #region state-encoding
func encodeState(app state.App) (string, error) {
	data, err := json.Marshal(app)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

func decodeState(s string) (state.App, error) {
	var app state.App
	if err := json.Unmarshal([]byte(s), &app); err != nil {
		return state.App{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return app, nil
}

// #endregion state-encoding
