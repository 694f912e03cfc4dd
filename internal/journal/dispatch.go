package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-dispatch
// LogDispatch writes one dispatch entry to the dispatch_log table.
func LogDispatch(db *sql.DB, entry DispatchEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO dispatch_log (revision_id, action_kind, action_json, mode_before, mode_after, decision, reason, elapsed_us, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RevisionID,
		entry.ActionKind,
		nullIfEmpty(entry.ActionJSON),
		entry.ModeBefore,
		entry.ModeAfter,
		entry.Decision,
		nullIfEmpty(entry.Reason),
		entry.ElapsedUS,
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log dispatch: %w", err)
	}
	return nil
}

// #endregion log-dispatch

// #region dispatch-trail
// DispatchTrail returns every dispatch entry in the order it was logged.
func (s *Store) DispatchTrail() ([]DispatchEntry, error) {
	rows, err := s.db.Query(
		`SELECT revision_id, action_kind, action_json, mode_before, mode_after, decision, reason, elapsed_us, created_at
		 FROM dispatch_log ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("dispatch trail: %w", err)
	}
	defer rows.Close()

	var entries []DispatchEntry
	for rows.Next() {
		entry, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// RecentDispatches returns the newest dispatch entries, newest first.
func (s *Store) RecentDispatches(limit int) ([]DispatchEntry, error) {
	rows, err := s.db.Query(
		`SELECT revision_id, action_kind, action_json, mode_before, mode_after, decision, reason, elapsed_us, created_at
		 FROM dispatch_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent dispatches: %w", err)
	}
	defer rows.Close()

	var entries []DispatchEntry
	for rows.Next() {
		entry, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanDispatch(rows *sql.Rows) (DispatchEntry, error) {
	var entry DispatchEntry
	var actionJSON sql.NullString
	var reason sql.NullString
	var elapsed sql.NullInt64
	var createdStr string

	err := rows.Scan(&entry.RevisionID, &entry.ActionKind, &actionJSON, &entry.ModeBefore,
		&entry.ModeAfter, &entry.Decision, &reason, &elapsed, &createdStr)
	if err != nil {
		return DispatchEntry{}, fmt.Errorf("scan dispatch: %w", err)
	}
	if actionJSON.Valid {
		entry.ActionJSON = actionJSON.String
	}
	if reason.Valid {
		entry.Reason = reason.String
	}
	if elapsed.Valid {
		entry.ElapsedUS = elapsed.Int64
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return entry, nil
}

// #endregion dispatch-trail

// #region revisions-with-dispatch
// ListRevisionsWithDispatch returns the most recent revisions joined with the
// dispatch row that committed each one. The boot revision has no committing
// dispatch, so its dispatch fields come back empty.
func (s *Store) ListRevisionsWithDispatch(limit int) ([]RevisionWithDispatch, error) {
	rows, err := s.db.Query(
		`SELECT r.revision_id, r.parent_id, r.mode, r.state_json, r.created_at,
		        dl.action_kind, dl.action_json, dl.mode_before, dl.decision, dl.reason
		 FROM revisions r
		 LEFT JOIN dispatch_log dl ON dl.revision_id = r.revision_id AND dl.decision = 'commit'
		 ORDER BY r.created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions with dispatch: %w", err)
	}
	defer rows.Close()

	var records []RevisionWithDispatch
	for rows.Next() {
		rec, err := scanRevisionWithDispatch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRevisionWithDispatch retrieves one revision joined with its committing
// dispatch row.
func (s *Store) GetRevisionWithDispatch(id string) (RevisionWithDispatch, error) {
	rows, err := s.db.Query(
		`SELECT r.revision_id, r.parent_id, r.mode, r.state_json, r.created_at,
		        dl.action_kind, dl.action_json, dl.mode_before, dl.decision, dl.reason
		 FROM revisions r
		 LEFT JOIN dispatch_log dl ON dl.revision_id = r.revision_id AND dl.decision = 'commit'
		 WHERE r.revision_id = ?`, id,
	)
	if err != nil {
		return RevisionWithDispatch{}, fmt.Errorf("get revision with dispatch: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return RevisionWithDispatch{}, fmt.Errorf("get revision with dispatch: %w", err)
		}
		return RevisionWithDispatch{}, fmt.Errorf("revision %s not found", id)
	}
	return scanRevisionWithDispatch(rows)
}

func scanRevisionWithDispatch(rows *sql.Rows) (RevisionWithDispatch, error) {
	var rec RevisionWithDispatch
	var parentID sql.NullString
	var stateJSON string
	var createdStr string
	var actionKind, actionJSON, modeBefore, decision, reason sql.NullString

	err := rows.Scan(&rec.RevisionID, &parentID, &rec.Mode, &stateJSON, &createdStr,
		&actionKind, &actionJSON, &modeBefore, &decision, &reason)
	if err != nil {
		return RevisionWithDispatch{}, fmt.Errorf("scan row: %w", err)
	}

	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	rec.State, err = decodeState(stateJSON)
	if err != nil {
		return RevisionWithDispatch{}, fmt.Errorf("revision %s: %w", rec.RevisionID, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	if actionKind.Valid {
		rec.ActionKind = actionKind.String
	}
	if actionJSON.Valid {
		rec.ActionJSON = actionJSON.String
	}
	if modeBefore.Valid {
		rec.ModeBefore = modeBefore.String
	}
	if decision.Valid {
		rec.Decision = decision.String
	}
	if reason.Valid {
		rec.Reason = reason.String
	}
	return rec, nil
}

// #endregion revisions-with-dispatch

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
