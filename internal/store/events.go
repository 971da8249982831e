package store

import (
	"database/sql"
	"time"
)

// Event mirrors spec.md §3's ActivitySpan record as persisted locally.
// ID is assigned by the caller (a UUID v7 string) before InsertEvent, so
// retrying a failed insert is idempotent.
type Event struct {
	ID            string
	Timestamp     time.Time
	EndTimestamp  *time.Time
	DurationS     *int64
	Category      string
	AppName       string
	EntityName    string
	EntityType    string
	ProjectName   string
	ProjectPath   string
	BranchName    string
	LanguageName  string
	SourceName    string
	Synced        bool
}

const timeLayout = time.RFC3339Nano

// InsertEvent persists e. A duplicate ID (a retried insert after a prior
// attempt actually landed) is silently ignored rather than erroring.
func (s *Store) InsertEvent(e Event) error {
	if e.SourceName == "" {
		e.SourceName = "desktop"
	}
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO events
			(id, timestamp, end_timestamp, duration, category, app_name, entity_name,
			 entity_type, project_name, project_path, branch_name, language_name, source_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.Timestamp.UTC().Format(timeLayout),
		formatTimePtr(e.EndTimestamp),
		e.DurationS,
		nullableString(e.Category),
		e.AppName,
		nullableString(e.EntityName),
		nullableString(e.EntityType),
		nullableString(e.ProjectName),
		nullableString(e.ProjectPath),
		nullableString(e.BranchName),
		nullableString(e.LanguageName),
		e.SourceName,
	)
	return err
}

// UnsyncedEvents returns up to 100 events not yet synced to the server,
// oldest first (spec.md §4.6/§5's insertion-order sync contract).
func (s *Store) UnsyncedEvents() ([]Event, error) {
	rows, err := s.db.Query(`
		SELECT id, timestamp, end_timestamp, duration, category, app_name, entity_name,
		       entity_type, project_name, project_path, branch_name, language_name, source_name
		FROM events
		WHERE synced = 0
		ORDER BY timestamp ASC
		LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ts string
		var endTS, category, entityName, entityType, projectName, projectPath, branchName, languageName sql.NullString
		var duration sql.NullInt64

		if err := rows.Scan(&e.ID, &ts, &endTS, &duration, &category, &e.AppName, &entityName,
			&entityType, &projectName, &projectPath, &branchName, &languageName, &e.SourceName); err != nil {
			return nil, err
		}

		e.Timestamp = parseTime(ts)
		if endTS.Valid {
			t := parseTime(endTS.String)
			e.EndTimestamp = &t
		}
		if duration.Valid {
			d := duration.Int64
			e.DurationS = &d
		}
		e.Category = category.String
		e.EntityName = entityName.String
		e.EntityType = entityType.String
		e.ProjectName = projectName.String
		e.ProjectPath = projectPath.String
		e.BranchName = branchName.String
		e.LanguageName = languageName.String

		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkEventsSynced flips the synced flag for the given ids.
func (s *Store) MarkEventsSynced(ids []string) error {
	return markSynced(s.db, "events", ids)
}

// DeleteSyncedEvents removes up to 100 synced events older than
// retention, oldest first, matching the original's 15-day GC batches.
func (s *Store) DeleteSyncedEvents(retention time.Duration) error {
	cutoff := time.Now().Add(-retention).UTC().Format(timeLayout)
	_, err := s.db.Exec(`
		DELETE FROM events
		WHERE id IN (
			SELECT id FROM events
			WHERE synced = 1 AND timestamp < ?
			ORDER BY timestamp ASC
			LIMIT 100
		)`, cutoff)
	return err
}
