package store

import (
	"database/sql"
	"time"
)

// AFKEvent mirrors spec.md §4.4's AFK span record as persisted locally.
// ID is assigned by the caller (a UUID v7 string) before InsertAFKEvent.
type AFKEvent struct {
	ID        string
	AFKStart  time.Time
	AFKEnd    *time.Time
	DurationS *int64
	Synced    bool
}

// InsertAFKEvent persists e. A duplicate ID is silently ignored.
func (s *Store) InsertAFKEvent(e AFKEvent) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO afk_events (id, afk_start, afk_end, duration)
		VALUES (?, ?, ?, ?)`,
		e.ID,
		e.AFKStart.UTC().Format(timeLayout),
		formatTimePtr(e.AFKEnd),
		e.DurationS,
	)
	return err
}

// UnsyncedAFKEvents returns up to 100 AFK spans not yet synced, oldest
// first.
func (s *Store) UnsyncedAFKEvents() ([]AFKEvent, error) {
	rows, err := s.db.Query(`
		SELECT id, afk_start, afk_end, duration
		FROM afk_events
		WHERE synced = 0
		ORDER BY afk_start ASC
		LIMIT 100`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AFKEvent
	for rows.Next() {
		var e AFKEvent
		var start string
		var end sql.NullString
		var duration sql.NullInt64

		if err := rows.Scan(&e.ID, &start, &end, &duration); err != nil {
			return nil, err
		}

		e.AFKStart = parseTime(start)
		if end.Valid {
			t := parseTime(end.String)
			e.AFKEnd = &t
		}
		if duration.Valid {
			d := duration.Int64
			e.DurationS = &d
		}

		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkAFKEventsSynced flips the synced flag for the given ids.
func (s *Store) MarkAFKEventsSynced(ids []string) error {
	return markSynced(s.db, "afk_events", ids)
}

// DeleteSyncedAFKEvents removes up to 100 synced AFK spans older than
// retention, oldest first.
func (s *Store) DeleteSyncedAFKEvents(retention time.Duration) error {
	cutoff := time.Now().Add(-retention).UTC().Format(timeLayout)
	_, err := s.db.Exec(`
		DELETE FROM afk_events
		WHERE id IN (
			SELECT id FROM afk_events
			WHERE synced = 1 AND afk_start < ?
			ORDER BY afk_start ASC
			LIMIT 100
		)`, cutoff)
	return err
}
