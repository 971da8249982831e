package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// markSynced flips synced=1 for every row whose id is in ids. Grounded
// on kastheco-klique's update_synced_in equivalent (the original Rust
// sync_service.rs's mark_as_synced call).
func markSynced(db *sql.DB, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf("UPDATE %s SET synced = 1 WHERE id IN (%s)", table, strings.Join(placeholders, ", "))
	_, err := db.Exec(query, args...)
	return err
}
