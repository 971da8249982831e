package store

import "github.com/google/uuid"

// NewID mints a UUID v7 row id: sortable by creation time, which keeps
// the ORDER BY timestamp scans in UnsyncedEvents/UnsyncedAFKEvents close
// to insertion order even before the timestamp column is indexed.
// Callers assign the id before Insert* so a retried insert after a
// crash or failed flush is naturally idempotent.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
