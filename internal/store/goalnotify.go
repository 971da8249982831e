package store

import "time"

// HasShownGoalNotification reports whether the notification for the
// given goal/time-span/period has already been shown, so GoalService
// never repeats one within the same period (spec.md §4.7).
func (s *Store) HasShownGoalNotification(goalID int64, timeSpan, periodKey string) (bool, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(1) FROM shown_goal_notifications
		WHERE goal_id = ? AND time_span = ? AND period_key = ?`,
		goalID, timeSpan, periodKey,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertShownGoalNotification records that the notification for the
// given goal/time-span/period has been shown. Re-recording the same
// triple is a no-op.
func (s *Store) InsertShownGoalNotification(goalID int64, timeSpan, periodKey string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO shown_goal_notifications (goal_id, time_span, period_key, shown_at)
		VALUES (?, ?, ?, ?)`,
		goalID, timeSpan, periodKey, time.Now().UTC().Format(timeLayout),
	)
	return err
}
