package goal

import (
	"context"
	"fmt"
	"time"
)

// maxDayScan bounds how many individual days extendForSkippedDays will probe
// for zero-activity/excluded-day extension. A Year goal spans up to 366
// days; scanning all of them every 30s would be one TotalTime call per
// day, per goal, per cycle. Capping at 90 keeps a year-long goal's
// extension accurate for roughly its most recent quarter, which is the
// window a user is actually watching day to day.
const maxDayScan = 90

// resolveTimeRange anchors time_span to local-time boundaries, matching
// goals_service.rs's resolve_time_range. Year mirrors the original's own
// quirk of always adding exactly 366 days to January 1st rather than the
// true calendar year length.
func resolveTimeRange(timeSpan string, now time.Time) (start, end time.Time, err error) {
	loc := now.Location()

	switch timeSpan {
	case "day":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	case "week":
		weekday := int(now.Weekday())
		// Monday-anchored week, matching TimeRangePreset::ThisWeek.
		daysSinceMonday := (weekday + 6) % 7
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -daysSinceMonday)
		end = start.AddDate(0, 0, 7)
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 366)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time_span: %q", timeSpan)
	}

	return start, end, nil
}

// periodKeyFor derives the notification ledger's period_key: the
// identifier of the concrete period a goal was evaluated for, so the
// same week/month/year only notifies once.
func periodKeyFor(timeSpan string, now time.Time) string {
	switch timeSpan {
	case "day":
		return now.Format("2006-01-02")
	case "week":
		year, week := now.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case "month":
		return now.Format("2006-01")
	case "year":
		return now.Format("2006")
	default:
		return now.Format(time.RFC3339)
	}
}

// extendForSkippedDays scans each elapsed day in [start, now) and pushes
// end out by one day for every day that should not count against the
// goal: a day listed in excludedDays, or (when ignoreNoActivity is set) a
// day with zero recorded activity. Scanning is capped at maxDayScan days
// back from now.
func extendForSkippedDays(ctx context.Context, totalTime func(ctx context.Context, start, end time.Time) (time.Duration, error), start, end time.Time, excludedDays []string, ignoreNoActivity bool) (time.Time, error) {
	if len(excludedDays) == 0 && !ignoreNoActivity {
		return end, nil
	}

	excluded := make(map[string]bool, len(excludedDays))
	for _, d := range excludedDays {
		excluded[d] = true
	}

	scanEnd := end
	if now := time.Now(); now.Before(scanEnd) {
		scanEnd = now
	}

	day := start
	for day.AddDate(0, 0, maxDayScan).Before(scanEnd) {
		day = day.AddDate(0, 0, 1)
	}
	scanned := 0
	skipped := 0
	for day.Before(scanEnd) && scanned < maxDayScan {
		dayEnd := day.AddDate(0, 0, 1)
		key := day.Format("2006-01-02")

		skip := excluded[key]
		if !skip && ignoreNoActivity {
			total, err := totalTime(ctx, day, dayEnd)
			if err != nil {
				return end, err
			}
			skip = total == 0
		}
		if skip {
			skipped++
		}

		day = dayEnd
		scanned++
	}

	return end.AddDate(0, 0, skipped), nil
}
