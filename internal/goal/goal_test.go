package goal

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/netclient"
	"github.com/samwahome/skopio-desktop/internal/store"
)

type fakeClient struct {
	goals     []netclient.Goal
	totalFunc func(ctx context.Context, start, end time.Time, apps, categories []string) (time.Duration, error)
}

func (f *fakeClient) Health(context.Context) error { return nil }
func (f *fakeClient) PostEvents(context.Context, []store.Event) error {
	return nil
}
func (f *fakeClient) PostAFKEvents(context.Context, []store.AFKEvent) error {
	return nil
}
func (f *fakeClient) TotalTime(ctx context.Context, start, end time.Time, apps, categories []string) (time.Duration, error) {
	return f.totalFunc(ctx, start, end, apps, categories)
}
func (f *fakeClient) SummaryRange(context.Context, time.Time, time.Time) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) SummaryBuckets(context.Context, time.Time, time.Time, string) (json.RawMessage, error) {
	return nil, nil
}
func (f *fakeClient) Goals(context.Context) ([]netclient.Goal, error) {
	return f.goals, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []netclient.Goal
}

func (n *fakeNotifier) NotifyGoalMet(g netclient.Goal, periodKey string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, g)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCheckGoalsNotifiesOnceWhenMet(t *testing.T) {
	client := &fakeClient{
		goals: []netclient.Goal{{ID: 1, Name: "Deep work", TargetSeconds: 3600, TimeSpan: "day"}},
		totalFunc: func(context.Context, time.Time, time.Time, []string, []string) (time.Duration, error) {
			return 2 * time.Hour, nil
		},
	}
	notifier := &fakeNotifier{}
	db := newTestStore(t)
	svc := New(client, db, notifier, zap.NewNop())

	if err := svc.checkGoals(context.Background()); err != nil {
		t.Fatalf("checkGoals: %v", err)
	}
	if err := svc.checkGoals(context.Background()); err != nil {
		t.Fatalf("second checkGoals: %v", err)
	}

	if notifier.count() != 1 {
		t.Fatalf("got %d notifications across two cycles in the same period, want 1", notifier.count())
	}
}

func TestCheckGoalsDoesNotNotifyWhenNotMet(t *testing.T) {
	client := &fakeClient{
		goals: []netclient.Goal{{ID: 2, Name: "Reading", TargetSeconds: 3600, TimeSpan: "day"}},
		totalFunc: func(context.Context, time.Time, time.Time, []string, []string) (time.Duration, error) {
			return 10 * time.Minute, nil
		},
	}
	notifier := &fakeNotifier{}
	db := newTestStore(t)
	svc := New(client, db, notifier, zap.NewNop())

	if err := svc.checkGoals(context.Background()); err != nil {
		t.Fatalf("checkGoals: %v", err)
	}

	if notifier.count() != 0 {
		t.Fatalf("got %d notifications for an unmet goal, want 0", notifier.count())
	}
}

func TestResolveTimeRangeDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	start, end, err := resolveTimeRange("day", now)
	if err != nil {
		t.Fatalf("resolveTimeRange: %v", err)
	}
	if !start.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got start %v, want midnight", start)
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("got end %v, want start+1d", end)
	}
}

func TestResolveTimeRangeWeekStartsOnMonday(t *testing.T) {
	// 2026-03-18 is a Wednesday.
	now := time.Date(2026, 3, 18, 9, 0, 0, 0, time.UTC)
	start, end, err := resolveTimeRange("week", now)
	if err != nil {
		t.Fatalf("resolveTimeRange: %v", err)
	}
	if start.Weekday() != time.Monday {
		t.Fatalf("got start weekday %v, want Monday", start.Weekday())
	}
	if !end.Equal(start.AddDate(0, 0, 7)) {
		t.Fatalf("got end %v, want start+7d", end)
	}
}

func TestResolveTimeRangeRejectsUnknownSpan(t *testing.T) {
	if _, _, err := resolveTimeRange("fortnight", time.Now()); err == nil {
		t.Fatal("expected an error for an unrecognized time_span")
	}
}

func TestExtendForSkippedDaysExtendsPastExcludedDays(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)
	excluded := []string{"2026-03-02"}

	newEnd, err := extendForSkippedDays(context.Background(), nil, start, end, excluded, false)
	if err != nil {
		t.Fatalf("extendForSkippedDays: %v", err)
	}
	if !newEnd.Equal(end.AddDate(0, 0, 1)) {
		t.Fatalf("got end %v, want original end + 1 excluded day", newEnd)
	}
}

func TestExtendForSkippedDaysIgnoresZeroActivityDays(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	calls := 0
	totalTime := func(ctx context.Context, s, e time.Time) (time.Duration, error) {
		calls++
		if calls == 1 {
			return 0, nil
		}
		return time.Hour, nil
	}

	newEnd, err := extendForSkippedDays(context.Background(), totalTime, start, end, nil, true)
	if err != nil {
		t.Fatalf("extendForSkippedDays: %v", err)
	}
	if !newEnd.Equal(end.AddDate(0, 0, 1)) {
		t.Fatalf("got end %v, want original end + 1 zero-activity day", newEnd)
	}
}
