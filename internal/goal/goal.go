// Package goal implements GoalService (spec.md §4.7): a 30s evaluator
// that fetches the current goal definitions from the aggregation server,
// resolves each goal's time span to a concrete local-time window,
// queries the server for total tracked time in that window, and decides
// whether the goal is met or still in progress. A persistent
// (goal_id, time_span, period_key) ledger in internal/store stops the
// same period's notification from firing twice.
package goal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/netclient"
	"github.com/samwahome/skopio-desktop/internal/store"
)

// Notifier is told about a goal transitioning to "met" for a period that
// has not yet been notified. main wires this to whatever surfaces a
// desktop notification; Service itself has no UI dependency.
type Notifier interface {
	NotifyGoalMet(g netclient.Goal, periodKey string)
}

// Service evaluates goals on a 30s interval. Grounded on
// goals_service.rs's GoalService (check_goals/evaluate_goal/
// resolve_time_range).
type Service struct {
	client   netclient.Client
	store    *store.Store
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

// New constructs a Service.
func New(client netclient.Client, db *store.Store, notifier Notifier, log *zap.Logger) *Service {
	return &Service{client: client, store: db, notifier: notifier, log: log, now: time.Now}
}

// Run evaluates goals every 30 seconds until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.checkGoals(ctx); err != nil {
				s.log.Warn("goal check failed", zap.Error(err))
			}
		}
	}
}

func (s *Service) checkGoals(ctx context.Context) error {
	goals, err := s.client.Goals(ctx)
	if err != nil {
		return fmt.Errorf("fetch goals: %w", err)
	}

	for _, g := range goals {
		total, err := s.evaluateGoal(ctx, g)
		if err != nil {
			s.log.Warn("goal evaluation failed", zap.Int64("goal_id", g.ID), zap.Error(err))
			continue
		}

		met := total >= time.Duration(g.TargetSeconds)*time.Second
		s.log.Debug("goal evaluated",
			zap.Int64("goal_id", g.ID),
			zap.Int64("target_seconds", g.TargetSeconds),
			zap.Duration("tracked", total),
			zap.Bool("met", met),
		)

		if !met {
			continue
		}

		periodKey := periodKeyFor(g.TimeSpan, s.now())
		shown, err := s.store.HasShownGoalNotification(g.ID, g.TimeSpan, periodKey)
		if err != nil {
			s.log.Warn("notification lookup failed", zap.Int64("goal_id", g.ID), zap.Error(err))
			continue
		}
		if shown {
			continue
		}

		if s.notifier != nil {
			s.notifier.NotifyGoalMet(g, periodKey)
		}
		if err := s.store.InsertShownGoalNotification(g.ID, g.TimeSpan, periodKey); err != nil {
			s.log.Warn("failed to record shown notification", zap.Int64("goal_id", g.ID), zap.Error(err))
		}
	}

	return nil
}

func (s *Service) evaluateGoal(ctx context.Context, g netclient.Goal) (time.Duration, error) {
	start, end, err := resolveTimeRange(g.TimeSpan, s.now())
	if err != nil {
		return 0, err
	}

	var apps, categories []string
	if g.UseApps {
		apps = g.Apps
	}
	if g.UseCategories {
		categories = g.Categories
	}

	totalTime := func(ctx context.Context, start, end time.Time) (time.Duration, error) {
		return s.client.TotalTime(ctx, start, end, apps, categories)
	}

	end, err = extendForSkippedDays(ctx, totalTime, start, end, g.ExcludedDays, g.IgnoreNoActivityDays)
	if err != nil {
		return 0, err
	}

	return totalTime(ctx, start, end)
}
