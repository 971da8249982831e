// Package notify surfaces goal-met events as a native desktop
// notification instead of a modal dialog, per spec.md §7's "surfaced
// without the daemon popping a modal" rule.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/netclient"
)

// Desktop implements goal.Notifier with a native OS notification.
// Construct with a logger so a platform that can't show one (headless
// CI, a stripped-down container) degrades to a log line instead of a
// user-facing error.
type Desktop struct {
	log *zap.Logger
}

// New constructs a Desktop notifier.
func New(log *zap.Logger) *Desktop {
	return &Desktop{log: log}
}

// NotifyGoalMet satisfies goal.Notifier.
func (d *Desktop) NotifyGoalMet(g netclient.Goal, periodKey string) {
	title := "Goal reached"
	body := fmt.Sprintf("%q (%s) — %s", g.Name, g.TimeSpan, periodKey)
	if err := beeep.Notify(title, body, ""); err != nil {
		d.log.Warn("desktop notification failed", zap.String("goal", g.Name), zap.Error(err))
	}
}
