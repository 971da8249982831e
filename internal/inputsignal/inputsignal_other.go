//go:build !linux

package inputsignal

import (
	"context"

	"go.uber.org/zap"
)

// Manager is the non-Linux stub: no platform input-event facility is
// wired up, so both observers stay inert (spec.md §4.1's "no activity is
// a legitimate state, never a failure").
type Manager struct {
	Mouse    *Mouse
	Keyboard *Keyboard

	log *zap.Logger
}

// NewManager returns an inert Manager.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{Mouse: NewMouse(), Keyboard: NewKeyboard(), log: log}
}

// Run logs once and returns; Mouse/Keyboard remain permanently inert.
func (m *Manager) Run(ctx context.Context) {
	m.log.Warn("inputsignal: no input-event facility on this platform, observers are inert")
}
