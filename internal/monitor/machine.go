// Package monitor holds the mode-cycle state machine and the long-poll loop
// that feed the indicator from thermod status updates and button presses.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"thermoled/internal/clock"
	"thermoled/internal/colors"
	"thermoled/internal/indicator"
	"thermoled/internal/thermod"
)

const (
	// heatingBlink is the on/off half-period shown while the daemon heats.
	heatingBlink = 500 * time.Millisecond

	// errorBlink is the half-period of the red/yellow failure pattern.
	errorBlink = 100 * time.Millisecond
)

// Events receives notifications about applied statuses and committed mode
// changes. The machine invokes the sink outside its lock, so a slow
// implementation delays only its own notifications, never transitions.
// Implementations must not call back into the Machine.
type Events interface {
	StatusApplied(mode thermod.Mode, heating bool, at time.Time)
	ChangeCommitted(target thermod.Mode, at time.Time)
}

// pendingChange is the one deferred mode change that may exist between a
// button press and its debounce expiry.
type pendingChange struct {
	target thermod.Mode
	seq    uint64
	timer  clock.Timer
}

// Machine reconciles remote status updates with locally pending button
// intent. Every transition (remote status, button press, debounce expiry)
// runs to completion under one mutex, including indicator output and the
// commit request, so transitions never interleave.
type Machine struct {
	client    thermod.API
	indicator indicator.Driver
	policy    *colors.Policy
	clock     clock.Clock
	debounce  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	current thermod.Mode
	heating bool
	pressed bool
	seq     uint64
	pending *pendingChange
	events  Events
}

// NewMachine creates an idle machine. Until the first status arrives the
// current mode is unknown and the first press proposes auto.
func NewMachine(client thermod.API, ind indicator.Driver, policy *colors.Policy, clk clock.Clock, debounce time.Duration, logger *zap.Logger) *Machine {
	return &Machine{
		client:    client,
		indicator: ind,
		policy:    policy,
		clock:     clk,
		debounce:  debounce,
		logger:    logger,
	}
}

// SetEvents attaches an optional event sink. Call before the machine starts
// receiving input.
func (m *Machine) SetEvents(events Events) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// Current returns the last known daemon mode and heating state.
func (m *Machine) Current() (thermod.Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.heating
}

// OnRemoteStatus applies a daemon status snapshot. While a local change is
// pending the update is dropped: the displayed color is driven only by local
// intent until the change commits.
func (m *Machine) OnRemoteStatus(status *thermod.Status) {
	m.mu.Lock()

	if m.pending != nil {
		m.logger.Debug("status update dropped, mode change pending",
			zap.String("remote", string(status.Mode)),
			zap.String("pending", string(m.pending.target)))
		m.mu.Unlock()
		return
	}

	m.current = status.Mode
	m.heating = status.Heating()

	now := m.clock.Now()
	c := m.policy.Color(string(status.Mode), now)
	if m.heating {
		m.indicator.SetBlinking(c, colors.Off, heatingBlink, heatingBlink)
	} else {
		m.indicator.SetSteady(c)
	}

	m.logger.Info("status applied",
		zap.String("mode", string(m.current)),
		zap.Bool("heating", m.heating))
	mode, heating, events := m.current, m.heating, m.events
	m.mu.Unlock()

	// The sink may publish to a slow broker; never hold the lock across it.
	if events != nil {
		events.StatusApplied(mode, heating, now)
	}
}

// OnButtonPress advances the pending target and restarts the debounce window.
// The very first press after startup proposes auto (or tmax when the current
// mode already is auto); later idle presses step one mode along the cycle.
func (m *Machine) OnButtonPress() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target thermod.Mode
	switch {
	case m.pending != nil:
		m.pending.timer.Stop()
		target = m.pending.target.Next()
	case !m.pressed:
		if m.current != thermod.ModeAuto {
			target = thermod.ModeAuto
		} else {
			target = thermod.ModeAuto.Next()
		}
	default:
		target = m.current.Next()
	}
	m.pressed = true

	m.seq++
	seq := m.seq
	m.pending = &pendingChange{target: target, seq: seq}
	m.indicator.SetSteady(m.policy.Color(string(target), m.clock.Now()))
	m.pending.timer = m.clock.AfterFunc(m.debounce, func() {
		m.onDebounceExpiry(seq)
	})

	m.logger.Info("button press", zap.String("target", string(target)), zap.Uint64("seq", seq))
}

// onDebounceExpiry commits the pending change if seq still identifies the
// most recent press. Superseded timers are stopped when replaced; the seq
// check is a second guard against one that already fired.
func (m *Machine) onDebounceExpiry(seq uint64) {
	m.mu.Lock()

	if m.pending == nil || m.pending.seq != seq {
		m.logger.Debug("stale debounce timer ignored", zap.Uint64("seq", seq))
		m.mu.Unlock()
		return
	}

	target := m.pending.target
	m.pending = nil

	// Extinguish first: the dark LED signals "change in flight" until the
	// next successful poll repaints it.
	m.indicator.Clear()

	if err := m.client.SetMode(context.Background(), target); err != nil {
		// Best effort: no retry. The user presses again if the daemon was
		// unreachable.
		m.logger.Error("mode change failed",
			zap.String("target", string(target)),
			zap.Error(err))
		m.errorBlinkLocked()
		m.mu.Unlock()
		return
	}

	m.logger.Info("mode change committed", zap.String("target", string(target)))
	at := m.clock.Now()
	events := m.events
	m.mu.Unlock()

	if events != nil {
		events.ChangeCommitted(target, at)
	}
}

// OnRemoteError shows the failure pattern after a fetch error. While a change
// is pending the indicator keeps showing the local intent instead.
func (m *Machine) OnRemoteError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil {
		return
	}
	m.errorBlinkLocked()
}

func (m *Machine) errorBlinkLocked() {
	now := m.clock.Now()
	m.indicator.SetBlinking(
		m.policy.Color(colors.SignalRed, now),
		m.policy.Color(colors.SignalYellow, now),
		errorBlink, errorBlink)
}
