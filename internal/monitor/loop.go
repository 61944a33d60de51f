package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"thermoled/internal/clock"
	"thermoled/internal/thermod"
)

// Loop drives the machine from the daemon: one immediate fetch at startup,
// then long-poll rounds until the context is cancelled.
type Loop struct {
	client  thermod.API
	machine *Machine
	clock   clock.Clock
	retry   time.Duration
	logger  *zap.Logger
}

// NewLoop creates the main loop. retry is the pause after a failed fetch
// before the next attempt.
func NewLoop(client thermod.API, machine *Machine, clk clock.Clock, retry time.Duration, logger *zap.Logger) *Loop {
	return &Loop{
		client:  client,
		machine: machine,
		clock:   clk,
		retry:   retry,
		logger:  logger,
	}
}

// Run blocks until ctx is cancelled. Fetch failures are never fatal: they are
// logged, shown on the indicator, and retried after the configured pause.
func (l *Loop) Run(ctx context.Context) error {
	// Initial snapshot so the indicator is meaningful before the first
	// remote change.
	for {
		status, err := l.client.GetStatus(ctx)
		if err == nil {
			l.machine.OnRemoteStatus(status)
			break
		}
		if ctx.Err() != nil {
			return nil
		}
		l.logger.Warn("initial status fetch failed", zap.Error(err))
		l.machine.OnRemoteError()
		if !l.pause(ctx) {
			return nil
		}
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		status, err := l.client.WaitStatusChange(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if thermod.IsData(err) {
				l.logger.Warn("malformed status update skipped", zap.Error(err))
			} else {
				l.logger.Warn("status poll failed", zap.Error(err))
			}
			l.machine.OnRemoteError()
			if !l.pause(ctx) {
				return nil
			}
			continue
		}

		l.machine.OnRemoteStatus(status)
	}
}

// pause waits for the retry interval. Returns false when ctx was cancelled.
func (l *Loop) pause(ctx context.Context) bool {
	done := make(chan struct{})
	t := l.clock.AfterFunc(l.retry, func() { close(done) })
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-done:
		return true
	}
}
