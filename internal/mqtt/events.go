package mqtt

import (
	"time"

	"go.uber.org/zap"

	"thermoled/internal/monitor"
	"thermoled/internal/thermod"
)

// Events adapts a Publisher to the monitor's event sink. Publish failures are
// logged and swallowed so the state machine never sees them.
func Events(p Publisher, logger *zap.Logger) monitor.Events {
	return &eventSink{p: p, logger: logger}
}

type eventSink struct {
	p      Publisher
	logger *zap.Logger
}

func (s *eventSink) StatusApplied(mode thermod.Mode, heating bool, at time.Time) {
	if err := s.p.PublishStatus(mode, heating, at); err != nil {
		s.logger.Warn("mqtt status publish failed", zap.Error(err))
	}
}

func (s *eventSink) ChangeCommitted(target thermod.Mode, at time.Time) {
	if err := s.p.PublishModeChange(target, at); err != nil {
		s.logger.Warn("mqtt change publish failed", zap.Error(err))
	}
}
