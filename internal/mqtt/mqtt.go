// Package mqtt optionally mirrors monitor events to an MQTT broker so other
// consumers can follow the thermostat without polling the daemon themselves.
// Publishing is best-effort; failures never reach the state machine.
package mqtt

import (
	"encoding/json"
	"time"

	"thermoled/internal/thermod"
)

// Topics for the mirrored event streams.
const (
	TopicStatus  = "thermoled/status"
	TopicChanges = "thermoled/changes"
	TopicSystem  = "thermoled/system"
)

// Publisher publishes monitor events to a broker.
type Publisher interface {
	// PublishStatus mirrors an applied daemon status.
	PublishStatus(mode thermod.Mode, heating bool, at time.Time) error

	// PublishModeChange mirrors a committed mode-change request.
	PublishModeChange(target thermod.Mode, at time.Time) error

	// PublishSystem sends a lifecycle event such as STARTUP or SHUTDOWN.
	PublishSystem(event, reason string, at time.Time) error

	// Close disconnects from the broker.
	Close() error
}

// StatusPayload is the JSON body on TopicStatus.
type StatusPayload struct {
	Timestamp string `json:"timestamp"`
	Mode      string `json:"mode"`
	Heating   bool   `json:"heating"`
}

// ChangePayload is the JSON body on TopicChanges.
type ChangePayload struct {
	Timestamp string `json:"timestamp"`
	Target    string `json:"target"`
}

// SystemPayload is the JSON body on TopicSystem.
type SystemPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatStatus creates the JSON payload for a status event.
func FormatStatus(mode thermod.Mode, heating bool, at time.Time) ([]byte, error) {
	return json.Marshal(StatusPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Mode:      string(mode),
		Heating:   heating,
	})
}

// FormatChange creates the JSON payload for a mode-change event.
func FormatChange(target thermod.Mode, at time.Time) ([]byte, error) {
	return json.Marshal(ChangePayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Target:    string(target),
	})
}

// FormatSystem creates the JSON payload for a lifecycle event.
func FormatSystem(event, reason string, at time.Time) ([]byte, error) {
	return json.Marshal(SystemPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Event:     event,
		Reason:    reason,
	})
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishStatus(thermod.Mode, bool, time.Time) error { return nil }
func (NopPublisher) PublishModeChange(thermod.Mode, time.Time) error   { return nil }
func (NopPublisher) PublishSystem(string, string, time.Time) error     { return nil }
func (NopPublisher) Close() error                                      { return nil }
