package mqtt

import (
	"sync"
	"time"

	"thermoled/internal/thermod"
)

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Statuses contains every (mode, heating) status event.
	Statuses []StatusPayload

	// Changes contains every committed mode-change event.
	Changes []ChangePayload

	// SystemEvents contains every lifecycle event.
	SystemEvents []SystemPayload

	// PublishError, if set, is returned by every publish call.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) PublishStatus(mode thermod.Mode, heating bool, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Statuses = append(f.Statuses, StatusPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Mode:      string(mode),
		Heating:   heating,
	})
	return nil
}

func (f *FakePublisher) PublishModeChange(target thermod.Mode, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Changes = append(f.Changes, ChangePayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Target:    string(target),
	})
	return nil
}

func (f *FakePublisher) PublishSystem(event, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SystemEvents = append(f.SystemEvents, SystemPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Event:     event,
		Reason:    reason,
	})
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// StatusCount returns the number of recorded status events.
func (f *FakePublisher) StatusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Statuses)
}

// ChangeCount returns the number of recorded change events.
func (f *FakePublisher) ChangeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Changes)
}
