package thermod

import (
	"context"
	"sync"
)

// MockClient implements API for tests. Responses are scripted through the
// exported fields; mode changes are recorded for assertions.
type MockClient struct {
	mu sync.Mutex

	// Status is returned by GetStatus and, when WaitFunc is nil, by
	// WaitStatusChange.
	Status *Status

	// GetErr, WaitErr and SetErr, when set, are returned by the matching call.
	GetErr  error
	WaitErr error
	SetErr  error

	// WaitFunc, when set, replaces the canned WaitStatusChange behavior.
	WaitFunc func(ctx context.Context) (*Status, error)

	// ModeChanges records every SetMode call in order.
	ModeChanges []Mode
}

// NewMockClient returns an empty mock reporting mode auto, not heating.
func NewMockClient() *MockClient {
	return &MockClient{Status: &Status{Mode: ModeAuto}}
}

func (m *MockClient) GetStatus(ctx context.Context) (*Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := *m.Status
	return &s, nil
}

func (m *MockClient) WaitStatusChange(ctx context.Context) (*Status, error) {
	m.mu.Lock()
	wait := m.WaitFunc
	err := m.WaitErr
	var s *Status
	if m.Status != nil {
		copied := *m.Status
		s = &copied
	}
	m.mu.Unlock()

	if wait != nil {
		return wait(ctx)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *MockClient) SetMode(ctx context.Context, mode Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.ModeChanges = append(m.ModeChanges, mode)
	return nil
}

// ClearGetErr makes subsequent GetStatus calls succeed again.
func (m *MockClient) ClearGetErr() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetErr = nil
}

// SetStatus replaces the canned status.
func (m *MockClient) SetStatus(s *Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = s
}

// Changes returns a copy of the recorded mode changes.
func (m *MockClient) Changes() []Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Mode, len(m.ModeChanges))
	copy(out, m.ModeChanges)
	return out
}
