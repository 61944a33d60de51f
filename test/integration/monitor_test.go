// Package integration exercises the full client / machine / loop stack
// against an in-process HTTP stand-in for the thermod daemon.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thermoled/internal/clock"
	"thermoled/internal/colors"
	"thermoled/internal/indicator"
	"thermoled/internal/monitor"
	"thermoled/internal/thermod"
)

const (
	debounce = 50 * time.Millisecond
	retry    = 10 * time.Millisecond
	timeout  = 5 * time.Second
	tick     = time.Millisecond
)

// fakeDaemon mimics the three thermod endpoints the monitor uses. Long polls
// block until the status changes or a short server-side timeout expires.
type fakeDaemon struct {
	mu      sync.Mutex
	status  thermod.Status
	changed chan struct{}

	// settings records every form posted to /settings.
	settings []url.Values
}

func newFakeDaemon(mode thermod.Mode) *fakeDaemon {
	return &fakeDaemon{
		status:  thermod.Status{Mode: mode},
		changed: make(chan struct{}),
	}
}

func (d *fakeDaemon) setStatus(s thermod.Status) {
	d.mu.Lock()
	d.status = s
	close(d.changed)
	d.changed = make(chan struct{})
	d.mu.Unlock()
}

func (d *fakeDaemon) postedModes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var modes []string
	for _, form := range d.settings {
		modes = append(modes, form.Get("status"))
	}
	return modes
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()

	writeStatus := func(w http.ResponseWriter) {
		d.mu.Lock()
		s := d.status
		d.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s)
	}

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w)
	})

	mux.HandleFunc("/monitor", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		changed := d.changed
		d.mu.Unlock()
		select {
		case <-changed:
		case <-r.Context().Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
		writeStatus(w)
	})

	mux.HandleFunc("/settings", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mode, err := thermod.ParseMode(r.PostForm.Get("status"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		d.mu.Lock()
		d.settings = append(d.settings, r.PostForm)
		d.status.Mode = mode
		close(d.changed)
		d.changed = make(chan struct{})
		d.mu.Unlock()
		writeStatus(w)
	})

	return mux
}

type stack struct {
	daemon  *fakeDaemon
	machine *monitor.Machine
	ind     *indicator.Fake
	cancel  context.CancelFunc
}

func startStack(t *testing.T, mode thermod.Mode) *stack {
	t.Helper()

	daemon := newFakeDaemon(mode)
	server := httptest.NewServer(daemon.handler())
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	logger := zap.NewNop()
	client := thermod.NewClient(u.Hostname(), port, "buttonled", time.Second, logger)
	ind := indicator.NewFake()
	policy := colors.NewPolicy(colors.PolicyParams{
		Palette: map[string]colors.RGB{
			"auto":              {G: 1},
			"tmax":              {R: 1, G: 1},
			"tmin":              {G: 1, B: 1},
			"t0":                {B: 1},
			"on":                {R: 1, G: 1, B: 1},
			"off":               {R: 1, B: 1},
			colors.SignalRed:    {R: 1},
			colors.SignalYellow: {R: 0.9, G: 0.6},
		},
		Day:   1.0,
		Night: 0.25,
	})

	machine := monitor.NewMachine(client, ind, policy, clock.NewReal(), debounce, logger)
	loop := monitor.NewLoop(client, machine, clock.NewReal(), retry, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(timeout):
			t.Fatal("loop did not stop")
		}
	})

	return &stack{daemon: daemon, machine: machine, ind: ind, cancel: cancel}
}

func waitForMode(t *testing.T, s *stack, mode thermod.Mode) {
	t.Helper()
	require.Eventually(t, func() bool {
		current, _ := s.machine.Current()
		return current == mode
	}, timeout, tick)
}

func TestStartupShowsDaemonStatus(t *testing.T) {
	s := startStack(t, thermod.ModeTMax)
	waitForMode(t, s, thermod.ModeTMax)

	cmd, ok := s.ind.Last()
	require.True(t, ok)
	assert.Equal(t, indicator.CommandSteady, cmd.Kind)
	assert.Equal(t, colors.RGB{R: 1, G: 1}, cmd.On)
}

func TestRemoteChangePropagates(t *testing.T) {
	s := startStack(t, thermod.ModeAuto)
	waitForMode(t, s, thermod.ModeAuto)

	s.daemon.setStatus(thermod.Status{Mode: thermod.ModeTMin, HeatingStatus: 1})
	waitForMode(t, s, thermod.ModeTMin)

	require.Eventually(t, func() bool {
		cmd, ok := s.ind.Last()
		return ok && cmd.Kind == indicator.CommandBlink && cmd.On == colors.RGB{G: 1, B: 1}
	}, timeout, tick)
}

func TestButtonPressRoundTrip(t *testing.T) {
	s := startStack(t, thermod.ModeAuto)
	waitForMode(t, s, thermod.ModeAuto)

	// One press from auto proposes tmax; the daemon accepts it and the new
	// status flows back through the long poll.
	s.machine.OnButtonPress()
	waitForMode(t, s, thermod.ModeTMax)

	assert.Equal(t, []string{"tmax"}, s.daemon.postedModes())
}

func TestRapidPressesPostOnce(t *testing.T) {
	s := startStack(t, thermod.ModeAuto)
	waitForMode(t, s, thermod.ModeAuto)

	// Three presses inside one debounce window: tmax -> tmin -> t0.
	s.machine.OnButtonPress()
	s.machine.OnButtonPress()
	s.machine.OnButtonPress()
	waitForMode(t, s, thermod.ModeT0)

	assert.Equal(t, []string{"t0"}, s.daemon.postedModes())
}
