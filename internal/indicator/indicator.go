// Package indicator turns "steady / blinking / off" commands into LED colors.
// Commands are fire-and-forget: the driver never reports failures back, it
// only logs them.
package indicator

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"thermoled/internal/colors"
	"thermoled/internal/gpio"
)

// Driver is the indicator contract the state machine emits to.
type Driver interface {
	// SetSteady shows c until the next command.
	SetSteady(c colors.RGB)

	// SetBlinking alternates between on for onFor and off for offFor.
	SetBlinking(on, off colors.RGB, onFor, offFor time.Duration)

	// Clear extinguishes the indicator.
	Clear()
}

// LEDDriver implements Driver on a gpio.LED. At most one blinker goroutine
// runs at a time; every command replaces it.
type LEDDriver struct {
	led    gpio.LED
	logger *zap.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewLEDDriver wraps led. The caller keeps ownership of led and closes it
// after closing the driver.
func NewLEDDriver(led gpio.LED, logger *zap.Logger) *LEDDriver {
	return &LEDDriver{led: led, logger: logger}
}

func (d *LEDDriver) SetSteady(c colors.RGB) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopBlinkerLocked()
	d.apply(c)
}

func (d *LEDDriver) SetBlinking(on, off colors.RGB, onFor, offFor time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopBlinkerLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop, d.done = stop, done
	go d.blink(stop, done, on, off, onFor, offFor)
}

func (d *LEDDriver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopBlinkerLocked()
	d.apply(colors.Off)
}

// Close stops any blinker and extinguishes the LED.
func (d *LEDDriver) Close() error {
	d.Clear()
	return nil
}

func (d *LEDDriver) stopBlinkerLocked() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop, d.done = nil, nil
}

func (d *LEDDriver) blink(stop chan struct{}, done chan struct{}, on, off colors.RGB, onFor, offFor time.Duration) {
	defer close(done)
	showOn := true
	for {
		c, wait := on, onFor
		if !showOn {
			c, wait = off, offFor
		}
		d.apply(c)
		showOn = !showOn

		t := time.NewTimer(wait)
		select {
		case <-stop:
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (d *LEDDriver) apply(c colors.RGB) {
	if err := d.led.SetColor(c.R, c.G, c.B); err != nil {
		d.logger.Warn("failed to set led color", zap.Error(err))
	}
}
