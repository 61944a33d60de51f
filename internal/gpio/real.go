//go:build linux

package gpio

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// Software PWM settings. The character device has no hardware PWM, so each
// channel is toggled by its own goroutine. 5 ms gives 200 Hz, well above
// visible flicker.
const (
	pwmPeriod = 5 * time.Millisecond
	pwmScale  = 1000
)

// RealLED drives an RGB LED on three GPIO output lines.
type RealLED struct {
	chip  *gpiocdev.Chip
	lines [3]*pwmLine
}

// NewRealLED opens chipName and requests the three LED lines as outputs,
// initially off.
func NewRealLED(chipName string, redPin, greenPin, bluePin int) (*RealLED, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	led := &RealLED{chip: chip}
	for i, pin := range [3]int{redPin, greenPin, bluePin} {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			led.Close()
			return nil, fmt.Errorf("request led pin %d: %w", pin, err)
		}
		led.lines[i] = newPWMLine(line)
	}
	return led, nil
}

// SetColor sets the three channel duties. Values outside [0,1] are clamped.
func (l *RealLED) SetColor(r, g, b float64) error {
	for i, v := range [3]float64{r, g, b} {
		if l.lines[i] != nil {
			l.lines[i].setDuty(v)
		}
	}
	return nil
}

// Close stops the PWM goroutines, extinguishes the LED and releases the lines.
func (l *RealLED) Close() error {
	var errs []error
	for _, line := range l.lines {
		if line == nil {
			continue
		}
		if err := line.close(); err != nil {
			errs = append(errs, err)
		}
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// pwmLine toggles one output line with the duty cycle stored in duty
// (0..pwmScale per mille).
type pwmLine struct {
	line *gpiocdev.Line
	duty atomic.Uint32
	stop chan struct{}
	done chan struct{}
}

func newPWMLine(line *gpiocdev.Line) *pwmLine {
	p := &pwmLine{
		line: line,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *pwmLine) setDuty(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.duty.Store(uint32(v * pwmScale))
}

func (p *pwmLine) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		duty := time.Duration(p.duty.Load())
		on := pwmPeriod * duty / pwmScale
		switch {
		case on <= 0:
			p.line.SetValue(0)
			if !p.sleep(pwmPeriod) {
				return
			}
		case on >= pwmPeriod:
			p.line.SetValue(1)
			if !p.sleep(pwmPeriod) {
				return
			}
		default:
			p.line.SetValue(1)
			if !p.sleep(on) {
				return
			}
			p.line.SetValue(0)
			if !p.sleep(pwmPeriod - on) {
				return
			}
		}
	}
}

// sleep waits for d or until the line is being closed. Returns false on stop.
func (p *pwmLine) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.stop:
		return false
	case <-t.C:
		return true
	}
}

func (p *pwmLine) close() error {
	close(p.stop)
	<-p.done
	p.line.SetValue(0)
	if err := p.line.Close(); err != nil {
		return fmt.Errorf("close led line: %w", err)
	}
	return nil
}

// RealButton delivers debounced falling-edge events to a callback.
type RealButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealButton requests pin as a pulled-up input and invokes onPress for
// every falling edge. The kernel debounce here only filters contact bounce;
// the mode-cycle debounce window is the monitor's own concern.
func NewRealButton(chipName string, pin int, onPress func()) (*RealButton, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(20*time.Millisecond),
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventFallingEdge {
				onPress()
			}
		}),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}

	return &RealButton{chip: chip, line: line}, nil
}

// Close releases the button line.
func (b *RealButton) Close() error {
	var errs []error
	if b.line != nil {
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button line: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
