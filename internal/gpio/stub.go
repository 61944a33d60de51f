//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealLED is not available on non-Linux platforms.
type RealLED struct{}

// NewRealLED returns an error on non-Linux platforms.
func NewRealLED(chipName string, redPin, greenPin, bluePin int) (*RealLED, error) {
	return nil, errUnsupported
}

func (l *RealLED) SetColor(r, g, b float64) error { return errUnsupported }

func (l *RealLED) Close() error { return nil }

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(chipName string, pin int, onPress func()) (*RealButton, error) {
	return nil, errUnsupported
}

func (b *RealButton) Close() error { return nil }
