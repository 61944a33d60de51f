// Package gpio drives the RGB LED and the push-button through the Linux GPIO
// character device. The real implementations exist only on Linux; fakes allow
// testing without hardware.
package gpio

// LED is a three-channel RGB LED. Channel intensities are in [0,1]; values in
// between are rendered with software PWM.
type LED interface {
	// SetColor sets the channel intensities.
	SetColor(r, g, b float64) error

	// Close extinguishes the LED and releases its lines.
	Close() error
}

// Button is a single push-button. Presses are delivered to the callback given
// at construction, one call per press, from the event goroutine.
type Button interface {
	// Close releases the button line. No callbacks fire after Close returns.
	Close() error
}

// Default BCM pin numbers, matching the wiring the daemon ships with.
const (
	DefaultPinRed    = 17
	DefaultPinGreen  = 27
	DefaultPinBlue   = 22
	DefaultPinButton = 25
)
