package thermod

import "fmt"

// Mode is a thermod operating mode.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeTMax Mode = "tmax"
	ModeTMin Mode = "tmin"
	ModeT0   Mode = "t0"
	ModeOn   Mode = "on"
	ModeOff  Mode = "off"
)

// cycle is the order the button walks through the modes.
var cycle = []Mode{ModeAuto, ModeTMax, ModeTMin, ModeT0, ModeOff, ModeOn}

// Modes returns all operating modes in cycle order.
func Modes() []Mode {
	out := make([]Mode, len(cycle))
	copy(out, cycle)
	return out
}

// Valid reports whether m is one of the six operating modes.
func (m Mode) Valid() bool {
	for _, c := range cycle {
		if m == c {
			return true
		}
	}
	return false
}

// Next returns the mode following m in cycle order, wrapping from on back to
// auto. Calling Next on an invalid mode returns auto.
func (m Mode) Next() Mode {
	for i, c := range cycle {
		if m == c {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return ModeAuto
}

// ParseMode converts a daemon status name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown thermod mode %q", s)
	}
	return m, nil
}
