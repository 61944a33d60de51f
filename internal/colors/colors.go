// Package colors maps thermod modes to RGB triples and scales them by a
// time-of-day brightness factor.
package colors

// RGB holds three channel intensities, each in [0,1].
type RGB struct {
	R, G, B float64
}

// Off is the extinguished color.
var Off = RGB{}

// Scale returns the color with every channel multiplied by f.
func (c RGB) Scale(f float64) RGB {
	return RGB{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Pseudo-mode keys used to signal error conditions.
const (
	SignalRed    = "red"
	SignalYellow = "yellow"
)
