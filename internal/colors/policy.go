package colors

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// PolicyParams configures a Policy. NightBegin and NightEnd are minutes since
// midnight; the window [NightBegin, NightEnd) may wrap around midnight. When
// Latitude or Longitude is non-zero the night window is instead sunset to
// sunrise for the current date at that location.
type PolicyParams struct {
	Palette    map[string]RGB
	Day        float64
	Night      float64
	NightBegin int
	NightEnd   int
	Latitude   float64
	Longitude  float64
}

// Policy derives the indicator color for a mode at a given instant. It is a
// pure function of wall-clock time and static configuration.
type Policy struct {
	params PolicyParams
}

// NewPolicy builds a policy from validated parameters.
func NewPolicy(params PolicyParams) *Policy {
	return &Policy{params: params}
}

// Color returns the configured base color for key (a mode name or one of the
// Signal pseudo-modes) scaled by Brightness(now). Unknown keys map to Off.
func (p *Policy) Color(key string, now time.Time) RGB {
	base, ok := p.params.Palette[key]
	if !ok {
		return Off
	}
	return base.Scale(p.Brightness(now))
}

// Brightness returns the night factor while now falls inside the night
// window and the day factor everywhere else. The configured window treats
// its begin bound as inclusive and its end bound as exclusive.
func (p *Policy) Brightness(now time.Time) float64 {
	if p.isNight(now) {
		return p.params.Night
	}
	return p.params.Day
}

func (p *Policy) isNight(now time.Time) bool {
	if p.params.Latitude != 0 || p.params.Longitude != 0 {
		rise, set := sunrise.SunriseSunset(
			p.params.Latitude, p.params.Longitude,
			now.Year(), now.Month(), now.Day(),
		)
		utc := now.UTC()
		return utc.Before(rise) || !utc.Before(set)
	}

	begin, end := p.params.NightBegin, p.params.NightEnd
	if begin == end {
		// Degenerate window: never night.
		return false
	}
	minute := now.Hour()*60 + now.Minute()
	if begin < end {
		return minute >= begin && minute < end
	}
	// Window wraps midnight, e.g. 21:00-07:00.
	return minute >= begin || minute < end
}
