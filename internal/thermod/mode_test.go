package thermod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeCycleOrder(t *testing.T) {
	assert.Equal(t, ModeTMax, ModeAuto.Next())
	assert.Equal(t, ModeTMin, ModeTMax.Next())
	assert.Equal(t, ModeT0, ModeTMin.Next())
	assert.Equal(t, ModeOff, ModeT0.Next())
	assert.Equal(t, ModeOn, ModeOff.Next())
	assert.Equal(t, ModeAuto, ModeOn.Next())
}

func TestModeCycleIsClosed(t *testing.T) {
	// Starting anywhere, six steps return to the start and visit every mode
	// exactly once.
	for _, start := range Modes() {
		seen := map[Mode]bool{}
		m := start
		for i := 0; i < 6; i++ {
			assert.False(t, seen[m], "mode %s visited twice starting from %s", m, start)
			seen[m] = true
			m = m.Next()
		}
		assert.Equal(t, start, m, "cycle from %s did not close", start)
		assert.Len(t, seen, 6)
	}
}

func TestModeValid(t *testing.T) {
	for _, m := range Modes() {
		assert.True(t, m.Valid(), "%s should be valid", m)
	}
	assert.False(t, Mode("").Valid())
	assert.False(t, Mode("frost").Valid())
}

func TestNextOnInvalidModeReturnsAuto(t *testing.T) {
	assert.Equal(t, ModeAuto, Mode("").Next())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("tmin")
	require.NoError(t, err)
	assert.Equal(t, ModeTMin, m)

	_, err = ParseMode("warm")
	assert.Error(t, err)
}
