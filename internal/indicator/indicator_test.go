package indicator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"thermoled/internal/colors"
	"thermoled/internal/gpio"
)

func TestSetSteadyAppliesColor(t *testing.T) {
	led := gpio.NewFakeLED()
	d := NewLEDDriver(led, zap.NewNop())
	defer d.Close()

	d.SetSteady(colors.RGB{R: 1, G: 0.5})

	assert.Equal(t, [3]float64{1, 0.5, 0}, led.Last())
}

func TestClearExtinguishes(t *testing.T) {
	led := gpio.NewFakeLED()
	d := NewLEDDriver(led, zap.NewNop())
	defer d.Close()

	d.SetSteady(colors.RGB{R: 1})
	d.Clear()

	assert.Equal(t, [3]float64{}, led.Last())
}

func TestSetBlinkingAlternates(t *testing.T) {
	led := gpio.NewFakeLED()
	d := NewLEDDriver(led, zap.NewNop())
	defer d.Close()

	on := colors.RGB{G: 1}
	d.SetBlinking(on, colors.Off, time.Millisecond, time.Millisecond)

	// The blinker keeps toggling until the next command.
	require.Eventually(t, func() bool {
		return led.Count() >= 6
	}, time.Second, time.Millisecond)

	// Stop the blinker before inspecting the recording.
	d.Clear()

	var sawOn, sawOff bool
	for _, c := range led.Colors {
		switch c {
		case [3]float64{0, 1, 0}:
			sawOn = true
		case [3]float64{}:
			sawOff = true
		}
	}
	assert.True(t, sawOn, "blinker never showed the on color")
	assert.True(t, sawOff, "blinker never showed the off color")
}

func TestNewCommandStopsBlinker(t *testing.T) {
	led := gpio.NewFakeLED()
	d := NewLEDDriver(led, zap.NewNop())
	defer d.Close()

	d.SetBlinking(colors.RGB{R: 1}, colors.Off, time.Millisecond, time.Millisecond)
	require.Eventually(t, func() bool {
		return led.Count() >= 2
	}, time.Second, time.Millisecond)

	d.SetSteady(colors.RGB{B: 1})
	assert.Equal(t, [3]float64{0, 0, 1}, led.Last())

	// No blinker writes arrive after the steady command.
	count := led.Count()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, count, led.Count())
}

func TestDriverSwallowsLEDErrors(t *testing.T) {
	led := gpio.NewFakeLED()
	led.SetError = errors.New("line busy")
	d := NewLEDDriver(led, zap.NewNop())
	defer d.Close()

	// Must not panic or surface the error.
	d.SetSteady(colors.RGB{R: 1})
	d.Clear()
	assert.Equal(t, 0, led.Count())
}

func TestFakeRecordsCommands(t *testing.T) {
	f := NewFake()

	f.SetSteady(colors.RGB{R: 1})
	f.SetBlinking(colors.RGB{G: 1}, colors.Off, time.Second, 2*time.Second)
	f.Clear()

	all := f.All()
	require.Len(t, all, 3)
	assert.Equal(t, CommandSteady, all[0].Kind)
	assert.Equal(t, CommandBlink, all[1].Kind)
	assert.Equal(t, time.Second, all[1].OnFor)
	assert.Equal(t, 2*time.Second, all[1].OffFor)
	assert.Equal(t, CommandClear, all[2].Kind)

	f.Reset()
	assert.Equal(t, 0, f.Count())
	_, ok := f.Last()
	assert.False(t, ok)
}
