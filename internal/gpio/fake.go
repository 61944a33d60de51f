package gpio

import "sync"

// FakeLED records every color it is asked to show.
type FakeLED struct {
	mu sync.Mutex

	// Colors contains every SetColor call as [r, g, b].
	Colors [][3]float64

	// SetError, if set, is returned by SetColor.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeLED creates a FakeLED for testing.
func NewFakeLED() *FakeLED {
	return &FakeLED{}
}

// SetColor records the requested color.
func (f *FakeLED) SetColor(r, g, b float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.Colors = append(f.Colors, [3]float64{r, g, b})
	return nil
}

// Close marks the LED as closed.
func (f *FakeLED) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Last returns the most recent color, or all-zero if none was set.
func (f *FakeLED) Last() [3]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Colors) == 0 {
		return [3]float64{}
	}
	return f.Colors[len(f.Colors)-1]
}

// Count returns the number of SetColor calls so far.
func (f *FakeLED) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Colors)
}

// FakeButton lets tests fire presses by hand.
type FakeButton struct {
	onPress func()

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeButton creates a FakeButton delivering presses to onPress.
func NewFakeButton(onPress func()) *FakeButton {
	return &FakeButton{onPress: onPress}
}

// Press simulates one button press.
func (f *FakeButton) Press() {
	if !f.Closed && f.onPress != nil {
		f.onPress()
	}
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}
