package indicator

import (
	"sync"
	"time"

	"thermoled/internal/colors"
)

// CommandKind identifies an indicator command in the Fake's recording.
type CommandKind string

const (
	CommandSteady CommandKind = "steady"
	CommandBlink  CommandKind = "blink"
	CommandClear  CommandKind = "clear"
)

// Command is one recorded indicator command.
type Command struct {
	Kind   CommandKind
	On     colors.RGB
	Off    colors.RGB
	OnFor  time.Duration
	OffFor time.Duration
}

// Fake records the command stream for test assertions.
type Fake struct {
	mu       sync.Mutex
	Commands []Command
}

// NewFake creates a Fake indicator.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) SetSteady(c colors.RGB) {
	f.record(Command{Kind: CommandSteady, On: c})
}

func (f *Fake) SetBlinking(on, off colors.RGB, onFor, offFor time.Duration) {
	f.record(Command{Kind: CommandBlink, On: on, Off: off, OnFor: onFor, OffFor: offFor})
}

func (f *Fake) Clear() {
	f.record(Command{Kind: CommandClear})
}

func (f *Fake) record(c Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = append(f.Commands, c)
}

// Last returns the most recent command and whether any was recorded.
func (f *Fake) Last() (Command, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Commands) == 0 {
		return Command{}, false
	}
	return f.Commands[len(f.Commands)-1], true
}

// Count returns the number of recorded commands.
func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Commands)
}

// All returns a copy of the recorded commands.
func (f *Fake) All() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Command, len(f.Commands))
	copy(out, f.Commands)
	return out
}

// Reset clears the recording.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Commands = nil
}
