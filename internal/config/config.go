// Package config loads and validates the monitor's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"thermoled/internal/colors"
	"thermoled/internal/gpio"
)

// ErrInvalid wraps every parse or validation failure, distinguishing a bad
// config file from an unreadable one for the process exit code.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full monitor configuration.
type Config struct {
	Daemon     Daemon               `yaml:"daemon"`
	Monitor    Monitor              `yaml:"monitor"`
	GPIO       GPIO                 `yaml:"gpio"`
	Colors     map[string][]float64 `yaml:"colors"`
	Brightness Brightness           `yaml:"brightness"`
	MQTT       MQTT                 `yaml:"mqtt"`
	Log        Log                  `yaml:"log"`

	nightBegin int
	nightEnd   int
}

// Daemon is the thermod daemon address.
type Daemon struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Monitor tunes the polling loop and the debounce window.
type Monitor struct {
	Name            string   `yaml:"name"`
	Debounce        Duration `yaml:"debounce"`
	RetryInterval   Duration `yaml:"retry_interval"`
	LongPollTimeout Duration `yaml:"longpoll_timeout"`
}

// GPIO holds the chip name and the BCM pin numbers.
type GPIO struct {
	Chip   string `yaml:"chip"`
	Red    int    `yaml:"red"`
	Green  int    `yaml:"green"`
	Blue   int    `yaml:"blue"`
	Button int    `yaml:"button"`
}

// Brightness configures the day/night dimming. A zero level would make the
// LED invisible, so zero means "use the default". When Latitude or Longitude
// is set the night window follows sunset/sunrise instead of Begin/End.
type Brightness struct {
	Default   float64 `yaml:"default"`
	Night     float64 `yaml:"night"`
	Begin     string  `yaml:"begin"`
	End       string  `yaml:"end"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// MQTT configures the optional event mirror. An empty broker disables it.
type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration that unmarshals from strings like "3s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// defaultPalette colors the six modes plus the error pseudo-modes.
var defaultPalette = map[string][]float64{
	"auto":   {0, 1, 0},
	"tmax":   {1, 1, 0},
	"tmin":   {0, 1, 1},
	"t0":     {0, 0, 1},
	"on":     {1, 1, 1},
	"off":    {1, 0, 1},
	"red":    {1, 0, 0},
	"yellow": {1, 1, 0},
}

// Load reads, defaults and validates the configuration at path. Read failures
// come back as-is; everything else wraps ErrInvalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Daemon.Host == "" {
		c.Daemon.Host = "localhost"
	}
	if c.Daemon.Port == 0 {
		c.Daemon.Port = 4344
	}
	if c.Monitor.Name == "" {
		c.Monitor.Name = "buttonled"
	}
	if c.Monitor.Debounce == 0 {
		c.Monitor.Debounce = Duration(3 * time.Second)
	}
	if c.Monitor.RetryInterval == 0 {
		c.Monitor.RetryInterval = Duration(10 * time.Second)
	}
	if c.Monitor.LongPollTimeout == 0 {
		c.Monitor.LongPollTimeout = Duration(10 * time.Minute)
	}
	if c.GPIO.Chip == "" {
		c.GPIO.Chip = "gpiochip0"
	}
	if c.GPIO.Red == 0 && c.GPIO.Green == 0 && c.GPIO.Blue == 0 && c.GPIO.Button == 0 {
		c.GPIO.Red = gpio.DefaultPinRed
		c.GPIO.Green = gpio.DefaultPinGreen
		c.GPIO.Blue = gpio.DefaultPinBlue
		c.GPIO.Button = gpio.DefaultPinButton
	}
	if c.Colors == nil {
		c.Colors = make(map[string][]float64)
	}
	for key, rgb := range defaultPalette {
		if _, ok := c.Colors[key]; !ok {
			c.Colors[key] = rgb
		}
	}
	if c.Brightness.Default == 0 {
		c.Brightness.Default = 1.0
	}
	if c.Brightness.Night == 0 {
		c.Brightness.Night = 0.25
	}
	if c.Brightness.Begin == "" {
		c.Brightness.Begin = "21:00"
	}
	if c.Brightness.End == "" {
		c.Brightness.End = "07:00"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "thermoled"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Daemon.Port < 1 || c.Daemon.Port > 65535 {
		return fmt.Errorf("daemon port %d out of range", c.Daemon.Port)
	}
	if c.Monitor.Debounce.Duration() <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if c.Monitor.RetryInterval.Duration() <= 0 {
		return fmt.Errorf("retry interval must be positive")
	}

	pins := map[int]string{}
	for name, pin := range map[string]int{
		"red": c.GPIO.Red, "green": c.GPIO.Green, "blue": c.GPIO.Blue, "button": c.GPIO.Button,
	} {
		if pin < 0 {
			return fmt.Errorf("gpio pin %s is negative", name)
		}
		if other, dup := pins[pin]; dup {
			return fmt.Errorf("gpio pins %s and %s both use %d", other, name, pin)
		}
		pins[pin] = name
	}

	for key := range defaultPalette {
		rgb, ok := c.Colors[key]
		if !ok {
			return fmt.Errorf("missing color for %q", key)
		}
		if len(rgb) != 3 {
			return fmt.Errorf("color %q needs exactly 3 channels", key)
		}
		for _, ch := range rgb {
			if ch < 0 || ch > 1 {
				return fmt.Errorf("color %q channel %v outside [0,1]", key, ch)
			}
		}
	}

	for name, v := range map[string]float64{
		"brightness.default": c.Brightness.Default,
		"brightness.night":   c.Brightness.Night,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %v outside [0,1]", name, v)
		}
	}

	var err error
	if c.nightBegin, err = parseTimeOfDay(c.Brightness.Begin); err != nil {
		return fmt.Errorf("brightness.begin: %v", err)
	}
	if c.nightEnd, err = parseTimeOfDay(c.Brightness.End); err != nil {
		return fmt.Errorf("brightness.end: %v", err)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// parseTimeOfDay converts "HH:MM" into minutes since midnight.
func parseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// NightWindow returns the configured night window as minutes since midnight.
// Only valid after a successful Load.
func (c *Config) NightWindow() (begin, end int) {
	return c.nightBegin, c.nightEnd
}

// PolicyParams assembles the color policy parameters.
func (c *Config) PolicyParams() colors.PolicyParams {
	palette := make(map[string]colors.RGB, len(c.Colors))
	for key, rgb := range c.Colors {
		if len(rgb) == 3 {
			palette[key] = colors.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}
		}
	}
	return colors.PolicyParams{
		Palette:    palette,
		Day:        c.Brightness.Default,
		Night:      c.Brightness.Night,
		NightBegin: c.nightBegin,
		NightEnd:   c.nightEnd,
		Latitude:   c.Brightness.Latitude,
		Longitude:  c.Brightness.Longitude,
	}
}
