// Command thermoled mirrors a thermod daemon's status on an RGB LED and lets
// a push-button cycle the thermostat through its operating modes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"thermoled/internal/clock"
	"thermoled/internal/colors"
	"thermoled/internal/config"
	"thermoled/internal/gpio"
	"thermoled/internal/indicator"
	"thermoled/internal/monitor"
	"thermoled/internal/mqtt"
	"thermoled/internal/thermod"
)

const defaultConfigPath = "/etc/thermoled/thermoled.yaml"

// Process exit codes.
const (
	exitConfigUnreadable = 2
	exitConfigInvalid    = 3
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	flag.StringVar(&configPath, "c", defaultConfigPath, "Path to configuration file (shorthand)")
	flag.Parse()

	// Environment variables (optionally from a .env file) may point at an
	// alternative config when the flag is left at its default.
	godotenv.Load()
	if env := os.Getenv("THERMOLED_CONFIG"); env != "" && configPath == defaultConfigPath {
		configPath = env
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "thermoled: %v\n", err)
		if errors.Is(err, config.ErrInvalid) {
			os.Exit(exitConfigInvalid)
		}
		os.Exit(exitConfigUnreadable)
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "thermoled: create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = lvl
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting thermoled",
		zap.String("daemon", fmt.Sprintf("%s:%d", cfg.Daemon.Host, cfg.Daemon.Port)),
		zap.String("monitor", cfg.Monitor.Name),
		zap.Duration("debounce", cfg.Monitor.Debounce.Duration()))

	led, err := gpio.NewRealLED(cfg.GPIO.Chip, cfg.GPIO.Red, cfg.GPIO.Green, cfg.GPIO.Blue)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer led.Close()

	ind := indicator.NewLEDDriver(led, logger)
	defer ind.Close()

	client := thermod.NewClient(
		cfg.Daemon.Host, cfg.Daemon.Port,
		cfg.Monitor.Name,
		cfg.Monitor.LongPollTimeout.Duration(),
		logger)
	policy := colors.NewPolicy(cfg.PolicyParams())
	clk := clock.NewReal()

	machine := monitor.NewMachine(client, ind, policy, clk, cfg.Monitor.Debounce.Duration(), logger)

	var publisher mqtt.Publisher = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			// The mirror is optional; the indicator must not depend on it.
			logger.Warn("mqtt mirror disabled", zap.Error(err))
		} else {
			publisher = real
			defer publisher.Close()
			machine.SetEvents(mqtt.Events(publisher, logger))
			if err := publisher.PublishSystem("STARTUP", "", time.Now()); err != nil {
				logger.Warn("mqtt startup publish failed", zap.Error(err))
			}
		}
	}

	button, err := gpio.NewRealButton(cfg.GPIO.Chip, cfg.GPIO.Button, machine.OnButtonPress)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer button.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := monitor.NewLoop(client, machine, clk, cfg.Monitor.RetryInterval.Duration(), logger)
	runErr := loop.Run(ctx)

	if err := publisher.PublishSystem("SHUTDOWN", "signal", time.Now()); err != nil {
		logger.Warn("mqtt shutdown publish failed", zap.Error(err))
	}
	logger.Info("shut down")
	return runErr
}
