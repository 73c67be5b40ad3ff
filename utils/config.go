package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	BoardCustom = "custom"
	BoardRandom = "random"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the configuration for a simulation run
type Config struct {
	Board           string  `json:"board"`
	Input           string  `json:"input"`
	AliveProportion float64 `json:"alive_proportion"`
	WrapAround      bool    `json:"wrap_around"`
	FrameTime       float64 `json:"frame_time"` // seconds
	Seed            int64   `json:"seed"`
	RandomWidth     int     `json:"random_width"`
	RandomHeight    int     `json:"random_height"`
	MaxGenerations  int     `json:"max_generations"`
	HaltOnCycle     bool    `json:"halt_on_cycle"`
	CycleWindow     int     `json:"cycle_window"`
	MetricsAddr     string  `json:"metrics_addr"`
	LogLevel        string  `json:"log_level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Board:           "beacon",
		AliveProportion: 0.5,
		FrameTime:       0.1,
		RandomWidth:     32,
		RandomHeight:    18,
		CycleWindow:     5,
		LogLevel:        "info",
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Validate checks the parameters the board itself does not check.
// known reports whether a preset board name exists.
func (c Config) Validate(known func(name string) bool) error {
	switch c.Board {
	case BoardCustom:
		if c.Input == "" {
			return errors.Wrap(ErrInvalidConfig, "if using custom board, you must specify an input file")
		}
	case BoardRandom:
		if c.AliveProportion < 0 || c.AliveProportion > 1 {
			return errors.Wrapf(ErrInvalidConfig, "alive proportion must be between 0 and 1, got %v", c.AliveProportion)
		}
		if c.RandomWidth < 1 || c.RandomHeight < 1 {
			return errors.Wrapf(ErrInvalidConfig, "random board must be at least 1x1, got %dx%d", c.RandomWidth, c.RandomHeight)
		}
	default:
		if known != nil && !known(c.Board) {
			return errors.Wrapf(ErrInvalidConfig, "unknown board %q", c.Board)
		}
	}

	if c.FrameTime < 0 {
		return errors.Wrapf(ErrInvalidConfig, "frame time must be positive, got %v", c.FrameTime)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max generations cannot be negative, got %d", c.MaxGenerations)
	}
	return nil
}

// FrameDelay returns the pause between frames
func (c Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameTime * float64(time.Second))
}
