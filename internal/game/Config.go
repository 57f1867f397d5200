package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGridCount    = 20
	DefaultTickInterval = 200 * time.Millisecond
	intentQueueSize     = 10
)

var ErrInvalidConfig = errors.New("invalid game config")

type Config struct {
	GridCount       int
	TickInterval    time.Duration
	SpawnCell       Cell
	DefaultHeading  Direction
	FoodAvoidsSnake bool
	// Seed for food placement; 0 picks one from the clock.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		GridCount:       DefaultGridCount,
		TickInterval:    DefaultTickInterval,
		SpawnCell:       Cell{X: 8, Y: 8},
		DefaultHeading:  Right,
		FoodAvoidsSnake: true,
	}
}

func (c Config) Validate() error {
	if c.GridCount <= 0 {
		return fmt.Errorf("%w: grid count %d must be positive", ErrInvalidConfig, c.GridCount)
	}
	if !c.SpawnCell.InBounds(c.GridCount) {
		return fmt.Errorf("%w: spawn cell %s outside %dx%d grid", ErrInvalidConfig, c.SpawnCell, c.GridCount, c.GridCount)
	}
	if !c.DefaultHeading.IsUnit() {
		return fmt.Errorf("%w: default heading %s is not a unit step", ErrInvalidConfig, c.DefaultHeading)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval %s must be positive", ErrInvalidConfig, c.TickInterval)
	}
	return nil
}

// LoadConfigFromEnv starts from DefaultConfig and applies any GRIDSNAKE_*
// overrides found in the environment.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := lookupEnv("GRIDSNAKE_GRID_COUNT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse GRIDSNAKE_GRID_COUNT: %w", err)
		}
		cfg.GridCount = n
	}
	if v, ok := lookupEnv("GRIDSNAKE_TICK_MS"); ok {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parse GRIDSNAKE_TICK_MS: %w", err)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookupEnv("GRIDSNAKE_FOOD_AVOIDS_SNAKE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("parse GRIDSNAKE_FOOD_AVOIDS_SNAKE: %w", err)
		}
		cfg.FoodAvoidsSnake = b
	}
	if v, ok := lookupEnv("GRIDSNAKE_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse GRIDSNAKE_SEED: %w", err)
		}
		cfg.Seed = seed
	}

	return cfg, cfg.Validate()
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
