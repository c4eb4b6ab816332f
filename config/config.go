package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Project is the root of the scene project; res:// paths resolve below it.
	Project string
	// Levels is the directory of level scenes, relative to Project.
	Levels  string
	TileSet string

	Out    string
	Format string
	// Rules is an optional rules file layered over the embedded defaults.
	Rules string

	ProbeSteps int
	Debounce   time.Duration

	LogJSON bool
	Verbose bool
}

// Formats lists the supported bundle formats.
var Formats = []string{"json", "cpp"}

// LoadDotEnv reads an optional .env file into the environment. A missing
// file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func Load() Config {
	cfg := Config{
		Project: envOr("LEVELC_PROJECT", "."),
		Levels:  envOr("LEVELC_LEVELS", "Scenes/Levels"),
		TileSet: envOr("LEVELC_TILESET", "Scenes/Parts/Tiles.tscn"),

		Out:    envOr("LEVELC_OUT", "levels_generated.json"),
		Format: envOr("LEVELC_FORMAT", "json"),
		Rules:  os.Getenv("LEVELC_RULES"),

		ProbeSteps: envInt("LEVELC_PROBE_STEPS", 240),
		Debounce:   envDuration("LEVELC_DEBOUNCE", 250*time.Millisecond),

		LogJSON: envBool("LEVELC_LOG_JSON", false),
		Verbose: envBool("LEVELC_VERBOSE", false),
	}

	if cfg.ProbeSteps < 0 {
		cfg.ProbeSteps = 240
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	return cfg
}

func (c Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("LEVELC_PROJECT is required")
	}
	if c.TileSet == "" {
		return fmt.Errorf("LEVELC_TILESET is required")
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q", c.Format)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
