// Package config loads worker configuration from the process environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the process environment (§6).
type Config struct {
	RedisURL           string
	PollInterval       time.Duration
	DestDir            string
	StatePath          string
	MissingSkipSeconds time.Duration
}

const (
	envRedisURL           = "REDIS_URL"
	envPollIntervalSecs   = "POLL_INTERVAL_SECONDS"
	envDestDir            = "DEST_DIR"
	envStatePath          = "STATE_PATH"
	envMissingSkipSeconds = "MISSING_SKIP_SECONDS"

	defaultPollIntervalSecs   = 60
	defaultDestDir            = "./session"
	defaultStatePath          = "./state/state.json"
	defaultMissingSkipSeconds = 300
)

// Load reads configuration from the environment, optionally layering in a
// local .env file first (silently ignored if absent, same priority order
// the teacher uses: explicit env vars always win over .env).
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisURL := os.Getenv(envRedisURL)
	if redisURL == "" {
		return nil, fmt.Errorf("config: %s is required", envRedisURL)
	}

	pollSecs, err := getPositiveInt(envPollIntervalSecs, defaultPollIntervalSecs)
	if err != nil {
		return nil, err
	}
	graceSecs, err := getPositiveInt(envMissingSkipSeconds, defaultMissingSkipSeconds)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RedisURL:           redisURL,
		PollInterval:       time.Duration(pollSecs) * time.Second,
		DestDir:            getString(envDestDir, defaultDestDir),
		StatePath:          getString(envStatePath, defaultStatePath),
		MissingSkipSeconds: time.Duration(graceSecs) * time.Second,
	}
	return cfg, nil
}

func getString(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func getPositiveInt(name string, def int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", name, v)
	}
	return n, nil
}
