// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the HTTP service configuration. Per-request backend choices
// override the defaults here.
type Config struct {
	Port           int
	LogLevel       string
	DefaultBackend string
	DefaultShots   int
	SimulatorType  string
	JobsDBPath     string
	JobsMaxAgeDays int
}

// Load reads configuration from the environment, consulting a .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           8080,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DefaultBackend: getEnv("QBRIDGE_BACKEND", "qiskit"),
		DefaultShots:   1024,
		SimulatorType:  getEnv("QBRIDGE_SIMULATOR", "statevector_simulator"),
		JobsDBPath:     getEnv("QBRIDGE_DB_PATH", "qbridge_jobs.db"),
		JobsMaxAgeDays: 30,
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Port = p
	}

	if shots := os.Getenv("QBRIDGE_SHOTS"); shots != "" {
		n, err := strconv.Atoi(shots)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid QBRIDGE_SHOTS %q", shots)
		}
		cfg.DefaultShots = n
	}

	if days := os.Getenv("QBRIDGE_JOBS_MAX_AGE_DAYS"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid QBRIDGE_JOBS_MAX_AGE_DAYS %q", days)
		}
		cfg.JobsMaxAgeDays = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
