// ABOUTME: Configuration loader for the painel client
// ABOUTME: Loads settings from .env, environment variables and defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when neither a flag nor PAINEL_API_URL is set.
const DefaultAPIURL = "http://localhost:3001"

type Config struct {
	// Data API
	APIURL      string
	HTTPTimeout time.Duration // zero leaves the transport defaults in charge

	// Local state
	ConfigDir string // recent uploads and the TUI debug log
	TokenFile string // persisted bearer token
	CSVDir    string // where the upload picker looks for CSV files

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv reads KEY=value pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

func Load() (*Config, error) {
	configDir := getEnv("PAINEL_CONFIG_DIR", DefaultConfigDir())

	cfg := &Config{
		APIURL:    ensureScheme(strings.TrimRight(getEnv("PAINEL_API_URL", DefaultAPIURL), "/")),
		ConfigDir: configDir,
		TokenFile: getEnv("PAINEL_TOKEN_FILE", filepath.Join(configDir, "token")),
		CSVDir:    os.Getenv("PAINEL_CSV_DIR"),
		LogLevel:  getEnv("PAINEL_LOG_LEVEL", "info"),
		LogFormat: getEnv("PAINEL_LOG_FORMAT", "text"),
	}

	timeout, err := getEnvDuration("PAINEL_HTTP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	if timeout < 0 {
		return nil, fmt.Errorf("PAINEL_HTTP_TIMEOUT must not be negative, got %s", timeout)
	}
	cfg.HTTPTimeout = timeout

	if cfg.ConfigDir == "" && os.Getenv("PAINEL_TOKEN_FILE") == "" {
		return nil, fmt.Errorf("cannot determine config directory; set PAINEL_CONFIG_DIR or PAINEL_TOKEN_FILE")
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "painel")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "painel")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
