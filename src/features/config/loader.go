package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrBadFetcher is returned when the configuration names a lyrics source that does not exist.
var ErrBadFetcher = errors.New("unknown fetcher(s)")

// DefaultPath returns the configuration file location under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lyr", "config.yaml"), nil
}

// Load reads a YAML file from the given path and returns a new Manager.
// Fetcher names are lower-cased and checked against known before anything else is validated.
// If the file doesn't exist, a default configuration is written there.
// An empty path yields the defaults without touching the filesystem.
func Load(path string, known []string) (*Manager, error) {
	if path == "" {
		slog.Warn("Failed to find config dir, using default config. Consider setting XDG_CONFIG_HOME.")
		defaultCfg := createDefaultConfig()
		applyEnv(defaultCfg)
		return NewManager(defaultCfg), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveDefaultConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnv(defaultCfg)
		return NewManager(defaultCfg), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Sections missing from the file keep their defaults; fetchers must always be listed.
	cfg := createDefaultConfig()
	cfg.Fetchers = nil
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for i, name := range cfg.Fetchers {
		cfg.Fetchers[i] = strings.ToLower(strings.TrimSpace(name))
	}
	if err := validateFetchers(cfg.Fetchers, known); err != nil {
		return nil, err
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	applyEnv(cfg)

	return NewManager(cfg), nil
}

// applyEnv overrides secrets with environment variables, including those from a .env file.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if token := os.Getenv("LYR_TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
}

// validateFetchers reports every configured fetcher that is not in known.
func validateFetchers(fetchers, known []string) error {
	var bad []string
	for _, name := range fetchers {
		if !slices.Contains(known, name) {
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %q, valid keys are: %q", ErrBadFetcher, bad, known)
	}
	return nil
}

// saveDefaultConfig saves the default configuration to the specified file path
func saveDefaultConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return NewManager(cfg).Save(path)
}
