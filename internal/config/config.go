// Package config loads and saves the movie-tui configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Provider names.
const (
	ProviderTMDB           = "tmdb"
	ProviderRottenTomatoes = "rottentomatoes"
)

// Defaults.
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultRequestTimeout = 10 * time.Second
	// DefaultTMDBBaseURL is the public TMDB v3 API root.
	DefaultTMDBBaseURL = "https://api.themoviedb.org/3"
	appDirName         = "movie-tui"
)

var (
	// ErrMissingAPIKey is returned when the TMDB provider has no key configured.
	ErrMissingAPIKey = errors.New("tmdb api key is not set (config tmdb.api_key or TMDB_API_KEY)")
	// ErrInvalidConfig is returned for values that cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
)

// Duration is a time.Duration stored as a string such as "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config represents the application configuration
type Config struct {
	Provider       string     `toml:"provider"`
	TMDB           TMDBConfig `toml:"tmdb"`
	Debounce       Duration   `toml:"debounce"`
	RequestTimeout Duration   `toml:"request_timeout"`
	Database       string     `toml:"database"`
	LogFile        string     `toml:"log_file"`
}

// TMDBConfig holds the TMDB API settings
type TMDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Provider: ProviderTMDB,
		TMDB: TMDBConfig{
			BaseURL: DefaultTMDBBaseURL,
		},
		Debounce:       Duration{DefaultDebounce},
		RequestTimeout: Duration{DefaultRequestTimeout},
		Database:       filepath.Join(dataHome(), appDirName, "search.db"),
		LogFile:        filepath.Join(stateHome(), appDirName, "movie-tui.log"),
	}
}

// DefaultPath returns the path of the user config file.
func DefaultPath() string {
	return filepath.Join(configHome(), appDirName, "config.toml")
}

// Load reads the config at path. A missing file yields the defaults.
// TMDB_API_KEY in the environment overrides the configured key.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		cfg.TMDB.APIKey = key
	}
	cfg.Provider = NormalizeProvider(cfg.Provider)

	return cfg, nil
}

// NormalizeProvider lowercases and trims a provider name.
func NormalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the config can drive a search session.
func (c *Config) Validate() error {
	switch NormalizeProvider(c.Provider) {
	case "":
		return fmt.Errorf("%w: provider is empty", ErrInvalidConfig)
	case ProviderTMDB:
		if c.TMDB.APIKey == "" {
			return ErrMissingAPIKey
		}
	case ProviderRottenTomatoes:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if c.Debounce.Duration < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidConfig)
	}

	if c.Database == "" {
		return fmt.Errorf("%w: database path is empty", ErrInvalidConfig)
	}

	return nil
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	return "."
}

func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share")
	}
	return "."
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return "."
}
