package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderTMDB, cfg.Provider)
	assert.Equal(t, DefaultDebounce, cfg.Debounce.Duration)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout.Duration)
	assert.NotEmpty(t, cfg.Database)
}

func TestLoadParsesFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
provider = "rottentomatoes"
debounce = "250ms"
database = "/tmp/movies.db"

[tmdb]
api_key = "file-key"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderRottenTomatoes, cfg.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce.Duration)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout.Duration, "unset keys keep defaults")
	assert.Equal(t, "/tmp/movies.db", cfg.Database)
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, DefaultTMDBBaseURL, cfg.TMDB.BaseURL)
}

func TestEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tmdb]\napi_key = \"file-key\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
}

func TestLoadNormalizesProvider(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("provider = \"TMDB\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderTMDB, cfg.Provider)
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIKey)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: "provider = "},
		{name: "invalid duration", content: `debounce = "soon"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Provider = ProviderRottenTomatoes
	cfg.Debounce = Duration{750 * time.Millisecond}

	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "750ms")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "tmdb with key",
			mutate: func(c *Config) { c.TMDB.APIKey = "key" },
		},
		{
			name:   "rottentomatoes needs no key",
			mutate: func(c *Config) { c.Provider = ProviderRottenTomatoes },
		},
		{
			name:    "tmdb without key",
			mutate:  func(c *Config) {},
			wantErr: ErrMissingAPIKey,
		},
		{
			name:    "uppercase tmdb without key",
			mutate:  func(c *Config) { c.Provider = "TMDB" },
			wantErr: ErrMissingAPIKey,
		},
		{
			name:   "mixed case rottentomatoes",
			mutate: func(c *Config) { c.Provider = " RottenTomatoes " },
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider = "imdb" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "empty provider",
			mutate:  func(c *Config) { c.Provider = "" },
			wantErr: ErrInvalidConfig,
		},
		{
			name: "negative debounce",
			mutate: func(c *Config) {
				c.Provider = ProviderRottenTomatoes
				c.Debounce = Duration{-time.Second}
			},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
