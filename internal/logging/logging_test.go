package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "movie-tui.log")

	logger, err := New(path, false)
	require.NoError(t, err)

	logger.Info("Searching movies", zap.String("query", "bat"))
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"query":"bat"`)
	assert.NotContains(t, string(data), "hidden at info level")
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie-tui.log")

	logger, err := New(path, true)
	require.NoError(t, err)
	logger.Debug("Discarded stale movie response")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Discarded stale movie response")
}

func TestEmptyPathIsNop(t *testing.T) {
	logger, err := New("", true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}
