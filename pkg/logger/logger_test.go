package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groupgate.log")

	log, err := New(&Config{Level: "info", Output: path})
	require.NoError(t, err)

	log.Info().Str("group", "Pilot Laptops").Msg("Synced group")
	log.Debug().Msg("suppressed at info level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "Pilot Laptops", entry["group"])
	require.Equal(t, "Synced group", entry["message"])
	require.Contains(t, entry, "time")
}

func TestNewDebugOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groupgate.log")

	log, err := New(&Config{Level: "error", Debug: true, Output: path})
	require.NoError(t, err)

	log.Debug().Msg("visible in debug mode")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "visible in debug mode")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestWithComponentTagsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groupgate.log")

	log, err := New(&Config{Output: path})
	require.NoError(t, err)

	log.WithComponent("sync").Info().Msg("tagged")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	require.Equal(t, "sync", entry["component"])
}

func TestDefaultConfigReadsEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg := DefaultConfig()
	require.Equal(t, "debug", cfg.Level)
	require.Equal(t, "stderr", cfg.Output)
}

func TestNewTestLoggerDiscardsEverything(t *testing.T) {
	log := NewTestLogger()

	// must not panic, must not write anywhere
	log.Info().Str("k", "v").Msg("dropped")
	log.Error().Msg("dropped too")
	log.WithComponent("x").Warn().Msg("dropped as well")
}
