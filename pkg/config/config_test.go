package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBadThreshold = errors.New("threshold must be positive")

type validatedConfig struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

func (c *validatedConfig) Validate() error {
	if c.Threshold <= 0 {
		return errBadThreshold
	}

	if c.Name == "" {
		c.Name = "default"
	}

	return nil
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{"threshold": 8}`)

	var cfg validatedConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))
	require.Equal(t, 8, cfg.Threshold)

	// Validate applied its default
	require.Equal(t, "default", cfg.Name)
}

func TestLoadAndValidateRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{"threshold": 0}`)

	var cfg validatedConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.ErrorIs(t, err, errBadThreshold)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	t.Parallel()

	var cfg validatedConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/config.json", &cfg)
	require.Error(t, err)
}

func TestLoadAndValidateMalformedJSON(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{"threshold": `)

	var cfg validatedConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.Error(t, err)
}

func TestLoadAndValidateNilTarget(t *testing.T) {
	t.Parallel()

	err := NewConfig(nil).LoadAndValidate(context.Background(), "unused.json", nil)
	require.ErrorIs(t, err, errInvalidConfigPtr)
}

type plainConfig struct {
	Name string `json:"name"`
}

// Targets without a Validate method load as-is.
func TestLoadWithoutValidator(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `{"name": "groupgate"}`)

	var cfg plainConfig

	require.NoError(t, NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg))
	require.Equal(t, "groupgate", cfg.Name)
}
