package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "words.txt", cfg.WordListPath)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NATSEnabled)
	assert.Equal(t, ":3001", cfg.Addr())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BOOMPARTY_HOST", "127.0.0.1")
	t.Setenv("BOOMPARTY_PORT", "8080")
	t.Setenv("BOOMPARTY_NATS_URL", "nats://localhost:4222")

	cfg := FromEnv()
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.True(t, cfg.NATSEnabled)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("BOOMPARTY_PORT", "not-a-number")

	assert.Equal(t, 3001, FromEnv().Port)
}

func TestLoadFragments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fragments.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fragments:\n  - RA\n  - TION\n  - OU\n"), 0o644))

	frags, err := LoadFragments(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"RA", "TION", "OU"}, frags)
}

func TestLoadFragmentsErrors(t *testing.T) {
	_, err := LoadFragments(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("fragments: []\n"), 0o644))
	_, err = LoadFragments(empty)
	assert.Error(t, err)
}
