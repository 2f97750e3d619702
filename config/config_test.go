package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("BACKEND_URL", "http://backend.local/api/")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://backend.local/api", cfg.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 30*time.Second, cfg.ChatPollInterval)
	assert.Equal(t, "relay", cfg.TransitionPolicy)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.MessagingEnabled())
}

func TestLoadConfigReadsSecretFiles(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "jwt")
	require.NoError(t, os.WriteFile(secret, []byte("  from-file\n"), 0o600))

	t.Setenv("JWT_SECRET_FILE", secret)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("BACKEND_TIMEOUT_SEC", "not-a-number")
	t.Setenv("DB_HOST", "mysql")

	cfg := LoadConfig()

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.DatabaseEnabled())
}
