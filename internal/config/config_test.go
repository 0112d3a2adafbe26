package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeYAML(t, "jwt:\n  secret: dev-secret\nstorage:\n  type: minio\n")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_API_KEY", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, int64(3), cfg.YouTube.MaxResults)
	assert.True(t, cfg.Generation.IncludeHomework)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:5173")
	assert.False(t, cfg.AI.Configured())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeYAML(t, "jwt:\n  secret: dev-secret\nstorage:\n  type: minio\n")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("AI_TUTOR_GENERATION_INCLUDE_HOMEWORK", "false")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.AI.Configured())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Generation.IncludeHomework)
}

func TestValidateRejectsShortSecretInRelease(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Mode: "release"},
		JWT:      JWTConfig{Secret: "short"},
		Database: DatabaseConfig{Driver: "mysql"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Server.Mode = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "secret"},
		Database: DatabaseConfig{Driver: "oracle"},
	}
	assert.Error(t, cfg.Validate())
}
