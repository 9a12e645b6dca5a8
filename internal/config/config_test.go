package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.Email.SMTPUsername = "mailer@example.com"
	ApplyDefaults(&cfg)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 60, cfg.JWT.AccessTTL)
	assert.Equal(t, 30, cfg.JWT.ResetTTL)
	assert.Equal(t, 10, cfg.Auth.OTPTTL)
	assert.Equal(t, 24, cfg.Auth.UnverifiedReclaimHours)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "/uploads", cfg.Storage.BaseURL)
	assert.Equal(t, `"Transport" <mailer@example.com>`, cfg.Email.From)
	assert.Equal(t, "transport-api", cfg.Telemetry.ServiceName)
}

func TestValidate_RequiresSecretAndDSN(t *testing.T) {
	var cfg Config
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg.JWT.Secret = "s"
	cfg.Database.DSN = "postgres://"
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("app:\n  name: FromYAML\nserver:\n  port: 7000\njwt:\n  secret: yaml-secret\ndatabase:\n  url: postgres://yaml\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))

	// .env ищется в текущей директории
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "development")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "FromYAML", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port, "переменная окружения перекрывает yaml")
	assert.Equal(t, "yaml-secret", cfg.JWT.Secret)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.ShouldExposeOTP())
}
