package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "modtrack", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, filepath.Join(home, ".config", "modtrack", "modtrack.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Factories)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
database:
  path: /var/lib/modtrack/data.db
http:
  addr: 127.0.0.1:9090
  write_timeout: 2m
log:
  level: debug
  format: json
factories:
  - Plant A
  - Plant B
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/var/lib/modtrack/data.db", cfg.Database.Path)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Minute, cfg.HTTP.WriteTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"Plant A", "Plant B"}, cfg.Factories)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "database:\n  path: /from/file.db\n")
	t.Setenv("MODTRACK_DATABASE_PATH", "/from/env.db")
	t.Setenv("MODTRACK_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_S3RequiresBucketAndKeys(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: s3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.bucket is required")
	assert.Contains(t, err.Error(), "storage.access_key")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Path: "x.db"},
			HTTP:     HTTPConfig{MaxUploadSize: 1},
			Storage:  StorageConfig{Driver: "local", Dir: "files"},
			Log:      LogConfig{Level: "info", Format: "console"},
		}
	}
	require.NoError(t, valid().Validate())

	c := valid()
	c.Storage.Driver = "gcs"
	assert.ErrorContains(t, c.Validate(), "storage.driver must be local or s3")

	c = valid()
	c.Log.Format = "xml"
	assert.ErrorContains(t, c.Validate(), "log.format")

	c = valid()
	c.Storage = StorageConfig{Driver: "s3", Bucket: "b", AccessKey: "k", SecretKey: "s"}
	assert.NoError(t, c.Validate())
}
