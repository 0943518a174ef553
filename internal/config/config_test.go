package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty working directory without config related environment
// variables.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	for _, env := range []string{"ASSISTANT_STORAGE", "ASSISTANT_FILE", "ASSISTANT_LOG_LEVEL", "DBHOST", "DBUSER", "DBPWD", "DBNAME"} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

// TestLoadDefaults loads without file and environment. It expects the file backend with the
// default file name.
func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "address_book.json", cfg.File)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "localhost:3306", cfg.DB.Host)
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

// TestLoadEnvironment expects environment variables to override the defaults, including the
// database variables without prefix.
func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("ASSISTANT_STORAGE", "mysql")
	t.Setenv("ASSISTANT_LOG_LEVEL", "debug")
	t.Setenv("DBHOST", "db:3306")
	t.Setenv("DBUSER", "dirk")
	t.Setenv("DBPWD", "bullo92")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageMySQL, cfg.Storage)
	assert.Equal(t, "db:3306", cfg.DB.Host)
	assert.Equal(t, "dirk", cfg.DB.User)
	assert.Equal(t, "bullo92", cfg.DB.Password)
	assert.Equal(t, "test", cfg.DB.Name)
	assert.Equal(t, "debug", cfg.LogLevel)
}

// TestLoadFile reads assistant.yaml from the working directory.
func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	yaml := "file: contacts.json\nlog_level: info\ndb:\n  name: contacts\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assistant.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "contacts.json", cfg.File)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "contacts", cfg.DB.Name)
}

// TestLoadExplicitFileMissing expects an error if an explicitly named config file is missing.
func TestLoadExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

// TestValidate rejects unknown storage kinds, empty file names and unknown log levels.
func TestValidate(t *testing.T) {
	invalid := []Config{
		{Storage: "postgres", File: "a.json", LogLevel: "warn"},
		{Storage: StorageFile, File: "", LogLevel: "warn"},
		{Storage: StorageMySQL, LogLevel: "warn"},
		{Storage: StorageFile, File: "a.json", LogLevel: "loud"},
	}
	for _, cfg := range invalid {
		assert.Error(t, cfg.Validate(), "%+v", cfg)
	}
	valid := Config{Storage: StorageFile, File: "a.json", LogLevel: "error"}
	assert.NoError(t, valid.Validate())
}

// TestNewLogger expects messages below the configured level to be dropped.
func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "warn"}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "contacts", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown contacts=3")
}
