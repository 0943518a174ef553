package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageFile  = "file"
	StorageMySQL = "mysql"
)

// Config holds the settings of the assistant.
type Config struct {
	Storage  string   `mapstructure:"storage"`
	File     string   `mapstructure:"file"`
	LogLevel string   `mapstructure:"log_level"`
	DB       DBConfig `mapstructure:"db"`
}

// DBConfig holds the connection parameters for the MySQL backend.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// Load reads the configuration. Values are taken, from highest to lowest priority, from the
// environment, from the config file and from the defaults. If path is empty, assistant.yaml is
// searched in the working directory and in $XDG_CONFIG_HOME/assistant; a missing file is not an
// error.
//
// Environment variables are ASSISTANT_STORAGE, ASSISTANT_FILE and ASSISTANT_LOG_LEVEL, plus
// DBHOST, DBUSER, DBPWD and DBNAME for the database.
//
// Usage example on the command line:
// > ASSISTANT_STORAGE=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/assistant
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("storage", StorageFile)
	v.SetDefault("file", "address_book.json")
	v.SetDefault("log_level", "warn")
	v.SetDefault("db.host", "localhost:3306")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "test")

	v.SetEnvPrefix("ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"db.host":     "DBHOST",
		"db.user":     "DBUSER",
		"db.password": "DBPWD",
		"db.name":     "DBNAME",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("assistant")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "assistant"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile:
		if c.File == "" {
			return fmt.Errorf("config: file is required for storage %q", StorageFile)
		}
	case StorageMySQL:
		if c.DB.Host == "" {
			return fmt.Errorf("config: db.host is required for storage %q", StorageMySQL)
		}
	default:
		return fmt.Errorf("config: invalid storage %q (must be %s or %s)", c.Storage, StorageFile, StorageMySQL)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// NewLogger builds a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
