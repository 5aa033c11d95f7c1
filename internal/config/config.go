// Package config loads sketchflow settings from ~/.sketchflow.toml, an
// optional .env file and SKETCHFLOW_* environment variables, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	FileName  = ".sketchflow.toml"
	envPrefix = "SKETCHFLOW_"
)

type Config struct {
	SaveDirectory   string `toml:"save_directory"`
	StorageDriver   string `toml:"storage_driver"`
	RedisAddr       string `toml:"redis_addr"`
	KeyPrefix       string `toml:"key_prefix"`
	AutosaveDelayMS int    `toml:"autosave_delay_ms"`
	HistoryLimit    int    `toml:"history_limit"`
	DoubleClickMS   int    `toml:"double_click_ms"`
	LogLevel        string `toml:"log_level"`
	LogFile         string `toml:"log_file"`
	LogCaller       bool   `toml:"log_caller"`
	Confirmations   bool   `toml:"confirmations"`
}

func Default() *Config {
	return &Config{
		SaveDirectory:   "~/.sketchflow",
		StorageDriver:   "bolt",
		RedisAddr:       "localhost:6379",
		KeyPrefix:       "sketchflow",
		AutosaveDelayMS: 1000,
		DoubleClickMS:   400,
		LogLevel:        "info",
		Confirmations:   true,
	}
}

// DefaultPath is ~/.sketchflow.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file leaves the defaults in place; a malformed one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.SaveDirectory = expandHome(cfg.SaveDirectory)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"SAVE_DIRECTORY": &c.SaveDirectory,
		"STORAGE_DRIVER": &c.StorageDriver,
		"REDIS_ADDR":     &c.RedisAddr,
		"KEY_PREFIX":     &c.KeyPrefix,
		"LOG_LEVEL":      &c.LogLevel,
		"LOG_FILE":       &c.LogFile,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"AUTOSAVE_DELAY_MS": &c.AutosaveDelayMS,
		"HISTORY_LIMIT":     &c.HistoryLimit,
		"DOUBLE_CLICK_MS":   &c.DoubleClickMS,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid integer for %s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"CONFIRMATIONS": &c.Confirmations,
		"LOG_CALLER":    &c.LogCaller,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(envPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean for %s%s: %w", envPrefix, key, err)
		}
		*dst = b
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StorageDriver {
	case "bolt", "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("storage_driver must be bolt, sqlite, redis or memory, got %q", c.StorageDriver)
	}
	if c.AutosaveDelayMS < 0 {
		return fmt.Errorf("autosave_delay_ms must not be negative")
	}
	if c.DoubleClickMS < 0 {
		return fmt.Errorf("double_click_ms must not be negative")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative")
	}
	return nil
}

func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}

// SavePath joins filename onto the save directory, creating the directory.
// Absolute filenames are returned unchanged.
func (c *Config) SavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// LogPath is where the editor writes its log; "-" means stderr.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return c.SavePath("sketchflow.log")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
