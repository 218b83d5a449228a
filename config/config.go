// Package config holds shell tuning loaded from shell.yaml. User preferences
// live in the settings package; this file is for knobs an operator edits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the tuning file inside the config directory.
const FileName = "shell.yaml"

// Environment overrides.
const (
	EnvDebug    = "QUILL_DEBUG"
	EnvBrowser  = "QUILL_BROWSER"
	EnvLogLevel = "QUILL_LOG_LEVEL"
)

// Config is the complete shell tuning.
type Config struct {
	AppName  string         `yaml:"app_name"`
	Browser  BrowserConfig  `yaml:"browser"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Log      LogConfig      `yaml:"log"`
	Debug    bool           `yaml:"debug"`
}

// BrowserConfig controls the embedded page host.
type BrowserConfig struct {
	Path        string   `yaml:"path"`
	Flags       []string `yaml:"flags"`
	UserDataDir string   `yaml:"user_data_dir"`
}

// DeliveryConfig bounds pushing files into a loading page.
type DeliveryConfig struct {
	Attempts        int           `yaml:"attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Multiplier      float64       `yaml:"multiplier"`
}

// DispatchConfig sizes the UI dispatch worker pool.
type DispatchConfig struct {
	Workers int `yaml:"workers"`
	Queue   int `yaml:"queue"`
}

// LogConfig selects log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   bool   `yaml:"file"`
}

// Default returns the compiled-in configuration for configDir.
func Default(configDir string) *Config {
	return &Config{
		AppName: "Quill",
		Browser: BrowserConfig{
			UserDataDir: filepath.Join(configDir, "webview"),
		},
		Delivery: DeliveryConfig{
			Attempts:        30,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     500 * time.Millisecond,
			Multiplier:      1.5,
		},
		Dispatch: DispatchConfig{
			Workers: 2,
			Queue:   32,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads <configDir>/shell.yaml over the defaults and applies environment
// overrides. It always returns a usable Config; a non-nil error means the
// file was present but could not be used and should be logged.
func Load(configDir string) (*Config, error) {
	cfg := Default(configDir)
	err := loadAndMerge(cfg, filepath.Join(configDir, FileName))
	if err != nil {
		cfg = Default(configDir)
	}
	applyEnvOverrides(cfg)
	cfg.normalize(configDir)
	return cfg, err
}

func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if val, ok := envBool(EnvDebug); ok {
		cfg.Debug = val
	}
	if v := os.Getenv(EnvBrowser); v != "" {
		cfg.Browser.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if cfg.Debug {
		cfg.Log.Level = "debug"
	}
}

// normalize replaces values that would stall or break the shell.
func (c *Config) normalize(configDir string) {
	def := Default(configDir)
	if strings.TrimSpace(c.AppName) == "" {
		c.AppName = def.AppName
	}
	if c.Browser.UserDataDir == "" {
		c.Browser.UserDataDir = def.Browser.UserDataDir
	}
	if c.Delivery.Attempts < 1 {
		c.Delivery.Attempts = 1
	}
	if c.Delivery.InitialInterval <= 0 {
		c.Delivery.InitialInterval = def.Delivery.InitialInterval
	}
	if c.Delivery.MaxInterval < c.Delivery.InitialInterval {
		c.Delivery.MaxInterval = c.Delivery.InitialInterval
	}
	if c.Delivery.Multiplier < 1 {
		c.Delivery.Multiplier = 1
	}
	if c.Dispatch.Workers < 1 {
		c.Dispatch.Workers = 1
	}
	if c.Dispatch.Queue < 1 {
		c.Dispatch.Queue = def.Dispatch.Queue
	}
	if c.Log.Format != "json" {
		c.Log.Format = "text"
	}
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}
