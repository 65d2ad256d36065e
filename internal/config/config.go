// Package config handles configuration loading and validation for InkBoard.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Recognizer modes.
const (
	RecognizerLocal  = "local"
	RecognizerRemote = "remote"
)

// Config is the complete InkBoard configuration.
type Config struct {
	Analysis   AnalysisConfig   `toml:"analysis"`
	Selection  SelectionConfig  `toml:"selection"`
	Input      InputConfig      `toml:"input"`
	Recognizer RecognizerConfig `toml:"recognizer"`
	Style      StyleConfig      `toml:"style"`
	Logging    LoggingConfig    `toml:"logging"`
	Export     ExportConfig     `toml:"export"`
}

// AnalysisConfig controls background recognition.
type AnalysisConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

type SelectionConfig struct {
	Lasso bool `toml:"lasso"`
}

// InputConfig lists the devices that may draw.
type InputConfig struct {
	Mouse bool `toml:"mouse"`
	Pen   bool `toml:"pen"`
	Touch bool `toml:"touch"`
}

// RecognizerConfig selects the recognition engine.
type RecognizerConfig struct {
	Mode      string `toml:"mode"`
	URL       string `toml:"url"`
	Discover  bool   `toml:"discover"`
	TimeoutMs int    `toml:"timeout_ms"`
	// Listen is the address the recognizer service binds to.
	Listen string `toml:"listen"`
}

// StyleConfig is the look of typeset output.
type StyleConfig struct {
	TextColor      string  `toml:"text_color"`
	ShapeColor     string  `toml:"shape_color"`
	ShapeThickness float32 `toml:"shape_thickness"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type ExportConfig struct {
	Directory string `toml:"directory"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Analysis:  AnalysisConfig{DebounceMs: 400},
		Selection: SelectionConfig{Lasso: false},
		Input:     InputConfig{Mouse: true, Pen: true, Touch: true},
		Recognizer: RecognizerConfig{
			Mode:      RecognizerLocal,
			TimeoutMs: 5000,
			Listen:    ":7878",
		},
		Style: StyleConfig{
			TextColor:      "black",
			ShapeColor:     "dimgray",
			ShapeThickness: 2,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Export:  ExportConfig{Directory: defaultExportDir()},
	}
}

// Dir returns the InkBoard configuration directory. INKBOARD_CONFIG_DIR
// overrides it.
func Dir() string {
	if dir := os.Getenv("INKBOARD_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "inkboard")
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(Dir(), "config.toml")
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load reads configuration from path. A missing file yields the defaults.
// An empty path means ConfigPath.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Save writes c to path as TOML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies INKBOARD_ environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INKBOARD_RECOGNIZER_MODE"); v != "" {
		c.Recognizer.Mode = v
	}
	if v := os.Getenv("INKBOARD_RECOGNIZER_URL"); v != "" {
		c.Recognizer.URL = v
	}
	if v := os.Getenv("INKBOARD_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INKBOARD_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Debounce returns the analysis quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Analysis.DebounceMs) * time.Millisecond
}

// RecognizerTimeout bounds one remote recognition pass.
func (c *Config) RecognizerTimeout() time.Duration {
	return time.Duration(c.Recognizer.TimeoutMs) * time.Millisecond
}
