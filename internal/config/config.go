// Package config loads pane-carousel configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PANE_CAROUSEL_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. the path given with --config
//  2. .pane-carousel.yaml in current directory
//  3. ~/.config/pane-carousel/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timvw/pane-carousel/internal/model"
)

// Config holds all pane-carousel configuration.
type Config struct {
	// Multiplexer: "auto", "tmux" or "zellij".
	Mux    string `yaml:"mux"`
	Socket string `yaml:"socket"` // control socket path; empty means the default

	// Topology polling
	PollInterval string `yaml:"poll_interval"` // Go duration string, e.g. "1s"

	// Keybindings
	MarkPaneKey string `yaml:"mark_pane_key"`
	ShowSelfKey string `yaml:"show_self_key"`
	KeyTable    string `yaml:"key_table"`

	// Overlay popup
	PopupWidth  string `yaml:"popup_width"`
	PopupHeight string `yaml:"popup_height"`
	Theme       string `yaml:"theme"` // "dark" (default) or "light"

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// Parsed values (not from YAML, set after loading)
	PollDuration  time.Duration  `yaml:"-"`
	MarkPaneChord model.KeyChord `yaml:"-"`
	ShowSelfChord model.KeyChord `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Mux:          "auto",
		PollInterval: "1s",
		MarkPaneKey:  "Ctrl Shift i",
		ShowSelfKey:  "Ctrl Shift o",
		KeyTable:     "root",
		PopupWidth:   "60%",
		PopupHeight:  "50%",
		Theme:        "dark",
		LogLevel:     "info",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values. A non-empty path must
// exist; otherwise the default locations are searched.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	found, data, err := findConfigFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", found, err)
		}
		cfg.ConfigFile = found
		mergeFile(cfg, &fileCfg)
	case path != "":
		return nil, err
	}

	mergeEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate parses the duration and key fields.
func (c *Config) Validate() error {
	var err error
	c.PollDuration, err = parsePollInterval(c.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.PollInterval, err)
	}
	c.MarkPaneChord, err = parseChord(c.MarkPaneKey)
	if err != nil {
		return fmt.Errorf("invalid mark_pane_key: %w", err)
	}
	c.ShowSelfChord, err = parseChord(c.ShowSelfKey)
	if err != nil {
		return fmt.Errorf("invalid show_self_key: %w", err)
	}
	if c.MarkPaneChord == c.ShowSelfChord {
		return fmt.Errorf("mark_pane_key and show_self_key are both %q", c.MarkPaneKey)
	}
	switch c.Mux {
	case "", "auto", "tmux", "zellij":
	default:
		return fmt.Errorf("unknown mux %q (supported: auto, tmux)", c.Mux)
	}
	return nil
}

func parseChord(s string) (model.KeyChord, error) {
	chord, err := model.ParseKeyChord(s)
	if err != nil {
		return model.KeyChord{}, err
	}
	if chord.Modifiers == 0 {
		return model.KeyChord{}, fmt.Errorf("%q needs at least one modifier", s)
	}
	return chord, nil
}

// findConfigFile returns the explicit path or the first default location
// that exists.
func findConfigFile(path string) (string, []byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("reading config file: %w", err)
		}
		return path, data, nil
	}

	if data, err := os.ReadFile(".pane-carousel.yaml"); err == nil {
		return ".pane-carousel.yaml", data, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", "pane-carousel", "config.yaml")
		if data, err := os.ReadFile(p); err == nil {
			return p, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Mux, file.Mux)
	set(&cfg.Socket, file.Socket)
	set(&cfg.PollInterval, file.PollInterval)
	set(&cfg.MarkPaneKey, file.MarkPaneKey)
	set(&cfg.ShowSelfKey, file.ShowSelfKey)
	set(&cfg.KeyTable, file.KeyTable)
	set(&cfg.PopupWidth, file.PopupWidth)
	set(&cfg.PopupHeight, file.PopupHeight)
	set(&cfg.Theme, file.Theme)
	set(&cfg.LogLevel, file.LogLevel)
	set(&cfg.LogFile, file.LogFile)
	set(&cfg.OTELEndpoint, file.OTELEndpoint)
	set(&cfg.OTELHeaders, file.OTELHeaders)
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	vars := []struct {
		name string
		dst  *string
	}{
		{"PANE_CAROUSEL_MUX", &cfg.Mux},
		{"PANE_CAROUSEL_SOCKET", &cfg.Socket},
		{"PANE_CAROUSEL_POLL_INTERVAL", &cfg.PollInterval},
		{"PANE_CAROUSEL_MARK_PANE_KEY", &cfg.MarkPaneKey},
		{"PANE_CAROUSEL_SHOW_SELF_KEY", &cfg.ShowSelfKey},
		{"PANE_CAROUSEL_KEY_TABLE", &cfg.KeyTable},
		{"PANE_CAROUSEL_POPUP_WIDTH", &cfg.PopupWidth},
		{"PANE_CAROUSEL_POPUP_HEIGHT", &cfg.PopupHeight},
		{"PANE_CAROUSEL_THEME", &cfg.Theme},
		{"PANE_CAROUSEL_LOG_LEVEL", &cfg.LogLevel},
		{"PANE_CAROUSEL_LOG_FILE", &cfg.LogFile},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTELEndpoint},
		{"OTEL_EXPORTER_OTLP_HEADERS", &cfg.OTELHeaders},
	}
	for _, v := range vars {
		if val := strings.TrimSpace(os.Getenv(v.name)); val != "" {
			*v.dst = val
		}
	}
}

// parsePollInterval parses a positive duration. Empty returns one second.
// Polling cannot be disabled: without it the daemon never sees the topology.
func parsePollInterval(s string) (time.Duration, error) {
	switch s {
	case "":
		return time.Second, nil
	case "0", "off", "disable":
		return 0, fmt.Errorf("polling cannot be disabled")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
