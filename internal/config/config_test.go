package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/timvw/pane-carousel/internal/model"
)

var envKeys = []string{
	"PANE_CAROUSEL_MUX", "PANE_CAROUSEL_SOCKET", "PANE_CAROUSEL_POLL_INTERVAL",
	"PANE_CAROUSEL_MARK_PANE_KEY", "PANE_CAROUSEL_SHOW_SELF_KEY", "PANE_CAROUSEL_KEY_TABLE",
	"PANE_CAROUSEL_POPUP_WIDTH", "PANE_CAROUSEL_POPUP_HEIGHT", "PANE_CAROUSEL_THEME",
	"PANE_CAROUSEL_LOG_LEVEL", "PANE_CAROUSEL_LOG_FILE",
	"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
}

// isolate moves the test into an empty directory with an empty HOME and
// clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", filepath.Join(dir, "home"))
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
	return dir
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Mux != "auto" {
		t.Errorf("Mux: got %q, want %q", cfg.Mux, "auto")
	}
	if cfg.PollDuration != time.Second {
		t.Errorf("PollDuration: got %v, want 1s", cfg.PollDuration)
	}
	if cfg.KeyTable != "root" {
		t.Errorf("KeyTable: got %q, want %q", cfg.KeyTable, "root")
	}
	want := model.KeyChord{Key: model.CharKey('i'), Modifiers: model.ModCtrl | model.ModShift}
	if cfg.MarkPaneChord != want {
		t.Errorf("MarkPaneChord: got %v, want %v", cfg.MarkPaneChord, want)
	}
	if cfg.ShowSelfChord.Key != model.CharKey('o') {
		t.Errorf("ShowSelfChord: got %v", cfg.ShowSelfChord)
	}
	if cfg.PopupWidth != "60%" || cfg.PopupHeight != "50%" {
		t.Errorf("popup: got %s x %s", cfg.PopupWidth, cfg.PopupHeight)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile: got %q, want none", cfg.ConfigFile)
	}
}

func TestParsePollInterval(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMs  int64
		wantErr bool
	}{
		{"empty returns one second", "", 1000, false},
		{"valid duration", "2s", 2000, false},
		{"valid short duration", "250ms", 250, false},
		{"zero rejected", "0", 0, true},
		{"off rejected", "off", 0, true},
		{"negative rejected", "-1s", 0, true},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePollInterval(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePollInterval(%q): error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.Milliseconds() != tt.wantMs {
				t.Errorf("parsePollInterval(%q) = %v, want %dms", tt.input, got, tt.wantMs)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	content := `mux: tmux
poll_interval: "500ms"
mark_pane_key: "Alt m"
show_self_key: "ctrl+alt+o"
key_table: prefix
popup_width: "80"
theme: light
log_level: debug
`
	if err := os.WriteFile(filepath.Join(dir, ".pane-carousel.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ConfigFile != ".pane-carousel.yaml" {
		t.Errorf("ConfigFile: got %q", cfg.ConfigFile)
	}
	if cfg.Mux != "tmux" {
		t.Errorf("Mux: got %q, want %q", cfg.Mux, "tmux")
	}
	if cfg.PollDuration != 500*time.Millisecond {
		t.Errorf("PollDuration: got %v, want 500ms", cfg.PollDuration)
	}
	if cfg.MarkPaneChord.String() != "Alt m" {
		t.Errorf("MarkPaneChord: got %q", cfg.MarkPaneChord)
	}
	if cfg.ShowSelfChord.String() != "Ctrl Alt o" {
		t.Errorf("ShowSelfChord: got %q", cfg.ShowSelfChord)
	}
	if cfg.KeyTable != "prefix" || cfg.PopupWidth != "80" || cfg.PopupHeight != "50%" {
		t.Errorf("table/popup: %q %q %q", cfg.KeyTable, cfg.PopupWidth, cfg.PopupHeight)
	}
	if cfg.Theme != "light" || cfg.LogLevel != "debug" {
		t.Errorf("theme/log: %q %q", cfg.Theme, cfg.LogLevel)
	}
}

func TestLoadFromHomeConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "home", ".config", "pane-carousel", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("key_table: copy-mode\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ConfigFile != path || cfg.KeyTable != "copy-mode" {
		t.Errorf("got file %q table %q", cfg.ConfigFile, cfg.KeyTable)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("socket: /tmp/c.sock\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Socket != "/tmp/c.sock" {
		t.Errorf("Socket: got %q", cfg.Socket)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	content := `mux: tmux
mark_pane_key: "Alt m"
log_level: warn
`
	if err := os.WriteFile(filepath.Join(dir, ".pane-carousel.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PANE_CAROUSEL_MARK_PANE_KEY", "Ctrl b")
	t.Setenv("PANE_CAROUSEL_LOG_LEVEL", "error")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MarkPaneChord.String() != "Ctrl b" {
		t.Errorf("MarkPaneChord: got %q, want %q (env should override file)", cfg.MarkPaneChord, "Ctrl b")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want %q (env should override file)", cfg.LogLevel, "error")
	}
	if cfg.Mux != "tmux" {
		t.Errorf("Mux: got %q, want file value %q", cfg.Mux, "tmux")
	}
	if cfg.OTELEndpoint != "http://localhost:4318" {
		t.Errorf("OTELEndpoint: got %q", cfg.OTELEndpoint)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad poll", func(c *Config) { c.PollInterval = "off" }, "poll interval"},
		{"bad key", func(c *Config) { c.MarkPaneKey = "Hyper x" }, "mark_pane_key"},
		{"no modifier", func(c *Config) { c.ShowSelfKey = "o" }, "show_self_key"},
		{"same chords", func(c *Config) { c.ShowSelfKey = "ctrl+shift+i" }, "both"},
		{"unknown mux", func(c *Config) { c.Mux = "screen" }, "unknown mux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate(): got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, ".pane-carousel.yaml"), []byte("mux: [tmux\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "parsing config file") {
		t.Fatalf("got %v", err)
	}
}
