package cmd

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/timvw/pane-carousel/internal/config"
	"github.com/timvw/pane-carousel/internal/control"
	"github.com/timvw/pane-carousel/internal/logging"
	"github.com/timvw/pane-carousel/internal/mux"
)

var (
	// Global flags.
	flagMux      string
	flagSocket   string
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pane-carousel",
	Short: "Bookmark terminal panes and jump between them",
	Long: `pane-carousel keeps a short list of bookmarked panes in your terminal
multiplexer and lets you jump back to any of them from a popup.

Start the daemon once per server, e.g. from ~/.tmux.conf:

    run-shell -b "pane-carousel serve"

The daemon binds two keys: one toggles a bookmark on the focused pane
(default Ctrl Shift i), the other opens the bookmark list (default
Ctrl Shift o). At most 10 panes are kept; the oldest one is dropped
when an eleventh is added.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", "", "terminal multiplexer: tmux, zellij (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&flagSocket, "socket", "", "control socket path (default: $XDG_RUNTIME_DIR/pane-carousel/control.sock)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .pane-carousel.yaml or ~/.config/pane-carousel/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// loadConfig loads defaults, config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if flagMux != "" {
		cfg.Mux = flagMux
	}
	if flagSocket != "" {
		cfg.Socket = flagSocket
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// getMultiplexer returns the configured or auto-detected multiplexer.
func getMultiplexer(cfg *config.Config) (mux.Multiplexer, error) {
	return mux.FromName(cfg.Mux)
}

func socketPath(cfg *config.Config) string {
	if cfg.Socket != "" {
		return cfg.Socket
	}
	return control.DefaultSocketPath()
}

func newClient(cfg *config.Config) *control.Client {
	return control.NewClient(socketPath(cfg))
}

// newLogger builds the process logger. Client commands log to stderr only.
func newLogger(cfg *config.Config, prefix string) (*clog.Logger, io.Closer, error) {
	return logging.New(logging.Config{Level: cfg.LogLevel, File: cfg.LogFile, Prefix: prefix})
}
