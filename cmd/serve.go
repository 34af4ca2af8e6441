package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/config"
	"github.com/timvw/pane-carousel/internal/control"
	"github.com/timvw/pane-carousel/internal/daemon"
	"github.com/timvw/pane-carousel/internal/mux"
	telem "github.com/timvw/pane-carousel/internal/otel"
	"github.com/timvw/pane-carousel/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the carousel daemon",
	Long: `Run the daemon that tracks the focused pane, owns the bookmark list and
serves the control socket used by the key bindings and the popup.

The daemon polls the multiplexer for tab and pane topology every
poll_interval (default 1s) and registers its key bindings on start.
Bookmarks live as long as the daemon does.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, "carousel")
	if err != nil {
		return err
	}
	defer closer.Close()
	if cfg.ConfigFile != "" {
		logger.Info("config loaded", "file", cfg.ConfigFile)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sock := socketPath(cfg)
	if alreadyRunning(ctx, sock) {
		return fmt.Errorf("a daemon is already listening on %s", sock)
	}

	// Wire build version into OTEL service metadata
	telem.Version = Version

	// Initialize OTEL (no-op if no endpoint configured)
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		logger.Warn("otel init failed", "err", err)
	}
	var metrics *telem.Metrics
	if tel != nil {
		defer func() {
			if err := tel.Shutdown(context.Background()); err != nil {
				logger.Warn("otel shutdown failed", "err", err)
			}
		}()
		metrics = tel.Metrics
	}

	m, err := getMultiplexer(cfg)
	if err != nil {
		return fmt.Errorf("no supported terminal multiplexer found: %w", err)
	}

	self, err := selfCommand(cfg, sock)
	if err != nil {
		return err
	}
	host := &daemon.Host{
		Mux:             m,
		OverlayCommand:  self + " ui",
		OverlayWidth:    cfg.PopupWidth,
		OverlayHeight:   cfg.PopupHeight,
		MarkPaneCommand: self + " send " + control.CommandMarkPane,
		ShowSelfCommand: self + " send " + control.CommandShowSelf,
	}
	state := carousel.New(carousel.Options{
		Keybinds: carousel.Keybinds{
			Mode:     cfg.KeyTable,
			MarkPane: cfg.MarkPaneChord,
			ShowSelf: cfg.ShowSelfChord,
		},
		Focus:   host,
		Overlay: host,
		Keys:    host,
		Logger:  logger,
		Metrics: metrics,
	})

	w := watcher.New(ctx, m, watcher.Options{Interval: cfg.PollDuration})
	defer w.Stop()

	d := daemon.New(daemon.Config{
		State:   state,
		Events:  w.Events(),
		Source:  m,
		Refresh: w.Refresh,
		Logger:  logger,
		Metrics: metrics,
	})

	srv := control.NewServer(d, sock)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("control socket: %w", err)
	}
	logger.Info("daemon started", "mux", m.Name(), "socket", sock, "poll", cfg.PollDuration)

	runErr := d.Run(ctx)
	stop()
	srv.Wait()
	w.Wait()
	logger.Info("daemon stopped")
	return runErr
}

// selfCommand returns the shell command that re-invokes this binary against
// the same socket and config file.
func selfCommand(cfg *config.Config, sock string) (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	parts := []string{mux.ShellQuote(exe), "--socket", mux.ShellQuote(sock)}
	if cfg.ConfigFile != "" {
		path, err := filepath.Abs(cfg.ConfigFile)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		parts = append(parts, "--config", mux.ShellQuote(path))
	}
	return strings.Join(parts, " "), nil
}

func alreadyRunning(ctx context.Context, sock string) bool {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_, err := control.NewClient(sock).Do(ctx, control.Request{Command: control.CommandState})
	return err == nil || !errors.Is(err, control.ErrDaemonNotRunning)
}
