package mux

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/timvw/pane-carousel/internal/model"
)

// Tmux implements the Multiplexer interface for tmux.
//
// A tmux window plays the role of a tab and its numeric window id (@N) is the
// tab position, so tab and pane listings share a stable key. tmux has no
// floating layer: every pane is tiled and floating panes are never visible.
type Tmux struct {
	run   func(ctx context.Context, args ...string) (string, error)
	start func(args ...string) error
}

// NewTmux creates a new tmux multiplexer.
func NewTmux() *Tmux {
	return &Tmux{run: runTmux, start: startTmux}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

const (
	windowFormat = "#{window_id}\t#{window_active}\t#{session_attached}\t#{window_name}"
	paneFormat   = "#{window_id}\t#{pane_id}\t#{pane_active}\t#{pane_dead}\t#{pane_current_command}\t#{pane_title}"
)

// ListTabs lists the windows of the current session.
func (t *Tmux) ListTabs(ctx context.Context) ([]model.TabInfo, error) {
	out, err := t.run(ctx, "list-windows", "-F", windowFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-windows: %w", err)
	}
	var tabs []model.TabInfo
	for _, line := range splitLines(out) {
		tab, err := parseWindowLine(line)
		if err != nil {
			continue
		}
		tabs = append(tabs, tab)
	}
	return tabs, nil
}

// ListPanes lists every pane of the current session keyed by window id.
func (t *Tmux) ListPanes(ctx context.Context) (model.PaneManifest, error) {
	out, err := t.run(ctx, "list-panes", "-s", "-F", paneFormat)
	if err != nil {
		return model.PaneManifest{}, fmt.Errorf("tmux list-panes: %w", err)
	}
	manifest := model.PaneManifest{Panes: make(map[int][]model.PaneInfo)}
	for _, line := range splitLines(out) {
		pos, pane, err := parsePaneLine(line)
		if err != nil {
			continue
		}
		manifest.Panes[pos] = append(manifest.Panes[pos], pane)
	}
	return manifest, nil
}

// FocusPane switches the client to the pane's session, window and pane.
func (t *Tmux) FocusPane(ctx context.Context, id model.PaneID, _ bool) error {
	if id.Kind != model.Terminal {
		return fmt.Errorf("tmux has no plugin panes (%s)", id)
	}
	target := "%" + strconv.FormatUint(uint64(id.ID), 10)
	if _, err := t.run(ctx, "switch-client", "-t", target); err != nil {
		return fmt.Errorf("tmux switch-client -t %s: %w", target, err)
	}
	return nil
}

// ShowOverlay opens command in a popup. display-popup blocks until the popup
// closes, so the client is started and left to finish on its own.
func (t *Tmux) ShowOverlay(_ context.Context, command, width, height string) error {
	args := []string{"display-popup", "-E"}
	if width != "" {
		args = append(args, "-w", width)
	}
	if height != "" {
		args = append(args, "-h", height)
	}
	args = append(args, command)
	if err := t.start(args...); err != nil {
		return fmt.Errorf("tmux display-popup: %w", err)
	}
	return nil
}

// HideOverlay closes the popup of the current client.
func (t *Tmux) HideOverlay(ctx context.Context) error {
	if _, err := t.run(ctx, "display-popup", "-C"); err != nil {
		return fmt.Errorf("tmux display-popup -C: %w", err)
	}
	return nil
}

// BindKeys binds each chord in table to run its command in the background.
func (t *Tmux) BindKeys(ctx context.Context, table string, bindings []Binding) error {
	if table == "" {
		table = "root"
	}
	var errs []error
	for _, b := range bindings {
		key, err := b.Key.TmuxKey()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := t.run(ctx, "bind-key", "-T", table, key, "run-shell", "-b", b.Command); err != nil {
			errs = append(errs, fmt.Errorf("tmux bind-key %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// runTmux executes a tmux command and returns its stdout.
func runTmux(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}

func startTmux(args ...string) error {
	cmd := exec.Command("tmux", args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseWindowLine parses one windowFormat line.
func parseWindowLine(line string) (model.TabInfo, error) {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) != 4 {
		return model.TabInfo{}, fmt.Errorf("invalid window line %q", line)
	}
	pos, err := parseWindowID(parts[0])
	if err != nil {
		return model.TabInfo{}, err
	}
	return model.TabInfo{
		Position: pos,
		Name:     parts[3],
		Active:   parts[1] == "1" && parts[2] != "" && parts[2] != "0",
	}, nil
}

// parsePaneLine parses one paneFormat line into its window id and pane.
func parsePaneLine(line string) (int, model.PaneInfo, error) {
	parts := strings.SplitN(line, "\t", 6)
	if len(parts) != 6 {
		return 0, model.PaneInfo{}, fmt.Errorf("invalid pane line %q", line)
	}
	pos, err := parseWindowID(parts[0])
	if err != nil {
		return 0, model.PaneInfo{}, err
	}
	id, err := parsePaneID(parts[1])
	if err != nil {
		return 0, model.PaneInfo{}, err
	}
	title := parts[5]
	if strings.TrimSpace(title) == "" {
		title = parts[4]
	}
	return pos, model.PaneInfo{
		ID:           id,
		Title:        title,
		IsFocused:    parts[2] == "1",
		IsSuppressed: parts[3] == "1",
	}, nil
}

// parseWindowID parses "@7" into 7.
func parseWindowID(s string) (int, error) {
	rest, ok := strings.CutPrefix(s, "@")
	if !ok {
		return 0, fmt.Errorf("invalid window id %q: missing '@'", s)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return n, nil
}

// parsePaneID parses "%12" into 12.
func parsePaneID(s string) (uint32, error) {
	rest, ok := strings.CutPrefix(s, "%")
	if !ok {
		return 0, fmt.Errorf("invalid pane id %q: missing '%%'", s)
	}
	n, err := strconv.ParseUint(rest, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid pane id %q: %w", s, err)
	}
	return uint32(n), nil
}

// ShellQuote quotes s for a POSIX shell, as used in run-shell commands.
func ShellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:@%+,", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
