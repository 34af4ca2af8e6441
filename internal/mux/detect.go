package mux

import (
	"fmt"
	"os"
	"os/exec"
)

// Detect auto-detects the active terminal multiplexer.
// It checks environment variables first, then falls back to checking
// if the multiplexer binary exists and has a running server.
func Detect() (Multiplexer, error) {
	if os.Getenv("TMUX") != "" {
		return NewTmux(), nil
	}
	if os.Getenv("ZELLIJ") != "" {
		return nil, fmt.Errorf("zellij support is not yet implemented")
	}

	if tmuxPath, err := exec.LookPath("tmux"); err == nil && tmuxPath != "" {
		// A server is running when list-sessions succeeds.
		if err := exec.Command("tmux", "list-sessions").Run(); err == nil {
			return NewTmux(), nil
		}
	}

	return nil, fmt.Errorf("no supported terminal multiplexer detected (set $TMUX or install tmux)")
}

// FromName creates a Multiplexer by name. An empty name or "auto" detects.
func FromName(name string) (Multiplexer, error) {
	switch name {
	case "", "auto":
		return Detect()
	case "tmux":
		return NewTmux(), nil
	case "zellij":
		return nil, fmt.Errorf("zellij support is not yet implemented")
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux)", name)
	}
}
