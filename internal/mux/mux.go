// Package mux provides an abstraction over terminal multiplexers (tmux, zellij).
//
// This package is pure transport: it reports tab and pane topology as the
// multiplexer sees it and performs the few host actions the carousel needs
// (focus a pane, open or close the overlay popup, bind keys). It keeps no
// state of its own; reconciliation happens in the workspace tracker.
package mux

import (
	"context"

	"github.com/timvw/pane-carousel/internal/model"
)

// Binding maps a key chord to a shell command run by the multiplexer.
type Binding struct {
	Key     model.KeyChord
	Command string
}

// Multiplexer abstracts terminal multiplexer operations.
// Implementations exist for tmux and (future) zellij.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux", "zellij").
	Name() string

	// ListTabs returns the tabs of the attached session.
	ListTabs(ctx context.Context) ([]model.TabInfo, error)

	// ListPanes returns every pane of the attached session grouped by tab position.
	ListPanes(ctx context.Context) (model.PaneManifest, error)

	// FocusPane moves the client to the pane. showHost asks the multiplexer to
	// also reveal the overlay; tmux ignores it.
	FocusPane(ctx context.Context, id model.PaneID, showHost bool) error

	// ShowOverlay opens a popup running command. It returns once the popup
	// has been started, not when it closes.
	ShowOverlay(ctx context.Context, command, width, height string) error

	// HideOverlay closes the popup, if one is open.
	HideOverlay(ctx context.Context) error

	// BindKeys installs bindings in the given key table.
	BindKeys(ctx context.Context, table string, bindings []Binding) error
}
