package daemon

import (
	"context"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/model"
	"github.com/timvw/pane-carousel/internal/mux"
)

// Host adapts a multiplexer to the collaborators the carousel state needs.
type Host struct {
	Mux mux.Multiplexer

	// OverlayCommand runs inside the popup, usually "<exe> ui".
	OverlayCommand string
	OverlayWidth   string
	OverlayHeight  string

	// MarkPaneCommand and ShowSelfCommand are run by the bound keys.
	MarkPaneCommand string
	ShowSelfCommand string
}

var (
	_ carousel.FocusSwitcher    = (*Host)(nil)
	_ carousel.Visibility       = (*Host)(nil)
	_ carousel.KeybindRegistrar = (*Host)(nil)
)

func (h *Host) FocusPane(ctx context.Context, id model.PaneID, showHost bool) error {
	return h.Mux.FocusPane(ctx, id, showHost)
}

func (h *Host) Show(ctx context.Context) error {
	return h.Mux.ShowOverlay(ctx, h.OverlayCommand, h.OverlayWidth, h.OverlayHeight)
}

func (h *Host) Hide(ctx context.Context) error {
	return h.Mux.HideOverlay(ctx)
}

func (h *Host) BindKeys(ctx context.Context, mode string, markPane, showSelf model.KeyChord) error {
	return h.Mux.BindKeys(ctx, mode, []mux.Binding{
		{Key: markPane, Command: h.MarkPaneCommand},
		{Key: showSelf, Command: h.ShowSelfCommand},
	})
}
