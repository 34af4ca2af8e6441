// Package carousel is the plugin-side state of the pane carousel: it feeds
// topology notifications to the workspace tracker, turns key presses and
// pipe messages into bookmark list operations, and asks the host to switch
// focus or show/hide the overlay.
package carousel

import (
	"context"

	clog "github.com/charmbracelet/log"

	"github.com/timvw/pane-carousel/internal/bookmarks"
	"github.com/timvw/pane-carousel/internal/model"
	ppotel "github.com/timvw/pane-carousel/internal/otel"
	"github.com/timvw/pane-carousel/internal/workspace"
)

// Pipe message names sent by the registered keybindings.
const (
	MessageMarkPane = "mark_pane"
	MessageShowSelf = "show_self"
)

// FocusSwitcher moves host focus to a pane.
type FocusSwitcher interface {
	FocusPane(ctx context.Context, id model.PaneID, showHost bool) error
}

// Visibility shows or hides the overlay surface.
type Visibility interface {
	Show(ctx context.Context) error
	Hide(ctx context.Context) error
}

// KeybindRegistrar binds the two carousel chords in the host.
type KeybindRegistrar interface {
	BindKeys(ctx context.Context, mode string, markPane, showSelf model.KeyChord) error
}

// Keybinds are the chords registered with the host.
type Keybinds struct {
	Mode     string
	MarkPane model.KeyChord
	ShowSelf model.KeyChord
}

// DefaultKeybinds returns Ctrl Shift i / Ctrl Shift o in the root table.
func DefaultKeybinds() Keybinds {
	return Keybinds{
		Mode:     "root",
		MarkPane: model.KeyChord{Key: model.CharKey('i'), Modifiers: model.ModCtrl | model.ModShift},
		ShowSelf: model.KeyChord{Key: model.CharKey('o'), Modifiers: model.ModCtrl | model.ModShift},
	}
}

// Event is delivered by the event dispatcher.
type Event interface {
	isEvent()
}

// KeyPress is a key pressed while the overlay has focus.
type KeyPress struct {
	Key model.KeyEvent
}

// TabUpdate is a tab-topology notification.
type TabUpdate struct {
	Tabs []model.TabInfo
}

// PaneUpdate is a pane-topology notification.
type PaneUpdate struct {
	Manifest model.PaneManifest
}

func (KeyPress) isEvent()   {}
func (TabUpdate) isEvent()  {}
func (PaneUpdate) isEvent() {}

// PipeMessage is a named command routed by the host, usually from a keybinding.
type PipeMessage struct {
	Name    string
	Payload string
}

// Options configures a State.
type Options struct {
	Keybinds Keybinds
	Focus    FocusSwitcher
	Overlay  Visibility
	Keys     KeybindRegistrar
	Logger   *clog.Logger
	Metrics  *ppotel.Metrics
}

// State owns the tracker and the bookmark list. Every method must be called
// from a single goroutine; the daemon's event loop guarantees that.
type State struct {
	tracker  *workspace.Tracker
	marks    *bookmarks.List
	keybinds Keybinds
	bound    bool

	focus   FocusSwitcher
	overlay Visibility
	keys    KeybindRegistrar
	log     *clog.Logger
	metrics *ppotel.Metrics
}

// New returns an empty State.
func New(opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = clog.Default()
	}
	if opts.Keybinds == (Keybinds{}) {
		opts.Keybinds = DefaultKeybinds()
	}
	return &State{
		tracker:  workspace.NewTracker(),
		marks:    bookmarks.New(),
		keybinds: opts.Keybinds,
		focus:    opts.Focus,
		overlay:  opts.Overlay,
		keys:     opts.Keys,
		log:      logger,
		metrics:  opts.Metrics,
	}
}

// Load registers the keybindings. Registration happens once per process:
// after the first successful call later calls do nothing.
func (s *State) Load(ctx context.Context) {
	if s.bound || s.keys == nil {
		return
	}
	kb := s.keybinds
	if err := s.keys.BindKeys(ctx, kb.Mode, kb.MarkPane, kb.ShowSelf); err != nil {
		s.log.Warn("keybinding registration failed", "mode", kb.Mode, "err", err)
		return
	}
	s.bound = true
	s.log.Info("keybindings registered", "mode", kb.Mode, "mark_pane", kb.MarkPane, "show_self", kb.ShowSelf)
}

// Bound reports whether the keybindings have been registered.
func (s *State) Bound() bool {
	return s.bound
}

// Update handles one event and reports whether the overlay should re-render.
func (s *State) Update(ctx context.Context, ev Event) bool {
	switch ev := ev.(type) {
	case KeyPress:
		return s.handleKey(ctx, ev.Key)
	case TabUpdate:
		change := s.tracker.IngestTabs(ev.Tabs)
		s.metrics.RecordTopology(ctx, "tabs", change.FocusChanged)
		return s.affectsView(change)
	case PaneUpdate:
		change := s.tracker.IngestPanes(ev.Manifest)
		s.metrics.RecordTopology(ctx, "panes", change.FocusChanged)
		if change.TitlesChanged > 0 {
			s.log.Debug("titles updated", "changed", change.TitlesChanged, "known", s.tracker.KnownPanes())
		}
		return s.affectsView(change)
	}
	return false
}

// Pipe handles a named command message and reports whether the overlay
// should re-render. Unknown names are ignored.
func (s *State) Pipe(ctx context.Context, msg PipeMessage) bool {
	switch msg.Name {
	case MessageMarkPane:
		return s.markFocused(ctx)
	case MessageShowSelf:
		if s.overlay != nil {
			if err := s.overlay.Show(ctx); err != nil {
				s.log.Warn("show overlay failed", "err", err)
			}
		}
		return true
	default:
		s.log.Debug("ignoring pipe message", "name", msg.Name)
		return false
	}
}

func (s *State) markFocused(ctx context.Context) bool {
	focused, ok := s.tracker.FocusedPane()
	if !ok {
		s.log.Debug("mark_pane without a focused pane")
		return false
	}
	res := s.marks.Toggle(focused)
	s.metrics.RecordToggle(ctx, res.Added, res.Evicted != nil)
	if res.Evicted != nil {
		s.log.Info("bookmark evicted", "pane", *res.Evicted)
	}
	if res.Added {
		s.log.Info("bookmark added", "pane", focused, "count", s.marks.Len())
	} else {
		s.log.Info("bookmark removed", "pane", focused, "count", s.marks.Len())
	}
	return res.Changed
}

func (s *State) handleKey(ctx context.Context, key model.KeyEvent) bool {
	if !key.HasNoModifiers() {
		return false
	}
	switch key.Key {
	case model.KeyDown:
		return s.marks.MoveSelection(1)
	case model.KeyUp:
		return s.marks.MoveSelection(-1)
	case model.KeyDelete:
		return s.marks.RemoveSelected()
	case model.KeyEnter:
		if id, ok := s.marks.Selected(); ok {
			s.activate(ctx, id)
		}
		return false
	case model.KeyEsc:
		s.hide(ctx)
		return false
	}
	if key.Key.IsChar() && key.Key.Char >= '0' && key.Key.Char <= '9' {
		s.ActivateIndex(ctx, int(key.Key.Char-'0'))
	}
	return false
}

// ActivateIndex focuses the bookmark at index. Out-of-range indices are
// ignored. It reports whether a bookmark was found.
func (s *State) ActivateIndex(ctx context.Context, index int) bool {
	id, ok := s.marks.At(index)
	if !ok {
		return false
	}
	s.activate(ctx, id)
	return true
}

func (s *State) activate(ctx context.Context, id model.PaneID) {
	if s.focus != nil {
		if err := s.focus.FocusPane(ctx, id, false); err != nil {
			s.log.Warn("focus switch failed", "pane", id, "err", err)
			return
		}
	}
	s.metrics.RecordActivation(ctx)
	s.log.Debug("bookmark activated", "pane", id)
	s.hide(ctx)
}

func (s *State) hide(ctx context.Context) {
	if s.overlay == nil {
		return
	}
	if err := s.overlay.Hide(ctx); err != nil {
		s.log.Warn("hide overlay failed", "err", err)
	}
}

// affectsView reports whether a tracker change is visible in the overlay:
// the focus marker moved, or a bookmarked pane got a new title.
func (s *State) affectsView(change workspace.Change) bool {
	if change.FocusChanged {
		return true
	}
	for _, id := range change.Titles {
		if s.marks.Contains(id) {
			return true
		}
	}
	return false
}

// FocusedPane exposes the tracker's focused pane.
func (s *State) FocusedPane() (model.PaneID, bool) {
	return s.tracker.FocusedPane()
}

// Keybinds returns the configured chords.
func (s *State) Keybinds() Keybinds {
	return s.keybinds
}
