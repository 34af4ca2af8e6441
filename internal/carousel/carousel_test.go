package carousel

import (
	"context"
	"errors"
	"testing"

	"github.com/timvw/pane-carousel/internal/logging"
	"github.com/timvw/pane-carousel/internal/model"
)

type fakeHost struct {
	focused  []model.PaneID
	shows    int
	hides    int
	binds    int
	bindErr  error
	focusErr error
}

func (f *fakeHost) FocusPane(_ context.Context, id model.PaneID, showHost bool) error {
	if showHost {
		panic("carousel must not ask the host to show itself")
	}
	if f.focusErr != nil {
		return f.focusErr
	}
	f.focused = append(f.focused, id)
	return nil
}

func (f *fakeHost) Show(context.Context) error { f.shows++; return nil }
func (f *fakeHost) Hide(context.Context) error { f.hides++; return nil }

func (f *fakeHost) BindKeys(_ context.Context, _ string, _, _ model.KeyChord) error {
	f.binds++
	return f.bindErr
}

func newState(host *fakeHost) *State {
	return New(Options{Focus: host, Overlay: host, Keys: host, Logger: logging.Nop()})
}

func key(name string) KeyPress {
	ev, err := model.ParseKeyEvent(name)
	if err != nil {
		panic(err)
	}
	return KeyPress{Key: ev}
}

// focusOn makes terminal pane id the focused pane in a single-tab workspace.
func focusOn(t *testing.T, s *State, id uint32, title string) {
	t.Helper()
	ctx := context.Background()
	s.Update(ctx, TabUpdate{Tabs: []model.TabInfo{{Position: 0, Active: true}}})
	s.Update(ctx, PaneUpdate{Manifest: model.PaneManifest{Panes: map[int][]model.PaneInfo{
		0: {{ID: id, Title: title, IsFocused: true}},
	}}})
	if got, ok := s.FocusedPane(); !ok || got != model.TerminalPane(id) {
		t.Fatalf("focus: got %v/%v, want terminal_%d", got, ok, id)
	}
}

func mark(t *testing.T, s *State, ids ...uint32) {
	t.Helper()
	for _, id := range ids {
		focusOn(t, s, id, "")
		if !s.Pipe(context.Background(), PipeMessage{Name: MessageMarkPane}) {
			t.Fatalf("mark %d: expected change", id)
		}
	}
}

func TestLoad_BindsOnce(t *testing.T) {
	host := &fakeHost{}
	s := newState(host)
	s.Load(context.Background())
	s.Load(context.Background())
	if host.binds != 1 {
		t.Fatalf("binds: got %d, want 1", host.binds)
	}
	if !s.Bound() {
		t.Fatal("expected bound flag")
	}
}

func TestLoad_RetriesAfterFailure(t *testing.T) {
	host := &fakeHost{bindErr: errors.New("no server")}
	s := newState(host)
	s.Load(context.Background())
	if s.Bound() {
		t.Fatal("failed registration must not set the flag")
	}
	host.bindErr = nil
	s.Load(context.Background())
	if !s.Bound() || host.binds != 2 {
		t.Fatalf("bound=%v binds=%d", s.Bound(), host.binds)
	}
}

func TestPipe_MarkPaneWithoutFocus(t *testing.T) {
	s := newState(&fakeHost{})
	if s.Pipe(context.Background(), PipeMessage{Name: MessageMarkPane}) {
		t.Fatal("expected no change without focus")
	}
	if len(s.View().Entries) != 0 {
		t.Fatal("expected empty list")
	}
}

func TestPipe_MarkPaneToggles(t *testing.T) {
	s := newState(&fakeHost{})
	mark(t, s, 5, 7)
	focusOn(t, s, 5, "")
	s.Pipe(context.Background(), PipeMessage{Name: MessageMarkPane})

	v := s.View()
	if len(v.Entries) != 1 || v.Entries[0].Pane != model.TerminalPane(7) {
		t.Fatalf("entries: got %+v, want [terminal_7]", v.Entries)
	}
}

func TestPipe_ShowSelfAndUnknown(t *testing.T) {
	host := &fakeHost{}
	s := newState(host)
	if !s.Pipe(context.Background(), PipeMessage{Name: MessageShowSelf}) {
		t.Error("show_self should request a render")
	}
	if host.shows != 1 {
		t.Errorf("shows: got %d, want 1", host.shows)
	}
	if s.Pipe(context.Background(), PipeMessage{Name: "launch_rockets"}) {
		t.Error("unknown message must be ignored")
	}
}

func TestUpdate_NavigationKeys(t *testing.T) {
	s := newState(&fakeHost{})
	mark(t, s, 1, 2, 3)
	ctx := context.Background()

	if s.Update(ctx, key("up")) {
		t.Error("up at the top must not re-render")
	}
	if !s.Update(ctx, key("down")) {
		t.Error("down should move the cursor")
	}
	if !s.Update(ctx, key("delete")) {
		t.Error("delete should remove the selected entry")
	}
	v := s.View()
	if len(v.Entries) != 2 || v.Entries[1].Pane != model.TerminalPane(3) {
		t.Fatalf("entries after delete: %+v", v.Entries)
	}
	if v.Selected != 1 {
		t.Errorf("selected: got %d, want 1", v.Selected)
	}
}

func TestUpdate_KeysWithModifiersIgnored(t *testing.T) {
	s := newState(&fakeHost{})
	mark(t, s, 1, 2)
	if s.Update(context.Background(), key("ctrl+down")) {
		t.Fatal("modified keys must be ignored")
	}
	if s.View().Selected != 0 {
		t.Fatal("cursor moved on a modified key")
	}
}

func TestUpdate_EnterActivatesSelected(t *testing.T) {
	host := &fakeHost{}
	s := newState(host)
	mark(t, s, 4, 8)
	ctx := context.Background()
	s.Update(ctx, key("down"))
	s.Update(ctx, key("enter"))

	if len(host.focused) != 1 || host.focused[0] != model.TerminalPane(8) {
		t.Fatalf("focused: got %v, want [terminal_8]", host.focused)
	}
	if host.hides != 1 {
		t.Errorf("hides: got %d, want 1", host.hides)
	}
}

func TestUpdate_DigitActivatesIndex(t *testing.T) {
	host := &fakeHost{}
	s := newState(host)
	mark(t, s, 4, 8, 9)
	ctx := context.Background()

	s.Update(ctx, key("2"))
	if len(host.focused) != 1 || host.focused[0] != model.TerminalPane(9) {
		t.Fatalf("focused: got %v, want [terminal_9]", host.focused)
	}

	s.Update(ctx, key("7"))
	if len(host.focused) != 1 {
		t.Fatalf("out-of-range digit activated %v", host.focused)
	}
	if host.hides != 1 {
		t.Errorf("hides: got %d, want 1", host.hides)
	}
}

func TestUpdate_FocusFailureKeepsOverlay(t *testing.T) {
	host := &fakeHost{focusErr: errors.New("pane gone")}
	s := newState(host)
	mark(t, s, 4)
	if s.ActivateIndex(context.Background(), 0) != true {
		t.Fatal("index 0 exists")
	}
	if host.hides != 0 {
		t.Error("overlay hidden after a failed focus switch")
	}
}

func TestUpdate_EscHides(t *testing.T) {
	host := &fakeHost{}
	s := newState(host)
	s.Update(context.Background(), key("esc"))
	if host.hides != 1 {
		t.Fatalf("hides: got %d, want 1", host.hides)
	}
}

func TestUpdate_TitleChangeOfBookmarkRerenders(t *testing.T) {
	s := newState(&fakeHost{})
	mark(t, s, 3)
	ctx := context.Background()

	manifest := func(title3, title4 string) PaneUpdate {
		return PaneUpdate{Manifest: model.PaneManifest{Panes: map[int][]model.PaneInfo{
			0: {
				{ID: 3, Title: title3, IsFocused: true},
				{ID: 4, Title: title4},
			},
		}}}
	}
	s.Update(ctx, manifest("vim", "htop"))
	if s.Update(ctx, manifest("vim", "top")) {
		t.Error("title change of an unmarked pane must not re-render")
	}
	if !s.Update(ctx, manifest("nvim", "top")) {
		t.Error("title change of a bookmark should re-render")
	}
}

func TestView_TitlesAndFocus(t *testing.T) {
	s := newState(&fakeHost{})
	mark(t, s, 1)
	focusOn(t, s, 2, "logs")
	s.Pipe(context.Background(), PipeMessage{Name: MessageMarkPane})
	// Pane 1 disappears from the manifest but keeps its last title.
	v := s.View()

	if len(v.Entries) != 2 {
		t.Fatalf("entries: %+v", v.Entries)
	}
	if v.Entries[0].Title != "" || v.Entries[0].Focused {
		t.Errorf("entry 0: %+v", v.Entries[0])
	}
	if v.Entries[1].Title != "logs" || !v.Entries[1].Focused {
		t.Errorf("entry 1: %+v", v.Entries[1])
	}
	if v.Focused == nil || *v.Focused != model.TerminalPane(2) {
		t.Errorf("focused: %v", v.Focused)
	}
	if v.MarkPaneKey != "Ctrl Shift i" || v.ShowSelfKey != "Ctrl Shift o" {
		t.Errorf("chords: %q %q", v.MarkPaneKey, v.ShowSelfKey)
	}
}

func TestView_UnknownTitle(t *testing.T) {
	s := New(Options{Logger: logging.Nop()})
	s.marks.Toggle(model.PluginPane(42))
	v := s.View()
	if v.Entries[0].Title != UnknownTitle {
		t.Fatalf("title: got %q, want %q", v.Entries[0].Title, UnknownTitle)
	}
	if v.Focused != nil {
		t.Errorf("focused: got %v, want nil", v.Focused)
	}
}
