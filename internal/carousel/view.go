package carousel

import "github.com/timvw/pane-carousel/internal/model"

// UnknownTitle is shown for bookmarks whose title has not been observed.
const UnknownTitle = "<UNKNOWN>"

// Entry is one rendered bookmark.
type Entry struct {
	Index   int          `json:"index"`
	Pane    model.PaneID `json:"pane"`
	Title   string       `json:"title"`
	Focused bool         `json:"focused,omitempty"`
}

// View is the render data for the overlay. It carries no behavior.
type View struct {
	Entries     []Entry       `json:"entries"`
	Selected    int           `json:"selected"`
	Focused     *model.PaneID `json:"focused,omitempty"`
	MarkPaneKey string        `json:"mark_pane_key"`
	ShowSelfKey string        `json:"show_self_key"`
	KeysBound   bool          `json:"keys_bound"`
}

// View snapshots the bookmarks with their resolved titles.
func (s *State) View() View {
	v := View{
		Entries:     make([]Entry, 0, s.marks.Len()),
		Selected:    s.marks.SelectedIndex(),
		MarkPaneKey: s.keybinds.MarkPane.String(),
		ShowSelfKey: s.keybinds.ShowSelf.String(),
		KeysBound:   s.bound,
	}
	focused, hasFocus := s.tracker.FocusedPane()
	if hasFocus {
		v.Focused = &focused
	}
	for i, id := range s.marks.Entries() {
		title, ok := s.tracker.Title(id)
		if !ok {
			title = UnknownTitle
		}
		v.Entries = append(v.Entries, Entry{
			Index:   i,
			Pane:    id,
			Title:   title,
			Focused: hasFocus && id == focused,
		})
	}
	return v
}
