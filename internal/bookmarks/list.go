// Package bookmarks holds the bounded, ordered list of bookmarked panes and
// the selection cursor that navigates it.
package bookmarks

import (
	"slices"

	"github.com/timvw/pane-carousel/internal/model"
)

// MaxEntries is the number of bookmarks kept before the oldest is evicted.
const MaxEntries = 10

// List is an ordered sequence of distinct pane ids plus a selection cursor.
// Insertion order is display order. The cursor is always a valid index, or 0
// when the list is empty. List is not safe for concurrent use.
type List struct {
	entries  []model.PaneID
	selected int
}

// ToggleResult describes the outcome of Toggle.
type ToggleResult struct {
	Changed bool
	Added   bool
	Removed bool
	// Evicted is set when adding pushed the oldest bookmark out.
	Evicted *model.PaneID
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// ToggleFocused adds focused when absent and removes it when present.
// ok=false means no pane has focus and nothing happens.
func (l *List) ToggleFocused(focused model.PaneID, ok bool) bool {
	if !ok {
		return false
	}
	return l.Toggle(focused).Changed
}

// Toggle adds id when absent (evicting the oldest entry when full) and
// removes it when present.
func (l *List) Toggle(id model.PaneID) ToggleResult {
	if i := slices.Index(l.entries, id); i >= 0 {
		l.entries = slices.Delete(l.entries, i, i+1)
		l.clampSelection()
		return ToggleResult{Changed: true, Removed: true}
	}

	var res ToggleResult
	if len(l.entries) >= MaxEntries {
		evicted := l.entries[0]
		res.Evicted = &evicted
		l.entries = slices.Delete(l.entries, 0, 1)
	}
	l.entries = append(l.entries, id)
	l.clampSelection()
	res.Changed = true
	res.Added = true
	return res
}

// MoveSelection moves the cursor by delta without wrapping. It returns false
// when the move would leave [0, len-1].
func (l *List) MoveSelection(delta int) bool {
	next := l.selected + delta
	if delta == 0 || next < 0 || next >= len(l.entries) {
		return false
	}
	l.selected = next
	return true
}

// RemoveSelected removes the entry under the cursor.
func (l *List) RemoveSelected() bool {
	if len(l.entries) == 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, l.selected, l.selected+1)
	l.clampSelection()
	return true
}

// Selected returns the entry under the cursor.
func (l *List) Selected() (model.PaneID, bool) {
	return l.At(l.selected)
}

// At returns the entry at index.
func (l *List) At(index int) (model.PaneID, bool) {
	if index < 0 || index >= len(l.entries) {
		return model.PaneID{}, false
	}
	return l.entries[index], true
}

// Contains reports whether id is bookmarked.
func (l *List) Contains(id model.PaneID) bool {
	return slices.Contains(l.entries, id)
}

// Entries returns a copy of the bookmarks in display order.
func (l *List) Entries() []model.PaneID {
	return slices.Clone(l.entries)
}

// SelectedIndex returns the cursor.
func (l *List) SelectedIndex() int {
	return l.selected
}

// Len returns the number of bookmarks.
func (l *List) Len() int {
	return len(l.entries)
}

func (l *List) clampSelection() {
	if l.selected > len(l.entries)-1 {
		l.selected = max(len(l.entries)-1, 0)
	}
}
