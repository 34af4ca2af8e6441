// Package workspace reconciles tab and pane topology notifications into the
// currently focused pane and the last known title of every pane.
//
// Notifications arrive independently and in any order. Each one replaces the
// half of the topology it describes; focus and titles are then recomputed from
// the latest stored pair rather than patched, so a stale or contradictory
// notification can never leave drift behind.
package workspace

import (
	"sort"

	"github.com/timvw/pane-carousel/internal/model"
)

// Tracker is the single owner of the derived workspace state.
// It is not safe for concurrent use.
type Tracker struct {
	focused      *model.PaneID
	activeTab    *model.ActiveTab
	titles       map[model.PaneID]string
	lastManifest *model.PaneManifest
}

// Change summarizes what a recomputation altered.
type Change struct {
	FocusChanged bool
	// TitlesChanged counts identities whose title was added or changed.
	TitlesChanged int
	// Titles lists those identities in iteration order.
	Titles []model.PaneID
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{titles: make(map[model.PaneID]string)}
}

// IngestTabs records the active tab, if the batch has one, and recomputes.
// A batch without an active tab leaves the previous descriptor in place.
func (t *Tracker) IngestTabs(tabs []model.TabInfo) Change {
	for _, tab := range tabs {
		if tab.Active {
			t.activeTab = &model.ActiveTab{
				Position:        tab.Position,
				FloatingVisible: tab.AreFloatingPanesVisible,
			}
			break
		}
	}
	return t.recompute()
}

// IngestPanes stores manifest as the latest topology and recomputes.
func (t *Tracker) IngestPanes(manifest model.PaneManifest) Change {
	t.lastManifest = &manifest
	return t.recompute()
}

// recompute derives focus and titles from the latest manifest and active tab.
// Positions are visited in ascending order so that when a transient state
// flags two panes as focused, the winner (the last match) is deterministic.
func (t *Tracker) recompute() Change {
	var change Change
	previous := t.focused
	t.focused = nil

	if t.lastManifest != nil {
		positions := make([]int, 0, len(t.lastManifest.Panes))
		for pos := range t.lastManifest.Panes {
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		for _, pos := range positions {
			for _, pane := range t.lastManifest.Panes[pos] {
				if pane.IsSuppressed {
					continue
				}
				id := pane.PaneID()
				if old, ok := t.titles[id]; !ok || old != pane.Title {
					change.TitlesChanged++
					change.Titles = append(change.Titles, id)
				}
				t.titles[id] = pane.Title

				if t.activeTab != nil &&
					pos == t.activeTab.Position &&
					pane.IsFocused &&
					pane.IsFloating == t.activeTab.FloatingVisible {
					t.focused = &id
				}
			}
		}
	}

	change.FocusChanged = !samePane(previous, t.focused)
	return change
}

// Title returns the last known title for id.
func (t *Tracker) Title(id model.PaneID) (string, bool) {
	title, ok := t.titles[id]
	return title, ok
}

// FocusedPane returns the globally focused pane, if any.
func (t *Tracker) FocusedPane() (model.PaneID, bool) {
	if t.focused == nil {
		return model.PaneID{}, false
	}
	return *t.focused, true
}

// ActiveTab returns the most recently reported active tab, if any.
func (t *Tracker) ActiveTab() (model.ActiveTab, bool) {
	if t.activeTab == nil {
		return model.ActiveTab{}, false
	}
	return *t.activeTab, true
}

// KnownPanes returns the number of identities with a recorded title.
func (t *Tracker) KnownPanes() int {
	return len(t.titles)
}

func samePane(a, b *model.PaneID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
