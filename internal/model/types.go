// Package model holds the value types shared by the workspace tracker, the
// bookmark list and the multiplexer transport.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PaneKind distinguishes the two pane address spaces.
type PaneKind uint8

const (
	// Terminal panes run a shell or a command.
	Terminal PaneKind = iota
	// Plugin panes are host-provided surfaces (zellij plugins).
	Plugin
)

func (k PaneKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Plugin:
		return "plugin"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// PaneID identifies a pane. Ids are never reused across kinds, so the pair
// is the identity; the zero value is Terminal(0).
type PaneID struct {
	Kind PaneKind `json:"kind"`
	ID   uint32   `json:"id"`
}

// TerminalPane returns the identity of terminal pane id.
func TerminalPane(id uint32) PaneID {
	return PaneID{Kind: Terminal, ID: id}
}

// PluginPane returns the identity of plugin pane id.
func PluginPane(id uint32) PaneID {
	return PaneID{Kind: Plugin, ID: id}
}

// Less orders ids by kind, then numeric id.
func (p PaneID) Less(other PaneID) bool {
	if p.Kind != other.Kind {
		return p.Kind < other.Kind
	}
	return p.ID < other.ID
}

func (p PaneID) String() string {
	return fmt.Sprintf("%s_%d", p.Kind, p.ID)
}

// ParsePaneID accepts "terminal_5", "plugin_3" and the tmux form "%5".
func ParsePaneID(s string) (PaneID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "%"); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return PaneID{}, fmt.Errorf("invalid pane id %q: %w", s, err)
		}
		return TerminalPane(uint32(n)), nil
	}
	kind, num, ok := strings.Cut(s, "_")
	if !ok {
		return PaneID{}, fmt.Errorf("invalid pane id %q: missing '_'", s)
	}
	n, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		return PaneID{}, fmt.Errorf("invalid pane id %q: %w", s, err)
	}
	switch kind {
	case "terminal":
		return TerminalPane(uint32(n)), nil
	case "plugin":
		return PluginPane(uint32(n)), nil
	default:
		return PaneID{}, fmt.Errorf("invalid pane id %q: unknown kind %q", s, kind)
	}
}

// TabInfo describes one tab as reported by a tab-topology notification.
type TabInfo struct {
	// Position is the stable key panes are grouped under.
	Position int `json:"position"`
	// Name is informational only.
	Name string `json:"name,omitempty"`
	// Active is set on at most one tab per notification.
	Active bool `json:"active"`
	// AreFloatingPanesVisible reports whether the floating layer is shown.
	AreFloatingPanesVisible bool `json:"are_floating_panes_visible"`
}

// PaneInfo describes one pane as reported by a pane-topology notification.
type PaneInfo struct {
	ID         uint32 `json:"id"`
	IsPlugin   bool   `json:"is_plugin"`
	Title      string `json:"title"`
	IsFloating bool   `json:"is_floating"`
	// IsFocused is focus within the pane's own tab, not global focus.
	IsFocused bool `json:"is_focused"`
	// IsSuppressed marks hidden/background panes that cannot be focused or bookmarked.
	IsSuppressed bool `json:"is_suppressed"`
}

// PaneID builds the pane's identity from its (IsPlugin, ID) pair.
func (p PaneInfo) PaneID() PaneID {
	if p.IsPlugin {
		return PluginPane(p.ID)
	}
	return TerminalPane(p.ID)
}

// PaneManifest is a full pane-topology notification keyed by tab position.
type PaneManifest struct {
	Panes map[int][]PaneInfo `json:"panes"`
}

// ActiveTab is the tracker's record of the most recently reported active tab.
type ActiveTab struct {
	Position        int
	FloatingVisible bool
}
