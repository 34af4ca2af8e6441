package model

import "testing"

func TestParseKeyChord(t *testing.T) {
	tests := []struct {
		in       string
		wantStr  string
		wantTmux string
	}{
		{in: "Ctrl Shift i", wantStr: "Ctrl Shift i", wantTmux: "C-S-i"},
		{in: "ctrl+shift+o", wantStr: "Ctrl Shift o", wantTmux: "C-S-o"},
		{in: "Alt m", wantStr: "Alt m", wantTmux: "M-m"},
		{in: "down", wantStr: "Down", wantTmux: "Down"},
		{in: "esc", wantStr: "Esc", wantTmux: "Escape"},
		{in: "delete", wantStr: "Delete", wantTmux: "DC"},
		{in: "3", wantStr: "3", wantTmux: "3"},
		{in: "+", wantStr: "+", wantTmux: "+"},
		{in: "alt++", wantStr: "Alt +", wantTmux: "M-+"},
		{in: "Ctrl Shift +", wantStr: "Ctrl Shift +", wantTmux: "C-S-+"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseKeyChord(tt.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.in, err)
			}
			if got := c.String(); got != tt.wantStr {
				t.Errorf("String: got %q, want %q", got, tt.wantStr)
			}
			tmux, err := c.TmuxKey()
			if err != nil {
				t.Fatalf("TmuxKey: %v", err)
			}
			if tmux != tt.wantTmux {
				t.Errorf("TmuxKey: got %q, want %q", tmux, tt.wantTmux)
			}
		})
	}
}

func TestParseKeyChord_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "Hyper x", "Ctrl pagedown", "ctrl+"} {
		if _, err := ParseKeyChord(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestKeyChord_TmuxKeyRejectsSuper(t *testing.T) {
	c, err := ParseKeyChord("Super k")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := c.TmuxKey(); err == nil {
		t.Fatal("expected Super chord to be rejected for tmux")
	}
}

func TestParseKeyEvent(t *testing.T) {
	e, err := ParseKeyEvent("down")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Key != KeyDown || !e.HasNoModifiers() {
		t.Errorf("got %+v, want bare down", e)
	}

	e, err = ParseKeyEvent("ctrl+c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.HasNoModifiers() || e.Key != CharKey('c') {
		t.Errorf("got %+v, want ctrl+c", e)
	}
}
