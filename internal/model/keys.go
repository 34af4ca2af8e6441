package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// BareKey is a key without modifiers.
type BareKey struct {
	Name string // "up", "down", "enter", "delete", "esc", or "" for a character
	Char rune
}

// Named keys understood by the carousel.
var (
	KeyUp     = BareKey{Name: "up"}
	KeyDown   = BareKey{Name: "down"}
	KeyEnter  = BareKey{Name: "enter"}
	KeyDelete = BareKey{Name: "delete"}
	KeyEsc    = BareKey{Name: "esc"}
)

// CharKey returns the bare key for a printable character.
func CharKey(r rune) BareKey {
	return BareKey{Char: r}
}

// IsChar reports whether k is a character key.
func (k BareKey) IsChar() bool {
	return k.Name == "" && k.Char != 0
}

func (k BareKey) String() string {
	if k.IsChar() {
		return string(k.Char)
	}
	return k.Name
}

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// KeyEvent is a key press delivered by the event dispatcher.
type KeyEvent struct {
	Key       BareKey
	Modifiers Modifiers
}

// HasNoModifiers reports whether the key was pressed on its own.
func (e KeyEvent) HasNoModifiers() bool {
	return e.Modifiers == 0
}

// ParseKeyEvent parses the key names forwarded by the overlay ("down",
// "enter", "3", "ctrl+c").
func ParseKeyEvent(s string) (KeyEvent, error) {
	chord, err := ParseKeyChord(s)
	if err != nil {
		return KeyEvent{}, err
	}
	return KeyEvent(chord), nil
}

// KeyChord is a key plus modifiers, used for keybinding registration.
type KeyChord struct {
	Key       BareKey
	Modifiers Modifiers
}

var modifierNames = []struct {
	mod  Modifiers
	name string
	tmux string
}{
	{ModCtrl, "Ctrl", "C-"},
	{ModAlt, "Alt", "M-"},
	{ModShift, "Shift", "S-"},
	{ModSuper, "Super", ""},
}

// String renders the chord the way the overlay shows it, e.g. "Ctrl Shift i".
func (c KeyChord) String() string {
	parts := make([]string, 0, 5)
	for _, m := range modifierNames {
		if c.Modifiers&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	key := c.Key.String()
	if !c.Key.IsChar() {
		key = strings.ToUpper(key[:1]) + key[1:]
	}
	parts = append(parts, key)
	return strings.Join(parts, " ")
}

// TmuxKey renders the chord in tmux key notation, e.g. "C-S-i".
func (c KeyChord) TmuxKey() (string, error) {
	if c.Modifiers&ModSuper != 0 {
		return "", fmt.Errorf("tmux cannot bind Super chords (%s)", c)
	}
	var b strings.Builder
	for _, m := range modifierNames {
		if c.Modifiers&m.mod != 0 {
			b.WriteString(m.tmux)
		}
	}
	switch c.Key.Name {
	case "":
		b.WriteRune(c.Key.Char)
	case "up":
		b.WriteString("Up")
	case "down":
		b.WriteString("Down")
	case "enter":
		b.WriteString("Enter")
	case "delete":
		b.WriteString("DC")
	case "esc":
		b.WriteString("Escape")
	}
	return b.String(), nil
}

// ParseKeyChord parses "Ctrl Shift i", "ctrl+shift+i" or a single key name.
// The plus key itself is written as "+", "Alt +" or "alt++".
func ParseKeyChord(s string) (KeyChord, error) {
	rest := strings.TrimSpace(s)
	plusKey := rest == "+" || strings.HasSuffix(rest, "++") || strings.HasSuffix(rest, " +")
	if plusKey {
		rest = rest[:len(rest)-1]
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == '+'
	})
	if plusKey {
		fields = append(fields, "+")
	}
	if len(fields) == 0 {
		return KeyChord{}, fmt.Errorf("empty key")
	}
	var chord KeyChord
	for _, f := range fields[:len(fields)-1] {
		switch strings.ToLower(f) {
		case "ctrl", "control", "c":
			chord.Modifiers |= ModCtrl
		case "alt", "meta", "m":
			chord.Modifiers |= ModAlt
		case "shift", "s":
			chord.Modifiers |= ModShift
		case "super", "cmd":
			chord.Modifiers |= ModSuper
		default:
			return KeyChord{}, fmt.Errorf("unknown modifier %q in key %q", f, s)
		}
	}
	last := fields[len(fields)-1]
	if utf8.RuneCountInString(last) == 1 {
		r, _ := utf8.DecodeRuneInString(last)
		chord.Key = CharKey(r)
		return chord, nil
	}
	switch strings.ToLower(last) {
	case "up":
		chord.Key = KeyUp
	case "down":
		chord.Key = KeyDown
	case "enter", "return":
		chord.Key = KeyEnter
	case "delete", "del":
		chord.Key = KeyDelete
	case "esc", "escape":
		chord.Key = KeyEsc
	default:
		return KeyChord{}, fmt.Errorf("unknown key %q in %q", last, s)
	}
	return chord, nil
}
