package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/timvw/pane-carousel/internal/carousel"
)

const (
	titleText   = "CAROUSEL"
	noItemsText = "NO ITEMS."
	helpLong    = "Help: <ENTER> - focus selected, <0-9> - focus index, <↓↑> - navigate, <Del> - delete selected, <ESC> - hide"
	helpShort   = "<ENTER/0-9> - focus selected/index, <↓↑/ESC> - navigate/hide, <Del> - delete"
	ellipsis    = "..."
)

// line is one rendered row and its visible width.
type line struct {
	text  string
	width int
}

// render lays out the overlay and centers it in width x height.
func render(v carousel.View, width, height int, st styles, status string) string {
	title := line{st.title.Render(titleText), ansi.StringWidth(titleText)}
	explanation := renderExplanation(v, width, st)
	help := renderHelp(width, st)

	longest := max(title.width, help.width)
	for _, l := range explanation {
		longest = max(longest, l.width)
	}
	items := renderItems(v, width, st)
	for _, l := range items {
		longest = max(longest, l.width)
	}

	var rows []string
	rows = append(rows, strings.Repeat(" ", max(longest-title.width, 0)/2)+title.text, "")
	for _, l := range explanation {
		rows = append(rows, l.text)
	}
	rows = append(rows, "")
	for _, l := range items {
		rows = append(rows, l.text)
	}
	rows = append(rows, "", help.text)
	if status != "" {
		rows = append(rows, "", st.err.Render(ansi.Truncate(status, max(width, 1), ellipsis)))
	}

	block := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if width <= 0 || height <= 0 {
		return block
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// renderExplanation returns the two chord hints, each in its long form when
// it fits the width and its short form otherwise.
func renderExplanation(v carousel.View, width int, st styles) []line {
	fit := func(chord, long, short string) line {
		key := "<" + chord + ">"
		if w := ansi.StringWidth("Press " + key + long); width <= 0 || w <= width {
			return line{st.dim.Render("Press ") + st.shortcut.Render(key) + st.dim.Render(long), w}
		}
		return line{st.shortcut.Render(key) + st.dim.Render(short), ansi.StringWidth(key + short)}
	}
	return []line{
		fit(v.MarkPaneKey, " while focused on any pane to bookmark it.", " bookmark focused pane."),
		fit(v.ShowSelfKey, " to show this list.", " show this list."),
	}
}

func renderHelp(width int, st styles) line {
	text := helpLong
	if width > 0 && ansi.StringWidth(helpLong) > width {
		text = helpShort
	}
	return line{highlightKeys(text, st), ansi.StringWidth(text)}
}

// highlightKeys colors every <...> group.
func highlightKeys(s string, st styles) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '>')
		if end < 0 {
			break
		}
		b.WriteString(st.dim.Render(s[:open]))
		b.WriteString(st.shortcut.Render(s[open : open+end+1]))
		s = s[open+end+1:]
	}
	b.WriteString(st.dim.Render(s))
	return b.String()
}

// renderItems renders "<i> title" rows, truncating titles to the width.
func renderItems(v carousel.View, width int, st styles) []line {
	if len(v.Entries) == 0 {
		return []line{{st.dim.Render(noItemsText), ansi.StringWidth(noItemsText)}}
	}
	out := make([]line, 0, len(v.Entries))
	for _, e := range v.Entries {
		prefix := fmt.Sprintf("<%d> ", e.Index)
		title := e.Title
		if avail := width - ansi.StringWidth(prefix); width > 0 && ansi.StringWidth(title) > avail {
			title = ansi.Truncate(title, max(avail, 0), ellipsis)
		}
		plain := prefix + title
		var text string
		switch {
		case e.Index == v.Selected:
			text = st.selected.Render(plain)
		case e.Focused:
			text = st.index.Render(prefix) + st.focused.Render(title)
		default:
			text = st.index.Render(prefix) + st.text.Render(title)
		}
		out = append(out, line{text, ansi.StringWidth(plain)})
	}
	return out
}
