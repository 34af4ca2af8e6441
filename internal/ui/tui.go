// Package ui is the overlay shown in the multiplexer popup. It holds no
// bookmark state: every key press is forwarded to the daemon and the view it
// returns is rendered.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/control"
)

// Requester sends one control request to the daemon.
type Requester interface {
	Do(ctx context.Context, req control.Request) (control.Response, error)
}

// TUI runs the overlay program.
type TUI struct {
	Client Requester
	Theme  Theme
}

type responseMsg struct {
	resp control.Response
	err  error
	// quit closes the overlay once the daemon has replied.
	quit bool
}

type tuiModel struct {
	client Requester
	ctx    context.Context
	keys   keyMap
	styles styles

	view   carousel.View
	loaded bool
	status string

	width  int
	height int
}

func (t *TUI) Run(ctx context.Context) error {
	m := newModel(ctx, t.Client, t.Theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newModel(ctx context.Context, client Requester, theme Theme) *tuiModel {
	if theme == (Theme{}) {
		theme = DarkTheme()
	}
	return &tuiModel{
		client: client,
		ctx:    ctx,
		keys:   defaultKeyMap(),
		styles: newStyles(theme),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.send(control.Request{Command: control.CommandState}, false)
}

func (m *tuiModel) send(req control.Request, quit bool) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		resp, err := client.Do(ctx, req)
		return responseMsg{resp: resp, err: err, quit: quit}
	}
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case responseMsg:
		if msg.resp.View != nil {
			m.view = *msg.resp.View
			m.loaded = true
		}
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		if msg.quit {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m, m.sendKey("up", false)
	case key.Matches(msg, m.keys.Down):
		return m, m.sendKey("down", false)
	case key.Matches(msg, m.keys.Delete):
		return m, m.sendKey("delete", false)
	case key.Matches(msg, m.keys.Enter):
		if len(m.view.Entries) == 0 {
			return m, nil
		}
		return m, m.sendKey("enter", true)
	case key.Matches(msg, m.keys.Hide):
		return m, m.sendKey("esc", true)
	case key.Matches(msg, m.keys.Digit):
		d := int(msg.String()[0] - '0')
		if d >= len(m.view.Entries) {
			return m, nil
		}
		return m, m.sendKey(msg.String(), true)
	}
	return m, nil
}

func (m *tuiModel) sendKey(name string, quit bool) tea.Cmd {
	return m.send(control.Request{Command: control.CommandKey, Key: name}, quit)
}

func (m *tuiModel) View() string {
	if !m.loaded && m.status == "" {
		return ""
	}
	return render(m.view, m.width, m.height, m.styles, m.status)
}
