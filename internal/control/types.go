package control

import (
	"fmt"
	"strings"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/model"
)

const (
	CommandMarkPane = carousel.MessageMarkPane
	CommandShowSelf = carousel.MessageShowSelf
	CommandKey      = "key"
	CommandActivate = "activate"
	CommandState    = "state"
)

// Request is one control command sent to the daemon.
type Request struct {
	Command string `json:"command"`
	// Key is the key name for CommandKey, e.g. "down" or "3".
	Key string `json:"key,omitempty"`
	// Index is the bookmark index for CommandActivate.
	Index int `json:"index,omitempty"`
}

// Response carries the outcome and, on success, the current view.
type Response struct {
	OK      bool           `json:"ok"`
	Changed bool           `json:"changed,omitempty"`
	Error   string         `json:"error,omitempty"`
	View    *carousel.View `json:"view,omitempty"`
}

func (r Request) Validate() error {
	switch r.Command {
	case CommandMarkPane, CommandShowSelf, CommandState:
		return nil
	case CommandKey:
		if strings.TrimSpace(r.Key) == "" {
			return fmt.Errorf("key is required")
		}
		if _, err := model.ParseKeyEvent(r.Key); err != nil {
			return fmt.Errorf("invalid key: %w", err)
		}
		return nil
	case CommandActivate:
		if r.Index < 0 {
			return fmt.Errorf("invalid index %d", r.Index)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", r.Command)
	}
}

// Errorf builds a failed response.
func Errorf(format string, args ...any) Response {
	return Response{Error: fmt.Sprintf(format, args...)}
}
