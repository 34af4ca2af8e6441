// Package daemon runs the carousel event loop: topology events from the
// watcher and commands from the control socket are applied to the carousel
// state one at a time, on a single goroutine.
package daemon

import (
	"context"
	"errors"
	"fmt"

	clog "github.com/charmbracelet/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/control"
	"github.com/timvw/pane-carousel/internal/model"
	ppotel "github.com/timvw/pane-carousel/internal/otel"
	"github.com/timvw/pane-carousel/internal/watcher"
)

var tracer = otel.Tracer("pane-carousel/daemon")

// ErrStopped is returned to requests that arrive after the loop has exited.
var ErrStopped = errors.New("daemon stopped")

// Config wires a Daemon.
type Config struct {
	State  *carousel.State
	Events <-chan watcher.Event
	// Source, when set, is read synchronously before mark_pane so the toggle
	// acts on the pane focused right now rather than at the last poll.
	Source watcher.Source
	// Refresh, when set, asks the watcher to poll now. It is called after a
	// bookmark is activated so the new focus is picked up before the next tick.
	Refresh func()
	Logger  *clog.Logger
	Metrics *ppotel.Metrics
}

type call struct {
	ctx   context.Context
	req   control.Request
	reply chan control.Response
}

// Daemon serializes every state operation through Run.
type Daemon struct {
	cfg   Config
	log   *clog.Logger
	calls chan call
	done  chan struct{}
}

func New(cfg Config) *Daemon {
	logger := cfg.Logger
	if logger == nil {
		logger = clog.Default()
	}
	return &Daemon{
		cfg:   cfg,
		log:   logger,
		calls: make(chan call),
		done:  make(chan struct{}),
	}
}

// Run registers the keybindings and processes events until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.done)
	if d.cfg.State == nil {
		return fmt.Errorf("state is required")
	}
	d.cfg.State.Load(ctx)

	events := d.cfg.Events
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				events = nil
				d.log.Debug("watcher stopped")
				continue
			}
			d.apply(ctx, evt)
		case c := <-d.calls:
			c.reply <- d.serve(c.ctx, c.req)
		}
	}
}

// Handle implements control.Handler by handing req to the event loop.
func (d *Daemon) Handle(ctx context.Context, req control.Request) control.Response {
	c := call{ctx: ctx, req: req, reply: make(chan control.Response, 1)}
	select {
	case d.calls <- c:
	case <-d.done:
		return control.Errorf("%v", ErrStopped)
	case <-ctx.Done():
		return control.Errorf("%v", ctx.Err())
	}
	select {
	case resp := <-c.reply:
		return resp
	case <-ctx.Done():
		return control.Errorf("%v", ctx.Err())
	}
}

func (d *Daemon) apply(ctx context.Context, evt watcher.Event) {
	if evt.Err != nil {
		d.log.Debug("topology poll failed", "kind", evt.Kind, "err", evt.Err)
		return
	}
	ev, ok := watcher.Dispatch(evt)
	if !ok {
		return
	}
	if d.cfg.State.Update(ctx, ev) {
		d.log.Debug("view changed", "kind", evt.Kind)
	}
}

func (d *Daemon) refresh() {
	if d.cfg.Refresh != nil {
		d.cfg.Refresh()
	}
}

func (d *Daemon) serve(ctx context.Context, req control.Request) control.Response {
	ctx, span := tracer.Start(ctx, "control."+req.Command,
		trace.WithAttributes(
			attribute.String("carousel.command", req.Command),
			attribute.String("carousel.key", req.Key),
			attribute.Int("carousel.index", req.Index),
		))
	defer span.End()
	d.cfg.Metrics.RecordRequest(ctx, req.Command)

	state := d.cfg.State
	var changed bool
	switch req.Command {
	case control.CommandMarkPane:
		if d.cfg.Source != nil {
			for _, evt := range watcher.Snapshot(ctx, d.cfg.Source) {
				d.apply(ctx, evt)
			}
		}
		changed = state.Pipe(ctx, carousel.PipeMessage{Name: req.Command})
	case control.CommandShowSelf:
		changed = state.Pipe(ctx, carousel.PipeMessage{Name: req.Command})
	case control.CommandKey:
		key, err := model.ParseKeyEvent(req.Key)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return control.Errorf("invalid key: %v", err)
		}
		changed = state.Update(ctx, carousel.KeyPress{Key: key})
		if key.Key == model.KeyEnter || key.Key.IsChar() {
			d.refresh()
		}
	case control.CommandActivate:
		// Out-of-range indices are ignored.
		if state.ActivateIndex(ctx, req.Index) {
			d.refresh()
		}
	case control.CommandState:
	default:
		return control.Errorf("unknown command %q", req.Command)
	}

	view := state.View()
	span.SetAttributes(
		attribute.Bool("carousel.changed", changed),
		attribute.Int("carousel.bookmarks", len(view.Entries)),
	)
	return control.Response{OK: true, Changed: changed, View: &view}
}
