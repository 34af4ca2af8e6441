// Package watcher polls the multiplexer for tab and pane topology and turns
// the results into carousel events.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/timvw/pane-carousel/internal/carousel"
	"github.com/timvw/pane-carousel/internal/model"
)

// Kind represents the type of topology carried by an Event.
type Kind int

const (
	KindTabs Kind = iota
	KindPanes
)

func (k Kind) String() string {
	switch k {
	case KindTabs:
		return "tabs"
	case KindPanes:
		return "panes"
	default:
		return "unknown"
	}
}

// Event conveys one poll result or its error.
type Event struct {
	Kind     Kind
	Tabs     []model.TabInfo
	Manifest model.PaneManifest
	Err      error
}

// Source is the part of the multiplexer the watcher reads.
type Source interface {
	ListTabs(ctx context.Context) ([]model.TabInfo, error)
	ListPanes(ctx context.Context) (model.PaneManifest, error)
}

// Options tunes a Watcher.
type Options struct {
	// Interval between polls of each kind. Defaults to one second.
	Interval time.Duration
	// MinInterval is the throttle between fetches of one kind, including
	// fetches forced by Refresh. Defaults to 100ms.
	MinInterval time.Duration
}

// Watcher polls tabs and panes independently, so their events arrive
// interleaved and in no particular order relative to each other.
type Watcher struct {
	src  Source
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	refresh []chan struct{}
	wg      sync.WaitGroup
}

// New starts a watcher. It runs until parent is done or Stop is called.
func New(parent context.Context, src Source, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = 100 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(parent)
	w := &Watcher{
		src:    src,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 16),
	}

	w.start(KindTabs, func(ctx context.Context) Event {
		tabs, err := src.ListTabs(ctx)
		return Event{Kind: KindTabs, Tabs: tabs, Err: err}
	})
	w.start(KindPanes, func(ctx context.Context) Event {
		manifest, err := src.ListPanes(ctx)
		return Event{Kind: KindPanes, Manifest: manifest, Err: err}
	})

	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w
}

// Events returns the channel of poll results. It is closed once every
// poller has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh asks every poller to fetch now instead of at its next tick.
func (w *Watcher) Refresh() {
	for _, ch := range w.refresh {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Stop cancels the watcher. Pollers exit after their current fetch completes.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all pollers have exited and Events is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) start(kind Kind, fetch func(context.Context) Event) {
	refresh := make(chan struct{}, 1)
	w.refresh = append(w.refresh, refresh)
	w.wg.Add(1)
	go w.poll(newThrottle(w.opts.MinInterval), refresh, fetch)
}

func (w *Watcher) poll(th *throttle, refresh <-chan struct{}, fetch func(context.Context) Event) {
	defer w.wg.Done()

	emit := func() bool {
		if !th.wait(w.ctx) {
			return false
		}
		evt := fetch(w.ctx)
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		case <-refresh:
		}
		if !emit() {
			return
		}
	}
}

// Snapshot fetches both halves of the topology synchronously, tabs first.
func Snapshot(ctx context.Context, src Source) []Event {
	tabs, err := src.ListTabs(ctx)
	manifest, perr := src.ListPanes(ctx)
	return []Event{
		{Kind: KindTabs, Tabs: tabs, Err: err},
		{Kind: KindPanes, Manifest: manifest, Err: perr},
	}
}

// Dispatch converts a watcher event into a carousel event. Error events
// are not converted; the caller logs them.
func Dispatch(evt Event) (carousel.Event, bool) {
	if evt.Err != nil {
		return nil, false
	}
	switch evt.Kind {
	case KindTabs:
		return carousel.TabUpdate{Tabs: evt.Tabs}, true
	case KindPanes:
		return carousel.PaneUpdate{Manifest: evt.Manifest}, true
	}
	return nil, false
}
