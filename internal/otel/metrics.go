package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "pane-carousel"

// Metrics holds the carousel's counters. A nil *Metrics is valid and records
// nothing, so callers never need to check.
type Metrics struct {
	BookmarksToggled metric.Int64Counter
	BookmarksEvicted metric.Int64Counter
	TopologyIngested metric.Int64Counter
	FocusChanges     metric.Int64Counter
	Activations      metric.Int64Counter
	ControlRequests  metric.Int64Counter
}

// NewMetrics creates the instruments on the global MeterProvider. They are
// no-ops until Init registers a real provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.BookmarksToggled, err = meter.Int64Counter("carousel.bookmarks.toggled",
		metric.WithDescription("Bookmarks added or removed by mark_pane"))
	if err != nil {
		return nil, err
	}

	m.BookmarksEvicted, err = meter.Int64Counter("carousel.bookmarks.evicted",
		metric.WithDescription("Oldest bookmarks dropped because the list was full"))
	if err != nil {
		return nil, err
	}

	m.TopologyIngested, err = meter.Int64Counter("carousel.topology.ingested",
		metric.WithDescription("Tab and pane topology notifications ingested"))
	if err != nil {
		return nil, err
	}

	m.FocusChanges, err = meter.Int64Counter("carousel.focus.changes",
		metric.WithDescription("Recomputations that changed the focused pane"))
	if err != nil {
		return nil, err
	}

	m.Activations, err = meter.Int64Counter("carousel.activations",
		metric.WithDescription("Bookmarks activated (focus switched to a bookmarked pane)"))
	if err != nil {
		return nil, err
	}

	m.ControlRequests, err = meter.Int64Counter("carousel.control.requests",
		metric.WithDescription("Control socket requests by command"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordToggle records a bookmark add or removal, plus the eviction it caused.
func (m *Metrics) RecordToggle(ctx context.Context, added, evicted bool) {
	if m == nil {
		return
	}
	action := "removed"
	if added {
		action = "added"
	}
	m.BookmarksToggled.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	if evicted {
		m.BookmarksEvicted.Add(ctx, 1)
	}
}

// RecordTopology records an ingested notification of the given kind ("tabs" or "panes").
func (m *Metrics) RecordTopology(ctx context.Context, kind string, focusChanged bool) {
	if m == nil {
		return
	}
	m.TopologyIngested.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	if focusChanged {
		m.FocusChanges.Add(ctx, 1)
	}
}

// RecordActivation records a focus switch to a bookmarked pane.
func (m *Metrics) RecordActivation(ctx context.Context) {
	if m == nil {
		return
	}
	m.Activations.Add(ctx, 1)
}

// RecordRequest records a control socket request.
func (m *Metrics) RecordRequest(ctx context.Context, command string) {
	if m == nil {
		return
	}
	m.ControlRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("command", command)))
}
