// Package otel wires OpenTelemetry for the carousel daemon.
//
// Traces and metrics go to an OTLP/HTTP collector taken from the config file or
// OTEL_EXPORTER_OTLP_ENDPOINT. Without an endpoint every instrument is a no-op.
package otel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	serviceName = "pane-carousel"

	// The daemon mostly idles between key presses; a slow export period is
	// enough to see toggles and activations.
	metricInterval = 30 * time.Second
)

// Version is reported as service.version. The cmd package sets it.
var Version = "dev"

// OTELConfig holds the configuration needed by Init.
type OTELConfig struct {
	Endpoint string // OTLP base URL, e.g. "http://localhost:4318"
	Headers  string // key=value pairs separated by commas
}

// Telemetry owns the providers installed by Init and the carousel counters.
type Telemetry struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider

	Metrics *Metrics
}

// collector is a parsed OTLP/HTTP endpoint.
type collector struct {
	host     string
	basePath string
	insecure bool
	headers  map[string]string
}

func parseCollector(endpoint, rawHeaders string) (collector, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return collector{}, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return collector{}, fmt.Errorf("endpoint %q has no host", endpoint)
	}
	c := collector{
		host:     u.Host,
		basePath: strings.TrimRight(u.Path, "/"),
		insecure: u.Scheme == "http",
		headers:  map[string]string{},
	}
	for _, pair := range strings.Split(rawHeaders, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if ok && k != "" {
			c.headers[k] = strings.TrimSpace(v)
		}
	}
	return c, nil
}

func (c collector) traceOptions() []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(c.host),
		otlptracehttp.WithURLPath(c.basePath + "/v1/traces"),
	}
	if c.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(c.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(c.headers))
	}
	return opts
}

func (c collector) metricOptions() []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(c.host),
		otlpmetrichttp.WithURLPath(c.basePath + "/v1/metrics"),
	}
	if c.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(c.headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(c.headers))
	}
	return opts
}

// Init installs OTLP/HTTP providers when cfg.Endpoint is set and creates the
// carousel counters on the global MeterProvider.
func Init(ctx context.Context, cfg OTELConfig) (*Telemetry, error) {
	t := &Telemetry{}
	if cfg.Endpoint != "" {
		if err := t.install(ctx, cfg); err != nil {
			return nil, fmt.Errorf("otel: %w", err)
		}
	}
	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("otel metrics: %w", err)
	}
	t.Metrics = metrics
	return t, nil
}

func (t *Telemetry) install(ctx context.Context, cfg OTELConfig) error {
	c, err := parseCollector(cfg.Endpoint, cfg.Headers)
	if err != nil {
		return err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(Version),
		),
		resource.WithHost(),
	)
	if err != nil {
		return fmt.Errorf("resource: %w", err)
	}

	traceExp, err := otlptracehttp.New(ctx, c.traceOptions()...)
	if err != nil {
		return fmt.Errorf("trace exporter: %w", err)
	}
	metricExp, err := otlpmetrichttp.New(ctx, c.metricOptions()...)
	if err != nil {
		return fmt.Errorf("metric exporter: %w", err)
	}

	t.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	t.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp,
			sdkmetric.WithInterval(metricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(t.tp)
	otel.SetMeterProvider(t.mp)
	return nil
}

// Shutdown flushes pending spans and metrics. It is a no-op on a nil
// Telemetry or one without an endpoint.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
