// Package analytics records usage events as OpenTelemetry spans.
//
// Events carry the deployment domain and account id from the analytics
// configuration, plus a per-process session id. When tracking is disabled
// the tracker is a no-op with zero overhead, so call sites never need to
// check whether it is active.
package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/log"
)

const serviceName = "armature"

// Tracker emits usage events for a single deployment.
// It wraps the underlying TracerProvider and provides event helpers
// that attach the session attributes automatically.
type Tracker struct {
	provider  *sdktrace.TracerProvider
	tracer    trace.Tracer
	enabled   bool
	domain    string
	accountID int64
	sessionID string
}

// New creates and configures a usage tracker.
// If tracking is disabled in the config, a no-op tracker is returned
// that has zero overhead.
func New(cfg config.AnalyticsConfig) (*Tracker, error) {
	sessionID := uuid.NewString()

	if !cfg.Enabled {
		// Return no-op tracker for zero overhead when disabled
		noopProvider := noop.NewTracerProvider()
		log.Debug(log.CatAnalytics, "Usage tracking disabled")
		return &Tracker{
			provider:  nil,
			tracer:    noopProvider.Tracer("noop"),
			enabled:   false,
			domain:    cfg.Domain,
			accountID: cfg.AccountID,
			sessionID: sessionID,
		}, nil
	}

	// Create exporter based on config
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "file", "":
		path := cfg.FilePath
		if path == "" {
			path = config.DefaultAnalyticsFilePath()
		}
		if path == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exporter, err = NewFileExporter(path)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "otlp":
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = "localhost:4317"
		}
		exporter, err = otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	case "none":
		// No exporter, but tracking enabled for internal correlation
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	// Every span carries the deployment identity
	// We use resource.NewSchemaless to avoid schema version conflicts with resource.Default()
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String(AttrDomain, cfg.Domain),
		attribute.Int64(AttrAccountID, cfg.AccountID),
	)

	// Create sampler - use parent-based sampling with ratio
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(sampleRate),
	)

	// Build provider options
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(opts...)

	// Set as global provider
	otel.SetTracerProvider(provider)

	log.Info(log.CatAnalytics, "Usage tracking enabled",
		"domain", cfg.Domain,
		"account", cfg.AccountID,
		"exporter", cfg.Exporter,
		"session", sessionID)

	return &Tracker{
		provider:  provider,
		tracer:    provider.Tracer(serviceName),
		enabled:   true,
		domain:    cfg.Domain,
		accountID: cfg.AccountID,
		sessionID: sessionID,
	}, nil
}

// Enabled returns whether usage tracking is active.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// SessionID returns the per-process session identifier.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Domain returns the deployment identifier events are attributed to.
func (t *Tracker) Domain() string {
	return t.domain
}

// AccountID returns the numeric account events are billed to.
func (t *Tracker) AccountID() int64 {
	return t.accountID
}

// Event records a point-in-time usage event.
// The session id, domain, and account id are attached automatically.
// Safe to call on a disabled tracker.
func (t *Tracker) Event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	base := []attribute.KeyValue{
		attribute.String(AttrSessionID, t.sessionID),
		attribute.String(AttrDomain, t.domain),
		attribute.Int64(AttrAccountID, t.accountID),
	}
	_, span := t.tracer.Start(ctx, name, trace.WithAttributes(append(base, attrs...)...))
	span.End()
}

// SessionStart records the start of an interactive session.
func (t *Tracker) SessionStart(ctx context.Context) {
	t.Event(ctx, EventSessionStart)
	log.Debug(log.CatAnalytics, "Session started", "session", t.sessionID)
}

// ScreenView records that a screen became visible.
func (t *Tracker) ScreenView(ctx context.Context, screenID string) {
	t.Event(ctx, EventScreenView, attribute.String(AttrScreenID, screenID))
}

// Search records a submitted search and how many results it returned.
func (t *Tracker) Search(ctx context.Context, query string, results int) {
	t.Event(ctx, EventSearch,
		attribute.String(AttrQuery, query),
		attribute.Int(AttrResultCount, results),
	)
}

// NavToggle records a navigation rail collapse or expand.
func (t *Tracker) NavToggle(ctx context.Context, collapsed bool) {
	t.Event(ctx, EventNavToggle, attribute.Bool(AttrNavCollapsed, collapsed))
}

// Shutdown records the session end, flushes pending events, and shuts
// down the provider. It should be called when the application is
// shutting down to ensure all events are exported before exit.
func (t *Tracker) Shutdown(ctx context.Context) error {
	if t.enabled {
		t.Event(ctx, EventSessionEnd)
	}
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}
