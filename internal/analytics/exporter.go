package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FileExporter exports usage events to a JSONL file.
// It implements the sdktrace.SpanExporter interface.
type FileExporter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileExporter creates a file exporter that writes events to the given path.
// The file is created if it doesn't exist, and appended to if it does.
// Parent directories are created automatically.
func NewFileExporter(path string) (*FileExporter, error) {
	// Clean the path to prevent path traversal attacks
	cleanPath := filepath.Clean(path)

	// Ensure parent directory exists
	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create analytics directory: %w", err)
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open analytics file: %w", err)
	}
	return &FileExporter{file: file}, nil
}

// ExportSpans writes events to the file in JSONL format.
// Each event is written as a single JSON object on its own line.
func (e *FileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	encoder := json.NewEncoder(e.file)
	for _, span := range spans {
		record := eventToRecord(span)
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	return nil
}

// Shutdown closes the file and releases resources.
func (e *FileExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file != nil {
		err := e.file.Close()
		e.file = nil
		return err
	}
	return nil
}

// EventRecord is the JSON structure for exported usage events.
// This format is designed for easy parsing with jq and other JSON tools.
type EventRecord struct {
	TraceID    string         `json:"trace_id"`
	SpanID     string         `json:"span_id"`
	Name       string         `json:"name"`
	Time       string         `json:"time"`
	DurationMs float64        `json:"duration_ms,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// eventToRecord converts an OpenTelemetry span to our JSON format.
// Usage events are point-in-time spans, so the record is flat: no kind,
// status, or nested span events.
func eventToRecord(span sdktrace.ReadOnlySpan) EventRecord {
	sc := span.SpanContext()

	duration := span.EndTime().Sub(span.StartTime())

	attrs := make(map[string]any)
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}

	return EventRecord{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		Name:       span.Name(),
		Time:       span.StartTime().Format(time.RFC3339Nano),
		DurationMs: float64(duration.Microseconds()) / 1000.0,
		Attributes: attrs,
	}
}
