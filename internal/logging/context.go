package logging

import (
	"context"
	"log/slog"

	"cratematch/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldTrackID is the standardized structured logging key for library track identifiers.
	FieldTrackID = "track_id"
	// FieldRunID is the standardized structured logging key for orchestrator run identifiers.
	FieldRunID = "run_id"
	// FieldQuery is the standardized structured logging key for the search query in flight.
	FieldQuery = "query"
	// FieldEventType tags records so downstream log tooling can filter by event.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.TrackIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTrackID, id))
	}
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if query, ok := services.QueryFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldQuery, query))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
