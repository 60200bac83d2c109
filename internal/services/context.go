package services

import "context"

type contextKey string

const (
	trackIDKey contextKey = "track_id"
	runIDKey   contextKey = "run_id"
	queryKey   contextKey = "query"
)

// WithTrackID annotates context with the library track identifier.
func WithTrackID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, trackIDKey, id)
}

// TrackIDFromContext extracts the track identifier if present.
func TrackIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(trackIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with the orchestrator run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithQuery annotates context with the search query being executed.
func WithQuery(ctx context.Context, query string) context.Context {
	if query == "" {
		return ctx
	}
	return context.WithValue(ctx, queryKey, query)
}

// QueryFromContext extracts the search query if present.
func QueryFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(queryKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
