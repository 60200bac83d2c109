package services_test

import (
	"context"
	"testing"

	"cratematch/internal/services"
)

func TestContextRoundTrips(t *testing.T) {
	ctx := context.Background()

	if _, ok := services.TrackIDFromContext(ctx); ok {
		t.Fatal("expected no track id on empty context")
	}

	ctx = services.WithTrackID(ctx, "t-42")
	ctx = services.WithRunID(ctx, "run-1")
	ctx = services.WithQuery(ctx, "tighter camelphat")

	if id, ok := services.TrackIDFromContext(ctx); !ok || id != "t-42" {
		t.Fatalf("track id round trip failed: %q %v", id, ok)
	}
	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id round trip failed: %q %v", id, ok)
	}
	if q, ok := services.QueryFromContext(ctx); !ok || q != "tighter camelphat" {
		t.Fatalf("query round trip failed: %q %v", q, ok)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := services.WithTrackID(context.Background(), "")
	if _, ok := services.TrackIDFromContext(ctx); ok {
		t.Fatal("empty track id should not be stored")
	}
}
