package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"cratematch/internal/services"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestJSONHandlerShapesRecord(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl, false))

	logger.Info("query executed", String(FieldQuery, "tighter hosh"), Int("candidates", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record["msg"] != "query executed" {
		t.Fatalf("unexpected msg field: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level field: %v", record["level"])
	}
	if record["query"] != "tighter hosh" {
		t.Fatalf("unexpected query field: %v", record["query"])
	}
}

func TestConsoleHandlerIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = NewComponentLogger(logger, "pipeline")

	logger.Warn("fetch failed", String(FieldTrackID, "t-1"), Error(context.DeadlineExceeded))

	line := buf.String()
	for _, fragment := range []string{"WRN", "pipeline", "fetch failed", "track_id=t-1"} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in console line %q", fragment, line)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	ctx := services.WithRunID(context.Background(), "run-9")
	ctx = services.WithTrackID(ctx, "t-3")

	WithContext(ctx, logger).Info("track completed")

	line := buf.String()
	if !strings.Contains(line, "run_id=run-9") || !strings.Contains(line, "track_id=t-3") {
		t.Fatalf("expected context fields in line %q", line)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should never be enabled")
	}
}
