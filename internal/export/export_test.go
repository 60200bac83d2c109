package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"cratematch/internal/matching"
)

func sampleResults() []matching.TrackResult {
	return []matching.TrackResult{
		{
			Track:      matching.Track{Title: "Breathe", Artists: []string{"CamelPhat", "Cristoph"}},
			Matched:    true,
			Confidence: matching.ConfidenceHigh,
			Best: &matching.Candidate{
				Title:      "Breathe",
				Artists:    []string{"CamelPhat", "Cristoph"},
				Label:      "Pryda Presents",
				Key:        "F# min",
				URL:        "https://catalog.example/track/1",
				FinalScore: 100,
				IsWinner:   true,
			},
		},
		{
			Track:         matching.Track{Title: "Unknown Obscurity"},
			Confidence:    matching.ConfidenceLow,
			NeedsReview:   true,
			ReviewReasons: []string{matching.ReviewNoCandidates},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2", len(rows))
	}
	matched := rows[1]
	if matched[0] != "Breathe" || matched[2] != "true" || matched[5] != "Breathe" {
		t.Fatalf("matched row = %v", matched)
	}
	if matched[4] != "100.00" {
		t.Fatalf("score cell = %q", matched[4])
	}
	unmatched := rows[2]
	if unmatched[2] != "false" || unmatched[5] != "" {
		t.Fatalf("unmatched row = %v", unmatched)
	}
	if unmatched[12] != matching.ReviewNoCandidates {
		t.Fatalf("review reasons cell = %q", unmatched[12])
	}
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded []matching.TrackResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded = %d results", len(decoded))
	}
	if decoded[0].Best == nil || decoded[0].Best.FinalScore != 100 {
		t.Fatalf("best lost in round trip: %+v", decoded[0].Best)
	}
}

func TestWriteCreatesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, FormatCSV, sampleResults())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".csv") {
		t.Fatalf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat export: %v", err)
	}
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	if _, err := Write(t.TempDir(), "xml", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
