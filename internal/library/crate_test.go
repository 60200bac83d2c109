package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cratematch/internal/matching"
)

func writeCrate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crate.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write crate: %v", err)
	}
	return path
}

func TestReadCrate(t *testing.T) {
	path := writeCrate(t, strings.Join([]string{
		"title,artist,key,year,duration",
		"Breathe,CamelPhat; Cristoph,11A,2017,6:02",
		"Tighter (CamelPhat Remix),HOSH,8A,,",
		",,,,",
		"Opus,Eric Prydz,,2015,540",
	}, "\n"))

	tracks, err := ReadCrate(path)
	if err != nil {
		t.Fatalf("ReadCrate: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("tracks = %d, want 3", len(tracks))
	}

	first := tracks[0]
	if first.Title != "Breathe" {
		t.Fatalf("title = %q", first.Title)
	}
	if len(first.Artists) != 2 || first.Artists[0] != "CamelPhat" || first.Artists[1] != "Cristoph" {
		t.Fatalf("artists = %v", first.Artists)
	}
	if first.Key != "11A" || first.Year != 2017 {
		t.Fatalf("key/year = %q/%d", first.Key, first.Year)
	}
	if first.Duration != 6*time.Minute+2*time.Second {
		t.Fatalf("duration = %v", first.Duration)
	}
	if first.ID == "" {
		t.Fatal("track needs an id")
	}

	second := tracks[1]
	if second.Year != 0 || second.Duration != 0 {
		t.Fatalf("optional fields should stay zero, got %+v", second)
	}

	third := tracks[2]
	if third.Duration != 9*time.Minute {
		t.Fatalf("plain-seconds duration = %v", third.Duration)
	}
}

func TestReadCrateWithoutHeader(t *testing.T) {
	path := writeCrate(t, "Breathe,CamelPhat,11A,2017,362\n")
	tracks, err := ReadCrate(path)
	if err != nil {
		t.Fatalf("ReadCrate: %v", err)
	}
	if len(tracks) != 1 || tracks[0].Title != "Breathe" {
		t.Fatalf("tracks = %+v", tracks)
	}
}

func TestReadCrateErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{"missing title", "title,artist\n,CamelPhat\n", "missing title"},
		{"bad year", "Breathe,CamelPhat,11A,next year,\n", "bad year"},
		{"bad duration", "Breathe,CamelPhat,11A,2017,six minutes\n", "bad duration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCrate(t, tc.content)
			_, err := ReadCrate(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("error = %v, want mention of %q", err, tc.errPart)
			}
		})
	}
}

func TestReadCrateMissingFile(t *testing.T) {
	if _, err := ReadCrate(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestWriteCrateRoundTrip(t *testing.T) {
	tracks := []matching.Track{
		{Title: "Breathe", Artists: []string{"CamelPhat", "Cristoph"}, Key: "11A", Year: 2017, Duration: 6*time.Minute + 2*time.Second},
		{Title: "Tighter", Artists: []string{"HOSH"}},
	}
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCrate(path, tracks); err != nil {
		t.Fatalf("WriteCrate: %v", err)
	}

	got, err := ReadCrate(path)
	if err != nil {
		t.Fatalf("ReadCrate: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d tracks, want 2", len(got))
	}
	first := got[0]
	if first.Title != "Breathe" || len(first.Artists) != 2 || first.Artists[1] != "Cristoph" {
		t.Fatalf("first track = %+v", first)
	}
	if first.Key != "11A" || first.Year != 2017 || first.Duration != 6*time.Minute+2*time.Second {
		t.Fatalf("first track fields = %+v", first)
	}
	if got[1].Year != 0 || got[1].Duration != 0 {
		t.Fatalf("empty optional columns should stay zero, got %+v", got[1])
	}
}
