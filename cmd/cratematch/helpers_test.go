package main

import (
	"testing"
	"time"

	"cratematch/internal/config"
	"cratematch/internal/matching"
)

func TestSettingsFromConfigMirrorsDefaults(t *testing.T) {
	cfg := config.Default()
	got := settingsFromConfig(&cfg)
	want := matching.DefaultSettings()

	if got.TitleWeight != want.TitleWeight || got.ArtistWeight != want.ArtistWeight {
		t.Fatalf("weights = %v/%v", got.TitleWeight, got.ArtistWeight)
	}
	if got.AcceptThreshold != want.AcceptThreshold ||
		got.StrongThreshold != want.StrongThreshold ||
		got.ExcellentThreshold != want.ExcellentThreshold {
		t.Fatalf("thresholds = %v/%v/%v", got.AcceptThreshold, got.StrongThreshold, got.ExcellentThreshold)
	}
	if got.MaxQueries != want.MaxQueries || got.RemixMaxQueries != want.RemixMaxQueries {
		t.Fatalf("caps = %d/%d", got.MaxQueries, got.RemixMaxQueries)
	}
	if got.TrackTimeout != want.TrackTimeout {
		t.Fatalf("track timeout = %v, want %v", got.TrackTimeout, want.TrackTimeout)
	}
	if got.ResearchTimeout != 180*time.Second {
		t.Fatalf("research timeout = %v", got.ResearchTimeout)
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatScore(80.88); got != "80.9" {
		t.Fatalf("formatScore = %q", got)
	}
	if got := formatScore(100); got != "100.0" {
		t.Fatalf("formatScore = %q", got)
	}
	if got := formatArtists([]string{"CamelPhat", "Cristoph"}); got != "CamelPhat; Cristoph" {
		t.Fatalf("formatArtists = %q", got)
	}
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Fatal("yesNo mismatch")
	}
}
