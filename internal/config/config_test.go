package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	cfg := Default()
	if err := toml.Unmarshal([]byte(sampleConfig), &cfg); err != nil {
		t.Fatalf("sample config must parse: %v", err)
	}
	if cfg.Matching.TitleWeight != defaultTitleWeight {
		t.Fatalf("sample title_weight %v differs from default %v", cfg.Matching.TitleWeight, defaultTitleWeight)
	}
	if cfg.Queries.MaxQueries != defaultMaxQueries {
		t.Fatalf("sample max_queries %v differs from default %v", cfg.Queries.MaxQueries, defaultMaxQueries)
	}
	if cfg.Workers.AutoResearch {
		t.Fatal("sample config should leave auto_research disabled")
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[matching]",
		"title_weight = 0.6",
		"artist_weight = 0.4",
		"[workers]",
		"track_workers = 8",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Matching.TitleWeight != 0.6 || cfg.Matching.ArtistWeight != 0.4 {
		t.Fatalf("overrides not applied: %+v", cfg.Matching)
	}
	if cfg.Workers.TrackWorkers != 8 {
		t.Fatalf("worker override not applied: %d", cfg.Workers.TrackWorkers)
	}
	// Untouched sections keep defaults.
	if cfg.Queries.MaxQueries != defaultMaxQueries {
		t.Fatalf("default not preserved: %d", cfg.Queries.MaxQueries)
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[matching]\ntitle_weight = 0.9\nartist_weight = 0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for weights not summing to 1.0")
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	cfg := Default()
	cfg.Matching.StrongThreshold = cfg.Matching.ExcellentThreshold + 5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when strong threshold exceeds excellent threshold")
	}

	cfg = Default()
	cfg.Queries.RemixMaxQueries = cfg.Queries.MaxQueries + 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when remix cap exceeds the general cap")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory in test environment")
	}
	expanded, err := expandPath("~/crates")
	if err != nil {
		t.Fatalf("expand path: %v", err)
	}
	if expanded != filepath.Join(home, "crates") {
		t.Fatalf("unexpected expansion: %q", expanded)
	}
}
