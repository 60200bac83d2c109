package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Matching contains scoring weights, guard tunables, and decision thresholds.
type Matching struct {
	// TitleWeight and ArtistWeight blend the two similarity signals into the
	// base score. They must sum to 1.0.
	TitleWeight  float64 `toml:"title_weight"`
	ArtistWeight float64 `toml:"artist_weight"`

	YearBonus float64 `toml:"year_bonus"`
	KeyBonus  float64 `toml:"key_bonus"`

	// RelatedMixPenalty applies when the requested and offered mix differ but
	// belong to the same family (e.g. Remix vs. Extended Remix).
	// MixConflictPenalty applies when an original was requested and a remix
	// offered, or vice versa.
	RelatedMixPenalty  float64 `toml:"related_mix_penalty"`
	MixConflictPenalty float64 `toml:"mix_conflict_penalty"`

	// RemixerArtistCredit is the artist-similarity floor granted when the
	// candidate artist matches the remixer named in the track title. Catalogs
	// usually credit remixes to the remixer, not the original artist.
	RemixerArtistCredit float64 `toml:"remixer_artist_credit"`

	// MinDistinctiveShare is the minimum share of distinctive title tokens a
	// candidate must share with the track before the subset-match guard
	// rejects it.
	MinDistinctiveShare float64 `toml:"min_distinctive_share"`

	AcceptThreshold    float64 `toml:"accept_threshold"`
	StrongThreshold    float64 `toml:"strong_threshold"`
	StrongMinQueries   int     `toml:"strong_min_queries"`
	ExcellentThreshold float64 `toml:"excellent_threshold"`

	HighConfidenceThreshold float64 `toml:"high_confidence_threshold"`
	WeakArtistThreshold     float64 `toml:"weak_artist_threshold"`
}

// Queries contains query-generation caps.
type Queries struct {
	MaxQueries      int `toml:"max_queries"`
	RemixMaxQueries int `toml:"remix_max_queries"`
	NgramWindow     int `toml:"ngram_window"`
	ResultsPerQuery int `toml:"results_per_query"`
}

// Workers contains concurrency and time-budget settings.
type Workers struct {
	TrackWorkers        int `toml:"track_workers"`
	FetchWorkers        int `toml:"fetch_workers"`
	TrackTimeoutSeconds int `toml:"track_timeout_seconds"`

	AutoResearch           bool `toml:"auto_research"`
	ResearchMaxQueries     int  `toml:"research_max_queries"`
	ResearchTimeoutSeconds int  `toml:"research_timeout_seconds"`
}

// Catalog contains settings for the external search backend.
type Catalog struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`

	CacheEnabled  bool   `toml:"cache_enabled"`
	CachePath     string `toml:"cache_path"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	LogDir string `toml:"log_dir"`
}

// Export contains result-writer settings.
type Export struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory"`
}

// Config encapsulates all configuration values for cratematch.
type Config struct {
	Matching Matching `toml:"matching"`
	Queries  Queries  `toml:"queries"`
	Workers  Workers  `toml:"workers"`
	Catalog  Catalog  `toml:"catalog"`
	Logging  Logging  `toml:"logging"`
	Export   Export   `toml:"export"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cratematch/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Missing files are not an
// error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cratematch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves a possibly ~-prefixed path to an absolute one.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Logging.LogDir, &c.Catalog.CachePath, &c.Export.Directory} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Catalog.BaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.BaseURL), "/")
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	return nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Logging.LogDir, c.Export.Directory}
	if c.Catalog.CacheEnabled && c.Catalog.CachePath != "" {
		dirs = append(dirs, filepath.Dir(c.Catalog.CachePath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}
