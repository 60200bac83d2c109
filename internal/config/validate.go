package config

import (
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateQueries(); err != nil {
		return err
	}
	if err := c.validateWorkers(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if math.Abs(m.TitleWeight+m.ArtistWeight-1.0) > 1e-9 {
		return fmt.Errorf("matching.title_weight and matching.artist_weight must sum to 1.0, got %.3f", m.TitleWeight+m.ArtistWeight)
	}
	if m.TitleWeight < 0 || m.ArtistWeight < 0 {
		return fmt.Errorf("matching weights must not be negative")
	}
	if m.AcceptThreshold <= 0 || m.AcceptThreshold > 100 {
		return fmt.Errorf("matching.accept_threshold must be in (0, 100], got %.1f", m.AcceptThreshold)
	}
	if m.StrongThreshold < m.AcceptThreshold {
		return fmt.Errorf("matching.strong_threshold (%.1f) must not be below accept_threshold (%.1f)", m.StrongThreshold, m.AcceptThreshold)
	}
	if m.ExcellentThreshold < m.StrongThreshold {
		return fmt.Errorf("matching.excellent_threshold (%.1f) must not be below strong_threshold (%.1f)", m.ExcellentThreshold, m.StrongThreshold)
	}
	if m.MinDistinctiveShare < 0 || m.MinDistinctiveShare > 1 {
		return fmt.Errorf("matching.min_distinctive_share must be in [0, 1], got %.2f", m.MinDistinctiveShare)
	}
	if m.StrongMinQueries < 1 {
		return fmt.Errorf("matching.strong_min_queries must be at least 1, got %d", m.StrongMinQueries)
	}
	return nil
}

func (c *Config) validateQueries() error {
	q := c.Queries
	if q.MaxQueries < 1 {
		return fmt.Errorf("queries.max_queries must be at least 1, got %d", q.MaxQueries)
	}
	if q.RemixMaxQueries < 1 || q.RemixMaxQueries > q.MaxQueries {
		return fmt.Errorf("queries.remix_max_queries must be in [1, max_queries], got %d", q.RemixMaxQueries)
	}
	if q.NgramWindow < 2 {
		return fmt.Errorf("queries.ngram_window must be at least 2, got %d", q.NgramWindow)
	}
	if q.ResultsPerQuery < 1 {
		return fmt.Errorf("queries.results_per_query must be at least 1, got %d", q.ResultsPerQuery)
	}
	return nil
}

func (c *Config) validateWorkers() error {
	w := c.Workers
	if w.TrackWorkers < 1 {
		return fmt.Errorf("workers.track_workers must be at least 1, got %d", w.TrackWorkers)
	}
	if w.FetchWorkers < 1 {
		return fmt.Errorf("workers.fetch_workers must be at least 1, got %d", w.FetchWorkers)
	}
	if w.TrackTimeoutSeconds < 0 {
		return fmt.Errorf("workers.track_timeout_seconds must not be negative, got %d", w.TrackTimeoutSeconds)
	}
	if w.AutoResearch && w.ResearchMaxQueries < c.Queries.MaxQueries {
		return fmt.Errorf("workers.research_max_queries (%d) must not be below queries.max_queries (%d)", w.ResearchMaxQueries, c.Queries.MaxQueries)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Catalog.TimeoutSeconds < 1 {
		return fmt.Errorf("catalog.timeout_seconds must be at least 1, got %d", c.Catalog.TimeoutSeconds)
	}
	if c.Catalog.RequestsPerSecond <= 0 {
		return fmt.Errorf("catalog.requests_per_second must be positive, got %.2f", c.Catalog.RequestsPerSecond)
	}
	if c.Catalog.CacheEnabled && c.Catalog.CachePath == "" {
		return fmt.Errorf("catalog.cache_path is required when cache_enabled is true")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.Format {
	case "csv", "json":
		return nil
	default:
		return fmt.Errorf("export.format must be csv or json, got %q", c.Export.Format)
	}
}
