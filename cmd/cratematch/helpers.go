package main

import (
	"fmt"
	"strings"
	"time"

	"cratematch/internal/config"
	"cratematch/internal/matching"
)

// settingsFromConfig bridges the flat config sections into the matching
// core's settings struct.
func settingsFromConfig(cfg *config.Config) matching.Settings {
	return matching.Settings{
		TitleWeight:  cfg.Matching.TitleWeight,
		ArtistWeight: cfg.Matching.ArtistWeight,

		YearBonus: cfg.Matching.YearBonus,
		KeyBonus:  cfg.Matching.KeyBonus,

		RelatedMixPenalty:  cfg.Matching.RelatedMixPenalty,
		MixConflictPenalty: cfg.Matching.MixConflictPenalty,

		RemixerArtistCredit: cfg.Matching.RemixerArtistCredit,
		MinDistinctiveShare: cfg.Matching.MinDistinctiveShare,

		AcceptThreshold:    cfg.Matching.AcceptThreshold,
		StrongThreshold:    cfg.Matching.StrongThreshold,
		StrongMinQueries:   cfg.Matching.StrongMinQueries,
		ExcellentThreshold: cfg.Matching.ExcellentThreshold,

		HighConfidenceThreshold: cfg.Matching.HighConfidenceThreshold,
		WeakArtistThreshold:     cfg.Matching.WeakArtistThreshold,

		MaxQueries:      cfg.Queries.MaxQueries,
		RemixMaxQueries: cfg.Queries.RemixMaxQueries,
		NgramWindow:     cfg.Queries.NgramWindow,
		ResultsPerQuery: cfg.Queries.ResultsPerQuery,

		TrackTimeout: time.Duration(cfg.Workers.TrackTimeoutSeconds) * time.Second,
		TrackWorkers: cfg.Workers.TrackWorkers,
		FetchWorkers: cfg.Workers.FetchWorkers,

		AutoResearch:       cfg.Workers.AutoResearch,
		ResearchMaxQueries: cfg.Workers.ResearchMaxQueries,
		ResearchTimeout:    time.Duration(cfg.Workers.ResearchTimeoutSeconds) * time.Second,
	}
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

func formatArtists(artists []string) string {
	return strings.Join(artists, "; ")
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
