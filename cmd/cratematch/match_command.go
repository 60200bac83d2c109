package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"cratematch/internal/catalog"
	"cratematch/internal/config"
	"cratematch/internal/export"
	"cratematch/internal/library"
	"cratematch/internal/logging"
	"cratematch/internal/matching"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noCache bool
	var noExport bool
	var research bool

	cmd := &cobra.Command{
		Use:   "match <crate.csv | library-dir>",
		Short: "Match a crate export or a library directory against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tracks, err := loadTracks(args[0], logger)
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracks found in input.")
				return nil
			}

			settings := settingsFromConfig(cfg)
			if research {
				settings.AutoResearch = true
			}

			source, cleanup, err := buildSource(cfg, logger, noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			progressOut := cmd.ErrOrStderr()
			orch, err := matching.NewOrchestrator(settings, source, logger,
				matching.WithProgress(func(p matching.Progress) {
					stage := ""
					if p.Researching {
						stage = " (research)"
					}
					fmt.Fprintf(progressOut, "[%d/%d]%s %s\n",
						p.Completed, p.Total, stage, p.Track.Title)
				}))
			if err != nil {
				return err
			}

			start := time.Now()
			results, runErr := orch.Run(cmd.Context(), tracks)

			if jsonOutput {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				printSummary(cmd, results, time.Since(start))
			}

			if !noExport && cfg.Export.Directory != "" {
				path, err := export.Write(cfg.Export.Directory, cfg.Export.Format, results)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote results to %s\n", path)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit full results as JSON on stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the search response cache")
	cmd.Flags().BoolVar(&noExport, "no-export", false, "Skip writing the export file")
	cmd.Flags().BoolVar(&research, "research", false, "Re-run weak results with an expanded query budget")
	return cmd
}

// loadTracks reads tracks from a crate CSV or, when the argument is a
// directory, from the audio files inside it.
func loadTracks(path string, logger *slog.Logger) ([]matching.Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspect input %q: %w", path, err)
	}
	if info.IsDir() {
		return library.ScanDirectory(path, logger)
	}
	return library.ReadCrate(path)
}

// buildSource assembles the catalog client with its cache and rate limiter.
// A broken cache degrades to uncached operation instead of failing the run.
func buildSource(cfg *config.Config, logger *slog.Logger, noCache bool) (matching.CandidateSource, func(), error) {
	opts := []catalog.Option{
		catalog.WithLogger(logger),
		catalog.WithRateLimit(cfg.Catalog.RequestsPerSecond),
	}
	if cfg.Catalog.TimeoutSeconds > 0 {
		opts = append(opts, catalog.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second,
		}))
	}

	cleanup := func() {}
	if cfg.Catalog.CacheEnabled && !noCache && cfg.Catalog.CachePath != "" {
		ttl := time.Duration(cfg.Catalog.CacheTTLHours) * time.Hour
		cache, err := catalog.OpenCache(cfg.Catalog.CachePath, ttl, logger)
		if err != nil {
			logger.Warn("search cache unavailable, continuing without it", logging.Error(err))
		} else {
			opts = append(opts, catalog.WithCache(cache))
			cleanup = func() { cache.Close() }
		}
	}

	client, err := catalog.New(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return client, cleanup, nil
}

func printSummary(cmd *cobra.Command, results []matching.TrackResult, elapsed time.Duration) {
	rows := make([][]string, 0, len(results))
	var matched, review, failed int
	for _, res := range results {
		status := "unmatched"
		matchTitle := ""
		matchArtists := ""
		score := ""
		switch {
		case res.Failed:
			status = "failed"
			failed++
		case res.Matched:
			status = string(res.Confidence)
			matched++
			matchTitle = res.Best.Title
			matchArtists = formatArtists(res.Best.Artists)
			score = formatScore(res.Best.FinalScore)
		}
		if res.NeedsReview {
			review++
		}
		rows = append(rows, []string{
			res.Track.Title,
			formatArtists(res.Track.Artists),
			status,
			score,
			matchTitle,
			matchArtists,
			yesNo(res.NeedsReview),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Track", "Artists", "Status", "Score", "Match", "Match Artists", "Review"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(out, "%d of %d matched, %d flagged for review, %d failed in %s\n",
		matched, len(results), review, failed, formatDuration(elapsed))
}
