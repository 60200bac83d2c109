package config

const (
	defaultTitleWeight             = 0.55
	defaultArtistWeight            = 0.45
	defaultYearBonus               = 2.0
	defaultKeyBonus                = 2.0
	defaultRelatedMixPenalty       = 1.0
	defaultMixConflictPenalty      = 8.0
	defaultRemixerArtistCredit     = 78.0
	defaultMinDistinctiveShare     = 0.6
	defaultAcceptThreshold         = 70.0
	defaultStrongThreshold         = 88.0
	defaultStrongMinQueries        = 5
	defaultExcellentThreshold      = 90.0
	defaultHighConfidenceThreshold = 85.0
	defaultWeakArtistThreshold     = 50.0

	defaultMaxQueries      = 24
	defaultRemixMaxQueries = 10
	defaultNgramWindow     = 3
	defaultResultsPerQuery = 10

	defaultTrackWorkers           = 4
	defaultFetchWorkers           = 3
	defaultTrackTimeoutSeconds    = 75
	defaultResearchMaxQueries     = 48
	defaultResearchTimeoutSeconds = 180

	defaultCatalogBaseURL        = "https://api.beatsearch.dev/v1"
	defaultCatalogTimeoutSeconds = 15
	defaultRequestsPerSecond     = 4.0
	defaultCachePath             = "~/.cache/cratematch/search_cache.db"
	defaultCacheTTLHours         = 24 * 14

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
	defaultLogDir    = "~/.local/share/cratematch/logs"

	defaultExportFormat    = "csv"
	defaultExportDirectory = "~/.local/share/cratematch/results"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Matching: Matching{
			TitleWeight:             defaultTitleWeight,
			ArtistWeight:            defaultArtistWeight,
			YearBonus:               defaultYearBonus,
			KeyBonus:                defaultKeyBonus,
			RelatedMixPenalty:       defaultRelatedMixPenalty,
			MixConflictPenalty:      defaultMixConflictPenalty,
			RemixerArtistCredit:     defaultRemixerArtistCredit,
			MinDistinctiveShare:     defaultMinDistinctiveShare,
			AcceptThreshold:         defaultAcceptThreshold,
			StrongThreshold:         defaultStrongThreshold,
			StrongMinQueries:        defaultStrongMinQueries,
			ExcellentThreshold:      defaultExcellentThreshold,
			HighConfidenceThreshold: defaultHighConfidenceThreshold,
			WeakArtistThreshold:     defaultWeakArtistThreshold,
		},
		Queries: Queries{
			MaxQueries:      defaultMaxQueries,
			RemixMaxQueries: defaultRemixMaxQueries,
			NgramWindow:     defaultNgramWindow,
			ResultsPerQuery: defaultResultsPerQuery,
		},
		Workers: Workers{
			TrackWorkers:           defaultTrackWorkers,
			FetchWorkers:           defaultFetchWorkers,
			TrackTimeoutSeconds:    defaultTrackTimeoutSeconds,
			AutoResearch:           false,
			ResearchMaxQueries:     defaultResearchMaxQueries,
			ResearchTimeoutSeconds: defaultResearchTimeoutSeconds,
		},
		Catalog: Catalog{
			BaseURL:           defaultCatalogBaseURL,
			TimeoutSeconds:    defaultCatalogTimeoutSeconds,
			RequestsPerSecond: defaultRequestsPerSecond,
			CacheEnabled:      true,
			CachePath:         defaultCachePath,
			CacheTTLHours:     defaultCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			LogDir: defaultLogDir,
		},
		Export: Export{
			Format:    defaultExportFormat,
			Directory: defaultExportDirectory,
		},
	}
}
