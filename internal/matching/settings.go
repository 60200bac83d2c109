package matching

import "time"

// Settings carries every tunable the matching core consumes. Construct it from
// configuration and pass it in; the core holds no ambient state.
type Settings struct {
	TitleWeight  float64
	ArtistWeight float64

	YearBonus float64
	KeyBonus  float64

	RelatedMixPenalty  float64
	MixConflictPenalty float64

	RemixerArtistCredit float64
	MinDistinctiveShare float64

	AcceptThreshold    float64
	StrongThreshold    float64
	StrongMinQueries   int
	ExcellentThreshold float64

	HighConfidenceThreshold float64
	WeakArtistThreshold     float64

	MaxQueries      int
	RemixMaxQueries int
	NgramWindow     int
	ResultsPerQuery int

	TrackTimeout time.Duration
	TrackWorkers int
	FetchWorkers int

	AutoResearch       bool
	ResearchMaxQueries int
	ResearchTimeout    time.Duration
}

// DefaultSettings returns the empirically tuned defaults. All of these are
// exposed through configuration; only the guard semantics are fixed.
func DefaultSettings() Settings {
	return Settings{
		TitleWeight:             0.55,
		ArtistWeight:            0.45,
		YearBonus:               2,
		KeyBonus:                2,
		RelatedMixPenalty:       1,
		MixConflictPenalty:      8,
		RemixerArtistCredit:     78,
		MinDistinctiveShare:     0.6,
		AcceptThreshold:         70,
		StrongThreshold:         88,
		StrongMinQueries:        5,
		ExcellentThreshold:      90,
		HighConfidenceThreshold: 85,
		WeakArtistThreshold:     50,
		MaxQueries:              24,
		RemixMaxQueries:         10,
		NgramWindow:             3,
		ResultsPerQuery:         10,
		TrackTimeout:            75 * time.Second,
		TrackWorkers:            4,
		FetchWorkers:            3,
		ResearchMaxQueries:      48,
		ResearchTimeout:         180 * time.Second,
	}
}

// withDefaults fills zero-valued fields so partially populated settings stay
// usable in tests and embedding code.
func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.TitleWeight == 0 && s.ArtistWeight == 0 {
		s.TitleWeight = def.TitleWeight
		s.ArtistWeight = def.ArtistWeight
	}
	if s.YearBonus == 0 {
		s.YearBonus = def.YearBonus
	}
	if s.KeyBonus == 0 {
		s.KeyBonus = def.KeyBonus
	}
	if s.RelatedMixPenalty == 0 {
		s.RelatedMixPenalty = def.RelatedMixPenalty
	}
	if s.MixConflictPenalty == 0 {
		s.MixConflictPenalty = def.MixConflictPenalty
	}
	if s.AcceptThreshold == 0 {
		s.AcceptThreshold = def.AcceptThreshold
	}
	if s.StrongThreshold == 0 {
		s.StrongThreshold = def.StrongThreshold
	}
	if s.StrongMinQueries == 0 {
		s.StrongMinQueries = def.StrongMinQueries
	}
	if s.ExcellentThreshold == 0 {
		s.ExcellentThreshold = def.ExcellentThreshold
	}
	if s.HighConfidenceThreshold == 0 {
		s.HighConfidenceThreshold = def.HighConfidenceThreshold
	}
	if s.WeakArtistThreshold == 0 {
		s.WeakArtistThreshold = def.WeakArtistThreshold
	}
	if s.MinDistinctiveShare == 0 {
		s.MinDistinctiveShare = def.MinDistinctiveShare
	}
	if s.RemixerArtistCredit == 0 {
		s.RemixerArtistCredit = def.RemixerArtistCredit
	}
	if s.MaxQueries == 0 {
		s.MaxQueries = def.MaxQueries
	}
	if s.RemixMaxQueries == 0 {
		s.RemixMaxQueries = def.RemixMaxQueries
	}
	if s.NgramWindow == 0 {
		s.NgramWindow = def.NgramWindow
	}
	if s.ResultsPerQuery == 0 {
		s.ResultsPerQuery = def.ResultsPerQuery
	}
	if s.TrackWorkers == 0 {
		s.TrackWorkers = def.TrackWorkers
	}
	if s.FetchWorkers == 0 {
		s.FetchWorkers = def.FetchWorkers
	}
	return s
}

// research returns a copy configured for the exhaustive second pass: more
// queries, a longer budget, no further recursion.
func (s Settings) research() Settings {
	out := s
	if s.ResearchMaxQueries > 0 {
		out.MaxQueries = s.ResearchMaxQueries
		out.RemixMaxQueries = s.ResearchMaxQueries
	}
	if s.ResearchTimeout > 0 {
		out.TrackTimeout = s.ResearchTimeout
	}
	out.AutoResearch = false
	return out
}
