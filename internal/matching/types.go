package matching

import (
	"context"
	"time"
)

// Track is one library entry needing a matching catalog record. It is created
// by an input collaborator before the pipeline starts and never mutated.
type Track struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Artists  []string      `json:"artists,omitempty"`
	Key      string        `json:"key,omitempty"`
	Year     int           `json:"year,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// QueryOrigin identifies the generation strategy that produced a query.
type QueryOrigin string

const (
	QueryOriginPriority QueryOrigin = "priority"
	QueryOriginReverse  QueryOrigin = "reverse"
	QueryOriginNgram    QueryOrigin = "ngram"
	QueryOriginRemix    QueryOrigin = "remix"
	QueryOriginSpecial  QueryOrigin = "special-phrase"
)

// Query is one search-string variant generated for a track. Index is the
// emission position; lower indexes run first.
type Query struct {
	Text   string      `json:"text"`
	Index  int         `json:"index"`
	Origin QueryOrigin `json:"origin"`
}

// GuardVerdict records whether a candidate survived the guard checks.
type GuardVerdict string

const (
	GuardPass   GuardVerdict = "pass"
	GuardReject GuardVerdict = "reject"
)

// Candidate is one catalog record retrieved for a query. The raw fields come
// from the CandidateSource; the derived fields are filled in by the evaluator.
type Candidate struct {
	URL         string   `json:"url,omitempty"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists,omitempty"`
	Label       string   `json:"label,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	BPM         int      `json:"bpm,omitempty"`
	Key         string   `json:"key,omitempty"`
	Genre       string   `json:"genre,omitempty"`

	TitleSim           float64      `json:"title_sim"`
	ArtistSim          float64      `json:"artist_sim"`
	ArtistSharedTokens int          `json:"artist_shared_tokens"`
	BaseScore          float64      `json:"base_score"`
	Bonuses            float64      `json:"bonuses"`
	Penalties          float64      `json:"penalties"`
	FinalScore         float64      `json:"final_score"`
	Guard              GuardVerdict `json:"guard_verdict"`
	RejectReason       string       `json:"reject_reason,omitempty"`
	IsWinner           bool         `json:"is_winner"`

	rejectedBy []guardKind
}

// QueryExecutionRecord is the audit entry for one executed query.
type QueryExecutionRecord struct {
	Query                string        `json:"query"`
	Origin               QueryOrigin   `json:"origin"`
	CandidateCount       int           `json:"candidate_count"`
	Elapsed              time.Duration `json:"elapsed"`
	Error                string        `json:"error,omitempty"`
	IsWinner             bool          `json:"is_winner"`
	WinnerCandidateIndex int           `json:"winner_candidate_index"`
	IsStop               bool          `json:"is_stop"`
}

// Confidence is the coarse classification derived from the final score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Review reasons attached to TrackResults that need a manual look.
const (
	ReviewNoCandidates   = "no-candidates"
	ReviewBelowThreshold = "below-threshold"
	ReviewWeakArtist     = "weak-artist"
	ReviewFailure        = "pipeline-failure"
)

// TrackResult is the complete outcome for one track, including the full audit
// trail of queries and scored candidates. It is the only object that outlives
// a pipeline run.
type TrackResult struct {
	Track         Track                  `json:"track"`
	TrackIndex    int                    `json:"track_index"`
	Matched       bool                   `json:"matched"`
	Best          *Candidate             `json:"best,omitempty"`
	Candidates    []Candidate            `json:"candidates,omitempty"`
	Queries       []QueryExecutionRecord `json:"queries,omitempty"`
	Confidence    Confidence             `json:"confidence"`
	Elapsed       time.Duration          `json:"elapsed"`
	NeedsReview   bool                   `json:"needs_review"`
	ReviewReasons []string               `json:"review_reasons,omitempty"`
	Failed        bool                   `json:"failed"`
	Error         string                 `json:"error,omitempty"`
}

// BestScore returns the final score of the best candidate, or zero when the
// track produced none.
func (r TrackResult) BestScore() float64 {
	if r.Best == nil {
		return 0
	}
	return r.Best.FinalScore
}

// CandidateSource is the single external search capability the core depends
// on. Backend selection, fallback, and caching are opaque to the pipeline; the
// only contract is this method plus bounded latency.
type CandidateSource interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// SourceFunc adapts a plain function to a CandidateSource.
type SourceFunc func(ctx context.Context, query string, limit int) ([]Candidate, error)

func (f SourceFunc) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	return f(ctx, query, limit)
}
