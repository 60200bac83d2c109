package matching

// Selector accumulates evaluated candidate batches across a query sequence
// and tracks the best guard-passing candidate seen so far. It also decides
// when the query loop may stop early.
type Selector struct {
	settings Settings

	best      *Candidate
	bestQuery Query

	queriesRun     int
	candidatesSeen int
}

func NewSelector(settings Settings) *Selector {
	return &Selector{settings: settings.withDefaults()}
}

// Observe records one executed query batch. It returns the index within the
// batch of a candidate that became the new best, or -1 when the best is
// unchanged. Rejected candidates never become the best regardless of score.
func (s *Selector) Observe(query Query, candidates []Candidate) int {
	s.queriesRun++
	s.candidatesSeen += len(candidates)

	improved := -1
	for i := range candidates {
		cand := &candidates[i]
		if cand.Guard != GuardPass {
			continue
		}
		if s.best == nil || cand.FinalScore > s.best.FinalScore {
			clone := *cand
			s.best = &clone
			s.bestQuery = query
			improved = i
		}
	}
	return improved
}

// ShouldStop reports whether the current best justifies skipping the
// remaining queries. An excellent score stops immediately; a strong score
// stops only once enough queries have had a chance to beat it.
func (s *Selector) ShouldStop() bool {
	if s.best == nil {
		return false
	}
	if s.best.FinalScore >= s.settings.ExcellentThreshold {
		return true
	}
	return s.best.FinalScore >= s.settings.StrongThreshold &&
		s.queriesRun >= s.settings.StrongMinQueries
}

// Best returns the best passing candidate observed so far together with the
// query that produced it.
func (s *Selector) Best() (*Candidate, Query, bool) {
	if s.best == nil {
		return nil, Query{}, false
	}
	return s.best, s.bestQuery, true
}

// Accepted reports whether the best candidate clears the accept threshold.
func (s *Selector) Accepted() bool {
	return s.best != nil && s.best.FinalScore >= s.settings.AcceptThreshold
}

func (s *Selector) CandidatesSeen() int { return s.candidatesSeen }

func (s *Selector) QueriesRun() int { return s.queriesRun }

// ReviewReasons explains why the outcome needs human attention. An empty
// slice means the result stands on its own.
func (s *Selector) ReviewReasons() []string {
	var reasons []string
	if s.candidatesSeen == 0 {
		return append(reasons, ReviewNoCandidates)
	}
	if !s.Accepted() {
		reasons = append(reasons, ReviewBelowThreshold)
	}
	if s.best != nil && s.best.ArtistSim < s.settings.WeakArtistThreshold && s.best.ArtistSharedTokens == 0 {
		reasons = append(reasons, ReviewWeakArtist)
	}
	return reasons
}

// Confidence labels the best score using the configured bands.
func (s *Selector) Confidence() Confidence {
	if s.best == nil {
		return ConfidenceLow
	}
	return ConfidenceFor(s.best.FinalScore, s.settings)
}
