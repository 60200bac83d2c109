package matching

import "strings"

// Evaluator scores raw candidates against a track. It is pure and performs no
// I/O; identical inputs always produce identical scored candidates.
type Evaluator struct {
	settings Settings
	sim      *similarityScorer
}

func NewEvaluator(settings Settings) *Evaluator {
	return &Evaluator{settings: settings.withDefaults(), sim: newSimilarityScorer()}
}

// Evaluate scores a single raw candidate. Convenience wrapper around the batch
// form; the batch form is preferred inside the pipeline because the mix-guard
// relaxation needs to see a whole query's candidates at once.
func (e *Evaluator) Evaluate(track Track, candidate Candidate) Candidate {
	return e.evaluate(newTrackProfile(track), candidate)
}

// EvaluateBatch scores one query's worth of raw candidates and applies the
// mix-guard relaxation: a mix-conflicted candidate is un-rejected (keeping its
// penalty) when the batch offers no candidate that passes every guard.
func (e *Evaluator) EvaluateBatch(track Track, candidates []Candidate) []Candidate {
	return e.evaluateBatch(newTrackProfile(track), candidates)
}

func (e *Evaluator) evaluateBatch(profile trackProfile, candidates []Candidate) []Candidate {
	scored := make([]Candidate, len(candidates))
	anyPass := false
	for i, candidate := range candidates {
		scored[i] = e.evaluate(profile, candidate)
		if scored[i].Guard == GuardPass {
			anyPass = true
		}
	}
	if anyPass {
		return scored
	}

	// No candidate survived every guard. If the best-scoring candidate was
	// rejected only for the mix conflict, let it through: the caller asked for
	// a mix this query simply cannot offer.
	bestIdx := -1
	for i := range scored {
		if len(scored[i].rejectedBy) != 1 || scored[i].rejectedBy[0] != guardMix {
			continue
		}
		if bestIdx < 0 || scored[i].FinalScore > scored[bestIdx].FinalScore {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		scored[bestIdx].Guard = GuardPass
		scored[bestIdx].RejectReason = ""
		scored[bestIdx].rejectedBy = nil
	}
	return scored
}

func (e *Evaluator) evaluate(profile trackProfile, candidate Candidate) Candidate {
	out := candidate
	out.Guard = GuardPass
	out.IsWinner = false
	out.rejectedBy = nil

	candidateTitle := CleanTitle(candidate.Title)
	candidateTokens := tokenize(candidateTitle)
	candidateArtists := strings.Join(candidate.Artists, " ")
	candidateArtistTokens := tokenize(candidateArtists)

	out.TitleSim = e.sim.similarity(profile.title, candidateTitle)
	out.ArtistSim, out.ArtistSharedTokens = e.artistSimilarity(profile, candidateArtists, candidateArtistTokens)

	if len(profile.artistTokens) == 0 {
		// Title-only track: the artist signal carries no information, so the
		// title similarity stands alone.
		out.BaseScore = out.TitleSim
	} else {
		out.BaseScore = e.settings.TitleWeight*out.TitleSim + e.settings.ArtistWeight*out.ArtistSim
	}

	out.Bonuses = 0
	if profile.year > 0 && yearFromDate(candidate.ReleaseDate) == profile.year {
		out.Bonuses += e.settings.YearBonus
	}
	if profile.key != "" && keysMatch(profile.key, candidate.Key) {
		out.Bonuses += e.settings.KeyBonus
	}

	candidateMix := detectMix(candidateTitle)
	out.Penalties = 0
	switch relateMix(profile.mix, candidateMix) {
	case mixRelationRelated:
		out.Penalties += e.settings.RelatedMixPenalty
	case mixRelationConflict:
		out.Penalties += e.settings.MixConflictPenalty
	}

	out.FinalScore = out.BaseScore + out.Bonuses - out.Penalties

	reasons := make([]string, 0, 2)
	for _, guard := range []*guardResult{
		checkSubset(profile.distinctive, candidateTokens, e.settings.MinDistinctiveShare),
		checkMix(profile.mix, candidateMix),
		checkSpecialPhrase(profile.special, candidateTokens),
	} {
		if guard == nil {
			continue
		}
		out.rejectedBy = append(out.rejectedBy, guard.kind)
		reasons = append(reasons, guard.reason)
	}
	if len(reasons) > 0 {
		out.Guard = GuardReject
		out.RejectReason = strings.Join(reasons, "; ")
	}
	return out
}

// artistSimilarity compares track and candidate artists. On remix requests the
// candidate artist is allowed to be the remixer named in the title: catalogs
// credit remixes to the remixer, so a matching remixer earns a similarity
// floor instead of the near-zero score a literal comparison would give.
func (e *Evaluator) artistSimilarity(profile trackProfile, candidateArtists string, candidateArtistTokens []string) (float64, int) {
	shared := sharedTokenCount(distinctiveTokens(profile.artistTokens), candidateArtistTokens)
	if len(profile.artistTokens) == 0 || len(candidateArtistTokens) == 0 {
		return 0, shared
	}
	score := e.sim.similarity(profile.joinedArtists(), candidateArtists)
	if profile.remixFlagged() && profile.mix.remixer != "" {
		remixerTokens := tokenize(profile.mix.remixer)
		if sharedTokenCount(remixerTokens, candidateArtistTokens) > 0 {
			if credit := e.settings.RemixerArtistCredit; score < credit {
				score = credit
			}
			if shared == 0 {
				shared = sharedTokenCount(remixerTokens, candidateArtistTokens)
			}
		}
	}
	return score, shared
}
