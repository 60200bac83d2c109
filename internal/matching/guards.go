package matching

import "fmt"

// guardKind identifies which guard rejected a candidate. Only the mix guard is
// relaxable when a query batch offers no better alternative.
type guardKind int

const (
	guardSubset guardKind = iota
	guardMix
	guardSpecial
)

type guardResult struct {
	kind   guardKind
	reason string
}

// checkSubset rejects candidates whose title shares too few distinctive tokens
// with the track. Substring containment is deliberately ignored: a query for
// "Son of Sun" must not be satisfied by a candidate titled merely "Sun", and a
// query for "Sun" must not be satisfied by "Son of Sun", even though both pairs
// score high on raw string similarity.
func checkSubset(trackDistinctive, candidateTokens []string, minShare float64) *guardResult {
	candidateDistinctive := distinctiveTokens(candidateTokens)
	if len(trackDistinctive) == 0 || len(candidateDistinctive) == 0 {
		return nil
	}
	larger := len(trackDistinctive)
	if len(candidateDistinctive) > larger {
		larger = len(candidateDistinctive)
	}
	shared := sharedTokenCount(trackDistinctive, candidateDistinctive)
	share := float64(shared) / float64(larger)
	if share >= minShare {
		return nil
	}
	return &guardResult{
		kind:   guardSubset,
		reason: fmt.Sprintf("subset match: %d of %d distinctive title tokens shared", shared, larger),
	}
}

// checkMix rejects candidates that offer the wrong side of the original/remix
// divide. The evaluator may relax this rejection when a query batch contains
// no alternative that passes every guard.
func checkMix(track, candidate mixInfo) *guardResult {
	if relateMix(track, candidate) != mixRelationConflict {
		return nil
	}
	requested := "original"
	offered := "remix"
	if track.family == mixFamilyRemix {
		requested, offered = "remix", "original"
	}
	return &guardResult{
		kind:   guardMix,
		reason: fmt.Sprintf("mix conflict: %s requested but %s offered", requested, offered),
	}
}

// checkSpecialPhrase requires candidates to carry the track's non-standard
// parenthetical qualifier.
func checkSpecialPhrase(special string, candidateTokens []string) *guardResult {
	if special == "" {
		return nil
	}
	required := distinctiveTokens(tokenize(special))
	if len(required) == 0 {
		return nil
	}
	if sharedTokenCount(required, candidateTokens) == len(required) {
		return nil
	}
	return &guardResult{
		kind:   guardSpecial,
		reason: fmt.Sprintf("missing qualifier %q", special),
	}
}
