package matching

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubSource serves canned candidate batches keyed by query text. Safe for
// concurrent use; the prefetcher calls it from several goroutines.
type stubSource struct {
	mu      sync.Mutex
	byQuery map[string][]Candidate
	fail    map[string]error
	calls   int
}

func (s *stubSource) Search(_ context.Context, query string, _ int) ([]Candidate, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err, ok := s.fail[query]; ok {
		return nil, err
	}
	return s.byQuery[query], nil
}

func (s *stubSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func exactCandidate() Candidate {
	return Candidate{
		URL:     "https://catalog.example/track/1",
		Title:   "Breathe",
		Artists: []string{"CamelPhat"},
		Label:   "Defected",
	}
}

func TestPipelineMatchesAndMarksWinner(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {exactCandidate()},
	}}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{ID: "t1", Title: "Breathe", Artists: []string{"CamelPhat"}})
	if res.Failed {
		t.Fatalf("unexpected failure: %s", res.Error)
	}
	if !res.Matched {
		t.Fatal("expected a match")
	}
	if res.Best == nil || !res.Best.IsWinner {
		t.Fatalf("best = %+v, want winner", res.Best)
	}
	if res.Best.FinalScore < 90 {
		t.Fatalf("exact candidate scored %v, want at least 90", res.Best.FinalScore)
	}
	if res.Confidence != ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", res.Confidence)
	}
	if res.NeedsReview {
		t.Fatalf("unexpected review flags %v", res.ReviewReasons)
	}

	winners := 0
	for _, cand := range res.Candidates {
		if cand.IsWinner {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("winner count = %d, want exactly 1", winners)
	}
	if len(res.Queries) == 0 {
		t.Fatal("expected query records")
	}
	first := res.Queries[0]
	if !first.IsWinner || first.WinnerCandidateIndex != 0 {
		t.Fatalf("first record = %+v, want winner at index 0", first)
	}
	if !first.IsStop {
		t.Fatal("excellent score should mark the stop record")
	}
}

func TestPipelineEarlyExitSkipsRemainingQueries(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {exactCandidate()},
	}}
	p := NewPipeline(Settings{FetchWorkers: 1}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	planned := GenerateQueries(Track{Title: "Breathe", Artists: []string{"CamelPhat"}}, Settings{})
	if len(res.Queries) >= len(planned) && len(planned) > 1 {
		t.Fatalf("ran %d of %d planned queries, expected early exit", len(res.Queries), len(planned))
	}
	stops := 0
	for _, rec := range res.Queries {
		if rec.IsStop {
			stops++
		}
	}
	if stops != 1 {
		t.Fatalf("stop records = %d, want exactly 1", stops)
	}
}

func TestPipelineWinnerOnLaterQuery(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {{Title: "Son of Breathe", Artists: []string{"CamelPhat"}}},
		"Breathe":           {exactCandidate()},
	}}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	if !res.Matched {
		t.Fatal("expected a match from the second query")
	}
	if res.Queries[0].IsWinner {
		t.Fatal("first record must not carry the winner")
	}
	var winnerRecords int
	for _, rec := range res.Queries {
		if rec.IsWinner {
			winnerRecords++
		}
	}
	if winnerRecords != 1 {
		t.Fatalf("winner records = %d, want 1", winnerRecords)
	}
	// The first batch's rejected candidate keeps its audit entry.
	if len(res.Candidates) < 2 {
		t.Fatalf("candidates = %d, want both batches retained", len(res.Candidates))
	}
	if res.Candidates[0].Guard != GuardReject {
		t.Fatal("subset candidate should be rejected but retained")
	}
}

func TestPipelineNoCandidates(t *testing.T) {
	source := &stubSource{}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	if res.Matched || res.Failed {
		t.Fatalf("result = %+v, want clean unmatched", res)
	}
	if !res.NeedsReview || len(res.ReviewReasons) != 1 || res.ReviewReasons[0] != ReviewNoCandidates {
		t.Fatalf("review reasons = %v, want [no-candidates]", res.ReviewReasons)
	}
	if res.Confidence != ConfidenceLow {
		t.Fatalf("confidence = %s, want low", res.Confidence)
	}
}

func TestPipelineAllCandidatesRejected(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Sun Somebody": {{Title: "Son of Sun", Artists: []string{"Somebody"}}},
	}}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Sun", Artists: []string{"Somebody"}})
	if res.Matched {
		t.Fatal("a guard-rejected candidate must never match")
	}
	found := false
	for _, reason := range res.ReviewReasons {
		if reason == ReviewBelowThreshold {
			found = true
		}
	}
	if !found {
		t.Fatalf("review reasons = %v, want below-threshold", res.ReviewReasons)
	}
}

func TestPipelineFetchFailureContinues(t *testing.T) {
	source := &stubSource{
		byQuery: map[string][]Candidate{"Breathe": {exactCandidate()}},
		fail:    map[string]error{"Breathe CamelPhat": errors.New("upstream 503")},
	}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	if !res.Matched {
		t.Fatal("expected match despite the failed query")
	}
	failed := res.Queries[0]
	if failed.Error == "" || !strings.Contains(failed.Error, "upstream 503") {
		t.Fatalf("first record error = %q, want the annotated failure", failed.Error)
	}
	if failed.CandidateCount != 0 {
		t.Fatalf("failed query candidate count = %d, want 0", failed.CandidateCount)
	}
}

func TestPipelineEmptyTitleFailsFast(t *testing.T) {
	source := &stubSource{}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(context.Background(), Track{Title: "   "})
	if !res.Failed {
		t.Fatal("expected failure for an untitled track")
	}
	if len(res.ReviewReasons) != 1 || res.ReviewReasons[0] != ReviewFailure {
		t.Fatalf("review reasons = %v, want [pipeline-failure]", res.ReviewReasons)
	}
	if source.callCount() != 0 {
		t.Fatalf("source called %d times for an untitled track", source.callCount())
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {exactCandidate()},
	}}
	p := NewPipeline(Settings{}, source, nil)

	res := p.Run(ctx, Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	if res.Failed {
		t.Fatalf("cancellation must finalize cleanly, got failure %s", res.Error)
	}
	if res.Matched {
		t.Fatal("no query ran, so no match is possible")
	}
}

func TestPipelineTimeBudget(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {exactCandidate()},
	}}
	p := NewPipeline(Settings{TrackTimeout: time.Nanosecond}, source, nil)

	res := p.Run(context.Background(), Track{Title: "Breathe", Artists: []string{"CamelPhat"}})
	if res.Failed {
		t.Fatalf("budget expiry must finalize cleanly, got failure %s", res.Error)
	}
	if len(res.Queries) != 0 {
		t.Fatalf("recorded %d queries after an expired budget", len(res.Queries))
	}
}

func TestPipelineDeterministic(t *testing.T) {
	source := &stubSource{byQuery: map[string][]Candidate{
		"Breathe CamelPhat": {{Title: "Son of Breathe", Artists: []string{"CamelPhat"}}},
		"Breathe":           {exactCandidate()},
	}}
	track := Track{Title: "Breathe", Artists: []string{"CamelPhat"}}

	first := NewPipeline(Settings{}, source, nil).Run(context.Background(), track)
	second := NewPipeline(Settings{}, source, nil).Run(context.Background(), track)

	if first.Matched != second.Matched || first.BestScore() != second.BestScore() {
		t.Fatalf("runs diverge: %v/%v vs %v/%v",
			first.Matched, first.BestScore(), second.Matched, second.BestScore())
	}
	if len(first.Queries) != len(second.Queries) {
		t.Fatalf("query counts diverge: %d vs %d", len(first.Queries), len(second.Queries))
	}
	for i := range first.Queries {
		if first.Queries[i].Query != second.Queries[i].Query {
			t.Fatalf("query order diverges at %d", i)
		}
	}
}
