package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cratematch/internal/logging"
	"cratematch/internal/services"
)

// Pipeline resolves a single track against the catalog: it generates the
// query plan, prefetches candidate batches concurrently, evaluates them in
// emission order, and selects the winner. Two runs over the same track and
// the same source output produce identical results.
type Pipeline struct {
	settings Settings
	source   CandidateSource
	eval     *Evaluator
	logger   *slog.Logger
}

func NewPipeline(settings Settings, source CandidateSource, logger *slog.Logger) *Pipeline {
	settings = settings.withDefaults()
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		settings: settings,
		source:   source,
		eval:     NewEvaluator(settings),
		logger:   logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run matches one track. It never returns an error; failures are reported
// through the Failed and Error fields so one broken track cannot abort a
// batch.
func (p *Pipeline) Run(ctx context.Context, track Track) TrackResult {
	start := time.Now()
	ctx = services.WithTrackID(ctx, track.ID)
	log := logging.WithContext(ctx, p.logger)

	if strings.TrimSpace(track.Title) == "" {
		err := services.Wrap(services.ErrValidation, "pipeline", "run", "track has no title", nil)
		return p.failedResult(track, err, time.Since(start))
	}

	profile := newTrackProfile(track)
	queries := generateQueries(profile, p.settings)
	selector := NewSelector(p.settings)
	result := TrackResult{Track: track}

	fetcher := newPrefetcher(ctx, p.source, queries, p.settings.FetchWorkers, p.settings.ResultsPerQuery)
	defer fetcher.stop()

	winnerRecord := -1
	winnerBatch := -1
	winnerGlobal := -1

	for i, query := range queries {
		if ctx.Err() != nil {
			break
		}
		if p.settings.TrackTimeout > 0 && time.Since(start) > p.settings.TrackTimeout {
			log.Warn("track budget exhausted, stopping early",
				logging.Int("queries_run", len(result.Queries)),
				logging.Int("queries_planned", len(queries)))
			break
		}

		fetched, waitErr := fetcher.wait(ctx, i)
		if waitErr != nil {
			break
		}

		record := QueryExecutionRecord{
			Query:                query.Text,
			Origin:               query.Origin,
			Elapsed:              fetched.elapsed,
			WinnerCandidateIndex: -1,
		}
		if fetched.err != nil {
			record.Error = fetched.err.Error()
			result.Queries = append(result.Queries, record)
			log.Debug("query failed", logging.String("query", query.Text), logging.Error(fetched.err))
			continue
		}

		evaluated := p.eval.evaluateBatch(profile, fetched.candidates)
		record.CandidateCount = len(evaluated)

		batchStart := len(result.Candidates)
		result.Candidates = append(result.Candidates, evaluated...)

		if improved := selector.Observe(query, evaluated); improved >= 0 {
			winnerRecord = len(result.Queries)
			winnerBatch = improved
			winnerGlobal = batchStart + improved
		}
		if selector.ShouldStop() {
			record.IsStop = true
			result.Queries = append(result.Queries, record)
			log.Debug("early exit on strong match",
				logging.String("query", query.Text),
				logging.Float64("score", selector.best.FinalScore))
			break
		}
		result.Queries = append(result.Queries, record)
	}

	result.Elapsed = time.Since(start)
	result.Matched = selector.Accepted()
	result.Confidence = selector.Confidence()
	result.ReviewReasons = selector.ReviewReasons()
	result.NeedsReview = len(result.ReviewReasons) > 0

	if best, _, ok := selector.Best(); ok && result.Matched {
		winner := *best
		winner.IsWinner = true
		result.Best = &winner
		if winnerGlobal >= 0 && winnerGlobal < len(result.Candidates) {
			result.Candidates[winnerGlobal].IsWinner = true
		}
		if winnerRecord >= 0 && winnerRecord < len(result.Queries) {
			result.Queries[winnerRecord].IsWinner = true
			result.Queries[winnerRecord].WinnerCandidateIndex = winnerBatch
		}
		log.Info("track matched",
			logging.String("title", track.Title),
			logging.Float64("score", winner.FinalScore),
			logging.String("confidence", string(result.Confidence)),
			logging.Int("queries_run", selector.QueriesRun()))
	} else {
		log.Info("track unmatched",
			logging.String("title", track.Title),
			logging.Int("candidates_seen", selector.CandidatesSeen()),
			logging.String("reasons", strings.Join(result.ReviewReasons, ", ")))
	}
	return result
}

func (p *Pipeline) failedResult(track Track, err error, elapsed time.Duration) TrackResult {
	return TrackResult{
		Track:         track,
		Failed:        true,
		Error:         err.Error(),
		Confidence:    ConfidenceLow,
		NeedsReview:   true,
		ReviewReasons: []string{ReviewFailure},
		Elapsed:       elapsed,
	}
}

// fetchOutcome is the stored result of one prefetched query.
type fetchOutcome struct {
	candidates []Candidate
	elapsed    time.Duration
	err        error
}

// prefetcher runs catalog searches for the whole query plan on a small worker
// pool while the consumer applies them strictly in emission order. Results
// are handed over through per-index ready channels so order never depends on
// fetch timing.
type prefetcher struct {
	results []fetchOutcome
	ready   []chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func newPrefetcher(ctx context.Context, source CandidateSource, queries []Query, workers, limit int) *prefetcher {
	ctx, cancel := context.WithCancel(ctx)
	p := &prefetcher{
		results: make([]fetchOutcome, len(queries)),
		ready:   make([]chan struct{}, len(queries)),
		cancel:  cancel,
	}
	for i := range p.ready {
		p.ready[i] = make(chan struct{})
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	for range workers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for idx := range jobs {
				begin := time.Now()
				candidates, err := searchSafely(ctx, source, queries[idx].Text, limit)
				p.results[idx] = fetchOutcome{
					candidates: candidates,
					elapsed:    time.Since(begin),
					err:        err,
				}
				close(p.ready[idx])
			}
		}()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(jobs)
		for i := range queries {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	return p
}

// searchSafely shields the fetch workers from a panicking CandidateSource: a
// panic surfaces as that query's fetch error instead of killing the process.
func searchSafely(ctx context.Context, source CandidateSource, query string, limit int) (candidates []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = services.Wrap(services.ErrTransient, "pipeline", "fetch",
				fmt.Sprintf("candidate source panicked: %v", r), nil)
		}
	}()
	return source.Search(ctx, query, limit)
}

// wait blocks until the result for the given emission index is available or
// the context is cancelled.
func (p *prefetcher) wait(ctx context.Context, idx int) (fetchOutcome, error) {
	select {
	case <-p.ready[idx]:
		return p.results[idx], nil
	case <-ctx.Done():
		return fetchOutcome{}, ctx.Err()
	}
}

// stop cancels outstanding fetches and waits for the workers to drain.
func (p *prefetcher) stop() {
	p.cancel()
	p.wg.Wait()
}
