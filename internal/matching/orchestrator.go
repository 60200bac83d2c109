package matching

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cratematch/internal/logging"
	"cratematch/internal/services"
)

// Progress is a point-in-time snapshot of a matching run, delivered to the
// configured callback after each finished track.
type Progress struct {
	RunID              string
	Completed          int
	Total              int
	Matched            int
	Unmatched          int
	Failed             int
	Track              Track
	Elapsed            time.Duration
	EstimatedRemaining time.Duration
	Researching        bool
}

// ProgressFunc receives progress snapshots. Callbacks run on worker
// goroutines; a panicking callback is contained and logged, never fatal.
type ProgressFunc func(Progress)

type Option func(*Orchestrator)

func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// Orchestrator fans a track list out over a bounded worker pool of pipelines
// and optionally re-runs weak outcomes with a bigger query budget.
type Orchestrator struct {
	settings Settings
	source   CandidateSource
	logger   *slog.Logger
	progress ProgressFunc
}

func NewOrchestrator(settings Settings, source CandidateSource, logger *slog.Logger, opts ...Option) (*Orchestrator, error) {
	if source == nil {
		return nil, services.Wrap(services.ErrConfiguration, "orchestrator", "new", "candidate source is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		settings: settings.withDefaults(),
		source:   source,
		logger:   logging.NewComponentLogger(logger, "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run matches every track and returns one result per input, index-aligned.
// Cancellation stops scheduling new tracks; already finished results are
// returned alongside the context error. The result slice always has
// len(tracks) entries.
func (o *Orchestrator) Run(ctx context.Context, tracks []Track) ([]TrackResult, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, o.logger)
	log.Info("matching run started",
		logging.Int("tracks", len(tracks)),
		logging.Int("workers", o.settings.TrackWorkers))

	results := make([]TrackResult, len(tracks))
	state := &runState{
		runID:   runID,
		total:   len(tracks),
		started: time.Now(),
		done:    make([]bool, len(tracks)),
	}

	indexes := make([]int, len(tracks))
	for i := range indexes {
		indexes[i] = i
	}
	o.runPass(ctx, tracks, indexes, o.settings, results, state, false)

	if err := ctx.Err(); err != nil {
		o.fillCancelled(tracks, results, state, err)
		return results, err
	}

	if o.settings.AutoResearch {
		weak := make([]int, 0, len(tracks))
		for i, res := range results {
			if res.Failed {
				continue
			}
			if !res.Matched || res.Confidence == ConfidenceLow {
				weak = append(weak, i)
			}
		}
		if len(weak) > 0 {
			log.Info("starting research pass", logging.Int("tracks", len(weak)))
			retried := make([]TrackResult, len(tracks))
			o.runPass(ctx, tracks, weak, o.settings.research(), retried, state, true)
			for _, i := range weak {
				if improved(results[i], retried[i]) {
					results[i] = retried[i]
				}
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
	}

	var matched, unmatched, failed int
	for _, res := range results {
		switch {
		case res.Failed:
			failed++
		case res.Matched:
			matched++
		default:
			unmatched++
		}
	}
	log.Info("matching run finished",
		logging.Int("matched", matched),
		logging.Int("unmatched", unmatched),
		logging.Int("failed", failed),
		logging.Duration("elapsed", time.Since(state.started)))
	return results, nil
}

// improved reports whether a research retry beats the original outcome.
func improved(original, retry TrackResult) bool {
	if retry.Failed {
		return false
	}
	if retry.Matched && !original.Matched {
		return true
	}
	return retry.Matched == original.Matched && retry.BestScore() > original.BestScore()
}

func (o *Orchestrator) runPass(ctx context.Context, tracks []Track, indexes []int, settings Settings, results []TrackResult, state *runState, researching bool) {
	pipeline := NewPipeline(settings, o.source, o.logger)

	workers := settings.TrackWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(indexes) {
		workers = len(indexes)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res := o.runTrack(ctx, pipeline, tracks[idx])
				res.TrackIndex = idx
				results[idx] = res
				state.record(idx, res, researching)
				o.emitProgress(state.snapshot(tracks[idx], researching))
			}
		}()
	}

	for _, idx := range indexes {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

// runTrack isolates a single pipeline run so a panic in scoring or in the
// source cannot take down the batch.
func (o *Orchestrator) runTrack(ctx context.Context, pipeline *Pipeline, track Track) (result TrackResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("track matcher panicked",
				logging.String("track_id", track.ID),
				logging.String("title", track.Title),
				logging.String("panic", fmt.Sprint(r)))
			err := services.Wrap(services.ErrTransient, "orchestrator", "match",
				fmt.Sprintf("panic while matching: %v", r), nil)
			result = pipeline.failedResult(track, err, 0)
		}
	}()
	return pipeline.Run(ctx, track)
}

func (o *Orchestrator) fillCancelled(tracks []Track, results []TrackResult, state *runState, cause error) {
	for i := range results {
		if state.isDone(i) {
			continue
		}
		err := services.Wrap(services.ErrTimeout, "orchestrator", "run", "run cancelled before track was processed", cause)
		results[i] = TrackResult{
			Track:         tracks[i],
			TrackIndex:    i,
			Failed:        true,
			Error:         err.Error(),
			Confidence:    ConfidenceLow,
			NeedsReview:   true,
			ReviewReasons: []string{ReviewFailure},
		}
	}
}

func (o *Orchestrator) emitProgress(snap Progress) {
	if o.progress == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.Warn("progress callback panicked", logging.String("panic", fmt.Sprint(r)))
		}
	}()
	o.progress(snap)
}

// runState aggregates counters across workers. Research retries do not touch
// the counters; they revisit tracks the first pass already counted.
type runState struct {
	mu        sync.Mutex
	runID     string
	total     int
	started   time.Time
	done      []bool
	completed int
	matched   int
	unmatched int
	failed    int
}

func (s *runState) record(idx int, res TrackResult, researching bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[idx] = true
	if researching {
		return
	}
	s.completed++
	switch {
	case res.Failed:
		s.failed++
	case res.Matched:
		s.matched++
	default:
		s.unmatched++
	}
}

func (s *runState) isDone(idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[idx]
}

func (s *runState) snapshot(track Track, researching bool) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.started)
	var remaining time.Duration
	if s.completed > 0 && s.completed < s.total {
		perTrack := elapsed / time.Duration(s.completed)
		remaining = perTrack * time.Duration(s.total-s.completed)
	}
	return Progress{
		RunID:              s.runID,
		Completed:          s.completed,
		Total:              s.total,
		Matched:            s.matched,
		Unmatched:          s.unmatched,
		Failed:             s.failed,
		Track:              track,
		Elapsed:            elapsed,
		EstimatedRemaining: remaining,
		Researching:        researching,
	}
}

