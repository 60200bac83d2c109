// Package matching implements the core track-to-catalog matching pipeline.
//
// For each library track it generates a priority-ordered list of search
// queries, fetches raw candidates from an external CandidateSource, scores
// them with token-aware fuzzy similarity plus domain bonuses and penalties,
// applies guards that can reject deceptive candidates outright, and selects at
// most one winner per track or flags the track for manual review.
//
// The Orchestrator fans track pipelines across a bounded worker pool with
// cooperative cancellation, per-track time budgets, progress reporting, and an
// optional second research pass over weak results. Scoring and early-exit
// decisions are always applied in query-emission order, so results are
// deterministic for identical inputs and configuration.
package matching
