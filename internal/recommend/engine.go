// Soundcluster - Song Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/soundcluster

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Storage and metrics are reached only through SetStore and Observer; this
// package imports no storage or metrics code.

// Engine runs the recommendation pipeline. It is safe for concurrent use;
// each Generate call works on its own copy of the intermediate state.
type Engine struct {
	config *Config
	logger zerolog.Logger
	store  SetStore

	rerankers []Reranker
	rrMu      sync.RWMutex

	observer Observer
	now      func() time.Time

	runs        atomic.Int64
	successes   atomic.Int64
	failures    atomic.Int64
	duplicates  atomic.Int64
	lastK       atomic.Int64
	lastLatency atomic.Int64
}

// RunResult describes a completed pipeline run.
type RunResult struct {
	Set        *RecommendationSet
	Selection  Selection
	Clusters   *ClusterModel
	Candidates int
}

// NewEngine creates a new recommendation engine that persists into store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store SetStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if store == nil {
		return nil, errors.New("recommendation set store is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg = cfg.Clone()
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		store:     store,
		rerankers: make([]Reranker, 0),
		now:       time.Now,
	}, nil
}

// SetClock overrides the time source used for recency and set timestamps.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetObserver registers a receiver for pipeline outcomes.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// RegisterReranker adds a reranker to the post-processing pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Generate runs the pipeline over catalog and stores one recommendation set.
// It reports whether a set was stored (or was already stored under the same
// idempotency key). It never stores a partial set and never panics.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Generate(ctx context.Context, catalog []Song, req GenerateRequest) (ok bool) {
	start := time.Now()
	e.runs.Add(1)

	logger := e.logger.With().
		Str("user_id", req.UserID).
		Str("questionnaire_id", req.QuestionnaireID).
		Int("catalog_size", len(catalog)).
		Logger()

	k := 0
	outcome := OutcomeError

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("panic", r).
				Msg("recommendation pipeline panicked")
			ok = false
			outcome = OutcomePanic
		}
		e.finish(outcome, ok, k, time.Since(start))
	}()

	result, err := e.Run(ctx, catalog, req)
	if err != nil {
		if errors.Is(err, ErrEmptyCatalog) || errors.Is(err, ErrNoUsableCatalog) {
			outcome = OutcomeNoCatalog
			logger.Warn().Err(err).Msg("no usable catalog for recommendations")
		} else {
			logger.Error().Err(err).Msg("recommendation pipeline failed")
		}
		return false
	}
	k = result.Clusters.K

	if err := e.store.InsertRecommendationSet(ctx, result.Set); err != nil {
		if errors.Is(err, ErrDuplicateSet) {
			outcome = OutcomeDuplicate
			logger.Info().
				Str("idempotency_key", req.IdempotencyKey).
				Msg("recommendation set already stored")
			return true
		}
		logger.Error().Err(err).Msg("failed to store recommendation set")
		return false
	}

	outcome = OutcomeSuccess
	logger.Info().
		Int("k", k).
		Bool("k_searched", result.Clusters.Searched).
		Str("mood", string(result.Selection.Mood)).
		Str("vibe", string(result.Selection.Vibe)).
		Str("discovery", string(result.Selection.Discovery)).
		Int("candidates", result.Candidates).
		Int("recommendations", len(result.Set.Recommendations)).
		Dur("duration", time.Since(start)).
		Msg("recommendations generated")
	return true
}

// Run executes every pipeline stage without persisting anything. The stages
// do not observe ctx cancellation; it is only handed to the rerankers.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Run(ctx context.Context, catalog []Song, req GenerateRequest) (*RunResult, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	sel := ParseAnswers(req.Answers)
	liked, disliked := SplitPreferences(req.Preferences)

	features, err := ExtractFeatures(catalog)
	if err != nil {
		return nil, err
	}

	weighted := ApplyPreferenceWeights(features.Data, sel.Mood, sel.Vibe)

	clusters, err := ClusterSongs(weighted, len(catalog), e.config.Clustering, e.config.Seed)
	if err != nil {
		return nil, fmt.Errorf("cluster songs: %w", err)
	}

	now := e.now()
	candidates := ScoreSongs(ScoreInput{
		Weighted:  weighted,
		Labels:    clusters.Labels,
		Songs:     features.Songs,
		Liked:     liked,
		Disliked:  disliked,
		Discovery: sel.Discovery,
		Now:       now,
	})

	ranked := e.rank(ctx, candidates)

	return &RunResult{
		Set:        buildSet(req, ranked, now),
		Selection:  sel,
		Clusters:   clusters,
		Candidates: len(candidates),
	}, nil
}

// rank sorts candidates by descending score, keeping input order on ties,
// then applies the registered rerankers and the configured limit.
func (e *Engine) rank(ctx context.Context, candidates []ScoredCandidate) []ScoredCandidate {
	sorted := make([]ScoredCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	limit := e.config.Ranking.Limit
	sorted = e.applyRerankers(ctx, sorted, limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func (e *Engine) applyRerankers(ctx context.Context, items []ScoredCandidate, k int) []ScoredCandidate {
	e.rrMu.RLock()
	rerankers := e.rerankers
	e.rrMu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items, k)
	}

	return items
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func buildSet(req GenerateRequest, ranked []ScoredCandidate, now time.Time) *RecommendationSet {
	recs := make([]Recommendation, 0, len(ranked))
	for _, c := range ranked {
		recs = append(recs, Recommendation{
			SongID:   c.SongID,
			Name:     c.Song.Name,
			Artists:  c.Song.ArtistNames(),
			Score:    c.Score,
			ImageURL: c.Song.ImageURL(),
		})
	}

	return &RecommendationSet{
		UserID:          req.UserID,
		QuestionnaireID: req.QuestionnaireID,
		Timestamp:       now.UTC(),
		Recommendations: recs,
		IdempotencyKey:  req.IdempotencyKey,
	}
}

func (e *Engine) finish(outcome string, ok bool, k int, d time.Duration) {
	if ok {
		e.successes.Add(1)
	} else {
		e.failures.Add(1)
	}
	if outcome == OutcomeDuplicate {
		e.duplicates.Add(1)
	}
	if k > 0 {
		e.lastK.Store(int64(k))
	}
	e.lastLatency.Store(d.Milliseconds())

	if e.observer != nil {
		e.observer.ObservePipeline(outcome, d, k)
	}
}

// GetMetrics returns current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		Runs:        e.runs.Load(),
		Successes:   e.successes.Load(),
		Failures:    e.failures.Load(),
		Duplicates:  e.duplicates.Load(),
		LastK:       e.lastK.Load(),
		LastLatency: e.lastLatency.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
