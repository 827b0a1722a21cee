// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Algorithm identifiers accepted by the HTTP layer and used in cache keys.
const (
	AlgorithmContent = "content"
	AlgorithmGraph   = "graph"
	AlgorithmHybrid  = "hybrid"
)

// Engine runs the recommendation algorithms against the graph access layer.
//
// Each request is handled independently and synchronously: the profile is
// built once, the chosen scorer(s) run over the candidate set, and the ranked
// list is returned. The engine holds no mutable cross-request state beyond
// the optional response cache, which is invalidated per user on new ratings.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	graph  GraphReader
	logger zerolog.Logger
	cache  *responseCache
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, graph GraphReader, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("graph reader not set")
	}

	var cache *responseCache
	if cfg.Cache.Enabled {
		cache = newResponseCache(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	}

	return &Engine{
		config: cfg,
		graph:  graph,
		logger: logger.With().Str("component", "recommend").Logger(),
		cache:  cache,
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ContentRecommendations ranks unwatched movies by genre overlap with the
// user's liked-genre profile, truncated to limit.
func (e *Engine) ContentRecommendations(ctx context.Context, username string, limit int) ([]ScoredCandidate, error) {
	limit, err := e.checkLimit(limit)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.cache.getScored(AlgorithmContent, username, limit); ok {
		return cached, nil
	}

	profile, candidates, err := e.prepare(ctx, username)
	if err != nil {
		return nil, err
	}

	ranked, err := TopK(ScoreContent(profile, candidates), limit)
	if err != nil {
		return nil, err
	}

	e.cache.putScored(AlgorithmContent, username, limit, ranked)
	e.logResult(AlgorithmContent, username, len(candidates), len(ranked))
	return ranked, nil
}

// GraphRecommendations ranks unwatched movies by 2-hop shared-genre
// connectivity to the user's liked movies, truncated to limit.
func (e *Engine) GraphRecommendations(ctx context.Context, username string, limit int) ([]ScoredCandidate, error) {
	limit, err := e.checkLimit(limit)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.cache.getScored(AlgorithmGraph, username, limit); ok {
		return cached, nil
	}

	profile, candidates, err := e.prepare(ctx, username)
	if err != nil {
		return nil, err
	}

	ranked, err := TopK(ScoreGraph(profile, candidates), limit)
	if err != nil {
		return nil, err
	}

	e.cache.putScored(AlgorithmGraph, username, limit, ranked)
	e.logResult(AlgorithmGraph, username, len(candidates), len(ranked))
	return ranked, nil
}

// HybridRecommendations runs both scorers over one profile and candidate
// fetch, merges them with the configured weights, and truncates to limit.
func (e *Engine) HybridRecommendations(ctx context.Context, username string, limit int) ([]HybridCandidate, error) {
	limit, err := e.checkLimit(limit)
	if err != nil {
		return nil, err
	}

	if cached, ok := e.cache.getHybrid(username, limit); ok {
		return cached, nil
	}

	profile, candidates, err := e.prepare(ctx, username)
	if err != nil {
		return nil, err
	}

	combined := CombineHybrid(
		ScoreContent(profile, candidates),
		ScoreGraph(profile, candidates),
		e.config.ContentWeight,
		e.config.GraphWeight,
	)

	ranked, err := TopK(combined, limit)
	if err != nil {
		return nil, err
	}

	e.cache.putHybrid(username, limit, ranked)
	e.logResult(AlgorithmHybrid, username, len(candidates), len(ranked))
	return ranked, nil
}

// InvalidateUser drops all cached responses for the user. Call it after any
// rating write so stale recommendations never outlive a taste change.
func (e *Engine) InvalidateUser(username string) {
	e.cache.invalidateUser(username)
}

// checkLimit validates and clamps the requested result size.
func (e *Engine) checkLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit > e.config.MaxLimit {
		limit = e.config.MaxLimit
	}
	return limit, nil
}

// prepare builds the user profile and fetches the candidate set. Store
// failures propagate unchanged; the engine never retries.
func (e *Engine) prepare(ctx context.Context, username string) (*UserProfile, []Candidate, error) {
	rated, err := e.graph.FetchRatedMovies(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch rated movies: %w", err)
	}

	profile, err := BuildProfile(username, rated, e.config.LikedThreshold)
	if err != nil {
		return nil, nil, err
	}

	candidates, err := e.graph.FetchAllMoviesExcluding(ctx, profile.Watched)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch candidates: %w", err)
	}

	return profile, candidates, nil
}

func (e *Engine) logResult(algorithm, username string, candidates, returned int) {
	e.logger.Debug().
		Str("algorithm", algorithm).
		Str("username", username).
		Int("candidates", candidates).
		Int("returned", returned).
		Msg("recommendation complete")
}
