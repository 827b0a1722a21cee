// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/moviegraph/moviegraph/internal/logging"
	"github.com/moviegraph/moviegraph/internal/models"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

// BreakerConfig tunes the store circuit breaker.
type BreakerConfig struct {
	Enabled     bool          `koanf:"enabled" json:"enabled"`
	MaxRequests uint32        `koanf:"max_requests" json:"max_requests"`
	Interval    time.Duration `koanf:"interval" json:"interval"`
	Timeout     time.Duration `koanf:"timeout" json:"timeout"`
	MinRequests uint32        `koanf:"min_requests" json:"min_requests"`
	FailureRate float64       `koanf:"failure_rate" json:"failure_rate"`
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:     true,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.6,
	}
}

// BreakerStore wraps a Store with a circuit breaker. Once the underlying
// store fails often enough the circuit opens and every call returns
// ErrUnavailable immediately, shedding load until the half-open probe
// succeeds. Domain errors (not found, duplicate user) do not count as
// failures.
type BreakerStore struct {
	inner   Store
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerStore wraps inner with a circuit breaker configured by cfg.
func NewBreakerStore(inner Store, cfg BreakerConfig) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "graph-store",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRate
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrUserExists) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}

	return &BreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

// execute runs fn through the breaker, translating breaker rejections into
// ErrUnavailable.
func execute[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("circuit open: %w", ErrUnavailable)
		}
		return zero, err
	}
	value, _ := result.(T)
	return value, nil
}

func (b *BreakerStore) FetchRatedMovies(ctx context.Context, username string) ([]recommend.RatedEdge, error) {
	return execute(b, func() ([]recommend.RatedEdge, error) {
		return b.inner.FetchRatedMovies(ctx, username)
	})
}

func (b *BreakerStore) FetchAllMoviesExcluding(ctx context.Context, excluded map[int]struct{}) ([]recommend.Candidate, error) {
	return execute(b, func() ([]recommend.Candidate, error) {
		return b.inner.FetchAllMoviesExcluding(ctx, excluded)
	})
}

func (b *BreakerStore) ListUsers(ctx context.Context) ([]string, error) {
	return execute(b, func() ([]string, error) {
		return b.inner.ListUsers(ctx)
	})
}

func (b *BreakerStore) UserStats(ctx context.Context, username string) (*models.UserStats, error) {
	return execute(b, func() (*models.UserStats, error) {
		return b.inner.UserStats(ctx, username)
	})
}

func (b *BreakerStore) UserMovies(ctx context.Context, username string) ([]models.RatedMovie, error) {
	return execute(b, func() ([]models.RatedMovie, error) {
		return b.inner.UserMovies(ctx, username)
	})
}

func (b *BreakerStore) RandomMovies(ctx context.Context, n int) ([]models.Movie, error) {
	return execute(b, func() ([]models.Movie, error) {
		return b.inner.RandomMovies(ctx, n)
	})
}

func (b *BreakerStore) MoviesByIDs(ctx context.Context, ids []int) (map[int]models.Movie, error) {
	return execute(b, func() (map[int]models.Movie, error) {
		return b.inner.MoviesByIDs(ctx, ids)
	})
}

func (b *BreakerStore) MovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	return execute(b, func() (*models.Movie, error) {
		return b.inner.MovieByTitle(ctx, title)
	})
}

func (b *BreakerStore) CreateUserWithRatings(ctx context.Context, username string, ratings []Rating) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.CreateUserWithRatings(ctx, username, ratings)
	})
	return err
}

func (b *BreakerStore) UpsertRating(ctx context.Context, username string, movieID int, rating float64) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.UpsertRating(ctx, username, movieID, rating)
	})
	return err
}

func (b *BreakerStore) Close() error {
	return b.inner.Close()
}
