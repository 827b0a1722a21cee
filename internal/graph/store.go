// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package graph defines the storage contract for the movie graph. The
// recommendation engine sees only the two fetch methods via
// recommend.GraphReader; the rest of the interface serves the web layer
// and the dataset importer.
package graph

import (
	"context"
	"errors"

	"github.com/moviegraph/moviegraph/internal/models"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

// ErrUnavailable indicates the store cannot be reached right now. Callers
// should treat it as transient and surface a 503, not retry inline.
var ErrUnavailable = errors.New("graph store unavailable")

// ErrNotFound indicates a movie or user lookup matched nothing.
var ErrNotFound = errors.New("not found")

// ErrUserExists indicates a create collided with an existing username.
var ErrUserExists = errors.New("user already exists")

// Rating is one user-to-movie rating edge as submitted by a client. Exactly
// one of MovieID or Title identifies the movie; MovieID wins when both are
// set.
type Rating struct {
	MovieID int     `json:"movie_id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Rating  float64 `json:"rating"`
}

// Store is the full movie-graph contract. Implementations must be safe for
// concurrent use.
type Store interface {
	recommend.GraphReader

	// ListUsers returns all usernames in ascending order.
	ListUsers(ctx context.Context) ([]string, error)

	// UserStats aggregates a user's rating activity. Returns ErrNotFound
	// for a user with no ratings.
	UserStats(ctx context.Context, username string) (*models.UserStats, error)

	// UserMovies returns the user's rated movies, rating descending then
	// title ascending.
	UserMovies(ctx context.Context, username string) ([]models.RatedMovie, error)

	// RandomMovies samples n distinct movies.
	RandomMovies(ctx context.Context, n int) ([]models.Movie, error)

	// MoviesByIDs resolves movie metadata for the given IDs. Unknown IDs
	// are skipped, not errors.
	MoviesByIDs(ctx context.Context, ids []int) (map[int]models.Movie, error)

	// MovieByTitle resolves a single movie by exact title.
	MovieByTitle(ctx context.Context, title string) (*models.Movie, error)

	// CreateUserWithRatings creates a user and writes their initial
	// ratings atomically. Fails with ErrUserExists on a duplicate
	// username and ErrNotFound when a rating references an unknown movie.
	CreateUserWithRatings(ctx context.Context, username string, ratings []Rating) error

	// UpsertRating writes or overwrites one rating edge. A user re-rating
	// a movie keeps a single edge with the newest value.
	UpsertRating(ctx context.Context, username string, movieID int, rating float64) error

	// Close releases the store's resources.
	Close() error
}

// DatasetCounts summarizes what a loaded dataset contains.
type DatasetCounts struct {
	Movies  int `json:"movies"`
	Genres  int `json:"genres"`
	People  int `json:"people"`
	Users   int `json:"users"`
	Ratings int `json:"ratings"`
}

// Loader is the write-side contract used by the dataset importer. Both
// bundled stores implement it alongside Store.
type Loader interface {
	// InsertMovies writes movies and their genre, actor, and director
	// links. Existing movie IDs are replaced.
	InsertMovies(ctx context.Context, movies []models.Movie) error

	// CreateIndexes builds the lookup indexes. Safe to call repeatedly.
	CreateIndexes(ctx context.Context) error

	// Counts reports dataset totals for post-load verification.
	Counts(ctx context.Context) (*DatasetCounts, error)
}
