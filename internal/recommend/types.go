// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "context"

// Note: This package has no dependencies on other internal packages to keep
// the scoring logic testable as pure functions over plain records. The
// GraphReader interface allows integration with the graph package without
// creating circular imports.

// RatedEdge is one RATED edge from a user to a movie, with the movie's
// genre set resolved through its BELONGS_TO edges.
type RatedEdge struct {
	// MovieID is the rated movie's identifier.
	MovieID int `json:"movie_id"`

	// Rating is the edge's rating value (1-5).
	Rating float64 `json:"rating"`

	// Genres is the movie's genre names.
	Genres []string `json:"genres"`
}

// Candidate is a movie eligible for scoring: any movie outside the
// requesting user's watched set.
type Candidate struct {
	// MovieID is the candidate movie's identifier.
	MovieID int `json:"movie_id"`

	// Genres is the movie's genre names.
	Genres []string `json:"genres"`
}

// GraphReader is the core-facing view of the Graph Access Layer. The engine
// treats it as an opaque synchronous query executor; retry and fault policy
// live behind this interface, never in the core.
type GraphReader interface {
	// FetchRatedMovies returns every RATED edge for the user, with genres
	// resolved. An unknown user yields an empty slice, not an error.
	FetchRatedMovies(ctx context.Context, username string) ([]RatedEdge, error)

	// FetchAllMoviesExcluding returns all movies whose IDs are not in the
	// excluded set, with genres resolved.
	FetchAllMoviesExcluding(ctx context.Context, excluded map[int]struct{}) ([]Candidate, error)
}

// LikedMovie is a movie the user rated at or above the liked threshold,
// retained with its genre set for corroboration counting.
type LikedMovie struct {
	MovieID int      `json:"movie_id"`
	Genres  []string `json:"genres"`
}

// UserProfile is the per-request preference profile derived from a user's
// rating history. It is request-scoped and never shared across requests.
type UserProfile struct {
	// Username identifies the user the profile was built for.
	Username string `json:"username"`

	// LikedGenres maps each genre reached via a liked movie to the number
	// of liked movies carrying that genre (co-occurrence count).
	LikedGenres map[string]float64 `json:"liked_genres"`

	// LikedMovies holds the liked movies with their genre sets.
	LikedMovies []LikedMovie `json:"liked_movies"`

	// Watched is the set of all movie IDs the user has rated, at any value.
	// Watched movies are never recommended.
	Watched map[int]struct{} `json:"-"`
}

// ScoredCandidate is a transient scoring result produced by one scorer.
type ScoredCandidate struct {
	// MovieID is the candidate movie's identifier.
	MovieID int `json:"movie_id"`

	// Score is the scorer's raw score. Scores are non-negative and
	// comparable within one scorer's run only.
	Score float64 `json:"score"`

	// Paths is the number of contributing paths behind the score: matched
	// genres for the content scorer, shared-genre connections counted
	// across liked movies for the graph scorer.
	Paths int `json:"paths"`
}

// HybridCandidate is a candidate ranked by the hybrid combiner, with the
// per-signal breakdown retained.
type HybridCandidate struct {
	// MovieID is the candidate movie's identifier.
	MovieID int `json:"movie_id"`

	// Score is the combined score in [0, 1].
	Score float64 `json:"score"`

	// ContentComponent is the max-normalized content score in [0, 1].
	// Zero when the candidate was absent from the content result set.
	ContentComponent float64 `json:"content_component"`

	// GraphComponent is the max-normalized graph score in [0, 1].
	// Zero when the candidate was absent from the graph result set.
	GraphComponent float64 `json:"graph_component"`
}
