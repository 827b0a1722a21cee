// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package models defines the domain records and API response envelope shared
// across the graph store, the recommendation engine, and the HTTP layer.
//
// All graph entities are fixed-field tagged structs. There is no runtime type
// inspection anywhere in the system; the property graph's node and edge labels
// map one-to-one onto these types.
package models

import "time"

// Movie is a movie node with its outgoing structural edges resolved.
// Movies are immutable once loaded.
type Movie struct {
	// ID is the unique movie identifier from the source dataset.
	ID int `json:"id"`

	// Title is the movie title.
	Title string `json:"title"`

	// Year is the release year.
	Year int `json:"year,omitempty"`

	// Genres holds the names of genres reached via BELONGS_TO edges.
	Genres []string `json:"genres"`

	// Actors holds the names of actors with ACTED_IN edges to this movie.
	Actors []string `json:"actors,omitempty"`

	// Directors holds the names of directors with DIRECTED edges to this movie.
	Directors []string `json:"directors,omitempty"`
}

// RatedMovie is a movie joined with one user's RATED edge.
type RatedMovie struct {
	Movie

	// Rating is the user's rating (1-5). A user has at most one RATED edge
	// per movie; re-rating updates the value in place.
	Rating float64 `json:"rating"`

	// RatedAt is when the RATED edge was created or last updated.
	RatedAt time.Time `json:"rated_at,omitempty"`
}

// UserStats summarizes a user's rating history.
type UserStats struct {
	Username       string   `json:"username"`
	MoviesWatched  int      `json:"movies_watched"`
	AverageRating  float64  `json:"average_rating"`
	FavoriteGenres []string `json:"favorite_genres"`
}

// Recommendation is a ranked movie returned by the content or graph algorithm.
type Recommendation struct {
	MovieID int      `json:"movie_id"`
	Title   string   `json:"title"`
	Year    int      `json:"year,omitempty"`
	Genres  []string `json:"genres"`
	Score   float64  `json:"score"`
}

// HybridRecommendation is a ranked movie returned by the hybrid algorithm,
// with the per-signal breakdown of the combined score.
type HybridRecommendation struct {
	Recommendation

	// ContentComponent is the normalized content contribution in [0, 1].
	ContentComponent float64 `json:"content_component"`

	// GraphComponent is the normalized graph contribution in [0, 1].
	GraphComponent float64 `json:"graph_component"`
}
