// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/models"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()

	err := s.InsertMovies(ctx, []models.Movie{
		{ID: 1, Title: "The Matrix", Year: 1999, Genres: []string{"Action", "Sci-Fi"}, Actors: []string{"Keanu Reeves"}, Directors: []string{"Lana Wachowski"}},
		{ID: 2, Title: "Inception", Year: 2010, Genres: []string{"Action", "Sci-Fi", "Thriller"}, Actors: []string{"Leonardo DiCaprio"}, Directors: []string{"Christopher Nolan"}},
		{ID: 3, Title: "Titanic", Year: 1997, Genres: []string{"Drama", "Romance"}},
		{ID: 4, Title: "Alien", Year: 1979, Genres: []string{"Horror", "Sci-Fi"}},
	})
	if err != nil {
		t.Fatalf("InsertMovies: %v", err)
	}

	err = s.CreateUserWithRatings(ctx, "alice", []graph.Rating{
		{MovieID: 1, Rating: 5.0},
		{MovieID: 2, Rating: 4.5},
		{MovieID: 3, Rating: 2.0},
	})
	if err != nil {
		t.Fatalf("CreateUserWithRatings: %v", err)
	}
	return s
}

func TestFetchRatedMovies(t *testing.T) {
	s := seedStore(t)

	edges, err := s.FetchRatedMovies(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchRatedMovies: %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3", len(edges))
	}
	if edges[0].MovieID != 1 || edges[0].Rating != 5.0 {
		t.Errorf("edges[0] = %+v, want movie 1 rating 5.0", edges[0])
	}
	if len(edges[0].Genres) != 2 {
		t.Errorf("edges[0].Genres = %v, want Action and Sci-Fi", edges[0].Genres)
	}

	// Unrated user yields no edges and no error; the engine owns the
	// unknown-user decision.
	edges, err = s.FetchRatedMovies(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FetchRatedMovies(nobody): %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("len(edges) = %d for unknown user, want 0", len(edges))
	}
}

func TestFetchAllMoviesExcluding(t *testing.T) {
	s := seedStore(t)

	candidates, err := s.FetchAllMoviesExcluding(context.Background(), map[int]struct{}{1: {}, 3: {}})
	if err != nil {
		t.Fatalf("FetchAllMoviesExcluding: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(candidates))
	}
	if candidates[0].MovieID != 2 || candidates[1].MovieID != 4 {
		t.Errorf("candidate IDs = [%d, %d], want [2, 4]", candidates[0].MovieID, candidates[1].MovieID)
	}
}

func TestUserStats(t *testing.T) {
	s := seedStore(t)

	stats, err := s.UserStats(context.Background(), "alice")
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.MoviesWatched != 3 {
		t.Errorf("MoviesWatched = %d, want 3", stats.MoviesWatched)
	}
	wantAvg := (5.0 + 4.5 + 2.0) / 3
	if diff := stats.AverageRating - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AverageRating = %v, want %v", stats.AverageRating, wantAvg)
	}
	// Liked movies 1 and 2 both carry Action and Sci-Fi; Thriller once.
	if len(stats.FavoriteGenres) != 3 {
		t.Fatalf("FavoriteGenres = %v, want 3 entries", stats.FavoriteGenres)
	}
	if stats.FavoriteGenres[0] != "Action" || stats.FavoriteGenres[1] != "Sci-Fi" {
		t.Errorf("FavoriteGenres = %v, want Action, Sci-Fi first (count then name)", stats.FavoriteGenres)
	}

	if _, err := s.UserStats(context.Background(), "nobody"); !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("UserStats(nobody) err = %v, want ErrNotFound", err)
	}
}

func TestUserMoviesOrder(t *testing.T) {
	s := seedStore(t)

	rated, err := s.UserMovies(context.Background(), "alice")
	if err != nil {
		t.Fatalf("UserMovies: %v", err)
	}
	if len(rated) != 3 {
		t.Fatalf("len(rated) = %d, want 3", len(rated))
	}
	for i := 1; i < len(rated); i++ {
		if rated[i].Rating > rated[i-1].Rating {
			t.Fatalf("ratings not descending: %v before %v", rated[i-1].Rating, rated[i].Rating)
		}
	}
	if rated[0].Title != "The Matrix" {
		t.Errorf("rated[0].Title = %q, want The Matrix", rated[0].Title)
	}
}

func TestCreateUserWithRatingsErrors(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	err := s.CreateUserWithRatings(ctx, "alice", []graph.Rating{{MovieID: 1, Rating: 5}})
	if !errors.Is(err, graph.ErrUserExists) {
		t.Fatalf("duplicate user err = %v, want ErrUserExists", err)
	}

	err = s.CreateUserWithRatings(ctx, "bob", []graph.Rating{{MovieID: 999, Rating: 5}})
	if !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("unknown movie err = %v, want ErrNotFound", err)
	}
	// The failed create must not leave a partial user.
	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0] != "alice" {
		t.Fatalf("users = %v, want [alice]", users)
	}
}

func TestCreateUserResolvesTitles(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	err := s.CreateUserWithRatings(ctx, "bob", []graph.Rating{
		{Title: "Alien", Rating: 4.5},
		{Title: "Titanic", Rating: 3.0},
	})
	if err != nil {
		t.Fatalf("CreateUserWithRatings: %v", err)
	}

	edges, err := s.FetchRatedMovies(ctx, "bob")
	if err != nil {
		t.Fatalf("FetchRatedMovies: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("len(edges) = %d, want 2", len(edges))
	}
	if edges[0].MovieID != 3 || edges[1].MovieID != 4 {
		t.Errorf("edge IDs = [%d, %d], want [3, 4]", edges[0].MovieID, edges[1].MovieID)
	}
}

func TestUpsertRatingOverwrites(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	if err := s.UpsertRating(ctx, "alice", 1, 3.0); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}

	edges, err := s.FetchRatedMovies(ctx, "alice")
	if err != nil {
		t.Fatalf("FetchRatedMovies: %v", err)
	}
	if len(edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3 (re-rating keeps one edge)", len(edges))
	}
	if edges[0].MovieID != 1 || edges[0].Rating != 3.0 {
		t.Errorf("edges[0] = %+v, want movie 1 rating 3.0", edges[0])
	}

	if err := s.UpsertRating(ctx, "alice", 999, 3.0); !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("unknown movie err = %v, want ErrNotFound", err)
	}
}

func TestRandomMovies(t *testing.T) {
	s := seedStore(t)

	movies, err := s.RandomMovies(context.Background(), 2)
	if err != nil {
		t.Fatalf("RandomMovies: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("len(movies) = %d, want 2", len(movies))
	}

	// Asking for more than the catalog returns the whole catalog.
	movies, err = s.RandomMovies(context.Background(), 100)
	if err != nil {
		t.Fatalf("RandomMovies: %v", err)
	}
	if len(movies) != 4 {
		t.Fatalf("len(movies) = %d, want 4", len(movies))
	}
}

func TestMovieLookups(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	byID, err := s.MoviesByIDs(ctx, []int{1, 3, 999})
	if err != nil {
		t.Fatalf("MoviesByIDs: %v", err)
	}
	if len(byID) != 2 {
		t.Fatalf("len(byID) = %d, want 2 (unknown ID skipped)", len(byID))
	}
	if byID[1].Title != "The Matrix" {
		t.Errorf("byID[1].Title = %q, want The Matrix", byID[1].Title)
	}

	movie, err := s.MovieByTitle(ctx, "Inception")
	if err != nil {
		t.Fatalf("MovieByTitle: %v", err)
	}
	if movie.ID != 2 {
		t.Errorf("movie.ID = %d, want 2", movie.ID)
	}
	if _, err := s.MovieByTitle(ctx, "No Such Film"); !errors.Is(err, graph.ErrNotFound) {
		t.Fatalf("MovieByTitle miss err = %v, want ErrNotFound", err)
	}
}

func TestCounts(t *testing.T) {
	s := seedStore(t)

	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts.Movies != 4 {
		t.Errorf("Movies = %d, want 4", counts.Movies)
	}
	// Action, Sci-Fi, Thriller, Drama, Romance, Horror.
	if counts.Genres != 6 {
		t.Errorf("Genres = %d, want 6", counts.Genres)
	}
	if counts.Users != 1 {
		t.Errorf("Users = %d, want 1", counts.Users)
	}
	if counts.Ratings != 3 {
		t.Errorf("Ratings = %d, want 3", counts.Ratings)
	}
}
