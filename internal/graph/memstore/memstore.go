// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package memstore provides an in-memory graph.Store. It backs the test
// suite and the no-database dev mode; it holds the same movie/user/rating
// shape as the DuckDB store but keeps everything in maps under one lock.
package memstore

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/models"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

type ratingEdge struct {
	rating  float64
	ratedAt time.Time
}

// Store is an in-memory movie graph. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	movies  map[int]models.Movie
	ratings map[string]map[int]ratingEdge
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		movies:  make(map[int]models.Movie),
		ratings: make(map[string]map[int]ratingEdge),
	}
}

// FetchRatedMovies implements recommend.GraphReader.
func (s *Store) FetchRatedMovies(_ context.Context, username string) ([]recommend.RatedEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.ratings[username]
	if !ok {
		return nil, nil
	}

	edges := make([]recommend.RatedEdge, 0, len(user))
	for movieID, edge := range user {
		movie, ok := s.movies[movieID]
		if !ok {
			continue
		}
		edges = append(edges, recommend.RatedEdge{
			MovieID: movieID,
			Rating:  edge.rating,
			Genres:  movie.Genres,
		})
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].MovieID < edges[j].MovieID })
	return edges, nil
}

// FetchAllMoviesExcluding implements recommend.GraphReader.
func (s *Store) FetchAllMoviesExcluding(_ context.Context, excluded map[int]struct{}) ([]recommend.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]recommend.Candidate, 0, len(s.movies))
	for id, movie := range s.movies {
		if _, skip := excluded[id]; skip {
			continue
		}
		candidates = append(candidates, recommend.Candidate{MovieID: id, Genres: movie.Genres})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].MovieID < candidates[j].MovieID })
	return candidates, nil
}

func (s *Store) ListUsers(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.ratings))
	for username := range s.ratings {
		users = append(users, username)
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) UserStats(_ context.Context, username string) (*models.UserStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.ratings[username]
	if !ok || len(user) == 0 {
		return nil, fmt.Errorf("user %q: %w", username, graph.ErrNotFound)
	}

	var sum float64
	genreCounts := make(map[string]int)
	for movieID, edge := range user {
		sum += edge.rating
		if edge.rating >= 4.0 {
			if movie, ok := s.movies[movieID]; ok {
				for _, g := range movie.Genres {
					genreCounts[g]++
				}
			}
		}
	}

	return &models.UserStats{
		Username:       username,
		MoviesWatched:  len(user),
		AverageRating:  sum / float64(len(user)),
		FavoriteGenres: topGenres(genreCounts, 5),
	}, nil
}

func (s *Store) UserMovies(_ context.Context, username string) ([]models.RatedMovie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.ratings[username]
	if !ok {
		return nil, nil
	}

	rated := make([]models.RatedMovie, 0, len(user))
	for movieID, edge := range user {
		movie, ok := s.movies[movieID]
		if !ok {
			continue
		}
		rated = append(rated, models.RatedMovie{
			Movie:   movie,
			Rating:  edge.rating,
			RatedAt: edge.ratedAt,
		})
	}
	sort.Slice(rated, func(i, j int) bool {
		if rated[i].Rating != rated[j].Rating {
			return rated[i].Rating > rated[j].Rating
		}
		return rated[i].Title < rated[j].Title
	})
	return rated, nil
}

func (s *Store) RandomMovies(_ context.Context, n int) ([]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int, 0, len(s.movies))
	for id := range s.movies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	if n > len(ids) {
		n = len(ids)
	}
	movies := make([]models.Movie, 0, n)
	for _, id := range ids[:n] {
		movies = append(movies, s.movies[id])
	}
	return movies, nil
}

func (s *Store) MoviesByIDs(_ context.Context, ids []int) (map[int]models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]models.Movie, len(ids))
	for _, id := range ids {
		if movie, ok := s.movies[id]; ok {
			out[id] = movie
		}
	}
	return out, nil
}

func (s *Store) MovieByTitle(_ context.Context, title string) (*models.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, movie := range s.movies {
		if movie.Title == title {
			m := movie
			return &m, nil
		}
	}
	return nil, fmt.Errorf("movie %q: %w", title, graph.ErrNotFound)
}

func (s *Store) CreateUserWithRatings(_ context.Context, username string, ratings []graph.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ratings[username]; exists {
		return fmt.Errorf("user %q: %w", username, graph.ErrUserExists)
	}

	// Resolve everything before writing so a bad movie reference leaves
	// no partial user behind.
	resolved := make(map[int]ratingEdge, len(ratings))
	now := time.Now().UTC()
	for _, r := range ratings {
		id := r.MovieID
		if id == 0 && r.Title != "" {
			found := false
			for movieID, movie := range s.movies {
				if movie.Title == r.Title {
					id, found = movieID, true
					break
				}
			}
			if !found {
				return fmt.Errorf("movie %q: %w", r.Title, graph.ErrNotFound)
			}
		}
		if _, ok := s.movies[id]; !ok {
			return fmt.Errorf("movie %d: %w", id, graph.ErrNotFound)
		}
		resolved[id] = ratingEdge{rating: r.Rating, ratedAt: now}
	}

	s.ratings[username] = resolved
	return nil
}

func (s *Store) UpsertRating(_ context.Context, username string, movieID int, rating float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.movies[movieID]; !ok {
		return fmt.Errorf("movie %d: %w", movieID, graph.ErrNotFound)
	}
	user, ok := s.ratings[username]
	if !ok {
		user = make(map[int]ratingEdge)
		s.ratings[username] = user
	}
	user[movieID] = ratingEdge{rating: rating, ratedAt: time.Now().UTC()}
	return nil
}

func (s *Store) Close() error { return nil }

// InsertMovies implements graph.Loader.
func (s *Store) InsertMovies(_ context.Context, movies []models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, movie := range movies {
		s.movies[movie.ID] = movie
	}
	return nil
}

// CreateIndexes implements graph.Loader. Maps need none.
func (s *Store) CreateIndexes(_ context.Context) error { return nil }

// Counts implements graph.Loader.
func (s *Store) Counts(_ context.Context) (*graph.DatasetCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genres := make(map[string]struct{})
	people := make(map[string]struct{})
	for _, movie := range s.movies {
		for _, g := range movie.Genres {
			genres[g] = struct{}{}
		}
		for _, a := range movie.Actors {
			people[a] = struct{}{}
		}
		for _, d := range movie.Directors {
			people[d] = struct{}{}
		}
	}

	ratings := 0
	for _, user := range s.ratings {
		ratings += len(user)
	}

	return &graph.DatasetCounts{
		Movies:  len(s.movies),
		Genres:  len(genres),
		People:  len(people),
		Users:   len(s.ratings),
		Ratings: ratings,
	}, nil
}

// topGenres returns the top n genres by count, count descending then name
// ascending.
func topGenres(counts map[string]int, n int) []string {
	type genreCount struct {
		name  string
		count int
	}
	ranked := make([]genreCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, genreCount{name, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].name < ranked[j].name
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, 0, n)
	for _, g := range ranked[:n] {
		out = append(out, g.name)
	}
	return out
}
