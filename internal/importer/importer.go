// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package importer loads the movie dataset into the graph store and
// optionally seeds sample users with deterministic ratings so a fresh
// install has something to recommend against.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/logging"
	"github.com/moviegraph/moviegraph/internal/metrics"
	"github.com/moviegraph/moviegraph/internal/models"
)

// Config controls dataset loading.
type Config struct {
	Path      string `koanf:"path" json:"path"`
	SeedUsers bool   `koanf:"seed_users" json:"seed_users"`
	Seed      int64  `koanf:"seed" json:"seed"`
	BatchSize int    `koanf:"batch_size" json:"batch_size"`
}

// DefaultConfig returns the default importer settings. Path is empty: no
// import runs unless one is configured.
func DefaultConfig() Config {
	return Config{
		SeedUsers: true,
		Seed:      42,
		BatchSize: 500,
	}
}

// Target is the store surface the importer writes through.
type Target interface {
	graph.Loader
	CreateUserWithRatings(ctx context.Context, username string, ratings []graph.Rating) error
	ListUsers(ctx context.Context) ([]string, error)
}

// sampleUsers mirrors the demo population the service ships with.
var sampleUsers = []string{"Alice", "Bob", "Charlie", "David", "Emma", "Frank", "Grace", "Henry"}

// Run loads the CSV at cfg.Path, builds indexes, seeds sample users when
// enabled, and logs a verification summary. It is idempotent: re-running
// replaces movies in place and leaves existing users untouched.
func Run(ctx context.Context, target Target, cfg Config) error {
	if cfg.Path == "" {
		logging.Debug().Msg("no dataset configured, skipping import")
		return nil
	}

	movies, err := LoadCSV(cfg.Path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 500
	}
	for start := 0; start < len(movies); start += batch {
		end := start + batch
		if end > len(movies) {
			end = len(movies)
		}
		if err := target.InsertMovies(ctx, movies[start:end]); err != nil {
			return fmt.Errorf("insert movies: %w", err)
		}
	}

	if err := target.CreateIndexes(ctx); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if cfg.SeedUsers {
		if err := seedUsers(ctx, target, movies, cfg.Seed); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	counts, err := target.Counts(ctx)
	if err != nil {
		return fmt.Errorf("verify dataset: %w", err)
	}
	metrics.RecordDatasetCounts(counts.Movies, counts.Users, counts.Ratings)
	logging.Info().
		Int("movies", counts.Movies).
		Int("genres", counts.Genres).
		Int("people", counts.People).
		Int("users", counts.Users).
		Int("ratings", counts.Ratings).
		Msg("dataset import complete")
	return nil
}

// LoadCSV parses a movie dataset file. Expected columns:
// movie_id,title,year,genres,actors,directors with pipe-separated values in
// the multi-valued columns. A header row is detected and skipped.
func LoadCSV(path string) ([]models.Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]models.Movie, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var movies []models.Movie
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if line == 1 && strings.EqualFold(record[0], "movie_id") {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad movie id %q", line, record[0])
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad year %q", line, record[2])
		}
		title := strings.TrimSpace(record[1])
		if title == "" {
			return nil, fmt.Errorf("line %d: empty title", line)
		}

		movies = append(movies, models.Movie{
			ID:        id,
			Title:     title,
			Year:      year,
			Genres:    splitList(record[3]),
			Actors:    splitList(record[4]),
			Directors: splitList(record[5]),
		})
	}

	if len(movies) == 0 {
		return nil, errors.New("dataset contains no movies")
	}
	return movies, nil
}

// splitList splits a pipe-separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// seedUsers creates the sample users, each rating 8 to 15 movies with
// ratings weighted toward 4 and 5. The generator is seeded from config so
// repeated runs on the same dataset produce the same population. Users that
// already exist are left alone.
func seedUsers(ctx context.Context, target Target, movies []models.Movie, seed int64) error {
	existing, err := target.ListUsers(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		present[u] = struct{}{}
	}

	// Only movies with genres are useful rating targets.
	rateable := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if len(m.Genres) > 0 {
			rateable = append(rateable, m)
		}
	}
	if len(rateable) == 0 {
		return errors.New("no movies with genres to rate")
	}

	rng := rand.New(rand.NewSource(seed))
	seeded := 0
	for _, username := range sampleUsers {
		if _, ok := present[username]; ok {
			continue
		}

		count := 8 + rng.Intn(8)
		if count > len(rateable) {
			count = len(rateable)
		}
		picks := rng.Perm(len(rateable))[:count]

		ratings := make([]graph.Rating, 0, count)
		for _, idx := range picks {
			ratings = append(ratings, graph.Rating{
				MovieID: rateable[idx].ID,
				Rating:  sampleRating(rng),
			})
		}

		if err := target.CreateUserWithRatings(ctx, username, ratings); err != nil {
			return fmt.Errorf("create user %s: %w", username, err)
		}
		seeded++
	}

	logging.Info().Int("users", seeded).Msg("sample users seeded")
	return nil
}

// sampleRating draws 3, 4, or 5 with weights 0.2, 0.4, 0.4.
func sampleRating(rng *rand.Rand) float64 {
	switch v := rng.Float64(); {
	case v < 0.2:
		return 3
	case v < 0.6:
		return 4
	default:
		return 5
	}
}
