// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package duckstore implements graph.Store on DuckDB. The movie graph is
// mapped onto relational tables: movies plus link tables for genres, actors,
// and directors, and a ratings table keyed (username, movie_id) so a
// re-rating replaces the old edge instead of adding a second one.
package duckstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/logging"
	"github.com/moviegraph/moviegraph/internal/models"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

// Config holds the DuckDB connection settings.
type Config struct {
	Path      string `koanf:"path" json:"path"`
	Threads   int    `koanf:"threads" json:"threads"`
	MaxMemory string `koanf:"max_memory" json:"max_memory"`
}

// DefaultConfig returns the default database settings.
func DefaultConfig() Config {
	return Config{
		Path:      "data/moviegraph.db",
		Threads:   0, // 0 means all CPUs
		MaxMemory: "1GB",
	}
}

// Store is a DuckDB-backed movie graph. Safe for concurrent use; DuckDB
// serializes writers internally.
type Store struct {
	conn *sql.DB
}

// New opens (or creates) the database at cfg.Path and initializes the
// schema.
func New(cfg Config) (*Store, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." && cfg.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, threads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// DuckDB performs best with a small pool; one writer at a time.
	conn.SetMaxOpenConns(threads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	s := &Store{conn: conn}
	if err := s.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", threads).Msg("database opened")
	return s, nil
}

func (s *Store) initSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id INTEGER PRIMARY KEY,
			title VARCHAR NOT NULL,
			year INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id INTEGER NOT NULL,
			genre VARCHAR NOT NULL,
			PRIMARY KEY (movie_id, genre)
		)`,
		`CREATE TABLE IF NOT EXISTS movie_actors (
			movie_id INTEGER NOT NULL,
			person VARCHAR NOT NULL,
			PRIMARY KEY (movie_id, person)
		)`,
		`CREATE TABLE IF NOT EXISTS movie_directors (
			movie_id INTEGER NOT NULL,
			person VARCHAR NOT NULL,
			PRIMARY KEY (movie_id, person)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			username VARCHAR PRIMARY KEY,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			username VARCHAR NOT NULL,
			movie_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			rated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (username, movie_id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}

// unavailable wraps a driver-level failure so callers can map it to a 503.
// Domain errors never pass through here.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, graph.ErrUnavailable)
}

// FetchRatedMovies implements recommend.GraphReader. Genre rows are folded
// into one edge per movie in Go; DuckDB has list aggregation but scanning
// flat rows keeps the driver surface simple.
func (s *Store) FetchRatedMovies(ctx context.Context, username string) ([]recommend.RatedEdge, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT r.movie_id, r.rating, mg.genre
		FROM ratings r
		LEFT JOIN movie_genres mg ON mg.movie_id = r.movie_id
		WHERE r.username = ?
		ORDER BY r.movie_id`, username)
	if err != nil {
		return nil, unavailable("fetch rated movies", err)
	}
	defer rows.Close()

	var edges []recommend.RatedEdge
	for rows.Next() {
		var (
			movieID int
			rating  float64
			genre   sql.NullString
		)
		if err := rows.Scan(&movieID, &rating, &genre); err != nil {
			return nil, unavailable("scan rated movie", err)
		}
		if len(edges) == 0 || edges[len(edges)-1].MovieID != movieID {
			edges = append(edges, recommend.RatedEdge{MovieID: movieID, Rating: rating})
		}
		if genre.Valid {
			last := &edges[len(edges)-1]
			last.Genres = append(last.Genres, genre.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate rated movies", err)
	}
	return edges, nil
}

// FetchAllMoviesExcluding implements recommend.GraphReader. The exclusion
// set is applied in Go; it is the user's watch list, which is tiny next to
// the catalog scan.
func (s *Store) FetchAllMoviesExcluding(ctx context.Context, excluded map[int]struct{}) ([]recommend.Candidate, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT m.id, mg.genre
		FROM movies m
		LEFT JOIN movie_genres mg ON mg.movie_id = m.id
		ORDER BY m.id`)
	if err != nil {
		return nil, unavailable("fetch candidates", err)
	}
	defer rows.Close()

	var candidates []recommend.Candidate
	for rows.Next() {
		var (
			movieID int
			genre   sql.NullString
		)
		if err := rows.Scan(&movieID, &genre); err != nil {
			return nil, unavailable("scan candidate", err)
		}
		if _, skip := excluded[movieID]; skip {
			continue
		}
		if len(candidates) == 0 || candidates[len(candidates)-1].MovieID != movieID {
			candidates = append(candidates, recommend.Candidate{MovieID: movieID})
		}
		if genre.Valid {
			last := &candidates[len(candidates)-1]
			last.Genres = append(last.Genres, genre.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate candidates", err)
	}
	return candidates, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT username FROM users ORDER BY username`)
	if err != nil {
		return nil, unavailable("list users", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, unavailable("scan user", err)
		}
		users = append(users, username)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate users", err)
	}
	return users, nil
}

func (s *Store) UserStats(ctx context.Context, username string) (*models.UserStats, error) {
	var (
		watched int
		average sql.NullFloat64
	)
	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(rating)
		FROM ratings
		WHERE username = ?`, username).Scan(&watched, &average)
	if err != nil {
		return nil, unavailable("user stats", err)
	}
	if watched == 0 {
		return nil, fmt.Errorf("user %q: %w", username, graph.ErrNotFound)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT mg.genre
		FROM ratings r
		JOIN movie_genres mg ON mg.movie_id = r.movie_id
		WHERE r.username = ? AND r.rating >= 4.0
		GROUP BY mg.genre
		ORDER BY COUNT(*) DESC, mg.genre ASC
		LIMIT 5`, username)
	if err != nil {
		return nil, unavailable("favorite genres", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, unavailable("scan genre", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate genres", err)
	}

	return &models.UserStats{
		Username:       username,
		MoviesWatched:  watched,
		AverageRating:  average.Float64,
		FavoriteGenres: genres,
	}, nil
}

func (s *Store) UserMovies(ctx context.Context, username string) ([]models.RatedMovie, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT r.movie_id, r.rating, r.rated_at
		FROM ratings r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.username = ?
		ORDER BY r.rating DESC, m.title ASC`, username)
	if err != nil {
		return nil, unavailable("user movies", err)
	}
	defer rows.Close()

	type edge struct {
		movieID int
		rating  float64
		ratedAt time.Time
	}
	var edges []edge
	for rows.Next() {
		var e edge
		if err := rows.Scan(&e.movieID, &e.rating, &e.ratedAt); err != nil {
			return nil, unavailable("scan user movie", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate user movies", err)
	}

	ids := make([]int, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.movieID)
	}
	movies, err := s.MoviesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rated := make([]models.RatedMovie, 0, len(edges))
	for _, e := range edges {
		movie, ok := movies[e.movieID]
		if !ok {
			continue
		}
		rated = append(rated, models.RatedMovie{Movie: movie, Rating: e.rating, RatedAt: e.ratedAt})
	}
	return rated, nil
}

func (s *Store) RandomMovies(ctx context.Context, n int) ([]models.Movie, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id FROM movies ORDER BY random() LIMIT ?`, n)
	if err != nil {
		return nil, unavailable("random movies", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan movie id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate movie ids", err)
	}

	byID, err := s.MoviesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		if movie, ok := byID[id]; ok {
			movies = append(movies, movie)
		}
	}
	return movies, nil
}

func (s *Store) MoviesByIDs(ctx context.Context, ids []int) (map[int]models.Movie, error) {
	out := make(map[int]models.Movie, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders, args := inClause(ids)

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, year FROM movies WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, unavailable("movies by ids", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movie models.Movie
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.Year); err != nil {
			return nil, unavailable("scan movie", err)
		}
		out[movie.ID] = movie
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate movies", err)
	}

	links := []struct {
		table  string
		assign func(m *models.Movie, name string)
	}{
		{"movie_genres", func(m *models.Movie, name string) { m.Genres = append(m.Genres, name) }},
		{"movie_actors", func(m *models.Movie, name string) { m.Actors = append(m.Actors, name) }},
		{"movie_directors", func(m *models.Movie, name string) { m.Directors = append(m.Directors, name) }},
	}
	for _, link := range links {
		column := "person"
		if link.table == "movie_genres" {
			column = "genre"
		}
		if err := s.scanLinks(ctx, link.table, column, placeholders, args, out, link.assign); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) scanLinks(ctx context.Context, table, column, placeholders string, args []any,
	out map[int]models.Movie, assign func(m *models.Movie, name string)) error {
	//nolint:gosec // table and column come from a fixed list, not user input
	query := `SELECT movie_id, ` + column + ` FROM ` + table +
		` WHERE movie_id IN (` + placeholders + `) ORDER BY movie_id, ` + column
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return unavailable("fetch "+table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			movieID int
			name    string
		)
		if err := rows.Scan(&movieID, &name); err != nil {
			return unavailable("scan "+table, err)
		}
		if movie, ok := out[movieID]; ok {
			assign(&movie, name)
			out[movieID] = movie
		}
	}
	if err := rows.Err(); err != nil {
		return unavailable("iterate "+table, err)
	}
	return nil
}

func (s *Store) MovieByTitle(ctx context.Context, title string) (*models.Movie, error) {
	var id int
	err := s.conn.QueryRowContext(ctx, `SELECT id FROM movies WHERE title = ?`, title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %q: %w", title, graph.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("movie by title", err)
	}

	movies, err := s.MoviesByIDs(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	movie := movies[id]
	return &movie, nil
}

func (s *Store) CreateUserWithRatings(ctx context.Context, username string, ratings []graph.Rating) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&exists)
	if err != nil {
		return unavailable("check user", err)
	}
	if exists > 0 {
		return fmt.Errorf("user %q: %w", username, graph.ErrUserExists)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES (?, ?)`,
		username, time.Now().UTC()); err != nil {
		return unavailable("insert user", err)
	}

	now := time.Now().UTC()
	for _, r := range ratings {
		id := r.MovieID
		if id == 0 && r.Title != "" {
			err := tx.QueryRowContext(ctx, `SELECT id FROM movies WHERE title = ?`, r.Title).Scan(&id)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("movie %q: %w", r.Title, graph.ErrNotFound)
			}
			if err != nil {
				return unavailable("resolve movie title", err)
			}
		} else {
			var found int
			err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies WHERE id = ?`, id).Scan(&found)
			if err != nil {
				return unavailable("check movie", err)
			}
			if found == 0 {
				return fmt.Errorf("movie %d: %w", id, graph.ErrNotFound)
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ratings (username, movie_id, rating, rated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (username, movie_id) DO UPDATE SET
				rating = excluded.rating, rated_at = excluded.rated_at`,
			username, id, r.Rating, now); err != nil {
			return unavailable("insert rating", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

func (s *Store) UpsertRating(ctx context.Context, username string, movieID int, rating float64) error {
	var found int
	if err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM movies WHERE id = ?`, movieID).Scan(&found); err != nil {
		return unavailable("check movie", err)
	}
	if found == 0 {
		return fmt.Errorf("movie %d: %w", movieID, graph.ErrNotFound)
	}

	now := time.Now().UTC()
	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO users (username, created_at) VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING`, username, now); err != nil {
		return unavailable("ensure user", err)
	}
	if _, err := s.conn.ExecContext(ctx, `
		INSERT INTO ratings (username, movie_id, rating, rated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username, movie_id) DO UPDATE SET
			rating = excluded.rating, rated_at = excluded.rated_at`,
		username, movieID, rating, now); err != nil {
		return unavailable("upsert rating", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// InsertMovies implements graph.Loader. Each movie's rows are replaced
// wholesale so re-running an import converges instead of accumulating.
func (s *Store) InsertMovies(ctx context.Context, movies []models.Movie) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, movie := range movies {
		for _, table := range []string{"movie_genres", "movie_actors", "movie_directors"} {
			//nolint:gosec // fixed table names
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE movie_id = ?`, movie.ID); err != nil {
				return unavailable("clear "+table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO movies (id, title, year) VALUES (?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET title = excluded.title, year = excluded.year`,
			movie.ID, movie.Title, movie.Year); err != nil {
			return unavailable("insert movie", err)
		}
		for _, genre := range movie.Genres {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO movie_genres (movie_id, genre) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				movie.ID, genre); err != nil {
				return unavailable("insert genre link", err)
			}
		}
		for _, actor := range movie.Actors {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO movie_actors (movie_id, person) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				movie.ID, actor); err != nil {
				return unavailable("insert actor link", err)
			}
		}
		for _, director := range movie.Directors {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO movie_directors (movie_id, person) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				movie.ID, director); err != nil {
				return unavailable("insert director link", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// CreateIndexes implements graph.Loader.
func (s *Store) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies (title)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre ON movie_genres (genre)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_username ON ratings (username)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings (movie_id)`,
	}
	for _, stmt := range indexes {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return unavailable("create index", err)
		}
	}
	return nil
}

// Counts implements graph.Loader.
func (s *Store) Counts(ctx context.Context) (*graph.DatasetCounts, error) {
	counts := &graph.DatasetCounts{}
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM movies`, &counts.Movies},
		{`SELECT COUNT(DISTINCT genre) FROM movie_genres`, &counts.Genres},
		{`SELECT COUNT(DISTINCT person) FROM (
			SELECT person FROM movie_actors UNION SELECT person FROM movie_directors
		)`, &counts.People},
		{`SELECT COUNT(*) FROM users`, &counts.Users},
		{`SELECT COUNT(*) FROM ratings`, &counts.Ratings},
	}
	for _, q := range queries {
		if err := s.conn.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, unavailable("count", err)
		}
	}
	return counts, nil
}

// inClause builds "?, ?, ?" and the matching args slice for an IN query.
func inClause(ids []int) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), args
}
