// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package api provides the HTTP surface of the recommendation service:
// a chi router, the standard response envelope, and handlers that translate
// between HTTP and the engine/store error taxonomy.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/moviegraph/moviegraph/internal/graph"
	"github.com/moviegraph/moviegraph/internal/metrics"
	"github.com/moviegraph/moviegraph/internal/models"
	"github.com/moviegraph/moviegraph/internal/recommend"
)

var validate = validator.New()

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store   graph.Store
	engine  *recommend.Engine
	started time.Time
	version string
}

// NewHandler creates the handler set.
func NewHandler(store graph.Store, engine *recommend.Engine, version string) *Handler {
	return &Handler{
		store:   store,
		engine:  engine,
		started: time.Now(),
		version: version,
	}
}

// writeDomainError maps engine and store errors onto the API error codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrUnknownUser):
		respondError(w, http.StatusNotFound, "UNKNOWN_USER", "user has no ratings", nil)
	case errors.Is(err, recommend.ErrInvalidLimit):
		respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", nil)
	case errors.Is(err, graph.ErrUnavailable):
		metrics.StoreUnavailableTotal.Inc()
		respondError(w, http.StatusServiceUnavailable, "GRAPH_UNAVAILABLE", "graph store is unavailable", err)
	case errors.Is(err, graph.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case errors.Is(err, graph.ErrUserExists):
		respondError(w, http.StatusConflict, "USER_EXISTS", "user already exists", nil)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
	}
}

// Recommendations handles GET /api/v1/recommendations/{username}/{algorithm}.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	username := chi.URLParam(r, "username")
	algorithm := chi.URLParam(r, "algorithm")

	limit, err := getIntParam(r, "limit", h.engine.Config().DefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_LIMIT", err.Error(), nil)
		return
	}

	var payload any
	switch algorithm {
	case recommend.AlgorithmContent:
		ranked, rerr := h.engine.ContentRecommendations(r.Context(), username, limit)
		if rerr != nil {
			err = rerr
			break
		}
		payload, err = h.hydrateScored(r, ranked)
	case recommend.AlgorithmGraph:
		ranked, rerr := h.engine.GraphRecommendations(r.Context(), username, limit)
		if rerr != nil {
			err = rerr
			break
		}
		payload, err = h.hydrateScored(r, ranked)
	case recommend.AlgorithmHybrid:
		ranked, rerr := h.engine.HybridRecommendations(r.Context(), username, limit)
		if rerr != nil {
			err = rerr
			break
		}
		payload, err = h.hydrateHybrid(r, ranked)
	default:
		metrics.RecordRecommendation(algorithm, "invalid_algorithm", 0, time.Since(started))
		respondError(w, http.StatusBadRequest, "INVALID_ALGORITHM",
			"algorithm must be one of: content, graph, hybrid", nil)
		return
	}

	if err != nil {
		metrics.RecordRecommendation(algorithm, "error", 0, time.Since(started))
		writeDomainError(w, err)
		return
	}

	results := payload.(recommendationsPayload).Count
	metrics.RecordRecommendation(algorithm, "success", results, time.Since(started))
	respondData(w, payload, started)
}

// recommendationsPayload is the data section of a recommendations response.
type recommendationsPayload struct {
	Username        string `json:"username"`
	Algorithm       string `json:"algorithm"`
	Count           int    `json:"count"`
	Recommendations any    `json:"recommendations"`
}

func (h *Handler) hydrateScored(r *http.Request, ranked []recommend.ScoredCandidate) (any, error) {
	ids := make([]int, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.MovieID)
	}
	movies, err := h.store.MoviesByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Recommendation, 0, len(ranked))
	for _, c := range ranked {
		movie := movies[c.MovieID]
		out = append(out, models.Recommendation{
			MovieID: c.MovieID,
			Title:   movie.Title,
			Year:    movie.Year,
			Genres:  movie.Genres,
			Score:   c.Score,
		})
	}
	return recommendationsPayload{
		Username:        chi.URLParam(r, "username"),
		Algorithm:       chi.URLParam(r, "algorithm"),
		Count:           len(out),
		Recommendations: out,
	}, nil
}

func (h *Handler) hydrateHybrid(r *http.Request, ranked []recommend.HybridCandidate) (any, error) {
	ids := make([]int, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.MovieID)
	}
	movies, err := h.store.MoviesByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.HybridRecommendation, 0, len(ranked))
	for _, c := range ranked {
		movie := movies[c.MovieID]
		out = append(out, models.HybridRecommendation{
			Recommendation: models.Recommendation{
				MovieID: c.MovieID,
				Title:   movie.Title,
				Year:    movie.Year,
				Genres:  movie.Genres,
				Score:   c.Score,
			},
			ContentComponent: c.ContentComponent,
			GraphComponent:   c.GraphComponent,
		})
	}
	return recommendationsPayload{
		Username:        chi.URLParam(r, "username"),
		Algorithm:       chi.URLParam(r, "algorithm"),
		Count:           len(out),
		Recommendations: out,
	}, nil
}

// Users handles GET /api/v1/users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if users == nil {
		users = []string{}
	}
	respondData(w, map[string]any{"users": users, "count": len(users)}, started)
}

// UserStats handles GET /api/v1/users/{username}/stats.
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	stats, err := h.store.UserStats(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			respondError(w, http.StatusNotFound, "UNKNOWN_USER", "user has no ratings", nil)
			return
		}
		writeDomainError(w, err)
		return
	}
	respondData(w, stats, started)
}

// UserMovies handles GET /api/v1/users/{username}/movies.
func (h *Handler) UserMovies(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	rated, err := h.store.UserMovies(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rated == nil {
		rated = []models.RatedMovie{}
	}
	respondData(w, map[string]any{"movies": rated, "count": len(rated)}, started)
}

// RandomMovies handles GET /api/v1/movies/random.
func (h *Handler) RandomMovies(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	count, err := getIntParam(r, "count", 10)
	if err != nil || count <= 0 || count > 100 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "count must be between 1 and 100", nil)
		return
	}

	movies, err := h.store.RandomMovies(r.Context(), count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	respondData(w, map[string]any{"movies": movies, "count": len(movies)}, started)
}

// createUserRequest is the body of POST /api/v1/users.
type createUserRequest struct {
	Username string         `json:"username" validate:"required,min=1,max=64"`
	Ratings  []graph.Rating `json:"ratings" validate:"required,min=3,dive"`
}

// CreateUser handles POST /api/v1/users. A new user must rate at least
// three movies so the engine has a profile to work with.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"username and at least 3 ratings are required", nil)
		return
	}
	for _, rating := range req.Ratings {
		if rating.Rating < 1 || rating.Rating > 5 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ratings must be between 1 and 5", nil)
			return
		}
		if rating.MovieID == 0 && rating.Title == "" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"each rating needs a movie_id or title", nil)
			return
		}
	}

	if err := h.store.CreateUserWithRatings(r.Context(), req.Username, req.Ratings); err != nil {
		writeDomainError(w, err)
		return
	}

	// New ratings invalidate anything cached for this username.
	h.engine.InvalidateUser(req.Username)

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"username": req.Username,
			"ratings":  len(req.Ratings),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	status := "ok"
	httpStatus := http.StatusOK

	// One cheap read proves the store is reachable.
	if _, err := h.store.ListUsers(r.Context()); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respondJSON(w, httpStatus, &models.APIResponse{
		Status: "success",
		Data: map[string]any{
			"status":         status,
			"version":        h.version,
			"uptime_seconds": int64(time.Since(h.started).Seconds()),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}
