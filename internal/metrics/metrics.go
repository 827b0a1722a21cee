// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

// Package metrics exposes the Prometheus instrumentation for the
// recommendation service: API throughput and latency, per-algorithm scoring
// figures, cache efficiency, and dataset import totals.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation requests by algorithm and outcome",
		},
		[]string{"algorithm", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end scoring duration per algorithm",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	RecommendationResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_results",
			Help:    "Number of movies returned per recommendation request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"algorithm"},
	)

	// Store metrics
	StoreUnavailableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_unavailable_total",
			Help: "Total number of requests rejected because the graph store was unavailable",
		},
	)

	// Dataset metrics
	DatasetMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_movies",
			Help: "Number of movies in the loaded dataset",
		},
	)

	DatasetUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_users",
			Help: "Number of users in the loaded dataset",
		},
	)

	DatasetRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_ratings",
			Help: "Number of rating edges in the loaded dataset",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(algorithm, outcome string, results int, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(algorithm, outcome).Inc()
	RecommendationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if outcome == "success" {
		RecommendationResults.WithLabelValues(algorithm).Observe(float64(results))
	}
}

// RecordDatasetCounts publishes dataset totals after an import.
func RecordDatasetCounts(movies, users, ratings int) {
	DatasetMovies.Set(float64(movies))
	DatasetUsers.Set(float64(users))
	DatasetRatings.Set(float64(ratings))
}
