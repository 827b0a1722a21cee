// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "testing"

func TestScoreGraph(t *testing.T) {
	// Liked movies A(1) and B(2) both carry genre X, C(3) carries Y. A
	// candidate in X is corroborated by two distinct liked movies, a
	// candidate in Y by one.
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"X"}},
		{MovieID: 2, Rating: 4.0, Genres: []string{"X"}},
		{MovieID: 3, Rating: 4.5, Genres: []string{"Y"}},
	})

	candidates := []Candidate{
		{MovieID: 10, Genres: []string{"X"}},
		{MovieID: 11, Genres: []string{"Y"}},
		{MovieID: 12, Genres: []string{"Z"}},
	}

	scored := ScoreGraph(profile, candidates)
	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2", len(scored))
	}
	if scored[0].MovieID != 10 || scored[0].Score != 2 {
		t.Errorf("scored[0] = %+v, want movie 10 score 2", scored[0])
	}
	if scored[1].MovieID != 11 || scored[1].Score != 1 {
		t.Errorf("scored[1] = %+v, want movie 11 score 1", scored[1])
	}
}

func TestScoreGraphBreadthNotWeight(t *testing.T) {
	// One liked movie sharing three genres still counts once: the score
	// measures how many liked movies corroborate the candidate, not how
	// many paths reach it.
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"X", "Y", "Z"}},
	})

	scored := ScoreGraph(profile, []Candidate{
		{MovieID: 10, Genres: []string{"X", "Y", "Z"}},
	})
	if len(scored) != 1 {
		t.Fatalf("len(scored) = %d, want 1", len(scored))
	}
	if scored[0].Score != 1 {
		t.Errorf("Score = %v, want 1 (distinct liked movies)", scored[0].Score)
	}
	if scored[0].Paths != 3 {
		t.Errorf("Paths = %d, want 3 shared genres", scored[0].Paths)
	}
}

func TestScoreGraphExcludesWatchedAndUnconnected(t *testing.T) {
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"X"}},
		{MovieID: 2, Rating: 2.0, Genres: []string{"W"}},
	})

	scored := ScoreGraph(profile, []Candidate{
		{MovieID: 1, Genres: []string{"X"}},  // watched
		{MovieID: 10, Genres: []string{"W"}}, // touches only a disliked movie
	})
	if len(scored) != 0 {
		t.Fatalf("len(scored) = %d, want 0", len(scored))
	}
}
