// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "testing"

func testProfile(t *testing.T, rated []RatedEdge) *UserProfile {
	t.Helper()
	profile, err := BuildProfile("tester", rated, 4.0)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	return profile
}

func TestScoreContent(t *testing.T) {
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"Action", "Sci-Fi"}},
		{MovieID: 2, Rating: 4.5, Genres: []string{"Action"}},
		{MovieID: 3, Rating: 2.0, Genres: []string{"Comedy"}},
	})

	candidates := []Candidate{
		{MovieID: 10, Genres: []string{"Action", "Sci-Fi"}}, // 2 + 1 = 3
		{MovieID: 11, Genres: []string{"Action"}},           // 2
		{MovieID: 12, Genres: []string{"Comedy"}},           // disliked genre only
		{MovieID: 13, Genres: []string{"Romance"}},          // no overlap
		{MovieID: 1, Genres: []string{"Action"}},            // already watched
	}

	scored := ScoreContent(profile, candidates)
	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2", len(scored))
	}
	if scored[0].MovieID != 10 || scored[0].Score != 3 {
		t.Errorf("scored[0] = %+v, want movie 10 score 3", scored[0])
	}
	if scored[1].MovieID != 11 || scored[1].Score != 2 {
		t.Errorf("scored[1] = %+v, want movie 11 score 2", scored[1])
	}
	if scored[0].Paths != 2 {
		t.Errorf("scored[0].Paths = %d, want 2 matched genres", scored[0].Paths)
	}
}

func TestScoreContentTieBreak(t *testing.T) {
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"Action"}},
	})

	// Same score, candidates given out of order: lower ID wins.
	candidates := []Candidate{
		{MovieID: 30, Genres: []string{"Action"}},
		{MovieID: 20, Genres: []string{"Action"}},
	}

	scored := ScoreContent(profile, candidates)
	if len(scored) != 2 {
		t.Fatalf("len(scored) = %d, want 2", len(scored))
	}
	if scored[0].MovieID != 20 || scored[1].MovieID != 30 {
		t.Errorf("tie order = [%d, %d], want [20, 30]", scored[0].MovieID, scored[1].MovieID)
	}
}

func TestScoreContentColdProfile(t *testing.T) {
	profile := testProfile(t, []RatedEdge{
		{MovieID: 1, Rating: 1.0, Genres: []string{"Action"}},
	})

	scored := ScoreContent(profile, []Candidate{
		{MovieID: 10, Genres: []string{"Action"}},
	})
	if len(scored) != 0 {
		t.Fatalf("cold profile produced %d results, want 0", len(scored))
	}
}
