// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"errors"
	"testing"
)

func TestBuildProfile(t *testing.T) {
	rated := []RatedEdge{
		{MovieID: 1, Rating: 5.0, Genres: []string{"Action", "Sci-Fi"}},
		{MovieID: 2, Rating: 4.0, Genres: []string{"Action"}},
		{MovieID: 3, Rating: 2.0, Genres: []string{"Drama"}},
	}

	profile, err := BuildProfile("alice", rated, 4.0)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}

	if profile.Username != "alice" {
		t.Errorf("Username = %q, want %q", profile.Username, "alice")
	}
	if len(profile.Watched) != 3 {
		t.Errorf("len(Watched) = %d, want 3", len(profile.Watched))
	}
	for _, id := range []int{1, 2, 3} {
		if _, ok := profile.Watched[id]; !ok {
			t.Errorf("Watched missing movie %d", id)
		}
	}

	// Ratings at the threshold count as liked; movie 3 does not.
	if len(profile.LikedMovies) != 2 {
		t.Fatalf("len(LikedMovies) = %d, want 2", len(profile.LikedMovies))
	}
	if got := profile.LikedGenres["Action"]; got != 2 {
		t.Errorf("LikedGenres[Action] = %v, want 2", got)
	}
	if got := profile.LikedGenres["Sci-Fi"]; got != 1 {
		t.Errorf("LikedGenres[Sci-Fi] = %v, want 1", got)
	}
	if _, ok := profile.LikedGenres["Drama"]; ok {
		t.Error("LikedGenres should not include genres from disliked movies")
	}
}

func TestBuildProfileUnknownUser(t *testing.T) {
	_, err := BuildProfile("ghost", nil, 4.0)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}

	_, err = BuildProfile("ghost", []RatedEdge{}, 4.0)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser for empty slice", err)
	}
}

func TestBuildProfileColdUser(t *testing.T) {
	// A user whose every rating is below the threshold has an empty taste
	// profile but is still a known user.
	rated := []RatedEdge{
		{MovieID: 7, Rating: 1.0, Genres: []string{"Horror"}},
		{MovieID: 8, Rating: 3.5, Genres: []string{"Horror"}},
	}

	profile, err := BuildProfile("bob", rated, 4.0)
	if err != nil {
		t.Fatalf("BuildProfile: %v", err)
	}
	if len(profile.LikedMovies) != 0 {
		t.Errorf("len(LikedMovies) = %d, want 0", len(profile.LikedMovies))
	}
	if len(profile.LikedGenres) != 0 {
		t.Errorf("len(LikedGenres) = %d, want 0", len(profile.LikedGenres))
	}
	if len(profile.Watched) != 2 {
		t.Errorf("len(Watched) = %d, want 2", len(profile.Watched))
	}
}
