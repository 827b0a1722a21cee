// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "fmt"

// BuildProfile derives a user's preference profile from their rating history.
//
// Movies rated at or above likedThreshold are liked; every rated movie,
// regardless of value, joins the watched set. LikedGenres counts how many
// liked movies carry each genre. A user with ratings but no liked movies
// gets a valid profile with empty LikedGenres — that is a cold profile, not
// an error; scorers produce empty results for it.
//
// Returns ErrUnknownUser (wrapped) when the user has zero RATED edges.
func BuildProfile(username string, rated []RatedEdge, likedThreshold float64) (*UserProfile, error) {
	if len(rated) == 0 {
		return nil, fmt.Errorf("user %q: %w", username, ErrUnknownUser)
	}

	profile := &UserProfile{
		Username:    username,
		LikedGenres: make(map[string]float64),
		Watched:     make(map[int]struct{}, len(rated)),
	}

	for _, edge := range rated {
		profile.Watched[edge.MovieID] = struct{}{}

		if edge.Rating < likedThreshold {
			continue
		}

		profile.LikedMovies = append(profile.LikedMovies, LikedMovie{
			MovieID: edge.MovieID,
			Genres:  edge.Genres,
		})
		for _, genre := range edge.Genres {
			profile.LikedGenres[genre]++
		}
	}

	return profile, nil
}
