// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "sort"

// ScoreContent ranks candidates by genre overlap with the user's liked-genre
// profile.
//
// Score(movie) is the sum of LikedGenres[g] over the movie's genres: the
// unnormalized genre-overlap weight. Candidates in the watched set and
// candidates sharing zero genres with the profile are excluded entirely.
// A cold profile (empty LikedGenres) yields an empty result.
//
// Output is sorted by score descending, ties broken by movie ID ascending,
// so identical inputs always produce identical ordered output.
func ScoreContent(profile *UserProfile, candidates []Candidate) []ScoredCandidate {
	if len(profile.LikedGenres) == 0 {
		return nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, watched := profile.Watched[c.MovieID]; watched {
			continue
		}

		var score float64
		matched := 0
		for _, genre := range c.Genres {
			if weight, ok := profile.LikedGenres[genre]; ok {
				score += weight
				matched++
			}
		}
		if score <= 0 {
			continue
		}

		scored = append(scored, ScoredCandidate{
			MovieID: c.MovieID,
			Score:   score,
			Paths:   matched,
		})
	}

	sortScored(scored)
	return scored
}

// sortScored orders candidates by score descending, then movie ID ascending.
// The secondary key makes ranking deterministic under equal scores.
func sortScored(scored []ScoredCandidate) {
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].MovieID < scored[j].MovieID
	})
}
