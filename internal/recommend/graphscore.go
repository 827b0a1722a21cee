// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

// ScoreGraph ranks candidates by 2-hop connectivity through shared genres to
// the user's liked movies.
//
// For each candidate M the score is the corroboration breadth: the number of
// DISTINCT liked movies L (L != M, M unwatched) that share at least one
// genre with M. A candidate connected to three different liked movies
// outranks one connected to a single liked movie via three shared genres;
// the raw shared-genre contact count is reported in Paths.
//
// Candidates with zero connections are excluded. Output ordering matches
// ScoreContent: score descending, movie ID ascending.
func ScoreGraph(profile *UserProfile, candidates []Candidate) []ScoredCandidate {
	if len(profile.LikedMovies) == 0 {
		return nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, watched := profile.Watched[c.MovieID]; watched {
			continue
		}

		candidateGenres := make(map[string]struct{}, len(c.Genres))
		for _, genre := range c.Genres {
			candidateGenres[genre] = struct{}{}
		}

		breadth := 0
		paths := 0
		for _, liked := range profile.LikedMovies {
			if liked.MovieID == c.MovieID {
				continue
			}
			shared := 0
			for _, genre := range liked.Genres {
				if _, ok := candidateGenres[genre]; ok {
					shared++
				}
			}
			if shared > 0 {
				breadth++
				paths += shared
			}
		}
		if breadth == 0 {
			continue
		}

		scored = append(scored, ScoredCandidate{
			MovieID: c.MovieID,
			Score:   float64(breadth),
			Paths:   paths,
		})
	}

	sortScored(scored)
	return scored
}
