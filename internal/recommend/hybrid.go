// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "sort"

// CombineHybrid merges content and graph scorer outputs into one ranked list.
//
// Each scorer's raw scores are normalized independently to [0, 1] by dividing
// by that scorer's maximum in the current result set; an empty result set (or
// a zero maximum) contributes 0 for every candidate rather than erroring.
// Combined score = contentWeight × normalized_content + graphWeight ×
// normalized_graph over the union of both candidate sets, so a candidate
// present in only one list still appears, with the other component at 0.
//
// The weights are policy constants validated by Config to sum to 1.0, which
// bounds every combined score to [0, 1]. Ranking is combined score
// descending, ties broken by movie ID ascending.
func CombineHybrid(content, graph []ScoredCandidate, contentWeight, graphWeight float64) []HybridCandidate {
	contentNorm := normalizeByMax(content)
	graphNorm := normalizeByMax(graph)

	union := make(map[int]struct{}, len(contentNorm)+len(graphNorm))
	for id := range contentNorm {
		union[id] = struct{}{}
	}
	for id := range graphNorm {
		union[id] = struct{}{}
	}

	combined := make([]HybridCandidate, 0, len(union))
	for id := range union {
		cc := contentNorm[id]
		gc := graphNorm[id]
		combined = append(combined, HybridCandidate{
			MovieID:          id,
			Score:            contentWeight*cc + graphWeight*gc,
			ContentComponent: cc,
			GraphComponent:   gc,
		})
	}

	sort.Slice(combined, func(i, j int) bool {
		if combined[i].Score != combined[j].Score {
			return combined[i].Score > combined[j].Score
		}
		return combined[i].MovieID < combined[j].MovieID
	})

	return combined
}

// normalizeByMax maps a scorer's results to movie ID → score/max. A missing
// key means a 0 contribution for that candidate.
func normalizeByMax(scored []ScoredCandidate) map[int]float64 {
	if len(scored) == 0 {
		return nil
	}

	var max float64
	for _, sc := range scored {
		if sc.Score > max {
			max = sc.Score
		}
	}
	if max == 0 {
		return nil
	}

	norm := make(map[int]float64, len(scored))
	for _, sc := range scored {
		norm[sc.MovieID] = sc.Score / max
	}
	return norm
}
