// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"math"
	"testing"
)

func TestCombineHybrid(t *testing.T) {
	content := []ScoredCandidate{
		{MovieID: 10, Score: 4}, // content max -> 1.0
		{MovieID: 11, Score: 2}, // 0.5
	}
	graph := []ScoredCandidate{
		{MovieID: 10, Score: 2}, // graph max -> 1.0
		{MovieID: 12, Score: 1}, // 0.5
	}

	combined := CombineHybrid(content, graph, 0.6, 0.4)
	if len(combined) != 3 {
		t.Fatalf("len(combined) = %d, want 3 (union)", len(combined))
	}

	want := []struct {
		id      int
		score   float64
		content float64
		graph   float64
	}{
		{10, 0.6*1.0 + 0.4*1.0, 1.0, 1.0},
		{11, 0.6 * 0.5, 0.5, 0},
		{12, 0.4 * 0.5, 0, 0.5},
	}
	for i, w := range want {
		got := combined[i]
		if got.MovieID != w.id {
			t.Errorf("combined[%d].MovieID = %d, want %d", i, got.MovieID, w.id)
			continue
		}
		if math.Abs(got.Score-w.score) > 1e-9 {
			t.Errorf("movie %d Score = %v, want %v", w.id, got.Score, w.score)
		}
		if math.Abs(got.ContentComponent-w.content) > 1e-9 {
			t.Errorf("movie %d ContentComponent = %v, want %v", w.id, got.ContentComponent, w.content)
		}
		if math.Abs(got.GraphComponent-w.graph) > 1e-9 {
			t.Errorf("movie %d GraphComponent = %v, want %v", w.id, got.GraphComponent, w.graph)
		}
	}
}

func TestCombineHybridScoresBounded(t *testing.T) {
	content := []ScoredCandidate{
		{MovieID: 1, Score: 123},
		{MovieID: 2, Score: 7},
	}
	graph := []ScoredCandidate{
		{MovieID: 1, Score: 55},
		{MovieID: 3, Score: 55},
	}

	for _, c := range CombineHybrid(content, graph, 0.6, 0.4) {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("movie %d Score = %v, want within [0, 1]", c.MovieID, c.Score)
		}
	}
}

func TestCombineHybridOneSideEmpty(t *testing.T) {
	content := []ScoredCandidate{{MovieID: 10, Score: 3}}

	combined := CombineHybrid(content, nil, 0.6, 0.4)
	if len(combined) != 1 {
		t.Fatalf("len(combined) = %d, want 1", len(combined))
	}
	if math.Abs(combined[0].Score-0.6) > 1e-9 {
		t.Errorf("Score = %v, want 0.6 (content max alone)", combined[0].Score)
	}
	if combined[0].GraphComponent != 0 {
		t.Errorf("GraphComponent = %v, want 0", combined[0].GraphComponent)
	}

	if got := CombineHybrid(nil, nil, 0.6, 0.4); len(got) != 0 {
		t.Fatalf("empty inputs produced %d results, want 0", len(got))
	}
}

func TestCombineHybridTieBreak(t *testing.T) {
	content := []ScoredCandidate{
		{MovieID: 30, Score: 2},
		{MovieID: 20, Score: 2},
	}

	combined := CombineHybrid(content, nil, 0.6, 0.4)
	if len(combined) != 2 {
		t.Fatalf("len(combined) = %d, want 2", len(combined))
	}
	if combined[0].MovieID != 20 || combined[1].MovieID != 30 {
		t.Errorf("tie order = [%d, %d], want [20, 30]", combined[0].MovieID, combined[1].MovieID)
	}
}
