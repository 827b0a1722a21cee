// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "fmt"

// TopK truncates an already-ranked list to at most k entries, preserving the
// upstream order (including its tie-break ordering) exactly.
//
// Returns ErrInvalidLimit (wrapped) for k ≤ 0. A k beyond the list length
// returns the whole list.
func TopK[T any](ranked []T, k int) ([]T, error) {
	if k <= 0 {
		return nil, fmt.Errorf("limit %d: %w", k, ErrInvalidLimit)
	}
	if len(ranked) > k {
		return ranked[:k:k], nil
	}
	return ranked, nil
}
