// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"errors"
	"testing"
)

func TestTopK(t *testing.T) {
	ranked := []int{5, 4, 3, 2, 1}

	tests := []struct {
		name    string
		k       int
		wantLen int
	}{
		{"smaller than input", 3, 3},
		{"exact length", 5, 5},
		{"larger than input", 50, 5},
		{"single", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopK(ranked, tt.k)
			if err != nil {
				t.Fatalf("TopK: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			for i, v := range got {
				if v != ranked[i] {
					t.Errorf("got[%d] = %d, want %d (order preserved)", i, v, ranked[i])
				}
			}
		})
	}
}

func TestTopKInvalidLimit(t *testing.T) {
	for _, k := range []int{0, -1, -100} {
		if _, err := TopK([]int{1, 2, 3}, k); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("TopK(k=%d) err = %v, want ErrInvalidLimit", k, err)
		}
	}
}

func TestTopKEmptyInput(t *testing.T) {
	got, err := TopK([]int(nil), 10)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}
