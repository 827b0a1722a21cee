// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is.
var (
	// ErrUnknownUser indicates the user has zero RATED edges, so no
	// personalization is possible. Recoverable: callers decide the fallback
	// (popularity, empty list) rather than crashing.
	ErrUnknownUser = errors.New("user has no ratings")

	// ErrInvalidLimit indicates a non-positive result limit. This is a
	// caller bug and is surfaced immediately, before any scoring runs.
	ErrInvalidLimit = errors.New("limit must be positive")
)
