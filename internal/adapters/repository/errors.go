package repository

import "github.com/cockroachdb/errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("team not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
