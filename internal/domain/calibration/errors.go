package calibration

import "github.com/cockroachdb/errors"

// Sentinel errors for calibration inputs.
var (
	ErrUnknownFormat = errors.New("unknown reference format")
	ErrEmptyRanking  = errors.New("empty reference ranking")
)
