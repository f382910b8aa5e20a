package model

import "github.com/cockroachdb/errors"

// Sentinel error kinds shared by the pipeline. Fatal kinds abort a run before
// any artifact is written; the others are counted and skipped.
var (
	ErrInputMissing    = errors.New("input missing")
	ErrConfigInvalid   = errors.New("config invalid")
	ErrMalformedRecord = errors.New("malformed record")
	ErrMergeAmbiguity  = errors.New("merge ambiguity")
)

// IsFatal reports whether err must abort a run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInputMissing) || errors.Is(err, ErrConfigInvalid)
}
