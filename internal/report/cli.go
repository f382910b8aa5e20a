// Package report prints ratings, run summaries and calibration reports for
// the command line tools.
package report

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/okian/msi/pkg/logger"
)

// SetupLogging initialises the shared logger for a command line tool.
func SetupLogging(level, format string) error {
	if err := logger.Init(logger.WithFormat(format)); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if level == "" {
		return nil
	}
	if err := logger.SetLevelString(level); err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	return nil
}

// ShowHelp prints usage information for the validate tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `MSI Calibration Tool
====================

Compares computed ratings against an external reference ranking and
reports rank correlation, mean absolute rank error and top-N overlap.

Usage:
  go run ./cmd/validate [options]

Options:
  -ratings string
        Ratings artifact to validate (default "output/msi_ratings.json")
  -reference string
        Reference ranking file (required)
  -format string
        Reference format: clubelo-csv, ranked-json or pairs-json (default "clubelo-csv")
  -aliases string
        JSON object mapping local team names to reference names
  -old string
        Older ratings artifact to compare against
  -top int
        Size of the top-N overlap window (default 10)
  -suggest int
        Fuzzy name suggestions per unmatched team (default 3)
  -log-level string
        Log level (default "info")
  -help
        Show this help message

Examples:
  # Validate against a ClubElo export
  go run ./cmd/validate -reference clubelo.csv

  # Compare two runs against the same reference
  go run ./cmd/validate -reference clubelo.csv -old previous/msi_ratings.json
`)
}
