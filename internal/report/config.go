package report

import (
	"io"

	"github.com/okian/msi/internal/domain/calibration"
)

// ValidateConfig holds configuration for a calibration run.
type ValidateConfig struct {
	RatingsFile    string    // Ratings artifact to validate
	ReferenceFile  string    // External reference ranking
	Format         string    // Reference parser name
	AliasesFile    string    // Optional local to reference name table
	OldRatingsFile string    // Optional older ratings artifact
	TopN           int       // Top-N overlap window
	Suggestions    int       // Fuzzy suggestions per unmatched team
	Out            io.Writer // Destination for the printed report
}

// Result is the outcome of a calibration run. Comparison is nil unless an
// older ratings file was given.
type Result struct {
	Report     calibration.Report
	Comparison *calibration.Comparison
}
