package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/okian/msi/internal/domain/calibration"
)

// PrintValidation writes the per-team comparison table and the agreement
// metrics of a calibration report.
func PrintValidation(w io.Writer, r calibration.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Team\tRef Rank\tMSI Rank\tRef Elo\tMSI Elo\tΔ Rank")
	for _, row := range r.Rows {
		if !row.Matched {
			hint := ""
			if len(row.Suggestions) > 0 {
				hint = "did you mean: " + strings.Join(row.Suggestions, ", ")
			}
			fmt.Fprintf(tw, "%s\t%d\tN/A\t%d\tN/A\t%s\n",
				row.Reference, row.ReferenceRank, int(math.Round(row.ReferenceRating)), hint)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			row.Reference, row.ReferenceRank, row.LocalRank,
			int(math.Round(row.ReferenceRating)), int(math.Round(row.LocalRating)),
			formatDiff(row.RankDiff()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matched teams:      %d/%d\n", r.Matched, r.ReferenceCount)
	fmt.Fprintf(w, "Spearman rho:       %.4f\n", r.Spearman)
	fmt.Fprintf(w, "Mean abs rank diff: %.2f\n", r.MAE)
	fmt.Fprintf(w, "Top-%d overlap:     %d/%d\n", r.TopN, r.TopOverlap, r.TopN)
	return nil
}

// PrintComparison writes how two reports over the same reference differ.
func PrintComparison(w io.Writer, c calibration.Comparison) error {
	var b strings.Builder
	b.WriteString("\nComparison with previous ratings:\n")
	fmt.Fprintf(&b, "  Spearman: %.4f -> %.4f (%+.4f)\n", c.Before.Spearman, c.After.Spearman, c.SpearmanDelta)
	fmt.Fprintf(&b, "  MAE:      %.2f -> %.2f (%+.2f)\n", c.Before.MAE, c.After.MAE, c.MAEDelta)
	fmt.Fprintf(&b, "  Top-%d:    %d -> %d (%+d)\n", c.After.TopN, c.Before.TopOverlap, c.After.TopOverlap, c.OverlapDelta)
	if c.Improved() {
		b.WriteString("  Result:   improved\n")
	} else {
		b.WriteString("  Result:   not improved\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatDiff(d int) string {
	if d == 0 {
		return "="
	}
	return fmt.Sprintf("%+d", d)
}
