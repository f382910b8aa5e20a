package report

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"text/tabwriter"
	"time"

	service "github.com/okian/msi/internal/app"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/types"
)

// maxWarnings bounds how many run warnings PrintSummary lists.
const maxWarnings = 10

// countryOrder fixes the order of the league average block; other
// countries follow alphabetically.
var countryOrder = []string{"ENG", "ESP", "GER", "ITA", "FRA"} //nolint:gochecknoglobals // fixed display order

// LeagueAverage is the mean rating of one country's teams.
type LeagueAverage struct {
	Country string
	Teams   int
	Average float64
}

// PrintRankings writes the full table of teams in rank order followed by
// per-country average ratings.
func PrintRankings(w io.Writer, teams []rating.TeamState, reg map[string]model.RegistryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTeam\tLeague\tRating\tW-D-L")
	for i, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d-%d-%d\n",
			i+1, t.Team, reg[t.Team].Country, int(math.Round(t.Rating)), t.Wins, t.Draws, t.Losses)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	avgs := LeagueAverages(teams, reg)
	if len(avgs) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "League averages:")
	for _, a := range avgs {
		fmt.Fprintf(w, "  %-4s %d (%d teams)\n", a.Country, int(math.Round(a.Average)), a.Teams)
	}
	return nil
}

// LeagueAverages groups teams by registry country.
func LeagueAverages(teams []rating.TeamState, reg map[string]model.RegistryEntry) []LeagueAverage {
	sums := make(map[string]*LeagueAverage)
	for _, t := range teams {
		c := reg[t.Team].Country
		if c == "" {
			continue
		}
		a, ok := sums[c]
		if !ok {
			a = &LeagueAverage{Country: c}
			sums[c] = a
		}
		a.Teams++
		a.Average += t.Rating
	}

	out := make([]LeagueAverage, 0, len(sums))
	for _, c := range countryOrder {
		if a, ok := sums[c]; ok {
			out = append(out, *a)
			delete(sums, c)
		}
	}
	rest := make([]string, 0, len(sums))
	for c := range sums {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	for _, c := range rest {
		out = append(out, *sums[c])
	}
	for i := range out {
		out[i].Average /= float64(out[i].Teams)
	}
	return out
}

// PrintTop writes a leaderboard slice.
func PrintTop(w io.Writer, entries []types.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Rank\tTeam\tLeague\tRating\tP\tW-D-L")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%d\t%d-%d-%d\n",
			e.Rank, e.Team, e.League, e.Rating, e.Matches, e.Wins, e.Draws, e.Losses)
	}
	return tw.Flush()
}

// PrintSummary writes the outcome of a pipeline run.
func PrintSummary(w io.Writer, s *service.Summary) error {
	if s == nil {
		return nil
	}
	fmt.Fprintf(w, "MSI run %s computed at %s in %s\n", s.RunID, s.ComputedAt, s.Duration.Round(time.Millisecond))

	sources := make([]string, 0, len(s.Loaded))
	for name := range s.Loaded {
		sources = append(sources, name)
	}
	slices.Sort(sources)
	for _, name := range sources {
		fmt.Fprintf(w, "  loaded %-8s %d matches\n", name, s.Loaded[name])
	}
	fmt.Fprintf(w, "  duplicates dropped %d, ambiguities %d, malformed %d\n", s.DroppedBroad, s.Ambiguities, s.Malformed)
	fmt.Fprintf(w, "  processed %d matches (%d skipped), %d season regressions\n", s.Processed, s.Skipped, s.Regressions)
	fmt.Fprintf(w, "  %d teams, %d snapshot days\n", s.Teams, s.SnapshotDays)

	if n := len(s.Warnings); n > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", n)
		for _, iss := range s.Warnings[:min(n, maxWarnings)] {
			fmt.Fprintf(w, "  [%s] %s: %s\n", iss.Kind, cmp.Or(iss.Source, "-"), iss.Detail)
		}
		if n > maxWarnings {
			fmt.Fprintf(w, "  ... and %d more\n", n-maxWarnings)
		}
	}

	if len(s.Top) > 0 {
		fmt.Fprintf(w, "\nTop %d:\n", len(s.Top))
		if err := PrintTop(w, s.Top); err != nil {
			return err
		}
	}
	if len(s.Outputs) > 0 {
		fmt.Fprintln(w, "\nWrote:")
		for _, p := range s.Outputs {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return nil
}
