package calibration

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Default report parameters.
const (
	DefaultTopN        = 10
	DefaultSuggestions = 3
)

// Ranked is one entry of the local ranking, best first.
type Ranked struct {
	Team   string
	Rating float64
}

// Row compares one reference team with the local ranking.
type Row struct {
	Reference       string   `json:"reference"`
	ReferenceRank   int      `json:"referenceRank"`
	ReferenceRating float64  `json:"referenceRating"`
	Matched         bool     `json:"matched"`
	Local           string   `json:"local,omitempty"`
	LocalRating     float64  `json:"localRating,omitempty"`
	GlobalRank      int      `json:"globalRank,omitempty"`
	LocalRank       int      `json:"localRank,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// RankDiff is the local rank among matched teams minus the reference rank.
func (r Row) RankDiff() int {
	return r.LocalRank - r.ReferenceRank
}

// Report summarises agreement between the two rankings.
type Report struct {
	Rows           []Row   `json:"rows"`
	Matched        int     `json:"matched"`
	ReferenceCount int     `json:"referenceCount"`
	Spearman       float64 `json:"spearman"`
	MAE            float64 `json:"mae"`
	TopN           int     `json:"topN"`
	TopOverlap     int     `json:"topOverlap"`
}

// Comparison contrasts a report with one computed from older ratings.
type Comparison struct {
	Before        Report  `json:"before"`
	After         Report  `json:"after"`
	SpearmanDelta float64 `json:"spearmanDelta"`
	MAEDelta      float64 `json:"maeDelta"`
	OverlapDelta  int     `json:"overlapDelta"`
}

// Improved reports whether the newer ratings agree better with the reference.
func (c Comparison) Improved() bool {
	return c.SpearmanDelta > 0 || (c.SpearmanDelta == 0 && c.MAEDelta < 0)
}

// Compare builds a Comparison from two reports over the same reference.
func Compare(before, after Report) Comparison {
	return Comparison{
		Before:        before,
		After:         after,
		SpearmanDelta: after.Spearman - before.Spearman,
		MAEDelta:      after.MAE - before.MAE,
		OverlapDelta:  after.TopOverlap - before.TopOverlap,
	}
}

type options struct {
	topN        int
	suggestions int
}

// Option applies a configuration option to Validate.
type Option func(*options)

// WithTopN sets the size of the top block used for the overlap count.
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithSuggestions sets how many name suggestions unmatched rows get;
// zero disables them.
func WithSuggestions(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.suggestions = n
		}
	}
}

type localEntry struct {
	team   string
	rating float64
	rank   int
}

// Validate matches reference teams to the local ranking through aliases and
// computes Spearman correlation, mean absolute rank error and top-N overlap.
// local must be sorted best first; a team's global rank is its position.
func Validate(local []Ranked, reference []Pair, aliases AliasTable, opts ...Option) Report {
	o := options{topN: DefaultTopN, suggestions: DefaultSuggestions}
	for _, opt := range opts {
		opt(&o)
	}

	byName := make(map[string]localEntry, len(local))
	names := make([]string, 0, len(local))
	for i, t := range local {
		key := aliases.Normalize(t.Team)
		if _, dup := byName[key]; dup {
			continue
		}
		byName[key] = localEntry{team: t.Team, rating: t.Rating, rank: i + 1}
		names = append(names, key)
	}

	rep := Report{ReferenceCount: len(reference), TopN: o.topN, Rows: make([]Row, len(reference))}
	var matched []int
	for i, ref := range reference {
		row := Row{Reference: ref.Name, ReferenceRank: i + 1, ReferenceRating: ref.Rating}
		if le, ok := byName[ref.Name]; ok {
			row.Matched = true
			row.Local = le.team
			row.LocalRating = le.rating
			row.GlobalRank = le.rank
			matched = append(matched, i)
		} else if o.suggestions > 0 {
			row.Suggestions = suggest(ref.Name, names, o.suggestions)
		}
		rep.Rows[i] = row
	}
	rep.Matched = len(matched)
	if rep.Matched == 0 {
		return rep
	}

	// Re-rank matched teams among themselves by local rating.
	order := slices.Clone(matched)
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(rep.Rows[b].LocalRating, rep.Rows[a].LocalRating)
	})
	for pos, i := range order {
		rep.Rows[i].LocalRank = pos + 1
	}

	localRatings := make([]float64, 0, len(matched))
	refRatings := make([]float64, 0, len(matched))
	var absErr int
	for _, i := range matched {
		row := rep.Rows[i]
		localRatings = append(localRatings, row.LocalRating)
		refRatings = append(refRatings, row.ReferenceRating)
		d := row.RankDiff()
		if d < 0 {
			d = -d
		}
		absErr += d
		if row.LocalRank <= o.topN && row.ReferenceRank <= o.topN {
			rep.TopOverlap++
		}
	}
	rep.Spearman = Spearman(localRatings, refRatings)
	rep.MAE = float64(absErr) / float64(rep.Matched)
	return rep
}

// suggest proposes local names close to an unmatched reference name:
// subsequence matches first, then small edit distances.
func suggest(name string, candidates []string, limit int) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, candidates)
	if len(ranks) == 0 {
		lower := strings.ToLower(name)
		for i, c := range candidates {
			d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c))
			if d <= len(name)/2 {
				ranks = append(ranks, fuzzy.Rank{Source: name, Target: c, Distance: d, OriginalIndex: i})
			}
		}
	}
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	var out []string
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
