// Package merge reconciles two overlapping match sources into one
// deduplicated, chronologically ordered sequence.
//
// The precise source is authoritative: every broad record whose fixture key
// also appears in the precise source is dropped. Records sharing a key inside
// one source are ambiguous; the first by input order is kept.
package merge

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/okian/msi/internal/domain/dedupe"
	"github.com/okian/msi/internal/domain/model"
)

// Source labels used in issues and ordering.
const (
	SourceBroad   = "broad"
	SourcePrecise = "precise"
)

// Result is the outcome of a merge.
type Result struct {
	Matches      []model.Match
	BroadKept    int
	PreciseKept  int
	DroppedBroad int
	Issues       []model.Issue
}

// Ambiguities counts the merge ambiguity warnings in r.
func (r Result) Ambiguities() int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == model.IssueAmbiguous {
			n++
		}
	}
	return n
}

type tagged struct {
	m       model.Match
	precise bool
}

// Merge combines broad and precise. Either side may be empty.
func Merge(broad, precise []model.Match) Result {
	var res Result

	preciseIdx := dedupe.NewIndex(dedupe.WithCapacity(len(precise)))
	keptPrecise, issues := selfDedupe(precise, preciseIdx, SourcePrecise)
	res.Issues = append(res.Issues, issues...)

	candidates := make([]model.Match, 0, len(broad))
	for _, m := range broad {
		if preciseIdx.Contains(dedupe.KeyOf(m)) {
			res.DroppedBroad++
			continue
		}
		candidates = append(candidates, m)
	}
	keptBroad, issues := selfDedupe(candidates, dedupe.NewIndex(dedupe.WithCapacity(len(candidates))), SourceBroad)
	res.Issues = append(res.Issues, issues...)

	all := make([]tagged, 0, len(keptBroad)+len(keptPrecise))
	for _, m := range keptBroad {
		all = append(all, tagged{m: m})
	}
	for _, m := range keptPrecise {
		all = append(all, tagged{m: m, precise: true})
	}
	slices.SortStableFunc(all, compareTagged)

	res.Matches = make([]model.Match, len(all))
	for i, t := range all {
		res.Matches[i] = t.m
	}
	res.BroadKept = len(keptBroad)
	res.PreciseKept = len(keptPrecise)
	return res
}

func selfDedupe(in []model.Match, idx dedupe.Index, source string) ([]model.Match, []model.Issue) {
	out := make([]model.Match, 0, len(in))
	var issues []model.Issue
	for _, m := range in {
		key := dedupe.KeyOf(m)
		if first, seen := idx.SeenAndRecord(key, m.ID); seen {
			issues = append(issues, model.Issue{
				Kind:    model.IssueAmbiguous,
				Source:  source,
				MatchID: m.ID,
				Detail:  fmt.Sprintf("fixture %s %s vs %s already provided by match %d", key.Day, key.Home, key.Away, first),
			})
			continue
		}
		out = append(out, m)
	}
	return out, issues
}

// compareTagged orders by timestamp, then id, then precise before broad.
func compareTagged(a, b tagged) int {
	if c := a.m.Date.Compare(b.m.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.m.ID, b.m.ID); c != 0 {
		return c
	}
	switch {
	case a.precise == b.precise:
		return 0
	case a.precise:
		return -1
	default:
		return 1
	}
}
