// Package snapshot turns sparse per-team rating histories into dense,
// gap-free daily series by forward fill.
//
// Each team's window runs from its own first observation to its own last
// observation, inclusive. The last observation of a day wins.
package snapshot

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
	"github.com/panjf2000/ants/v2"
)

// Series is one team's history as produced by the rating engine.
type Series struct {
	Team    string
	Initial float64
	History []model.Observation
}

// Daily maps a team to its dense daily series.
type Daily map[string][]model.Observation

type options struct {
	workers int
}

// Option applies a configuration option to Build.
type Option func(*options)

// WithWorkers bounds the number of teams built concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// BuildTeam forward-fills one history. History dates must be non-decreasing.
func BuildTeam(initial float64, history []model.Observation) ([]model.Observation, error) {
	if len(history) == 0 {
		return []model.Observation{}, nil
	}
	first, err := time.Parse(model.DayLayout, history[0].Date)
	if err != nil {
		return nil, errors.Wrapf(err, "parse first history date")
	}
	last, err := time.Parse(model.DayLayout, history[len(history)-1].Date)
	if err != nil {
		return nil, errors.Wrapf(err, "parse last history date")
	}
	if last.Before(first) {
		return nil, errors.Newf("history ends (%s) before it starts (%s)", history[len(history)-1].Date, history[0].Date)
	}

	out := make([]model.Observation, 0, int(last.Sub(first).Hours()/24)+1)
	current := initial
	cursor := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day := d.Format(model.DayLayout)
		for cursor < len(history) && history[cursor].Date <= day {
			current = history[cursor].Rating
			cursor++
		}
		out = append(out, model.Observation{Date: day, Rating: current})
	}
	return out, nil
}

// Build builds every series. Teams are independent, so they are spread
// across a goroutine pool; each series is computed by exactly one task.
func Build(ctx context.Context, series []Series, opts ...Option) (Daily, error) {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, errors.Wrap(err, "create snapshot pool")
	}
	defer pool.Release()

	results := make([][]model.Observation, len(series))
	errs := make([]error, len(series))
	var wg sync.WaitGroup
	var submitErr error
	for i := range series {
		if err := ctx.Err(); err != nil {
			submitErr = errors.Wrap(err, "build snapshots")
			break
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = BuildTeam(series[i].Initial, series[i].History)
		}); err != nil {
			wg.Done()
			submitErr = errors.Wrap(err, "submit snapshot task")
			break
		}
	}
	wg.Wait()
	if submitErr != nil {
		return nil, submitErr
	}

	out := make(Daily, len(series))
	for i, s := range series {
		if errs[i] != nil {
			return nil, errors.Wrapf(errs[i], "team %q", s.Team)
		}
		out[s.Team] = results[i]
	}
	return out, nil
}

// Days counts the entries across all series.
func (d Daily) Days() int {
	n := 0
	for _, s := range d {
		n += len(s)
	}
	return n
}
