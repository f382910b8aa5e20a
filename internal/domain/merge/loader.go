package merge

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
	"github.com/sourcegraph/conc/pool"
)

// Source supplies one raw match set. Load returns the valid matches plus
// an issue for every record it had to skip.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.Match, []model.Issue, error)
}

// Loaded holds the raw output of one source.
type Loaded struct {
	Name    string
	Matches []model.Match
	Issues  []model.Issue
}

// LoadAndMerge reads both sources concurrently, waits for both to be fully
// materialised and merges them. A nil source counts as empty. At least one
// source must be present.
func LoadAndMerge(ctx context.Context, broad, precise Source) (Result, [2]Loaded, error) {
	var loaded [2]Loaded
	if broad == nil && precise == nil {
		return Result{}, loaded, errors.Mark(errors.New("no match source configured"), model.ErrInputMissing)
	}

	p := pool.New().WithErrors().WithContext(ctx)
	for i, src := range []Source{broad, precise} {
		if src == nil {
			continue
		}
		p.Go(func(ctx context.Context) error {
			ms, issues, err := src.Load(ctx)
			if err != nil {
				return errors.Wrapf(err, "load %s source", src.Name())
			}
			loaded[i] = Loaded{Name: src.Name(), Matches: ms, Issues: issues}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Result{}, loaded, err
	}

	res := Merge(loaded[0].Matches, loaded[1].Matches)
	return res, loaded, nil
}
