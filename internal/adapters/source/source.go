// Package source reads raw match sets from files. Every source is
// materialised completely before the merge sees it.
package source

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/merge"
	"github.com/okian/msi/internal/domain/model"
)

// Formats accepted by New.
const (
	FormatJSON         = "json"
	FormatFootballData = "football-data-csv"
)

// Sentinel kinds for source errors.
var (
	ErrUnknownFormat = errors.New("unknown source format")
)

type options struct {
	names map[string]string
}

// Option configures a source.
type Option func(*options)

// WithNameMapping renames team names as they are read. Names absent from the
// table pass through unchanged.
func WithNameMapping(table map[string]string) Option {
	return func(o *options) {
		if len(table) > 0 {
			o.names = table
		}
	}
}

func (o *options) name(raw string) string {
	raw = strings.TrimSpace(raw)
	if mapped, ok := o.names[raw]; ok && mapped != "" {
		return mapped
	}
	return raw
}

// New returns the source for format reading path. name labels the source in
// issues and metrics.
func New(name, path, format string, opts ...Option) (merge.Source, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	switch format {
	case FormatJSON, "":
		return &JSONFile{name: name, path: path, opts: o}, nil
	case FormatFootballData:
		return &FootballData{name: name, path: path, opts: o}, nil
	default:
		return nil, errors.Mark(errors.Wrapf(ErrUnknownFormat, "%q", format), model.ErrConfigInvalid)
	}
}

func readAll(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read %s", path), model.ErrInputMissing)
	}
	return raw, nil
}

func malformed(source string, id int64, err error) model.Issue {
	return model.Issue{Kind: model.IssueMalformed, Source: source, MatchID: id, Detail: err.Error()}
}
