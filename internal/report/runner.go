package report

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/okian/msi/internal/adapters/artifact"
	"github.com/okian/msi/internal/domain/calibration"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/pkg/logger"
)

// RunValidate compares a ratings artifact against a reference ranking and
// prints the report to cfg.Out.
func RunValidate(ctx context.Context, cfg ValidateConfig) (Result, error) {
	log := logger.Named("validate")
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	parser, err := calibration.ParserFor(cfg.Format)
	if err != nil {
		return Result{}, errors.Mark(err, model.ErrConfigInvalid)
	}
	reference, err := readReference(parser, cfg.ReferenceFile)
	if err != nil {
		return Result{}, err
	}

	var aliases calibration.AliasTable
	if cfg.AliasesFile != "" {
		if aliases, err = artifact.ReadAliases(cfg.AliasesFile); err != nil {
			return Result{}, err
		}
	}

	opts := []calibration.Option{
		calibration.WithTopN(cfg.TopN),
		calibration.WithSuggestions(cfg.Suggestions),
	}

	local, err := loadRanked(cfg.RatingsFile)
	if err != nil {
		return Result{}, err
	}
	res := Result{Report: calibration.Validate(local, reference, aliases, opts...)}
	log.Info(ctx, "calibration computed",
		logger.String("reference", cfg.ReferenceFile),
		logger.Int("matched", res.Report.Matched),
		logger.Int("referenceCount", res.Report.ReferenceCount),
		logger.Float64("spearman", res.Report.Spearman),
		logger.Float64("mae", res.Report.MAE))

	if err := PrintValidation(out, res.Report); err != nil {
		return res, err
	}

	if cfg.OldRatingsFile != "" {
		old, err := loadRanked(cfg.OldRatingsFile)
		if err != nil {
			return res, err
		}
		diff := calibration.Compare(calibration.Validate(old, reference, aliases, opts...), res.Report)
		res.Comparison = &diff
		if err := PrintComparison(out, diff); err != nil {
			return res, err
		}
	}
	return res, nil
}

func loadRanked(path string) ([]calibration.Ranked, error) {
	ratings, err := artifact.ReadRatings(path)
	if err != nil {
		return nil, err
	}
	out := make([]calibration.Ranked, 0, len(ratings.Teams))
	for _, t := range ratings.Teams {
		out = append(out, calibration.Ranked{Team: t.Team, Rating: t.Rating})
	}
	return out, nil
}

func readReference(parser calibration.ReferenceParser, path string) ([]calibration.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open reference %s", path), model.ErrInputMissing)
	}
	defer f.Close()
	pairs, err := parser.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s reference %s", parser.Format(), path)
	}
	return pairs, nil
}
