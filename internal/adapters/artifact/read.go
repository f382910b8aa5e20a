package artifact

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/calibration"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/snapshot"
)

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "read %s", path), model.ErrInputMissing)
	}
	if err := sonic.ConfigStd.Unmarshal(raw, v); err != nil {
		return errors.Mark(errors.Wrapf(err, "decode %s", path), model.ErrInputMissing)
	}
	return nil
}

// ReadRatings loads a ratings artifact.
func ReadRatings(path string) (RatingsFile, error) {
	var r RatingsFile
	err := readJSON(path, &r)
	return r, err
}

// ReadDaily loads a daily snapshot artifact.
func ReadDaily(path string) (snapshot.Daily, error) {
	d := snapshot.Daily{}
	err := readJSON(path, &d)
	return d, err
}

// ReadRegistry loads a team registry artifact.
func ReadRegistry(path string) (map[string]model.RegistryEntry, error) {
	r := map[string]model.RegistryEntry{}
	err := readJSON(path, &r)
	return r, err
}

// ReadEngineConfig loads an engine configuration. Keys absent from the file
// keep their default values. The result is validated.
func ReadEngineConfig(path string) (rating.Config, error) {
	cfg := rating.DefaultConfig()
	if err := readJSON(path, &cfg); err != nil {
		return rating.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return rating.Config{}, errors.Wrapf(err, "engine config %s", path)
	}
	return cfg, nil
}

// ReadAliases loads a local-name to reference-name alias table.
func ReadAliases(path string) (calibration.AliasTable, error) {
	a := calibration.AliasTable{}
	err := readJSON(path, &a)
	return a, err
}

// ReadNameMapping loads a source-name to canonical-name table.
func ReadNameMapping(path string) (map[string]string, error) {
	m := map[string]string{}
	err := readJSON(path, &m)
	return m, err
}

// ReadMatches loads a match list written by WriteFile.
func ReadMatches(path string) ([]model.Match, error) {
	var ms []model.Match
	err := readJSON(path, &ms)
	return ms, err
}
