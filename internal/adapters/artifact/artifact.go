// Package artifact reads and writes the JSON files the pipeline produces and
// consumes. Writes are staged: all outputs are encoded first and only moved
// into place once every encode and temp write has succeeded.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
	"github.com/okian/msi/internal/domain/rating"
	"github.com/okian/msi/internal/domain/snapshot"
)

// Default artifact file names.
const (
	DefaultRatingsFile  = "msi_ratings.json"
	DefaultDailyFile    = "msi_daily.json"
	DefaultRegistryFile = "teams_registry.json"
)

// Sentinel kinds for artifact errors.
var (
	ErrWrite = errors.New("artifact write failed")
)

// RatingsFile is the ratings artifact.
type RatingsFile struct {
	Config           rating.Config      `json:"config"`
	ComputedAt       string             `json:"computedAt"`
	MatchesProcessed int                `json:"matchesProcessed"`
	Teams            []rating.TeamState `json:"teams"`
}

// Bundle is everything one run writes.
type Bundle struct {
	Ratings  RatingsFile
	Daily    snapshot.Daily
	Registry map[string]model.RegistryEntry
}

// Writer places the three artifacts in one directory.
type Writer struct {
	dir      string
	ratings  string
	daily    string
	registry string
}

// Option configures a Writer.
type Option func(*Writer)

// WithFileNames overrides the artifact file names. Empty names keep the
// defaults.
func WithFileNames(ratings, daily, registry string) Option {
	return func(w *Writer) {
		if ratings != "" {
			w.ratings = ratings
		}
		if daily != "" {
			w.daily = daily
		}
		if registry != "" {
			w.registry = registry
		}
	}
}

// NewWriter returns a writer for dir.
func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:      dir,
		ratings:  DefaultRatingsFile,
		daily:    DefaultDailyFile,
		registry: DefaultRegistryFile,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RatingsPath returns where the ratings artifact is written.
func (w *Writer) RatingsPath() string { return filepath.Join(w.dir, w.ratings) }

// DailyPath returns where the daily snapshot artifact is written.
func (w *Writer) DailyPath() string { return filepath.Join(w.dir, w.daily) }

// RegistryPath returns where the registry artifact is written.
func (w *Writer) RegistryPath() string { return filepath.Join(w.dir, w.registry) }

type staged struct {
	tmp  string
	dest string
	prev string
}

// Write encodes and stages all three artifacts, then renames them into
// place. Nothing is left behind when encoding or staging fails. When a
// rename fails, artifacts already moved are rolled back to their previous
// contents (or removed if there were none).
func (w *Writer) Write(b Bundle) error {
	if b.Ratings.Teams == nil {
		b.Ratings.Teams = []rating.TeamState{}
	}
	if b.Daily == nil {
		b.Daily = snapshot.Daily{}
	}
	if b.Registry == nil {
		b.Registry = map[string]model.RegistryEntry{}
	}
	payloads := []struct {
		dest string
		v    any
	}{
		{w.RatingsPath(), b.Ratings},
		{w.DailyPath(), b.Daily},
		{w.RegistryPath(), b.Registry},
	}

	encoded := make([][]byte, len(payloads))
	for i, p := range payloads {
		raw, err := Encode(p.v)
		if err != nil {
			return errors.Mark(errors.Wrapf(err, "encode %s", p.dest), ErrWrite)
		}
		encoded[i] = raw
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Mark(errors.Wrapf(err, "create %s", w.dir), ErrWrite)
	}

	var files []staged
	cleanup := func() {
		for _, f := range files {
			_ = os.Remove(f.tmp)
		}
	}
	for i, p := range payloads {
		tmp, err := stage(w.dir, encoded[i])
		if err != nil {
			cleanup()
			return err
		}
		files = append(files, staged{tmp: tmp, dest: p.dest})
	}
	var swapped []staged
	rollback := func() {
		for i := len(swapped) - 1; i >= 0; i-- {
			swapped[i].restore()
		}
		cleanup()
	}
	for i := range files {
		if err := files[i].swap(); err != nil {
			rollback()
			return errors.Mark(errors.Wrapf(err, "rename %s", files[i].dest), ErrWrite)
		}
		swapped = append(swapped, files[i])
	}
	for _, f := range swapped {
		if f.prev != "" {
			_ = os.Remove(f.prev)
		}
	}
	return nil
}

// swap moves the staged file over dest, keeping any previous dest aside.
func (f *staged) swap() error {
	if _, err := os.Stat(f.dest); err == nil {
		prev := f.tmp + ".prev"
		if err := os.Rename(f.dest, prev); err != nil {
			return err
		}
		f.prev = prev
	}
	if err := os.Rename(f.tmp, f.dest); err != nil {
		if f.prev != "" {
			_ = os.Rename(f.prev, f.dest)
			f.prev = ""
		}
		return err
	}
	return nil
}

// restore undoes a successful swap.
func (f staged) restore() {
	if f.prev == "" {
		_ = os.Remove(f.dest)
		return
	}
	_ = os.Rename(f.prev, f.dest)
}

func stage(dir string, raw []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".msi-*.tmp")
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "create temp file"), ErrWrite)
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", errors.Mark(errors.Wrap(err, "write temp file"), ErrWrite)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", errors.Mark(errors.Wrap(err, "close temp file"), ErrWrite)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", errors.Mark(errors.Wrap(err, "chmod temp file"), ErrWrite)
	}
	return f.Name(), nil
}

// Encode renders v as indented JSON with sorted map keys and a trailing
// newline.
func Encode(v any) ([]byte, error) {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// WriteFile encodes v into path directly. It is used for single-file outputs
// such as generated match lists.
func WriteFile(path string, v any) error {
	raw, err := Encode(v)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "encode %s", path), ErrWrite)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Mark(errors.Wrapf(err, "create %s", dir), ErrWrite)
		}
	}
	tmp, err := stage(filepath.Dir(path), raw)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Mark(errors.Wrapf(err, "rename %s", path), ErrWrite)
	}
	return nil
}
