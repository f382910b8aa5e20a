package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okian/msi/internal/domain/model"
	"golang.org/x/text/encoding/charmap"
)

// FirstFootballDataID is the first ID assigned to football-data rows, well
// above the IDs of API-sourced matches.
const FirstFootballDataID int64 = 1_000_000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant byte sequence

// kickoffHour is the nominal kick-off time given to day-only dates.
const kickoffHour = 15

// LeagueCodes maps football-data division codes to league codes.
func LeagueCodes() map[string]string {
	return map[string]string{
		"E0":  "PL",
		"SP1": "PD",
		"D1":  "BL1",
		"I1":  "SA",
		"F1":  "FL1",
	}
}

// FootballData reads football-data.co.uk result CSVs. The path is either one
// file or a directory of files named like E0_1516.csv, read in name order.
// Files are Windows-1252 encoded unless they start with a UTF-8 BOM.
type FootballData struct {
	name string
	path string
	opts *options
}

// Name implements merge.Source.
func (s *FootballData) Name() string { return s.name }

// Load implements merge.Source.
func (s *FootballData) Load(ctx context.Context) ([]model.Match, []model.Issue, error) {
	files, err := s.files()
	if err != nil {
		return nil, nil, err
	}
	next := FirstFootballDataID
	var (
		matches []model.Match
		issues  []model.Issue
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, errors.Wrap(err, "load cancelled")
		}
		ms, is, err := s.readFile(path, &next)
		if err != nil {
			return nil, nil, err
		}
		matches = append(matches, ms...)
		issues = append(issues, is...)
	}
	return matches, issues, nil
}

func (s *FootballData) files() ([]string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "stat %s", s.path), model.ErrInputMissing)
	}
	if !info.IsDir() {
		return []string{s.path}, nil
	}
	found, err := filepath.Glob(filepath.Join(s.path, "*.csv"))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "list %s", s.path), model.ErrInputMissing)
	}
	if len(found) == 0 {
		return nil, errors.Mark(errors.Newf("no csv files in %s", s.path), model.ErrInputMissing)
	}
	slices.Sort(found)
	return found, nil
}

func (s *FootballData) readFile(path string, next *int64) ([]model.Match, []model.Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "open %s", path), model.ErrInputMissing)
	}
	defer func() { _ = f.Close() }()

	league, season := describeFile(path)
	br := bufio.NewReader(f)
	var in io.Reader = charmap.Windows1252.NewDecoder().Reader(br)
	if bom, _ := br.Peek(len(utf8BOM)); bytes.Equal(bom, utf8BOM) {
		// A BOM marks the file as UTF-8 already.
		_, _ = br.Discard(len(utf8BOM))
		in = br
	}
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "read header of %s", path), model.ErrInputMissing)
	}
	col := columns(header)
	for _, want := range []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"} {
		if _, ok := col[want]; !ok {
			return nil, nil, errors.Mark(errors.Newf("%s: missing column %s", path, want), model.ErrInputMissing)
		}
	}

	var (
		matches []model.Match
		issues  []model.Issue
	)
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			issues = append(issues, malformed(s.name, 0, errors.Wrapf(err, "%s:%d", filepath.Base(path), line)))
			continue
		}
		field := func(name string) string {
			i := col[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("Date") == "" && field("HomeTeam") == "" {
			continue // trailing filler row
		}
		m, err := s.row(field, league, season)
		if err != nil {
			issues = append(issues, malformed(s.name, 0, errors.Wrapf(err, "%s:%d", filepath.Base(path), line)))
			continue
		}
		m.ID = *next
		*next++
		matches = append(matches, m)
	}
	return matches, issues, nil
}

func (s *FootballData) row(field func(string) string, league, season string) (model.Match, error) {
	at, err := ParseFootballDataDate(field("Date"))
	if err != nil {
		return model.Match{}, errors.Mark(err, model.ErrMalformedRecord)
	}
	hg, herr := strconv.Atoi(field("FTHG"))
	ag, aerr := strconv.Atoi(field("FTAG"))
	if herr != nil || aerr != nil {
		return model.Match{}, errors.Mark(errors.Newf("bad score %q-%q", field("FTHG"), field("FTAG")), model.ErrMalformedRecord)
	}
	m := model.Match{
		Date:      at,
		League:    league,
		Season:    season,
		HomeTeam:  s.opts.name(field("HomeTeam")),
		AwayTeam:  s.opts.name(field("AwayTeam")),
		HomeGoals: hg,
		AwayGoals: ag,
	}
	return m, m.Validate()
}

func columns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := col[h]; !dup {
			col[h] = i
		}
	}
	return col
}

// ParseFootballDataDate parses DD/MM/YY or DD/MM/YYYY into a 15:00 UTC
// timestamp. Two-digit years above 50 are 19xx; years before 2000 are
// rejected.
func ParseFootballDataDate(v string) (time.Time, error) {
	parts := strings.Split(v, "/")
	if len(parts) != 3 {
		return time.Time{}, errors.Newf("unparseable date %q", v)
	}
	day, derr := strconv.Atoi(parts[0])
	month, merr := strconv.Atoi(parts[1])
	year, yerr := strconv.Atoi(parts[2])
	if derr != nil || merr != nil || yerr != nil {
		return time.Time{}, errors.Newf("unparseable date %q", v)
	}
	if len(parts[2]) == 2 {
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 2000 {
		return time.Time{}, errors.Newf("date out of range %q", v)
	}
	t := time.Date(year, time.Month(month), day, kickoffHour, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, errors.Newf("no such day %q", v)
	}
	return t, nil
}

// describeFile derives the league and season from names like
// data/E0_1516.csv or data/1516/E0.csv. Unknown division codes pass through.
func describeFile(path string) (league, season string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	code, suffix, _ := strings.Cut(base, "_")
	league = code
	if mapped, ok := LeagueCodes()[code]; ok {
		league = mapped
	}
	if suffix == "" {
		suffix = filepath.Base(filepath.Dir(path))
	}
	return league, SeasonLabel(suffix)
}

// SeasonLabel turns a YYZZ code such as 1516 into 2015-2016. Anything else
// yields an empty label.
func SeasonLabel(code string) string {
	if len(code) != 4 {
		return ""
	}
	first, err1 := strconv.Atoi(code[:2])
	second, err2 := strconv.Atoi(code[2:])
	if err1 != nil || err2 != nil || (first+1)%100 != second {
		return ""
	}
	century := 2000
	if first > 50 {
		century = 1900
	}
	return fmt.Sprintf("%d-%d", century+first, century+first+1)
}
