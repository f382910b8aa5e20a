package calibration

import (
	"cmp"
	"encoding/csv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// Reference formats.
const (
	FormatClubEloCSV = "clubelo-csv"
	FormatRankedJSON = "ranked-json"
	FormatPairsJSON  = "pairs-json"
)

// Pair is one reference team with its rating. Position in the parsed slice
// is the reference rank.
type Pair struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// ReferenceParser yields ordered (name, rating) pairs, best first.
type ReferenceParser interface {
	Format() string
	Parse(r io.Reader) ([]Pair, error)
}

// ParserFor returns the parser registered for format.
func ParserFor(format string) (ReferenceParser, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatClubEloCSV:
		return clubEloCSV{}, nil
	case FormatRankedJSON:
		return rankedJSON{}, nil
	case FormatPairsJSON:
		return pairsJSON{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
}

// Formats lists the supported format names.
func Formats() []string {
	return []string{FormatClubEloCSV, FormatRankedJSON, FormatPairsJSON}
}

// clubEloCSV reads the ClubElo ranking export:
// Rank,Club,Country,Level,Elo,From,To. Rows are ordered by Elo descending.
type clubEloCSV struct{}

func (clubEloCSV) Format() string { return FormatClubEloCSV }

func (clubEloCSV) Parse(r io.Reader) ([]Pair, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read clubelo header")
	}
	club, elo := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "Club":
			club = i
		case "Elo":
			elo = i
		}
	}
	if club < 0 || elo < 0 {
		return nil, errors.Newf("clubelo header lacks Club/Elo columns: %v", header)
	}

	var out []Pair
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read clubelo row")
		}
		if len(rec) <= max(club, elo) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[elo]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "clubelo rating for %q", rec[club])
		}
		out = append(out, Pair{Name: strings.TrimSpace(rec[club]), Rating: v})
	}
	slices.SortStableFunc(out, func(a, b Pair) int { return cmp.Compare(b.Rating, a.Rating) })
	return nonEmpty(out)
}

// rankedJSON reads [{"team": "...", "elo": 2052, "rank": 1}, ...] and orders
// by the explicit rank.
type rankedJSON struct{}

type rankedEntry struct {
	Team string  `json:"team"`
	Elo  float64 `json:"elo"`
	Rank int     `json:"rank"`
}

func (rankedJSON) Format() string { return FormatRankedJSON }

func (rankedJSON) Parse(r io.Reader) ([]Pair, error) {
	var entries []rankedEntry
	if err := sonic.ConfigStd.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "decode ranked reference")
	}
	slices.SortStableFunc(entries, func(a, b rankedEntry) int { return cmp.Compare(a.Rank, b.Rank) })
	out := make([]Pair, len(entries))
	for i, e := range entries {
		out[i] = Pair{Name: e.Team, Rating: e.Elo}
	}
	return nonEmpty(out)
}

// pairsJSON reads [{"name": "...", "rating": 1900}, ...] already in rank order.
type pairsJSON struct{}

func (pairsJSON) Format() string { return FormatPairsJSON }

func (pairsJSON) Parse(r io.Reader) ([]Pair, error) {
	var out []Pair
	if err := sonic.ConfigStd.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode reference pairs")
	}
	return nonEmpty(out)
}

func nonEmpty(p []Pair) ([]Pair, error) {
	if len(p) == 0 {
		return nil, ErrEmptyRanking
	}
	return p, nil
}
