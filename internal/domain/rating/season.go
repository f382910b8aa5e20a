package rating

import "time"

// SeasonDetector flags season breaks: a gap between consecutive matches of
// at least the configured length.
type SeasonDetector struct {
	gap  time.Duration
	prev time.Time
	seen bool
}

// NewSeasonDetector creates a detector for a gap of days.
func NewSeasonDetector(days int) *SeasonDetector {
	return &SeasonDetector{gap: time.Duration(days) * 24 * time.Hour}
}

// Observe records t as the latest match time and reports whether the gap
// since the previous one reached the threshold. The first call never fires.
func (d *SeasonDetector) Observe(t time.Time) bool {
	defer func() {
		d.prev = t
		d.seen = true
	}()
	return d.seen && t.Sub(d.prev) >= d.gap
}
