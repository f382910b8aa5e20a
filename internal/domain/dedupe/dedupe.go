// Package dedupe indexes fixtures by their real-world identity so the same
// game reported twice can be recognised.
package dedupe

import (
	"sync"

	"github.com/okian/msi/internal/domain/model"
)

// Key identifies a real-world fixture: the calendar day the source wrote
// plus both team names. Minute-level timestamp differences do not affect it.
type Key struct {
	Day  string
	Home string
	Away string
}

// KeyOf derives the fixture key of a match.
func KeyOf(m model.Match) Key {
	return Key{Day: model.FormatDay(m.Date), Home: m.HomeTeam, Away: m.AwayTeam}
}

// Index records fixture keys.
type Index interface {
	// SeenAndRecord records key for the match id unless the key is already
	// present. It returns the id that first claimed the key and whether the
	// key had been seen before.
	SeenAndRecord(key Key, id int64) (first int64, seen bool)

	// Contains reports whether key was recorded.
	Contains(key Key) bool

	Size() int
}

type inMemoryIndex struct {
	mu   sync.RWMutex
	keys map[Key]int64
}

// NewIndex creates an unbounded in-memory fixture index.
func NewIndex(opts ...Option) Index {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &inMemoryIndex{keys: make(map[Key]int64, o.capacity)}
}

func (x *inMemoryIndex) SeenAndRecord(key Key, id int64) (int64, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if first, ok := x.keys[key]; ok {
		return first, true
	}
	x.keys[key] = id
	return id, false
}

func (x *inMemoryIndex) Contains(key Key) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.keys[key]
	return ok
}

func (x *inMemoryIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.keys)
}
