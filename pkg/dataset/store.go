package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// ErrInvalidProportion is returned when a split proportion is outside [0, 1)
var ErrInvalidProportion = errors.New("split proportion must be in [0, 1)")

// Store is an ordered in-memory collection of records
type Store struct {
	records []Record
}

// NewStore creates a store owning a copy of records
func NewStore(records []Record) *Store {
	s := &Store{records: make([]Record, len(records))}
	copy(s.records, records)
	return s
}

// Len returns the number of records
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of the records in store order
func (s *Store) Records() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// At returns the record at position i
func (s *Store) At(i int) Record {
	return s.records[i]
}

// SetText replaces the text of the record at position i
func (s *Store) SetText(i int, text string) {
	s.records[i].Text = text
}

// Append adds records to the end of the store
func (s *Store) Append(records ...Record) {
	s.records = append(s.records, records...)
}

// Clone returns an independent copy of the store
func (s *Store) Clone() *Store {
	return NewStore(s.Records())
}

// Shuffle randomly permutes the records in place. A nil rng uses a
// time-seeded source.
func (s *Store) Shuffle(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	rng.Shuffle(len(s.records), func(i, j int) {
		s.records[i], s.records[j] = s.records[j], s.records[i]
	})
}

// Split removes the last floor(proportion*Len()) records and returns them
// as a new store. Both stores keep their relative order and share no storage.
func (s *Store) Split(proportion float64) (*Store, error) {
	if proportion < 0 || proportion >= 1 || math.IsNaN(proportion) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProportion, proportion)
	}

	n := int(math.Floor(proportion * float64(len(s.records))))
	cut := len(s.records) - n

	tail := NewStore(s.records[cut:])
	head := make([]Record, cut)
	copy(head, s.records[:cut])
	s.records = head

	return tail, nil
}

// VocabularySize counts distinct whitespace-delimited tokens across all texts
func (s *Store) VocabularySize() int {
	if s == nil {
		return 0
	}
	seen := make(map[string]struct{})
	for _, r := range s.records {
		for _, tok := range strings.Fields(r.Text) {
			seen[tok] = struct{}{}
		}
	}
	return len(seen)
}

// LabeledCount returns the number of records with a present label
func (s *Store) LabeledCount() int {
	if s == nil {
		return 0
	}
	var n int
	for _, r := range s.records {
		if r.Label.IsSet() {
			n++
		}
	}
	return n
}
