// Package vocabulary derives document frequencies from a record store and
// strips the most frequent tokens as stop words.
package vocabulary

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/phuslu/log"
)

// ErrInvalidProportion is returned when a stop-word proportion is outside [0, 1]
var ErrInvalidProportion = errors.New("stop word proportion must be in [0, 1]")

// TokenFrequency pairs a token with the number of records containing it
type TokenFrequency struct {
	Token     string
	Frequency int
}

// Frequencies maps tokens to document frequency, remembering first-seen order
type Frequencies struct {
	counts map[string]int
	order  []string
}

// DocumentFrequencies counts, for every token, the distinct records containing it
func DocumentFrequencies(store *dataset.Store) *Frequencies {
	f := &Frequencies{counts: make(map[string]int)}
	for i := 0; i < store.Len(); i++ {
		seen := make(map[string]struct{})
		for _, tok := range strings.Fields(store.At(i).Text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			if _, known := f.counts[tok]; !known {
				f.order = append(f.order, tok)
			}
			f.counts[tok]++
		}
	}
	return f
}

// Len returns the number of distinct tokens
func (f *Frequencies) Len() int {
	return len(f.order)
}

// Frequency returns the document frequency of token
func (f *Frequencies) Frequency(token string) int {
	return f.counts[token]
}

// Ranked returns tokens by descending frequency. Ties keep first-seen order.
func (f *Frequencies) Ranked() []TokenFrequency {
	ranked := make([]TokenFrequency, len(f.order))
	for i, tok := range f.order {
		ranked[i] = TokenFrequency{Token: tok, Frequency: f.counts[tok]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	return ranked
}

// StopWords returns the top floor(proportion*Len()) tokens of the ranking
func (f *Frequencies) StopWords(proportion float64) map[string]struct{} {
	n := int(math.Floor(proportion * float64(len(f.order))))
	stops := make(map[string]struct{}, n)
	for _, tf := range f.Ranked()[:n] {
		stops[tf.Token] = struct{}{}
	}
	return stops
}

// EliminateStopWords removes the most frequent proportion of distinct tokens
// from every record's text. Remaining tokens keep their order and are joined
// with single spaces. It returns the removed stop words, most frequent first.
func EliminateStopWords(store *dataset.Store, proportion float64) ([]string, error) {
	if proportion < 0 || proportion > 1 || math.IsNaN(proportion) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProportion, proportion)
	}
	if proportion == 0 {
		return nil, nil
	}

	freqs := DocumentFrequencies(store)
	stops := freqs.StopWords(proportion)

	for i := 0; i < store.Len(); i++ {
		tokens := strings.Fields(store.At(i).Text)
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := stops[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		store.SetText(i, strings.Join(kept, " "))
	}

	removed := make([]string, 0, len(stops))
	for _, tf := range freqs.Ranked() {
		if _, stop := stops[tf.Token]; stop {
			removed = append(removed, tf.Token)
		}
	}

	log.Debug().Int("stop_words", len(removed)).Int("vocabulary", freqs.Len()).Float64("proportion", proportion).Msg("eliminated stop words")
	return removed, nil
}
