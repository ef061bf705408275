package ingest

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/phuslu/log"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/plugins"
)

// DefaultMinAbstractLength is the longest abstract that is still dropped
const DefaultMinAbstractLength = 5

// CleanOptions controls Clean
type CleanOptions struct {
	// Abstracts of at most MinLength bytes are dropped
	MinLength int

	// Normalizer optionally rewrites each abstract after citation markers
	// are removed
	Normalizer plugins.Normalizer
}

// DefaultCleanOptions returns options without a normalizer
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{MinLength: DefaultMinAbstractLength}
}

// Clean keeps labeled records with an abstract longer than MinLength,
// removes [...] markers, applies the normalizer and renumbers ids from 0.
// Records the normalizer empties are dropped.
func Clean(store *dataset.Store, opts CleanOptions) (*dataset.Store, error) {
	cleaned := make([]dataset.Record, 0, store.Len())
	dropped := 0

	for _, r := range store.Records() {
		if !r.Label.IsSet() || len(r.Text) <= opts.MinLength {
			dropped++
			continue
		}

		text := strings.TrimSpace(plugins.StripBrackets(r.Text))
		if opts.Normalizer != nil {
			normalized, err := opts.Normalizer.Normalize(text)
			if err != nil {
				return nil, fmt.Errorf("failed to normalize record %d: %w", r.ID, err)
			}
			text = strings.TrimSpace(normalized)
		}
		if text == "" {
			dropped++
			continue
		}

		cleaned = append(cleaned, dataset.Record{ID: len(cleaned), Label: r.Label, Text: text})
	}

	log.Info().Int("kept", len(cleaned)).Int("dropped", dropped).Msg("cleaned records")
	return dataset.NewStore(cleaned), nil
}

// Partition shuffles the store and splits it in half. The first half is
// the test set and the rest, including any odd record, is the training set.
func Partition(store *dataset.Store, rng *rand.Rand) (test, train *dataset.Store) {
	shuffled := store.Clone()
	shuffled.Shuffle(rng)

	records := shuffled.Records()
	half := len(records) / 2
	return dataset.NewStore(records[:half]), dataset.NewStore(records[half:])
}
