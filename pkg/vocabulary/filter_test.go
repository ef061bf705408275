package vocabulary

import (
	"testing"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newsStore() *dataset.Store {
	return dataset.NewStore([]dataset.Record{
		{ID: 1, Label: dataset.Some("U"), Text: "the market rose the most"},
		{ID: 2, Label: dataset.Some("D"), Text: "the market  fell"},
		{ID: 3, Label: dataset.Some("U"), Text: "the senate passed a bill"},
		{ID: 4, Label: dataset.None(), Text: ""},
	})
}

func texts(s *dataset.Store) []string {
	out := make([]string, s.Len())
	for i := range out {
		out[i] = s.At(i).Text
	}
	return out
}

func TestDocumentFrequencies(t *testing.T) {
	f := DocumentFrequencies(newsStore())

	assert.Equal(t, 3, f.Frequency("the"), "repeated tokens count once per record")
	assert.Equal(t, 2, f.Frequency("market"))
	assert.Equal(t, 1, f.Frequency("bill"))
	assert.Equal(t, 0, f.Frequency("absent"))
	assert.Equal(t, 9, f.Len())
}

func TestRankedTieBreakIsFirstSeen(t *testing.T) {
	ranked := DocumentFrequencies(newsStore()).Ranked()
	require.Len(t, ranked, 9)

	assert.Equal(t, TokenFrequency{Token: "the", Frequency: 3}, ranked[0])
	assert.Equal(t, TokenFrequency{Token: "market", Frequency: 2}, ranked[1])
	// frequency-1 tokens in first-seen order
	assert.Equal(t, "rose", ranked[2].Token)
	assert.Equal(t, "most", ranked[3].Token)
	assert.Equal(t, "fell", ranked[4].Token)
	assert.Equal(t, "bill", ranked[8].Token)
}

func TestEliminateStopWordsZeroIsNoop(t *testing.T) {
	store := newsStore()
	before := texts(store)

	removed, err := EliminateStopWords(store, 0)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.Equal(t, before, texts(store), "double space must survive a zero proportion")
}

func TestEliminateStopWordsAll(t *testing.T) {
	store := newsStore()
	removed, err := EliminateStopWords(store, 1)
	require.NoError(t, err)
	assert.Len(t, removed, 9)
	for _, text := range texts(store) {
		assert.Empty(t, text)
	}
}

func TestEliminateStopWordsTopFraction(t *testing.T) {
	store := newsStore()
	removed, err := EliminateStopWords(store, 0.25)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "market"}, removed)

	assert.Equal(t, []string{
		"rose most",
		"fell",
		"senate passed a bill",
		"",
	}, texts(store))
}

func TestEliminateStopWordsInvalidProportion(t *testing.T) {
	for _, p := range []float64{-0.5, 1.01} {
		_, err := EliminateStopWords(newsStore(), p)
		assert.ErrorIs(t, err, ErrInvalidProportion)
	}
}

func TestEliminateStopWordsShrinksVocabulary(t *testing.T) {
	store := newsStore()
	before := store.VocabularySize()
	_, err := EliminateStopWords(store, 0.5)
	require.NoError(t, err)
	assert.Equal(t, before-4, store.VocabularySize())
}
