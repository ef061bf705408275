package learning

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDump(t *testing.T) {
	nb := fitted(t, upDownStore(), 1)

	var buf bytes.Buffer
	require.NoError(t, nb.Save(&buf))

	separator := strings.Repeat("-", 100)
	expected := separator + "\n" +
		"Class: U\n" +
		"Class Count: 1\n" +
		"Class Probability: 0.5\n\n" +
		"stocks: 1\nrose: 1\ntoday: 1\n" +
		separator + "\n" +
		"Class: D\n" +
		"Class Count: 1\n" +
		"Class Probability: 0.5\n\n" +
		"market: 1\nfell: 1\nhard: 1\n"
	assert.Equal(t, expected, buf.String())
}

func TestSaveDumpReportsExactProbabilities(t *testing.T) {
	store := dataset.NewStore([]dataset.Record{
		{ID: 1, Label: dataset.Some("U"), Text: "a"},
		{ID: 2, Label: dataset.Some("D"), Text: "b"},
		{ID: 3, Label: dataset.Some("D"), Text: "c"},
	})
	nb := fitted(t, store, 1)

	var buf bytes.Buffer
	require.NoError(t, nb.Save(&buf))
	out := buf.String()

	for i, class := range nb.Classes() {
		assert.Contains(t, out, "Class: "+class+"\n")
		assert.Contains(t, out, "Class Count: "+[]string{"1", "2"}[i]+"\n")
		assert.Contains(t, out, "Class Probability: "+formatFloat(nb.ClassProbabilities()[i])+"\n")
	}
	assert.Contains(t, out, "Class Probability: 0.3333333333333333\n")
	assert.Contains(t, out, "Class Probability: 0.6666666666666666\n")
}

func TestSaveDumpSingleClass(t *testing.T) {
	store := dataset.NewStore([]dataset.Record{
		{ID: 1, Label: dataset.Some("U"), Text: "stocks rose"},
		{ID: 2, Label: dataset.Some("U"), Text: "stocks rose again"},
	})
	nb := fitted(t, store, 1)

	var buf bytes.Buffer
	require.NoError(t, nb.Save(&buf))
	assert.Contains(t, buf.String(), "Class Count: 2\nClass Probability: 1.0\n\nstocks: 2\n")
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.5, "0.5"},
		{1.0 / 3.0, "0.3333333333333333"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in))
	}
}

func TestSaveEmptyModel(t *testing.T) {
	nb, err := NewNaiveBayes(1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, nb.Save(&buf))
	assert.Empty(t, buf.String())
}

func TestSnapshotRoundTrip(t *testing.T) {
	nb := fitted(t, newsStore(), 0.5)
	path := filepath.Join(t.TempDir(), "model.json")

	require.NoError(t, nb.SaveSnapshot(path))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, nb.Classes(), loaded.Classes())
	assert.Equal(t, nb.ClassCounts(), loaded.ClassCounts())
	assert.Equal(t, nb.ClassProbabilities(), loaded.ClassProbabilities())
	assert.Equal(t, nb.VocabSize(), loaded.VocabSize())
	assert.Equal(t, nb.Alpha(), loaded.Alpha())

	var a, b bytes.Buffer
	require.NoError(t, nb.Save(&a))
	require.NoError(t, loaded.Save(&b))
	assert.Equal(t, a.String(), b.String())

	for _, text := range []string{"markets fell", "shares rose", ""} {
		want, err := nb.Classify(text)
		require.NoError(t, err)
		got, err := loaded.Classify(text)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCompressedSnapshotRoundTrip(t *testing.T) {
	nb := fitted(t, newsStore(), 1)
	dir := t.TempDir()
	plain := filepath.Join(dir, "model.json")
	compressed := filepath.Join(dir, "model.json.zst")

	require.NoError(t, nb.SaveSnapshot(plain))
	require.NoError(t, nb.SaveSnapshot(compressed))

	raw, err := os.ReadFile(compressed)
	require.NoError(t, err)
	require.Greater(t, len(raw), 4)
	assert.Equal(t, []byte{0x28, 0xb5, 0x2f, 0xfd}, raw[:4], "zstd frame magic")

	loaded, err := LoadSnapshot(compressed)
	require.NoError(t, err)
	assert.Equal(t, nb.Snapshot().Classes, loaded.Snapshot().Classes)
	assert.Equal(t, nb.VocabSize(), loaded.VocabSize())

	// a plain file is not valid zstd
	require.NoError(t, os.Rename(plain, filepath.Join(dir, "plain.zst")))
	_, err = LoadSnapshot(filepath.Join(dir, "plain.zst"))
	assert.Error(t, err)
}

func TestFromSnapshotValidates(t *testing.T) {
	_, err := FromSnapshot(&Snapshot{Alpha: 0})
	assert.ErrorIs(t, err, ErrInvalidAlpha)

	_, err = FromSnapshot(&Snapshot{
		Alpha:        1,
		TotalRecords: 3,
		Classes:      []ClassSnapshot{{Label: "U", Count: 1}},
	})
	assert.Error(t, err)

	_, err = FromSnapshot(&Snapshot{
		Alpha:        1,
		TotalRecords: 2,
		Classes:      []ClassSnapshot{{Label: "U", Count: 1}, {Label: "U", Count: 1}},
	})
	assert.Error(t, err)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestPrintStats(t *testing.T) {
	nb := fitted(t, newsStore(), 1)

	var buf bytes.Buffer
	nb.PrintStats(&buf)
	out := buf.String()

	assert.Contains(t, out, "Records: 5")
	assert.Contains(t, out, "Vocabulary size: 24")
	assert.Contains(t, out, "Class D: 2 records")
	assert.Contains(t, out, "Class U: 3 records")
	assert.Contains(t, out, "fell")
}
