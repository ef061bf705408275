package learning

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

const dumpSeparatorWidth = 100

// Save writes a human-readable dump of the class parameters and word counts.
// Classes appear in discovery order and words in first-seen order.
func (nb *NaiveBayes) Save(w io.Writer) error {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	bw := bufio.NewWriter(w)
	separator := strings.Repeat("-", dumpSeparatorWidth)

	for i, class := range nb.classes {
		fmt.Fprintf(bw, "%s\n", separator)
		fmt.Fprintf(bw, "Class: %s\n", class)
		fmt.Fprintf(bw, "Class Count: %d\n", nb.classCounts[i])
		fmt.Fprintf(bw, "Class Probability: %s\n\n", formatFloat(nb.classProbabilities[i]))
		for _, word := range nb.wordOrder[i] {
			fmt.Fprintf(bw, "%s: %d\n", word, nb.wordCounts[i][word])
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write model dump: %w", err)
	}
	return nil
}

// SaveFile writes the Save dump to path
func (nb *NaiveBayes) SaveFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	if err := nb.Save(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// formatFloat prints the shortest exact form of f, keeping a ".0" on
// integral values so 1 reads as 1.0
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// WordCount is a token with its occurrence count
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// ClassSnapshot holds the parameters of one class
type ClassSnapshot struct {
	Label       string      `json:"label"`
	Count       int         `json:"count"`
	Probability float64     `json:"probability"`
	Words       []WordCount `json:"words"`
}

// Snapshot is the complete, machine-readable state of a fitted model
type Snapshot struct {
	Alpha        float64         `json:"alpha"`
	VocabSize    int             `json:"vocab_size"`
	TotalRecords int             `json:"total_records"`
	LastTrained  time.Time       `json:"last_trained"`
	Classes      []ClassSnapshot `json:"classes"`
}

// Snapshot captures the model parameters
func (nb *NaiveBayes) Snapshot() *Snapshot {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	s := &Snapshot{
		Alpha:        nb.alpha,
		VocabSize:    nb.vocabSize,
		TotalRecords: nb.totalRecords,
		LastTrained:  nb.lastTrained,
		Classes:      make([]ClassSnapshot, len(nb.classes)),
	}
	for i, class := range nb.classes {
		words := make([]WordCount, len(nb.wordOrder[i]))
		for j, word := range nb.wordOrder[i] {
			words[j] = WordCount{Word: word, Count: nb.wordCounts[i][word]}
		}
		s.Classes[i] = ClassSnapshot{
			Label:       class,
			Count:       nb.classCounts[i],
			Probability: nb.classProbabilities[i],
			Words:       words,
		}
	}
	return s
}

// FromSnapshot rebuilds a model from s
func FromSnapshot(s *Snapshot) (*NaiveBayes, error) {
	nb, err := NewNaiveBayes(s.Alpha)
	if err != nil {
		return nil, err
	}

	n := len(s.Classes)
	nb.classes = make([]string, n)
	nb.classCounts = make([]int, n)
	nb.classProbabilities = make([]float64, n)
	nb.wordCounts = make([]map[string]int, n)
	nb.wordOrder = make([][]string, n)

	var total int
	for i, c := range s.Classes {
		if _, dup := nb.classIndex[c.Label]; dup {
			return nil, fmt.Errorf("duplicate class %q in snapshot", c.Label)
		}
		nb.classes[i] = c.Label
		nb.classIndex[c.Label] = i
		nb.classCounts[i] = c.Count
		nb.classProbabilities[i] = c.Probability
		total += c.Count

		counts := make(map[string]int, len(c.Words))
		order := make([]string, 0, len(c.Words))
		for _, wc := range c.Words {
			if _, seen := counts[wc.Word]; !seen {
				order = append(order, wc.Word)
			}
			counts[wc.Word] += wc.Count
		}
		nb.wordCounts[i] = counts
		nb.wordOrder[i] = order
	}

	if total != s.TotalRecords {
		return nil, fmt.Errorf("snapshot class counts sum to %d, want %d", total, s.TotalRecords)
	}

	nb.vocabSize = s.VocabSize
	nb.totalRecords = s.TotalRecords
	nb.lastTrained = s.LastTrained
	return nb, nil
}

// compressedSuffix marks snapshot files stored zstd compressed
const compressedSuffix = ".zst"

// SaveSnapshot writes the model as indented JSON to path. A path ending in
// .zst is zstd compressed.
func (nb *NaiveBayes) SaveSnapshot(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	var zw *zstd.Encoder
	if strings.HasSuffix(path, compressedSuffix) {
		zw, err = zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("failed to create compressor: %w", err)
		}
		w = zw
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(nb.Snapshot()); err != nil {
		if zw != nil {
			zw.Close()
		}
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("failed to compress model: %w", err)
		}
	}
	return file.Close()
}

// LoadSnapshot reads a model written by SaveSnapshot
func LoadSnapshot(path string) (*NaiveBayes, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(path, compressedSuffix) {
		zr, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to create decompressor: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return FromSnapshot(&s)
}

// sortedWords returns words ordered by count descending, ties by first-seen order
func sortedWords(order []string, counts map[string]int) []WordCount {
	words := make([]WordCount, len(order))
	for i, word := range order {
		words[i] = WordCount{Word: word, Count: counts[word]}
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Count > words[j].Count
	})
	return words
}
