package learning

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyModel is returned when classifying with a model that has no classes
	ErrEmptyModel = errors.New("model has no classes; fit it on labeled records first")

	// ErrInvalidAlpha is returned for a smoothing constant that is not positive
	ErrInvalidAlpha = errors.New("smoothing alpha must be > 0")
)

// NaiveBayes classifies news text into market movement classes
type NaiveBayes struct {
	mu sync.RWMutex

	// Smoothing
	alpha float64

	// Classes in first-discovery order
	classes            []string
	classIndex         map[string]int
	classCounts        []int
	classProbabilities []float64

	// Per-class token counts, with tokens in first-seen order for dumps
	wordCounts []map[string]int
	wordOrder  [][]string

	vocabSize    int
	totalRecords int

	lastTrained time.Time
}

// NewNaiveBayes creates an untrained model with smoothing constant alpha
func NewNaiveBayes(alpha float64) (*NaiveBayes, error) {
	if !(alpha > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha)
	}
	return &NaiveBayes{
		alpha:      alpha,
		classIndex: make(map[string]int),
	}, nil
}

// Fit recomputes every parameter from the labeled records of store.
// Unlabeled records only contribute to the vocabulary size.
func (nb *NaiveBayes) Fit(store *dataset.Store) error {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	records := store.Records()

	nb.classes = nil
	nb.classIndex = make(map[string]int)
	for _, r := range records {
		label, ok := r.Label.Value()
		if !ok {
			continue
		}
		if _, known := nb.classIndex[label]; !known {
			nb.classIndex[label] = len(nb.classes)
			nb.classes = append(nb.classes, label)
		}
	}

	nb.classCounts = nb.countClasses(records)

	nb.totalRecords = 0
	for _, c := range nb.classCounts {
		nb.totalRecords += c
	}

	nb.classProbabilities = make([]float64, len(nb.classes))
	for i, c := range nb.classCounts {
		nb.classProbabilities[i] = float64(c) / float64(nb.totalRecords)
	}

	if err := nb.countWords(records); err != nil {
		return fmt.Errorf("failed to count words: %w", err)
	}

	nb.vocabSize = store.VocabularySize()
	nb.lastTrained = time.Now()

	log.Debug().
		Strs("classes", nb.classes).
		Int("records", nb.totalRecords).
		Int("vocabulary", nb.vocabSize).
		Msg("fitted naive bayes model")

	return nil
}

// countClasses counts labeled records per class
func (nb *NaiveBayes) countClasses(records []dataset.Record) []int {
	counts := make([]int, len(nb.classes))
	for _, r := range records {
		if label, ok := r.Label.Value(); ok {
			counts[nb.classIndex[label]]++
		}
	}
	return counts
}

// countWords counts every token occurrence per class. Each class is counted
// by its own goroutine into its own map.
func (nb *NaiveBayes) countWords(records []dataset.Record) error {
	nb.wordCounts = make([]map[string]int, len(nb.classes))
	nb.wordOrder = make([][]string, len(nb.classes))

	var g errgroup.Group
	for i, class := range nb.classes {
		i, class := i, class
		g.Go(func() error {
			counts := make(map[string]int)
			var order []string
			for _, r := range records {
				if !r.Label.Equal(class) {
					continue
				}
				for _, word := range strings.Fields(r.Text) {
					if _, seen := counts[word]; !seen {
						order = append(order, word)
					}
					counts[word]++
				}
			}
			nb.wordCounts[i] = counts
			nb.wordOrder[i] = order
			return nil
		})
	}
	return g.Wait()
}

// WordScore returns the score of word for the class at index class:
//
//	p(word|class) * p(class) / p(word)
//
// with both word probabilities smoothed by alpha over the vocabulary. This
// is not a normalised posterior and is kept as is; predictions depend on it.
func (nb *NaiveBayes) WordScore(word string, class int) float64 {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if class < 0 || class >= len(nb.classes) {
		return 0
	}
	return nb.wordScore(word, class)
}

func (nb *NaiveBayes) wordScore(word string, class int) float64 {
	smoothedVocab := nb.alpha * float64(nb.vocabSize)

	wordInClass := (float64(nb.wordCounts[class][word]) + nb.alpha) /
		(float64(nb.classCounts[class]) + smoothedVocab)

	var corpusCount int
	for _, counts := range nb.wordCounts {
		corpusCount += counts[word]
	}
	wordInCorpus := (float64(corpusCount) + nb.alpha) /
		(float64(nb.totalRecords) + smoothedVocab)

	return wordInClass * nb.classProbabilities[class] / wordInCorpus
}

// Classify returns the class whose product of word scores is largest.
// Products start at 1, words scoring exactly 0 are skipped and ties go to
// the earliest discovered class.
func (nb *NaiveBayes) Classify(text string) (string, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if len(nb.classes) == 0 {
		return "", ErrEmptyModel
	}

	best := 0
	bestScore := -1.0
	for i, score := range nb.scores(strings.Fields(text)) {
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	return nb.classes[best], nil
}

// Scores returns the product of word scores for every class, in class order
func (nb *NaiveBayes) Scores(text string) ([]float64, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if len(nb.classes) == 0 {
		return nil, ErrEmptyModel
	}
	return nb.scores(strings.Fields(text)), nil
}

func (nb *NaiveBayes) scores(words []string) []float64 {
	scores := make([]float64, len(nb.classes))
	for i := range nb.classes {
		score := 1.0
		for _, word := range words {
			ws := nb.wordScore(word, i)
			if ws == 0 {
				continue
			}
			score *= ws
		}
		scores[i] = score
	}
	return scores
}

// Alpha returns the smoothing constant
func (nb *NaiveBayes) Alpha() float64 {
	return nb.alpha
}

// Classes returns the class labels in discovery order
func (nb *NaiveBayes) Classes() []string {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return append([]string(nil), nb.classes...)
}

// ClassCounts returns the number of training records per class
func (nb *NaiveBayes) ClassCounts() []int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return append([]int(nil), nb.classCounts...)
}

// ClassProbabilities returns each class's share of the training records
func (nb *NaiveBayes) ClassProbabilities() []float64 {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return append([]float64(nil), nb.classProbabilities...)
}

// ClassIndex returns the position of label in Classes
func (nb *NaiveBayes) ClassIndex(label string) (int, bool) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	i, ok := nb.classIndex[label]
	return i, ok
}

// WordCount returns how often word occurred in records of the class at index class
func (nb *NaiveBayes) WordCount(word string, class int) int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	if class < 0 || class >= len(nb.wordCounts) {
		return 0
	}
	return nb.wordCounts[class][word]
}

// VocabSize returns the distinct token count of the training store
func (nb *NaiveBayes) VocabSize() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.vocabSize
}

// TotalRecords returns the number of labeled training records
func (nb *NaiveBayes) TotalRecords() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.totalRecords
}
