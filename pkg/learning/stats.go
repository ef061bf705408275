package learning

import (
	"fmt"
	"io"
	"time"
)

// ClassInfo summarises one class of a fitted model
type ClassInfo struct {
	Label       string  `json:"label"`
	Count       int     `json:"count"`
	Probability float64 `json:"probability"`
	Tokens      int     `json:"tokens"`
	Distinct    int     `json:"distinct"`
}

// ModelInfo contains model information
type ModelInfo struct {
	Alpha          float64     `json:"alpha"`
	TotalRecords   int         `json:"total_records"`
	VocabularySize int         `json:"vocabulary_size"`
	Classes        []ClassInfo `json:"classes"`
	LastTrained    time.Time   `json:"last_trained"`
}

// GetModelInfo returns information about the trained model
func (nb *NaiveBayes) GetModelInfo() *ModelInfo {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	info := &ModelInfo{
		Alpha:          nb.alpha,
		TotalRecords:   nb.totalRecords,
		VocabularySize: nb.vocabSize,
		LastTrained:    nb.lastTrained,
		Classes:        make([]ClassInfo, len(nb.classes)),
	}
	for i, class := range nb.classes {
		var tokens int
		for _, c := range nb.wordCounts[i] {
			tokens += c
		}
		info.Classes[i] = ClassInfo{
			Label:       class,
			Count:       nb.classCounts[i],
			Probability: nb.classProbabilities[i],
			Tokens:      tokens,
			Distinct:    len(nb.wordCounts[i]),
		}
	}
	return info
}

// TopWords returns the most frequent words of a class
func (nb *NaiveBayes) TopWords(class, limit int) []WordCount {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if class < 0 || class >= len(nb.classes) {
		return nil
	}
	words := sortedWords(nb.wordOrder[class], nb.wordCounts[class])
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

// PrintStats prints model statistics
func (nb *NaiveBayes) PrintStats(w io.Writer) {
	info := nb.GetModelInfo()

	fmt.Fprintf(w, "🧠 Naive Bayes Market Model\n")
	fmt.Fprintf(w, "════════════════════════════════════════\n")
	fmt.Fprintf(w, "Training Data:\n")
	fmt.Fprintf(w, "  Records: %d\n", info.TotalRecords)
	fmt.Fprintf(w, "  Vocabulary size: %d\n", info.VocabularySize)
	fmt.Fprintf(w, "  Smoothing alpha: %.2f\n", info.Alpha)
	if !info.LastTrained.IsZero() {
		fmt.Fprintf(w, "  Last trained: %s\n", info.LastTrained.Format("2006-01-02 15:04:05"))
	}

	for i, c := range info.Classes {
		fmt.Fprintf(w, "\n📈 Class %s: %d records (p=%.3f), %d tokens, %d distinct\n",
			c.Label, c.Count, c.Probability, c.Tokens, c.Distinct)
		for j, word := range nb.TopWords(i, 10) {
			fmt.Fprintf(w, "  %2d. %-15s %d\n", j+1, word.Word, word.Count)
		}
	}

	fmt.Fprintf(w, "\n")
}
