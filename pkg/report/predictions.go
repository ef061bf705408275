// Package report writes classifier predictions and compares prediction files.
package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prediction is the predicted class for one record
type Prediction struct {
	ID    int
	Class string
}

// WritePredictions writes id,class rows with a header
func WritePredictions(w io.Writer, predictions []Prediction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "class"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range predictions {
		if err := writer.Write([]string{strconv.Itoa(p.ID), p.Class}); err != nil {
			return fmt.Errorf("failed to write prediction %d: %w", p.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadPredictions reads a file written by WritePredictions
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2

	var predictions []Prediction
	for line := 1; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return predictions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read predictions: %w", err)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid id %q", line, fields[0])
		}
		predictions = append(predictions, Prediction{ID: id, Class: fields[1]})
	}
}

// Difference is a line where two prediction files disagree
type Difference struct {
	Line   int
	LineA  string
	LineB  string
	GuessA string
	GuessB string
}

// Diff compares two prediction files line by line. Lines are trimmed before
// comparison; only lines present in both inputs are compared.
func Diff(a, b io.Reader) ([]Difference, error) {
	linesA, err := readLines(a)
	if err != nil {
		return nil, fmt.Errorf("failed to read first file: %w", err)
	}
	linesB, err := readLines(b)
	if err != nil {
		return nil, fmt.Errorf("failed to read second file: %w", err)
	}

	n := min(len(linesA), len(linesB))
	var diffs []Difference
	for i := 0; i < n; i++ {
		if linesA[i] == linesB[i] {
			continue
		}
		diffs = append(diffs, Difference{
			Line:   i,
			LineA:  linesA[i],
			LineB:  linesB[i],
			GuessA: guess(linesA[i]),
			GuessB: guess(linesB[i]),
		})
	}
	return diffs, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}

// guess returns the class column of a prediction line
func guess(line string) string {
	_, class, found := strings.Cut(line, ",")
	if !found {
		return ""
	}
	class, _, _ = strings.Cut(class, ",")
	return class
}
