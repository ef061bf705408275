package learning

import (
	"fmt"
	"math"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/profiler"
	"github.com/marketbayes/market-bayes/pkg/vocabulary"
)

// Params are the tunable settings of a training run
type Params struct {
	Alpha              float64 `json:"alpha" yaml:"alpha" toml:"alpha"`
	StopWordProportion float64 `json:"stop_word_proportion" yaml:"stop_word_proportion" toml:"stop_word_proportion"`
	ValidationSplit    float64 `json:"validation_split" yaml:"validation_split" toml:"validation_split"`
}

// DefaultParams returns the settings used when none are configured
func DefaultParams() Params {
	return Params{
		Alpha:              1.0,
		StopWordProportion: 0.0,
		ValidationSplit:    0.2,
	}
}

// Validate checks every parameter range
func (p Params) Validate() error {
	if !(p.Alpha > 0) || math.IsInf(p.Alpha, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, p.Alpha)
	}
	if !(p.StopWordProportion >= 0 && p.StopWordProportion <= 1) {
		return fmt.Errorf("stop_word_proportion must be in [0, 1], got %v", p.StopWordProportion)
	}
	if !(p.ValidationSplit >= 0 && p.ValidationSplit < 1) {
		return fmt.Errorf("validation_split must be in [0, 1), got %v", p.ValidationSplit)
	}
	return nil
}

// TrainResult is the outcome of Train
type TrainResult struct {
	Model      *NaiveBayes
	Train      *dataset.Store
	Validation *dataset.Store
	StopWords  []string
}

// Train strips stop words from a copy of records, holds out the validation
// split from its tail and fits a model on the rest. Shuffle records first if
// the hold-out should be random. A nil prof disables timing.
func Train(records *dataset.Store, p Params, prof *profiler.Profiler) (*TrainResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	train := records.Clone()

	timer := prof.Start("stop_words")
	stops, err := vocabulary.EliminateStopWords(train, p.StopWordProportion)
	timer.Stop()
	if err != nil {
		return nil, err
	}

	var validation *dataset.Store
	if p.ValidationSplit > 0 {
		validation, err = train.Split(p.ValidationSplit)
		if err != nil {
			return nil, err
		}
	}

	model, err := NewNaiveBayes(p.Alpha)
	if err != nil {
		return nil, err
	}

	timer = prof.Start("fit")
	err = model.Fit(train)
	timer.Stop()
	if err != nil {
		return nil, err
	}

	return &TrainResult{
		Model:      model,
		Train:      train,
		Validation: validation,
		StopWords:  stops,
	}, nil
}

// SweepResult is the validation accuracy of one parameter combination
type SweepResult struct {
	Params   Params
	Accuracy float64
}

// Sweep trains one model per alpha and stop-word proportion pair, all with
// the same validation split, and reports each validation accuracy.
func Sweep(records *dataset.Store, validationSplit float64, alphas, stopProportions []float64, prof *profiler.Profiler) ([]SweepResult, error) {
	if validationSplit <= 0 {
		return nil, fmt.Errorf("sweep needs a validation split > 0, got %v", validationSplit)
	}

	results := make([]SweepResult, 0, len(alphas)*len(stopProportions))
	for _, stop := range stopProportions {
		for _, alpha := range alphas {
			p := Params{Alpha: alpha, StopWordProportion: stop, ValidationSplit: validationSplit}
			res, err := Train(records, p, prof)
			if err != nil {
				return nil, fmt.Errorf("alpha=%v stop=%v: %w", alpha, stop, err)
			}

			timer := prof.Start("validate")
			acc, err := ValidationAccuracy(res.Model, res.Validation)
			timer.Stop()
			if err != nil {
				return nil, fmt.Errorf("alpha=%v stop=%v: %w", alpha, stop, err)
			}
			results = append(results, SweepResult{Params: p, Accuracy: acc})
		}
	}
	return results, nil
}

// Best returns the sweep result with the highest accuracy, first wins ties
func Best(results []SweepResult) (SweepResult, bool) {
	if len(results) == 0 {
		return SweepResult{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Accuracy > best.Accuracy {
			best = r
		}
	}
	return best, true
}
