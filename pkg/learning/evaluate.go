package learning

import (
	"errors"
	"fmt"
	"io"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/report"
	"github.com/phuslu/log"
)

// ErrInvalidMode is returned for an unknown prediction mode
var ErrInvalidMode = errors.New("invalid mode: must be 'test' or 'train'")

// Mode selects which store predictions are produced for
type Mode string

const (
	ModeTest  Mode = "test"
	ModeTrain Mode = "train"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTest, ModeTrain:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidMode, s)
}

// ValidationAccuracy returns the fraction of validation records whose
// predicted class equals their label. A missing or empty validation store
// yields 0.
func ValidationAccuracy(c Classifier, validation *dataset.Store) (float64, error) {
	if validation.Len() == 0 {
		log.Warn().Msg("model has no validation set")
		return 0, nil
	}

	correct := 0
	for _, r := range validation.Records() {
		predicted, err := c.Classify(r.Text)
		if err != nil {
			return 0, err
		}
		if r.Label.Equal(predicted) {
			correct++
		}
	}
	return float64(correct) / float64(validation.Len()), nil
}

// Predict classifies every record of store
func Predict(c Classifier, store *dataset.Store) ([]report.Prediction, error) {
	records := store.Records()
	predictions := make([]report.Prediction, 0, len(records))
	for _, r := range records {
		class, err := c.Classify(r.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to classify record %d: %w", r.ID, err)
		}
		predictions = append(predictions, report.Prediction{ID: r.ID, Class: class})
	}
	return predictions, nil
}

// Evaluator ties a classifier to its train, test and validation stores
type Evaluator struct {
	Model      Classifier
	Train      *dataset.Store
	Test       *dataset.Store
	Validation *dataset.Store
}

// ValidationAccuracy scores the model on the validation store
func (e *Evaluator) ValidationAccuracy() (float64, error) {
	return ValidationAccuracy(e.Model, e.Validation)
}

// RunPredictions writes id,class predictions for the store selected by mode
func (e *Evaluator) RunPredictions(w io.Writer, mode Mode) error {
	var store *dataset.Store
	switch mode {
	case ModeTest:
		store = e.Test
	case ModeTrain:
		store = e.Train
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidMode, mode)
	}

	predictions, err := Predict(e.Model, store)
	if err != nil {
		return err
	}
	return report.WritePredictions(w, predictions)
}
