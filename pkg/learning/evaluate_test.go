package learning

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/marketbayes/market-bayes/pkg/dataset"
	"github.com/marketbayes/market-bayes/pkg/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, name := range []string{"test", "train"} {
		mode, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, Mode(name), mode)
	}
	for _, name := range []string{"validation", "", "TEST"} {
		_, err := ParseMode(name)
		assert.ErrorIs(t, err, ErrInvalidMode)
	}
}

func TestValidationAccuracy(t *testing.T) {
	nb := fitted(t, upDownStore(), 1)

	validation := dataset.NewStore([]dataset.Record{
		{ID: 10, Label: dataset.Some("U"), Text: "stocks rose"},
		{ID: 11, Label: dataset.Some("D"), Text: "market fell"},
		{ID: 12, Label: dataset.Some("D"), Text: "stocks today"},
		{ID: 13, Label: dataset.None(), Text: "market hard"},
	})

	acc, err := ValidationAccuracy(nb, validation)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acc, 1e-12)
}

func TestValidationAccuracyWithoutValidationSet(t *testing.T) {
	nb := fitted(t, upDownStore(), 1)

	acc, err := ValidationAccuracy(nb, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)

	acc, err = ValidationAccuracy(nb, dataset.NewStore(nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
}

func TestValidationAccuracyEmptyModel(t *testing.T) {
	nb, err := NewNaiveBayes(1)
	require.NoError(t, err)
	_, err = ValidationAccuracy(nb, upDownStore())
	assert.ErrorIs(t, err, ErrEmptyModel)
}

func TestRunPredictions(t *testing.T) {
	nb := fitted(t, upDownStore(), 1)
	e := &Evaluator{
		Model: nb,
		Train: upDownStore(),
		Test: dataset.NewStore([]dataset.Record{
			{ID: 7, Label: dataset.None(), Text: "market fell hard again"},
			{ID: 8, Label: dataset.None(), Text: "stocks rose"},
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, e.RunPredictions(&buf, ModeTest))
	assert.Equal(t, "id,class\n7,D\n8,U\n", buf.String())

	buf.Reset()
	require.NoError(t, e.RunPredictions(&buf, ModeTrain))
	assert.Equal(t, "id,class\n1,U\n2,D\n", buf.String())

	buf.Reset()
	err := e.RunPredictions(&buf, Mode("validation"))
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Empty(t, buf.String())
}

func TestEvaluatorValidationAccuracy(t *testing.T) {
	e := &Evaluator{Model: fitted(t, upDownStore(), 1), Validation: upDownStore()}
	acc, err := e.ValidationAccuracy()
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
}

func corpus(n int) *dataset.Store {
	records := make([]dataset.Record, n)
	for i := range records {
		if i%2 == 0 {
			records[i] = dataset.Record{ID: i, Label: dataset.Some("U"), Text: fmt.Sprintf("the shares rose gains rally %d", i)}
		} else {
			records[i] = dataset.Record{ID: i, Label: dataset.Some("D"), Text: fmt.Sprintf("the shares fell losses slump %d", i)}
		}
	}
	return dataset.NewStore(records)
}

func TestTrainPipeline(t *testing.T) {
	records := corpus(20)
	prof := profiler.New()

	res, err := Train(records, Params{Alpha: 1, StopWordProportion: 0.1, ValidationSplit: 0.25}, prof)
	require.NoError(t, err)

	assert.Equal(t, 15, res.Train.Len())
	assert.Equal(t, 5, res.Validation.Len())
	assert.Equal(t, 20, records.Len(), "input store is left untouched")
	assert.Equal(t, "the shares rose gains rally 0", records.At(0).Text)

	// 28 distinct tokens, top 2 by document frequency
	assert.Equal(t, []string{"the", "shares"}, res.StopWords)
	assert.Equal(t, "rose gains rally 0", res.Train.At(0).Text)
	assert.Equal(t, "fell losses slump 19", res.Validation.At(4).Text)

	assert.Equal(t, 15, res.Model.TotalRecords())
	acc, err := ValidationAccuracy(res.Model, res.Validation)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)

	assert.Equal(t, 1, prof.Stats("fit").Count)
	assert.Equal(t, 1, prof.Stats("stop_words").Count)
}

func TestTrainWithoutValidation(t *testing.T) {
	res, err := Train(corpus(4), Params{Alpha: 1}, nil)
	require.NoError(t, err)
	assert.Nil(t, res.Validation)
	assert.Equal(t, 4, res.Train.Len())
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	bad := []Params{
		{Alpha: 0},
		{Alpha: 1, StopWordProportion: 1.1},
		{Alpha: 1, StopWordProportion: -0.1},
		{Alpha: 1, ValidationSplit: 1},
		{Alpha: 1, ValidationSplit: -0.5},
	}
	for _, p := range bad {
		assert.Error(t, p.Validate(), "%+v", p)
	}
}

func TestSweep(t *testing.T) {
	prof := profiler.New()
	results, err := Sweep(corpus(20), 0.25, []float64{0.5, 1}, []float64{0, 0.1}, prof)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, Params{Alpha: 0.5, StopWordProportion: 0, ValidationSplit: 0.25}, results[0].Params)
	assert.Equal(t, Params{Alpha: 1, StopWordProportion: 0.1, ValidationSplit: 0.25}, results[3].Params)
	for _, r := range results {
		assert.Equal(t, 1.0, r.Accuracy)
	}
	assert.Equal(t, 4, prof.Stats("validate").Count)

	best, ok := Best(results)
	require.True(t, ok)
	assert.Equal(t, results[0], best)

	_, err = Sweep(corpus(20), 0, []float64{1}, []float64{0}, nil)
	assert.Error(t, err)
}

func TestBestEmpty(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)
}
