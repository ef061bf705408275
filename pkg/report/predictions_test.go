package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePredictions(t *testing.T) {
	var buf bytes.Buffer
	err := WritePredictions(&buf, []Prediction{{ID: 3, Class: "U"}, {ID: 7, Class: "D"}})
	require.NoError(t, err)
	assert.Equal(t, "id,class\n3,U\n7,D\n", buf.String())

	read, err := ReadPredictions(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Prediction{{ID: 3, Class: "U"}, {ID: 7, Class: "D"}}, read)
}

func TestReadPredictionsRejectsBadID(t *testing.T) {
	_, err := ReadPredictions(strings.NewReader("id,class\n1,U\nx,D\n"))
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	a := "id,class\n1,U\n2,D\n3,U\n"
	b := "id,class\n1,U\n2,U\n3,D \n4,D\n"

	diffs, err := Diff(strings.NewReader(a), strings.NewReader(b))
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, Difference{Line: 2, LineA: "2,D", LineB: "2,U", GuessA: "D", GuessB: "U"}, diffs[0])
	assert.Equal(t, 3, diffs[1].Line)
	assert.Equal(t, "U", diffs[1].GuessA)
	assert.Equal(t, "D", diffs[1].GuessB)
}

func TestDiffIdentical(t *testing.T) {
	diffs, err := Diff(strings.NewReader("id,class\n1,U\n"), strings.NewReader("id,class\n1,U\n"))
	require.NoError(t, err)
	assert.Empty(t, diffs)
}
