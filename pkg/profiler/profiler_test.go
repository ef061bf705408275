package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	p := New()
	for _, ms := range []int{5, 1, 3, 2, 4} {
		p.Record("fit", time.Duration(ms)*time.Millisecond)
	}

	s := p.Stats("fit")
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 15*time.Millisecond, s.Total)
	assert.Equal(t, 3*time.Millisecond, s.Average)
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Median)
	assert.Equal(t, 4*time.Millisecond, s.P95)

	assert.Equal(t, 0, p.Stats("unknown").Count)
}

func TestTimerRecords(t *testing.T) {
	p := New()
	p.Time("classify", func() {})
	p.Start("classify").Stop()

	assert.Equal(t, 2, p.Stats("classify").Count)
	assert.Len(t, p.All(), 1)
}

func TestNilProfilerIsNoop(t *testing.T) {
	var p *Profiler
	assert.Equal(t, time.Duration(0), p.Start("fit").Stop())
	p.Record("fit", time.Second)
	assert.Equal(t, 0, p.Stats("fit").Count)
	assert.Nil(t, p.All())

	var buf bytes.Buffer
	p.Report(&buf)
	assert.Contains(t, buf.String(), "No timing data")
}

func TestReport(t *testing.T) {
	p := New()
	p.Record("stop_words", 2*time.Millisecond)
	p.Record("fit", 1500*time.Millisecond)

	var buf bytes.Buffer
	p.Report(&buf)
	out := buf.String()
	assert.Contains(t, out, "fit")
	assert.Contains(t, out, "1.500s")
	assert.Contains(t, out, "2.00ms")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("fit ")), bytes.Index(buf.Bytes(), []byte("stop_words")))
}
