// Package profiler records how long training and classification phases take.
// A nil *Profiler is valid and records nothing.
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Profiler collects durations per named phase
type Profiler struct {
	mu    sync.RWMutex
	times map[string][]time.Duration
}

// New creates an empty profiler
func New() *Profiler {
	return &Profiler{
		times: make(map[string][]time.Duration),
	}
}

// Timer measures one run of a phase
type Timer struct {
	profiler *Profiler
	name     string
	start    time.Time
}

// Start begins timing phase name
func (p *Profiler) Start(name string) *Timer {
	if p == nil {
		return nil
	}
	return &Timer{profiler: p, name: name, start: time.Now()}
}

// Stop records the elapsed time and returns it
func (t *Timer) Stop() time.Duration {
	if t == nil {
		return 0
	}
	d := time.Since(t.start)
	t.profiler.Record(t.name, d)
	return d
}

// Record adds a duration for phase name
func (p *Profiler) Record(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.times[name] = append(p.times[name], d)
	p.mu.Unlock()
}

// Time runs fn and records its duration under name
func (p *Profiler) Time(name string, fn func()) time.Duration {
	t := p.Start(name)
	fn()
	return t.Stop()
}

// Stats summarises the recorded durations of a phase
type Stats struct {
	Name    string
	Count   int
	Total   time.Duration
	Average time.Duration
	Min     time.Duration
	Max     time.Duration
	Median  time.Duration
	P95     time.Duration
}

// Stats returns statistics for phase name
func (p *Profiler) Stats(name string) Stats {
	if p == nil {
		return Stats{Name: name}
	}

	p.mu.RLock()
	sorted := append([]time.Duration(nil), p.times[name]...)
	p.mu.RUnlock()

	if len(sorted) == 0 {
		return Stats{Name: name}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	n := len(sorted)
	return Stats{
		Name:    name,
		Count:   n,
		Total:   total,
		Average: total / time.Duration(n),
		Min:     sorted[0],
		Max:     sorted[n-1],
		Median:  sorted[n/2],
		P95:     sorted[int(float64(n-1)*0.95)],
	}
}

// All returns statistics for every phase, sorted by name
func (p *Profiler) All() []Stats {
	if p == nil {
		return nil
	}

	p.mu.RLock()
	names := make([]string, 0, len(p.times))
	for name := range p.times {
		names = append(names, name)
	}
	p.mu.RUnlock()

	sort.Strings(names)
	stats := make([]Stats, 0, len(names))
	for _, name := range names {
		stats = append(stats, p.Stats(name))
	}
	return stats
}

// Report writes a timing table to w
func (p *Profiler) Report(w io.Writer) {
	stats := p.All()
	if len(stats) == 0 {
		fmt.Fprintln(w, "No timing data available")
		return
	}

	fmt.Fprintf(w, "⏱️  Phase Timings\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "%-14s %6s %10s %10s %10s %10s %10s\n",
		"Phase", "Count", "Total", "Avg", "Min", "Max", "P95")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────────────\n")
	for _, s := range stats {
		fmt.Fprintf(w, "%-14s %6d %10s %10s %10s %10s %10s\n",
			truncate(s.Name, 14), s.Count,
			formatDuration(s.Total), formatDuration(s.Average),
			formatDuration(s.Min), formatDuration(s.Max), formatDuration(s.P95))
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
