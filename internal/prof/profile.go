// Package prof collects wall-clock timings of labelled operations.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry is a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Summary aggregates the entries sharing a label.
type Summary struct {
	Label string
	Count int
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average duration.
func (s Summary) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Tracker records timings; the zero value is ready to use.
type Tracker struct {
	mu     sync.Mutex
	record []Entry
}

// Track logs the duration since start under name. Use as
// defer t.Track(time.Now(), "sign").
func (t *Tracker) Track(start time.Time, name string) {
	elapsed := time.Since(start)
	t.mu.Lock()
	t.record = append(t.record, Entry{Label: name, Dur: elapsed})
	t.mu.Unlock()
}

// SnapshotAndReset returns the collected entries and clears them.
func (t *Tracker) SnapshotAndReset() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.record))
	copy(out, t.record)
	t.record = nil
	return out
}

// Summarize groups entries by label, sorted by label.
func Summarize(entries []Entry) []Summary {
	byLabel := make(map[string]*Summary)
	for _, e := range entries {
		s, ok := byLabel[e.Label]
		if !ok {
			s = &Summary{Label: e.Label, Min: e.Dur, Max: e.Dur}
			byLabel[e.Label] = s
		}
		s.Count++
		s.Total += e.Dur
		if e.Dur < s.Min {
			s.Min = e.Dur
		}
		if e.Dur > s.Max {
			s.Max = e.Dur
		}
	}
	out := make([]Summary, 0, len(byLabel))
	for _, s := range byLabel {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
