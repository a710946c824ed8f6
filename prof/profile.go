// Package prof collects wall-clock timings of named operations.
package prof

import (
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// Entry represents a single timing measurement.
type Entry struct {
	Label string
	Dur   time.Duration
}

// Summary aggregates the entries sharing a label.
type Summary struct {
	Label  string
	Count  int
	Total  time.Duration
	Mean   time.Duration
	Median time.Duration
	Max    time.Duration
}

var (
	mu     sync.Mutex
	record []Entry
)

// Track logs the duration since start with the given name. Use it as
// defer prof.Track(time.Now(), "label").
func Track(start time.Time, name string) {
	elapsed := time.Since(start)
	mu.Lock()
	record = append(record, Entry{Label: name, Dur: elapsed})
	mu.Unlock()
}

// SnapshotAndReset returns the collected timing entries and clears them.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, len(record))
	copy(out, record)
	record = nil
	return out
}

// Summarize groups entries by label, sorted by label.
func Summarize(entries []Entry) []Summary {
	byLabel := make(map[string]stats.Float64Data)
	for _, e := range entries {
		byLabel[e.Label] = append(byLabel[e.Label], float64(e.Dur))
	}
	out := make([]Summary, 0, len(byLabel))
	for label, data := range byLabel {
		sum, _ := stats.Sum(data)
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		max, _ := stats.Max(data)
		out = append(out, Summary{
			Label:  label,
			Count:  len(data),
			Total:  time.Duration(sum),
			Mean:   time.Duration(mean),
			Median: time.Duration(median),
			Max:    time.Duration(max),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
