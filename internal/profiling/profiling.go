// Package profiling accumulates per-tick wall time by subsystem.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	counts = make(map[string]int)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("world.Update")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		counts[name]++
		mu.Unlock()
	}
}

// ResetTick clears the current totals. Call at the start of each update.
func ResetTick() {
	mu.Lock()
	clear(totals)
	clear(counts)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// Count returns how many times name was tracked since the last reset.
func Count(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return counts[name]
}

type entry struct {
	name string
	dur  time.Duration
}

func sorted() []entry {
	ss := Snapshot()
	list := make([]entry, 0, len(ss))
	for k, v := range ss {
		list = append(list, entry{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	return list
}

// TopN formats the n slowest entries.
// Example: "world.Populate:4.2ms, world.Build:2.1ms"
func TopN(n int) string {
	list := sorted()
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		parts = append(parts, e.name+":"+formatMs(e.dur))
	}
	return strings.Join(parts, ", ")
}

// Fields returns the n slowest entries as zap duration fields.
func Fields(n int) []zap.Field {
	list := sorted()
	n = min(n, len(list))
	fields := make([]zap.Field, 0, n)
	for _, e := range list[:n] {
		fields = append(fields, zap.Duration(e.name, e.dur))
	}
	return fields
}

// formatMs keeps one decimal and drops a trailing .0.
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
