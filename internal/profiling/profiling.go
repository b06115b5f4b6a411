package profiling

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-frame stage timing for the CPU renderers and builders.

// Stage is the accumulated cost of one named operation since the last reset.
type Stage struct {
	Name  string
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	stages = make(map[string]*Stage)
)

// Track returns a stop function that adds the elapsed time to the named stage.
// Usage: defer profiling.Track("render.Clouds")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s, ok := stages[name]
		if !ok {
			s = &Stage{Name: name}
			stages[name] = s
		}
		s.Total += d
		s.Calls++
		mu.Unlock()
	}
}

// ResetFrame clears all stages. Call once before each frame.
func ResetFrame() {
	mu.Lock()
	clear(stages)
	mu.Unlock()
}

// Snapshot returns a copy of the current stages, slowest first.
func Snapshot() []Stage {
	mu.Lock()
	out := make([]Stage, 0, len(stages))
	for _, s := range stages {
		out = append(out, *s)
	}
	mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopN formats the n slowest stages.
// Example: "render.Clouds:41.2ms, noise.Build:12ms x3"
func TopN(n int) string {
	ss := Snapshot()
	n = min(n, len(ss))
	parts := make([]string, 0, n)
	for _, s := range ss[:n] {
		ms := math.Round(float64(s.Total.Microseconds())/100) / 10
		part := s.Name + ":" + strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
		if s.Calls > 1 {
			part += " x" + strconv.Itoa(s.Calls)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
