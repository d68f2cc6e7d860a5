package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting interval's worth of frame counts.
type Stats struct {
	Rendered int
	Skipped  int
	Elapsed  time.Duration
}

// FPS returns the rate of presented frames over the interval.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Rendered) / s.Elapsed.Seconds()
}

// Profiler counts frames that were redrawn against loop iterations that were skipped
// because nothing changed, and logs the split at a configurable interval.
type Profiler struct {
	rendered       int
	skipped        int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	now            func() time.Time
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - interval: how often to log; zero or negative means one second
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		now:            time.Now,
	}
}

// Tick should be called once per loop iteration.
// Logs frame and heap statistics when the update interval has elapsed.
//
// Parameters:
//   - rendered: whether this iteration presented a frame
//
// Returns:
//   - Stats: the interval's stats when they were logged this tick
//   - bool: true if stats were logged this tick
func (p *Profiler) Tick(rendered bool) (Stats, bool) {
	if rendered {
		p.rendered++
	} else {
		p.skipped++
	}

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	stats := Stats{Rendered: p.rendered, Skipped: p.skipped, Elapsed: elapsed}

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024

	log.Printf("[Profiler] FPS: %.2f | Rendered: %d | Idle: %d | Heap: %.2f MB | GC: %d",
		stats.FPS(), stats.Rendered, stats.Skipped, heapMB, p.memStats.NumGC)

	p.rendered = 0
	p.skipped = 0
	p.lastTime = currentTime
	return stats, true
}
