package fetcher

import (
	"math/rand"
	"time"
)

// Governor inserts a randomized delay before every network access. The delay
// is drawn uniformly from [min, max] per call; the governor keeps no other
// state.
type Governor struct {
	min time.Duration
	max time.Duration
	rng *rand.Rand

	// sleep is swappable so tests can observe waits without sleeping.
	sleep func(time.Duration)
}

// NewGovernor builds a governor for the [min, max] delay interval.
func NewGovernor(min, max time.Duration) *Governor {
	return &Governor{
		min:   min,
		max:   max,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: time.Sleep,
	}
}

// Wait blocks the caller for one governed delay.
func (g *Governor) Wait() {
	d := g.min
	if span := g.max - g.min; span > 0 {
		d += time.Duration(g.rng.Int63n(int64(span) + 1))
	}
	if d > 0 {
		g.sleep(d)
	}
}
