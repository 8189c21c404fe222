// Package pacing provides the randomized delays that give every browser
// interaction a human rhythm. All sleeps block the calling goroutine; the
// orchestration runs on a single logical thread per session.
package pacing

import (
	"context"
	"math/rand"
	"time"
)

// Pacer is the pacing contract the session and engine depend on. Tests
// substitute a fast implementation.
type Pacer interface {
	// Pause blocks for a uniformly random duration in [min, max], or until
	// the context is done.
	Pause(ctx context.Context, min, max time.Duration) error
	// Between returns a uniformly random duration in [min, max] without
	// sleeping.
	Between(min, max time.Duration) time.Duration
}

// Sleeper is the production Pacer. The random source is injectable so tests
// can seed it; a nil source falls back to a time-seeded one.
//
// Sleeper is not safe for concurrent use. The engine guarantees single-writer
// access per session, so no locking is needed here.
type Sleeper struct {
	rng *rand.Rand
}

// NewSleeper creates a Sleeper around the given random source.
func NewSleeper(rng *rand.Rand) *Sleeper {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sleeper{rng: rng}
}

// Between returns a uniformly random duration in [min, max]. The result is
// always strictly positive: non-positive inputs are clamped to 1ms and an
// inverted range collapses to min.
func (s *Sleeper) Between(min, max time.Duration) time.Duration {
	if min <= 0 {
		min = time.Millisecond
	}
	if max <= min {
		return min
	}
	return min + time.Duration(s.rng.Int63n(int64(max-min)+1))
}

// Pause blocks for Between(min, max), honoring context cancellation.
func (s *Sleeper) Pause(ctx context.Context, min, max time.Duration) error {
	d := s.Between(min, max)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BrowseDuration draws a campaign duration in two stages: an upper bound
// uniformly from [capMin, capMax], then the actual duration uniformly from
// [floor, bound]. The result never falls below floor.
func (s *Sleeper) BrowseDuration(floor, capMin, capMax time.Duration) time.Duration {
	bound := s.Between(capMin, capMax)
	if bound < floor {
		bound = floor
	}
	return s.Between(floor, bound)
}
