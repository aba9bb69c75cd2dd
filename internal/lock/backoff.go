package lock

import (
	"math/rand"
	"time"
)

// backoff produces jittered exponential retry delays. The delay grows from
// a floor toward a ceiling, randomized on every step so that competing
// processes do not retry in lockstep.
type backoff struct {
	min time.Duration
	max time.Duration
	cur time.Duration
	rng *rand.Rand
}

func newBackoff(min, max time.Duration) *backoff {
	return &backoff{
		min: min,
		max: max,
		cur: min,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// reset drops the delay back to the floor, used when contention evidence
// suggests the holder may release momentarily.
func (b *backoff) reset() {
	b.cur = b.min
}

// current returns the delay to sleep before the next attempt.
func (b *backoff) current() time.Duration {
	return b.cur
}

// advance recomputes the delay as a random duration between the floor and
// twice the current delay, capped at the ceiling.
func (b *backoff) advance() {
	hi := b.cur * 2
	if hi > b.max {
		hi = b.max
	}
	if hi < b.min {
		hi = b.min
	}
	b.cur = b.min + time.Duration(b.rng.Int63n(int64(hi-b.min)+1))
}
