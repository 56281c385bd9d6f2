package clock

import "time"

// Clock abstracts wall-clock time so billing math can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Fixed returns a clock pinned to a single instant.
func Fixed(at time.Time) Clock { return fixedClock{at: at} }

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }
