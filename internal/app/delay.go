package app

import (
    "math"
    "math/rand"
    "time"
)

// DelayPolicy controls how long the service waits before playing the
// computer's reply. The wait is presentation pacing only; the search
// itself is synchronous.
type DelayPolicy int

const (
    // DelayNone replies as soon as possible.
    DelayNone DelayPolicy = iota
    // DelayRandom waits a human-feeling random interval between 0.1s
    // and 1.5s, most often around 0.3s.
    DelayRandom
    // DelayFixed waits two seconds.
    DelayFixed
)

func (p DelayPolicy) duration(rng *rand.Rand) time.Duration {
    switch p {
    case DelayRandom:
        return time.Duration(triangular(rng, 0.1, 1.5, 0.3) * float64(time.Second))
    case DelayFixed:
        return 2 * time.Second
    default:
        return 0
    }
}

// triangular samples the triangular distribution on [lo, hi] with the
// given mode.
func triangular(rng *rand.Rand, lo, hi, mode float64) float64 {
    u := rng.Float64()
    c := (mode - lo) / (hi - lo)
    if u < c {
        return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
    }
    return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}
