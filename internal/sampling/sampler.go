package sampling

import (
	"math/rand"
	"sync"
	"time"
)

// Sampler draws from a single pseudo-random engine shared by every
// simulation loop. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Sampler seeded with seed. Use it when a test needs a
// reproducible sequence.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // synthetic data only
}

// NewRandom returns a Sampler seeded from the wall clock.
func NewRandom() *Sampler {
	return New(time.Now().UnixNano())
}

// Latency draws from a normal distribution with the given mean and standard
// deviation. The result is not clamped and may be negative.
func (s *Sampler) Latency(mean, stdDev float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NormFloat64()*stdDev + mean
}

// Duration is Latency expressed in time.Duration units.
func (s *Sampler) Duration(mean, stdDev time.Duration) time.Duration {
	return time.Duration(s.Latency(mean.Seconds(), stdDev.Seconds()) * float64(time.Second))
}

// IntRange returns a uniform integer in [lo, hi). It returns lo when the
// range is empty.
func (s *Sampler) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo)
}

func (s *Sampler) unit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
