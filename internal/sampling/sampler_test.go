package sampling

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_Latency(t *testing.T) {
	s := New(42)
	const n = 20000
	var sum, sumSq float64
	negative := false
	for i := 0; i < n; i++ {
		v := s.Latency(0.3, 0.05)
		sum += v
		sumSq += v * v
		if v < 0 {
			negative = true
		}
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	assert.InDelta(t, 0.3, mean, 0.005)
	assert.InDelta(t, 0.05, std, 0.005)
	assert.False(t, negative, "a 6 sigma draw is not expected with this seed")
}

func TestSampler_LatencyIsNotClamped(t *testing.T) {
	s := New(7)
	seenNegative := false
	for i := 0; i < 1000 && !seenNegative; i++ {
		seenNegative = s.Latency(0, 1) < 0
	}
	assert.True(t, seenNegative)
}

func TestSampler_Duration(t *testing.T) {
	s := New(1)
	var total time.Duration
	for i := 0; i < 5000; i++ {
		total += s.Duration(60*time.Second, 10*time.Second)
	}
	assert.InDelta(t, 60.0, (total / 5000).Seconds(), 1.0)
}

func TestSampler_IntRange(t *testing.T) {
	s := New(3)
	seen := map[int]int{}
	for i := 0; i < 5000; i++ {
		v := s.IntRange(1, 10)
		require.GreaterOrEqual(t, v, 1)
		require.Less(t, v, 10)
		seen[v]++
	}
	assert.Len(t, seen, 9, "every value in [1,10) should appear")
	assert.Equal(t, 4, s.IntRange(4, 4))
}

func TestSampler_ConcurrentUse(t *testing.T) {
	s := NewRandom()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				s.Latency(1, 1)
				s.IntRange(0, 5)
				Pick(s, JobOutcomeTable)
			}
		}()
	}
	wg.Wait()
}
