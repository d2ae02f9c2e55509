package build

import (
	"math"
	"math/rand/v2"
	"sync"
)

// DefaultMaxIncrement is the default upper bound of a random progress increment.
const DefaultMaxIncrement = 15.0

// IncrementFunc returns the progress to add on a tick.
// Implementations must be safe for concurrent use.
type IncrementFunc func() float64

// RandomIncrement returns increments drawn uniformly from [0, upper).
// A nil source uses the global random generator.
func RandomIncrement(upper float64, src *rand.Rand) IncrementFunc {
	if src == nil {
		return func() float64 { return rand.Float64() * upper }
	}

	var mu sync.Mutex
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return src.Float64() * upper
	}
}

// SequenceIncrement returns the values in order, repeating the last one when exhausted.
// Without values it always returns 0.
func SequenceIncrement(values ...float64) IncrementFunc {
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()

		if len(values) == 0 {
			return 0
		}
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

// sanitizeIncrement makes sure an increment can't move progress backwards.
func sanitizeIncrement(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
