package pente

import (
	"math/rand/v2"
	"sync"
	"time"
)

// OpenCellSelector picks the computer side's next coordinate from the open
// cells. Callers always pass a non-empty slice.
type OpenCellSelector interface {
	Pick(open []Coord) Coord
}

// RandomSelector picks uniformly. Safe for concurrent use.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector seeds a PCG source; seed 0 seeds from the clock.
func NewRandomSelector(seed uint64) *RandomSelector {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomSelector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomSelector) Pick(open []Coord) Coord {
	r.mu.Lock()
	i := r.rng.IntN(len(open))
	r.mu.Unlock()
	return open[i]
}

// FirstOpenSelector always takes the first open cell in row-major order.
type FirstOpenSelector struct{}

func (FirstOpenSelector) Pick(open []Coord) Coord { return open[0] }

// SelectorFunc adapts a function to OpenCellSelector.
type SelectorFunc func(open []Coord) Coord

func (f SelectorFunc) Pick(open []Coord) Coord { return f(open) }
