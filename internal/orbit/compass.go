package orbit

import (
	"github.com/san-kum/citsigol/internal/dynmap"
)

// Compass chooses which inverse branch a backward walk follows: a
// positive return keeps the higher branch, non-positive the lower.
type Compass interface {
	Choose(x float64, step int) int
}

// Seeker steers toward a target value, taking whichever branch lies on
// the target's side of the current value.
type Seeker struct {
	Target float64
}

func (s Seeker) Choose(x float64, _ int) int {
	if s.Target >= x {
		return 1
	}
	return -1
}

// Quest follows a fixed itinerary of directions, one per step. Steps past
// the end of the itinerary keep the higher branch.
type Quest struct {
	Directions []int
}

func (q Quest) Choose(_ float64, step int) int {
	if step < len(q.Directions) {
		return q.Directions[step]
	}
	return 1
}

// CompassFunc adapts a plain function to the Compass interface.
type CompassFunc func(x float64, step int) int

func (f CompassFunc) Choose(x float64, step int) int { return f(x, step) }

// Walk follows a single backward path of up to length steps, letting c
// pick a branch whenever the inverse offers more than one. The walk ends
// early when a value has no in-domain preimage; root-finder failures end
// the walk the same way. The returned path includes the seed.
func Walk(m dynmap.Map, r, seed float64, length int, c Compass) []float64 {
	path := make([]float64, 0, length+1)
	path = append(path, seed)

	x := seed
	for i := 0; i < length; i++ {
		pre, err := m.Preimages(x, r)
		if err != nil || len(pre) == 0 {
			break
		}
		// Preimages are ascending: last is the higher branch.
		if c != nil && c.Choose(x, i) > 0 {
			x = pre[len(pre)-1]
		} else {
			x = pre[0]
		}
		path = append(path, x)
	}
	return path
}
