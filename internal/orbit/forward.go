package orbit

import (
	"github.com/san-kum/citsigol/internal/dynmap"
)

// Forward iterates m from seed for up to length steps and returns the
// orbit including the seed (length+1 values when no iterate escapes).
// The orbit is truncated without error when a value leaves the domain:
// divergent orbits are expected, e.g. outside [0,1] for the logistic map.
func Forward(m dynmap.Map, r, seed float64, length int) []float64 {
	seq := make([]float64, 0, length+1)
	seq = append(seq, seed)

	x := seed
	for i := 0; i < length; i++ {
		next, err := m.Forward(x, r)
		if err != nil {
			break
		}
		seq = append(seq, next)
		x = next
	}
	return seq
}
