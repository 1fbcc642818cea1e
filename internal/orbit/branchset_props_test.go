package orbit_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/citsigol/internal/dynmap"
	"github.com/san-kum/citsigol/internal/orbit"
)

var _ = Describe("BranchSet", func() {
	var m *dynmap.Logistic

	BeforeEach(func() {
		m = dynmap.NewLogistic()
	})

	Describe("growth bound", func() {
		It("never exceeds MaxBranches after any step", func() {
			bs := orbit.NewBranchSet(m, 3.6, []float64{0.3}, orbit.Options{MaxBranches: 16})
			for i := 0; i < 12; i++ {
				bs.Grow()
				Expect(bs.Live()).To(BeNumerically("<=", 16))
			}
		})

		It("reports capacity pruning without failing", func() {
			bs := orbit.NewBranchSet(m, 3.6, []float64{0.3}, orbit.Options{MaxBranches: 4})
			pruned := 0
			for i := 0; i < 8; i++ {
				pruned += bs.Grow()
			}
			Expect(pruned).To(BeNumerically(">", 0))
			Expect(bs.Live()).To(BeNumerically("<=", 4))
		})
	})

	Describe("deduplication", func() {
		It("is monotone: a smaller epsilon never yields fewer branches", func() {
			const depth = 8
			coarse := orbit.Backward(m, 3.6, 0.3, depth, orbit.Options{Epsilon: 1e-2})
			fine := orbit.Backward(m, 3.6, 0.3, depth, orbit.Options{Epsilon: 1e-7})
			Expect(fine.Live()).To(BeNumerically(">=", coarse.Live()))
		})

		It("keeps merged values separated by more than epsilon", func() {
			const eps = 1e-3
			bs := orbit.Backward(m, 3.6, 0.3, 10, orbit.Options{Epsilon: eps})
			values := bs.Snapshot()
			for i := 1; i < len(values); i++ {
				Expect(values[i] - values[i-1]).To(BeNumerically(">", eps))
			}
		})

		It("re-separates branches when epsilon shrinks mid-iteration", func() {
			wide := orbit.NewBranchSet(m, 3.6, []float64{0.3}, orbit.Options{Epsilon: 5e-2})
			for i := 0; i < 4; i++ {
				wide.Grow()
			}
			before := wide.Live()

			wide.SetEpsilon(1e-9)
			for i := 0; i < 4; i++ {
				wide.Grow()
			}
			Expect(wide.Live()).To(BeNumerically(">=", before))
		})
	})

	Describe("frontier invariants", func() {
		It("keeps every live value inside the map domain", func() {
			bs := orbit.Backward(m, 3.9, 0.2, 10, orbit.Options{})
			for _, v := range bs.Snapshot() {
				Expect(v).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
			}
		})

		It("returns snapshots in ascending order", func() {
			bs := orbit.Backward(m, 3.9, 0.2, 8, orbit.Options{})
			values := bs.Snapshot()
			for i := 1; i < len(values); i++ {
				Expect(values[i]).To(BeNumerically(">", values[i-1]))
			}
		})

		It("drops a seed with no preimage as a terminal leaf", func() {
			bs := orbit.Backward(m, 3.2, 0.9, 5, orbit.Options{})
			Expect(bs.Live()).To(BeZero())
			Expect(bs.Dropped()).To(BeNumerically(">", 0))
		})
	})
})
