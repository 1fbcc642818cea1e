package orbit

import (
	"math"
	"sort"

	"github.com/san-kum/citsigol/internal/dynmap"
)

// DefaultMaxBranches caps a frontier when Options.MaxBranches is zero.
const DefaultMaxBranches = 1024

// Branch is one live path through a backward iteration. Identity is the
// path taken, not the value: two branches at numerically equal values
// reached by different ancestries stay distinct until merged.
type Branch struct {
	Value  float64
	Depth  int
	ID     uint64
	Parent uint64
}

// Options tunes branch-set growth. Every knob trades density and cost
// against precision; none affects the correctness of the math.
type Options struct {
	// Epsilon merges branches whose values agree within it at the same
	// depth. Zero disables merging.
	Epsilon float64

	// MaxBranches caps the live frontier. Exceeding it prunes the
	// branches with the smallest local derivative magnitude, which
	// contribute least visual separation at the current zoom.
	MaxBranches int

	// RetainTree keeps every generation for drawing a full orbit tree.
	// Off by default: the frontier replaces the previous generation
	// wholesale.
	RetainTree bool
}

// BranchSet is the live frontier of a backward iteration of one map at
// one parameter value. It is owned by a single sampling pass and is not
// safe for concurrent use.
type BranchSet struct {
	m    dynmap.Map
	r    float64
	opts Options

	frontier []Branch
	depth    int
	nextID   uint64
	tree     []Branch
	dropped  int // convergence failures and preimage-free leaves
}

// NewBranchSet starts a frontier from the given seeds. Seeds outside the
// map's domain are terminal immediately and are not enrolled.
func NewBranchSet(m dynmap.Map, r float64, seeds []float64, opts Options) *BranchSet {
	if opts.MaxBranches <= 0 {
		opts.MaxBranches = DefaultMaxBranches
	}
	bs := &BranchSet{m: m, r: r, opts: opts}
	for _, s := range seeds {
		if !m.Domain().Contains(s) {
			continue
		}
		bs.frontier = append(bs.frontier, Branch{Value: s, ID: bs.nextID})
		bs.nextID++
	}
	sortByValue(bs.frontier)
	if opts.RetainTree {
		bs.tree = append(bs.tree, bs.frontier...)
	}
	return bs
}

// Grow replaces every live branch by its preimages, then deduplicates
// and enforces the branch cap. It returns the number of branches pruned
// for capacity this step; pruning is a controlled precision trade-off,
// not a failure. A branch whose value has no in-domain preimage becomes
// a terminal leaf and is dropped silently, as is a branch whose numeric
// inverse failed to converge.
func (bs *BranchSet) Grow() int {
	next := make([]Branch, 0, 2*len(bs.frontier))
	for _, b := range bs.frontier {
		pre, err := bs.m.Preimages(b.Value, bs.r)
		if err != nil || len(pre) == 0 {
			bs.dropped++
			continue
		}
		for _, p := range pre {
			next = append(next, Branch{
				Value:  p,
				Depth:  bs.depth + 1,
				ID:     bs.nextID,
				Parent: b.ID,
			})
			bs.nextID++
		}
	}

	sortByValue(next)
	next = bs.dedup(next)
	pruned := 0
	if len(next) > bs.opts.MaxBranches {
		pruned = len(next) - bs.opts.MaxBranches
		next = bs.prune(next)
	}

	bs.frontier = next
	bs.depth++
	if bs.opts.RetainTree {
		bs.tree = append(bs.tree, next...)
	}
	return pruned
}

// dedup merges branches whose values agree within epsilon, keeping the
// first in value order. Input must be sorted by value.
func (bs *BranchSet) dedup(branches []Branch) []Branch {
	if bs.opts.Epsilon <= 0 || len(branches) < 2 {
		return branches
	}
	out := branches[:1]
	for _, b := range branches[1:] {
		if b.Value-out[len(out)-1].Value > bs.opts.Epsilon {
			out = append(out, b)
		}
	}
	return out
}

// prune keeps the MaxBranches branches with the largest local derivative
// magnitude and restores value order.
func (bs *BranchSet) prune(branches []Branch) []Branch {
	sort.SliceStable(branches, func(i, j int) bool {
		di := math.Abs(bs.m.Derivative(branches[i].Value, bs.r))
		dj := math.Abs(bs.m.Derivative(branches[j].Value, bs.r))
		return di > dj
	})
	kept := branches[:bs.opts.MaxBranches]
	sortByValue(kept)
	return kept
}

// SetEpsilon rethreads the dedup tolerance between growth steps, so a
// zoom change takes effect without restarting the iteration.
func (bs *BranchSet) SetEpsilon(eps float64) {
	bs.opts.Epsilon = eps
}

// Snapshot returns a copy of the current frontier values in ascending
// order, safe to retain across further growth.
func (bs *BranchSet) Snapshot() []float64 {
	out := make([]float64, len(bs.frontier))
	for i, b := range bs.frontier {
		out[i] = b.Value
	}
	return out
}

// Branches returns a copy of the live frontier.
func (bs *BranchSet) Branches() []Branch {
	out := make([]Branch, len(bs.frontier))
	copy(out, bs.frontier)
	return out
}

// Tree returns every generation recorded so far. Empty unless
// Options.RetainTree was set.
func (bs *BranchSet) Tree() []Branch {
	out := make([]Branch, len(bs.tree))
	copy(out, bs.tree)
	return out
}

func (bs *BranchSet) Live() int  { return len(bs.frontier) }
func (bs *BranchSet) Depth() int { return bs.depth }

// Dropped reports how many branches terminated with no preimage.
func (bs *BranchSet) Dropped() int { return bs.dropped }

// Backward grows a branch set depth steps from a single seed, stopping
// early once every branch is terminal.
func Backward(m dynmap.Map, r, seed float64, depth int, opts Options) *BranchSet {
	bs := NewBranchSet(m, r, []float64{seed}, opts)
	for i := 0; i < depth && bs.Live() > 0; i++ {
		bs.Grow()
	}
	return bs
}

func sortByValue(branches []Branch) {
	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Value < branches[j].Value
	})
}
