// Package orbit generates sequences under repeated map application.
//
// Forward orbits are linear: one value per step, stopping early when an
// iterate leaves the map's domain (a partial orbit is a valid result, not
// an error).
//
// Backward orbits branch, because the inverse of a unimodal map is a
// relation: each step replaces every live value by its 0, 1 or 2
// preimages. Two ways to follow them:
//
//   - [Walk] follows a single path, asking a [Compass] which branch to
//     take at each step
//   - [BranchSet] tracks the whole frontier, with epsilon deduplication
//     and cap-enforced pruning to keep the exponential growth tractable
//
// Deduplication epsilon is a first-class parameter: at coarse zoom a
// large epsilon merges numerically close branches, at fine zoom a smaller
// epsilon lets them re-separate.
package orbit
