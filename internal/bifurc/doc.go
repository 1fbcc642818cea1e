// Package bifurc samples bifurcation diagrams for parametrized maps.
//
// A [Sampler] turns a [Window] — the requested rectangle in (parameter,
// value) space plus a target resolution — into a set of [Point]s
// approximating the attractor at each sampled parameter:
//
//   - forward mode discards a burn-in transient, then collects the next
//     iterates of the map
//   - reverse mode grows a branch set of preimages to a depth matching
//     the requested vertical resolution
//
// Iteration depth and dedup epsilon adapt to the window so that detail
// tracks the zoom level, down to a machine-precision floor. Below the
// floor the sampler stops subdividing and flags the result as
// precision-limited rather than rendering floating-point noise as
// structure.
//
// The parameter axis is sampled independently per value, so sampling is
// partitioned into column slices and run on a bounded worker pool.
// Points are emitted parameter-ascending, then depth-ascending, to keep
// incremental redraw stable.
package bifurc
