// Package analysis characterizes sampled bifurcation diagrams.
//
// The package reads periodic structure out of a diagram:
//
//   - [CountClusters]: distinct attractor values at one parameter
//   - [Cascade]: cluster counts across a sampled parameter range
//   - [OnsetOf]: parameter value where a period first appears
//
// # Period Detection
//
// The period-doubling cascade shows up as cluster counts stepping
// through powers of two:
//
//	cascade := analysis.Cascade(res, 1e-3)
//	if r, ok := analysis.OnsetOf(cascade, 2); ok {
//	    // period 2 first appears at parameter r
//	}
package analysis
