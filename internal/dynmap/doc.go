// Package dynmap provides parametrized one-dimensional map families.
//
// A [Map] couples a forward rule f(x; r) with an optional inverse
// relation returning every preimage of a value:
//
//   - [Logistic]: the logistic map f(x) = r·x·(1−x) with its closed-form
//     two-branch inverse
//   - [RuleMap]: a caller-supplied rule, with a [Bisection] root-finding
//     fallback when no closed-form inverse is given
//
// The inverse is a relation, not a function: Preimages returns zero, one
// or two values. An empty result is a normal terminal condition for
// backward iteration, never an error.
//
// # Consistency
//
// Maps are validated at construction: for every x in the domain and every
// p in Preimages(Forward(x, r), r), Forward(p, r) must reproduce
// Forward(x, r) within floating-point tolerance. Inconsistent rules are
// rejected with [ErrBadConfig] and never reach the sampling loop.
package dynmap
