// Package paru is the multifrontal sparse LU engine: it factorizes a
// square sparse matrix A (compressed sparse column form, see package
// sparse) as P·S·A·Q = L·U and solves linear systems with the factors.
//
// # Pipeline
//
// The engine runs in three phases, each producing an opaque handle the
// next phase consumes:
//
//	ctl := paru.DefaultControl()
//	sym, err := paru.Analyze(a, ctl)          // pattern only
//	num, err := paru.Factorize(a, sym, ctl)   // numeric values
//	err = paru.Solve(sym, num, b, x, 1, ctl)  // x = A⁻¹·b
//
// Analyze inspects only the nonzero pattern: it peels singleton rows and
// columns, picks a strategy (diagonal-preferring pivoting for nearly
// symmetric patterns, plain threshold pivoting otherwise), computes a
// fill-reducing ordering (package ordering), and builds the frontal tree
// with relaxed amalgamation. One Symbolic can back many Factorize calls
// as long as each matrix keeps the same dimension and nonzero count.
//
// Factorize walks the frontal tree bottom-up. Independent subtrees become
// tasks on a bounded group when their estimated work justifies it;
// contribution blocks flow from children to parents by extend-add; each
// assembled front goes through the dense kernel (package front). Rows are
// optionally prescaled by their largest magnitude first.
//
// Solve replays the tree: permute and scale, forward substitution in tree
// order, back substitution in reverse, permute back. The right-hand side
// may carry several columns (nrhs), stored column-major in one slice.
//
// # Failure model
//
// All entry points return sentinel-wrapped errors (errors.Is friendly):
// ErrInvalid for unusable arguments, ErrOutOfMemory for refused
// allocations, ErrTooLarge when a front outgrows the dense kernel, and
// ErrSingular, the only non-fatal one: the factor handle remains usable,
// solves simply may yield Inf or NaN entries.
//
// # Determinism
//
// For a fixed matrix and Control, every result is bit-identical across
// runs and across MaxThreads settings: tie-breaks are by lowest index,
// children are assembled in ascending order, and parallel updates write
// disjoint memory.
package paru
