// Package sparse provides the compressed-column (CSC) matrix container used
// by the factorization engine, together with the small set of sparse
// operations the engine and its verification path need: column access,
// 1-norms, sparse matrix-vector accumulation, and relative backward-error
// residuals.
//
// The container is deliberately minimal. It stores one immutable n-by-m
// pattern with float64 values and validates its invariants once, at
// construction:
//
//   - Colptr has length ncols+1, starts at 0, and is nondecreasing
//   - every row index is in [0, nrows)
//   - every value is finite (no NaN, no ±Inf)
//
// All algorithms downstream rely on those invariants instead of re-checking
// them, so construction is the only place a malformed matrix can be rejected.
// Row indices within a column do not need to be sorted; every consumer in
// this module iterates columns in storage order, which keeps results
// deterministic for a fixed input.
//
// Residual computes resid = norm1(b-A*x) / (norm1(A) * norm1(x)), the
// conventional relative backward error, against the original unfactored
// matrix. It depends only on this package, so verification is independent of
// any internal factor representation.
package sparse
