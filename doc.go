// Package suitesparse is a pure-Go parallel direct solver for sparse square
// linear systems Ax = b, built around the multifrontal method.
//
// 🚀 What is in here?
//
//	A task-parallel sparse LU factorization with nested dense BLAS calls:
//		• Symbolic analysis: singleton filtering, fill-reducing ordering,
//		  elimination tree, relaxed amalgamation into dense fronts
//		• Numeric factorization: a fork-join walk of the frontal tree with
//		  threshold partial pivoting inside each front
//		• Triangular solves that replay the stored tree and panel structure
//		• Permutation/scaling utilities and backward-error verification
//
// ✨ Why this layout?
//
//   - Deterministic by construction – pivot choices and extend-add order do
//     not depend on thread count or scheduling order
//   - Explicit lifecycle – Symbolic and Numeric handles are created and
//     freed in pairs, and a mismatched pair is rejected, never executed
//   - Pure Go engine – the only dense-kernel collaborator is gonum BLAS
//
// Everything is organized under four subpackages:
//
//	sparse/   — compressed-column containers, norms, residual checks
//	ordering/ — fill-reducing ordering, elimination tree, postorder
//	front/    — dense frontal kernel: panel LU with threshold pivoting
//	paru/     — the engine: Analyze, Factorize, Solve, queries, lifecycle
//
// Quick usage for solving Ax = b:
//
//	ctl := paru.DefaultControl()
//	sym, _ := paru.Analyze(A, ctl)
//	num, _ := paru.Factorize(A, sym, ctl)
//	err := paru.Solve(sym, num, b, x, 1, ctl)
//
// See paru/example_test.go for complete runnable examples.
package suitesparse
