// SPDX-License-Identifier: MIT

// Package sparse: the operation kernels the engine consumes.
// All kernels use fixed traversal orders (column-major storage order), so a
// given input always produces bit-identical output.

package sparse

import "math"

// NormZero is the additive identity for norm accumulation.
const NormZero = 0.0

// Norm1 returns the 1-norm of the matrix: the maximum absolute column sum.
//
// Determinism: columns scanned 0..ncols-1, entries in storage order.
// Complexity: O(nnz).
func (a *Csc) Norm1() float64 {
	var norm, colsum float64
	var j, p int
	for j = 0; j < a.ncols; j++ {
		colsum = NormZero
		for p = a.colptr[j]; p < a.colptr[j+1]; p++ {
			colsum += math.Abs(a.values[p])
		}
		if colsum > norm {
			norm = colsum
		}
	}

	return norm
}

// RowMaxAbs returns, for each row i, the maximum absolute value over the
// stored entries of row i. Rows with no entries report 0.
//
// The factorization uses this vector for prescaling: each row is divided by
// its maximum absolute entry before any pivoting decision.
// Complexity: O(nrows + nnz).
func (a *Csc) RowMaxAbs() []float64 {
	s := make([]float64, a.nrows)
	var p int
	var v float64
	nnz := a.NNZ()
	for p = 0; p < nnz; p++ {
		v = math.Abs(a.values[p])
		if v > s[a.rowind[p]] {
			s[a.rowind[p]] = v
		}
	}

	return s
}

// MatVecAcc accumulates y += A*x.
//
// Implementation:
//   - Stage 1 (Validate): operand lengths against the matrix shape.
//   - Stage 2 (Execute): scatter column j scaled by x[j], j ascending.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Determinism: fixed j→p order; zero x[j] columns are skipped, which does
// not change the result and avoids useless passes.
// Complexity: O(nnz).
func (a *Csc) MatVecAcc(y, x []float64) error {
	if a == nil {
		return ErrNilMatrix
	}
	if len(x) != a.ncols || len(y) != a.nrows {
		return ErrDimensionMismatch
	}
	var j, p int
	var xj float64
	for j = 0; j < a.ncols; j++ {
		xj = x[j]
		if xj == 0 {
			continue // skip zero columns for performance
		}
		for p = a.colptr[j]; p < a.colptr[j+1]; p++ {
			y[a.rowind[p]] += a.values[p] * xj
		}
	}

	return nil
}

// vecNorm1 returns the 1-norm of a dense vector.
func vecNorm1(x []float64) float64 {
	norm := NormZero
	for _, v := range x {
		norm += math.Abs(v)
	}

	return norm
}
