// SPDX-License-Identifier: MIT

// Package sparse: backward-error residual evaluation.
// Residual checks a candidate solution against the original, unfactored
// matrix, so verification never depends on how factors are stored.

package sparse

import "math"

// Residual computes the 1-norm relative backward error of a candidate
// solution x for the system A*x = b:
//
//	resid = norm1(b - A*x) / (norm1(A) * norm1(x))
//
// Implementation:
//   - Stage 1 (Validate): A square, x and b of length n.
//   - Stage 2 (Execute): r = b; r -= A*x; take norms.
//
// Returns:
//   - resid: the relative backward error (0/0 reports 0, r/0 reports +Inf).
//   - anorm: norm1(A).
//   - xnorm: norm1(x).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch.
//
// Complexity: O(n + nnz).
func Residual(a *Csc, x, b []float64) (resid, anorm, xnorm float64, err error) {
	if a == nil {
		return 0, 0, 0, ErrNilMatrix
	}
	if a.nrows != a.ncols {
		return 0, 0, 0, ErrNonSquare
	}
	n := a.nrows
	if len(x) != n || len(b) != n {
		return 0, 0, 0, ErrDimensionMismatch
	}

	// r = b - A*x: copy b, then accumulate A*(-x) on top.
	r := make([]float64, n)
	copy(r, b)
	neg := make([]float64, n)
	var i int
	for i = 0; i < n; i++ {
		neg[i] = -x[i]
	}
	if err = a.MatVecAcc(r, neg); err != nil {
		return 0, 0, 0, err
	}

	anorm = a.Norm1()
	xnorm = vecNorm1(x)
	rnorm := vecNorm1(r)
	denom := anorm * xnorm
	switch {
	case denom != 0:
		resid = rnorm / denom
	case rnorm == 0:
		resid = 0
	default:
		resid = math.Inf(1)
	}

	return resid, anorm, xnorm, nil
}

// ResidualBlock is the multiple-right-hand-side form of Residual: X and B
// are n-by-nrhs blocks in column-major storage, and the residual is
//
//	resid = norm1(B - A*X) / (norm1(A) * norm1(X))
//
// where the block norms are maximum absolute column sums, consistent with
// the vector case repeated over columns.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch (including nrhs < 0).
//
// Complexity: O(nrhs * (n + nnz)).
func ResidualBlock(a *Csc, x, b []float64, nrhs int) (resid, anorm, xnorm float64, err error) {
	if a == nil {
		return 0, 0, 0, ErrNilMatrix
	}
	if a.nrows != a.ncols {
		return 0, 0, 0, ErrNonSquare
	}
	n := a.nrows
	if nrhs < 0 || len(x) != n*nrhs || len(b) != n*nrhs {
		return 0, 0, 0, ErrDimensionMismatch
	}

	anorm = a.Norm1()
	var rnorm, cnorm float64
	r := make([]float64, n)
	neg := make([]float64, n)
	var k, i int
	for k = 0; k < nrhs; k++ {
		xk := x[k*n : (k+1)*n]
		copy(r, b[k*n:(k+1)*n])
		for i = 0; i < n; i++ {
			neg[i] = -xk[i]
		}
		if err = a.MatVecAcc(r, neg); err != nil {
			return 0, 0, 0, err
		}
		// Column norms of X and of the residual block.
		if cnorm = vecNorm1(xk); cnorm > xnorm {
			xnorm = cnorm
		}
		if cnorm = vecNorm1(r); cnorm > rnorm {
			rnorm = cnorm
		}
	}

	denom := anorm * xnorm
	switch {
	case denom != 0:
		resid = rnorm / denom
	case rnorm == 0:
		resid = 0
	default:
		resid = math.Inf(1)
	}

	return resid, anorm, xnorm, nil
}
