// SPDX-License-Identifier: MIT

// Package sparse: the Csc container.
// Csc is a concrete compressed-column matrix of float64 values, storing the
// pattern in flat slices for cache friendliness. It is immutable after
// construction; every invariant is validated exactly once in New.

package sparse

import (
	"fmt"
	"math"
)

// cscErrorf wraps an underlying error with constructor/method context.
func cscErrorf(method string, err error) error {
	return fmt.Errorf("Csc.%s: %w", method, err)
}

// Csc is an nrows-by-ncols sparse matrix in compressed-column form.
// colptr has length ncols+1; column j occupies rowind[colptr[j]:colptr[j+1]]
// and values[colptr[j]:colptr[j+1]].
type Csc struct {
	nrows, ncols int
	colptr       []int
	rowind       []int
	values       []float64
}

// New creates a Csc matrix from raw compressed-column arrays.
//
// Implementation:
//   - Stage 1 (Validate): dimensions ≥ 0, colptr monotone from 0, row
//     indices in range, values finite, slice lengths consistent.
//   - Stage 2 (Finalize): adopt the slices without copying.
//
// Inputs:
//   - nrows, ncols: matrix dimensions.
//   - colptr: ncols+1 nondecreasing offsets starting at 0.
//   - rowind, values: colptr[ncols] row indices and values.
//
// Returns:
//   - *Csc: the validated container, or nil with a sentinel error.
//
// Errors:
//   - ErrBadShape, ErrBadColptr, ErrOutOfRange, ErrNaNInf.
//
// Notes:
//   - The slices are adopted, not copied; the caller must not mutate them
//     for the lifetime of the matrix. Use Clone for an independent copy.
//   - Row indices within a column need not be sorted and duplicates are not
//     detected here; consumers iterate in storage order.
//
// Complexity: O(nnz) time, O(1) extra memory.
func New(nrows, ncols int, colptr, rowind []int, values []float64) (*Csc, error) {
	// Validate dimensions.
	if nrows < 0 || ncols < 0 {
		return nil, cscErrorf("New", ErrBadShape)
	}
	// Validate column pointers: present, anchored at zero, nondecreasing.
	if len(colptr) != ncols+1 || colptr[0] != 0 {
		return nil, cscErrorf("New", ErrBadColptr)
	}
	var j int // column iterator
	for j = 0; j < ncols; j++ {
		if colptr[j+1] < colptr[j] {
			return nil, cscErrorf("New", ErrBadColptr)
		}
	}
	// Validate entry storage length.
	nnz := colptr[ncols]
	if len(rowind) != nnz || len(values) != nnz {
		return nil, cscErrorf("New", ErrBadShape)
	}
	// Validate entries: in-range rows, finite values.
	var p int
	for p = 0; p < nnz; p++ {
		if rowind[p] < 0 || rowind[p] >= nrows {
			return nil, cscErrorf("New", ErrOutOfRange)
		}
		if math.IsNaN(values[p]) || math.IsInf(values[p], 0) {
			return nil, cscErrorf("New", ErrNaNInf)
		}
	}

	return &Csc{nrows: nrows, ncols: ncols, colptr: colptr, rowind: rowind, values: values}, nil
}

// NRows returns the number of rows. Complexity: O(1).
func (a *Csc) NRows() int { return a.nrows }

// NCols returns the number of columns. Complexity: O(1).
func (a *Csc) NCols() int { return a.ncols }

// NNZ returns the number of stored entries. Complexity: O(1).
func (a *Csc) NNZ() int { return a.colptr[a.ncols] }

// Col returns the row indices and values of column j as subslices of the
// backing storage. The returned slices are read-only by contract.
// Complexity: O(1).
func (a *Csc) Col(j int) (rows []int, vals []float64, err error) {
	if j < 0 || j >= a.ncols {
		return nil, nil, cscErrorf("Col", ErrOutOfRange)
	}

	return a.rowind[a.colptr[j]:a.colptr[j+1]], a.values[a.colptr[j]:a.colptr[j+1]], nil
}

// Clone returns a deep copy of the matrix.
// Complexity: O(nnz) time and memory.
func (a *Csc) Clone() *Csc {
	cp := make([]int, len(a.colptr))
	ri := make([]int, len(a.rowind))
	vx := make([]float64, len(a.values))
	copy(cp, a.colptr)
	copy(ri, a.rowind)
	copy(vx, a.values)

	return &Csc{nrows: a.nrows, ncols: a.ncols, colptr: cp, rowind: ri, values: vx}
}

// Transpose returns the pattern-and-value transpose of the matrix as a new
// Csc (rows become columns). The engine uses it for row-wise gathers.
//
// Determinism: entries of each transposed column appear in ascending source
// column order, which is the order a fixed counting pass produces.
// Complexity: O(nrows + ncols + nnz).
func (a *Csc) Transpose() *Csc {
	nnz := a.NNZ()
	tp := make([]int, a.nrows+1)
	ti := make([]int, nnz)
	tx := make([]float64, nnz)

	// Count entries per row.
	var p int
	for p = 0; p < nnz; p++ {
		tp[a.rowind[p]+1]++
	}
	// Prefix-sum into row pointers.
	var i int
	for i = 0; i < a.nrows; i++ {
		tp[i+1] += tp[i]
	}
	// Scatter entries; next tracks the write head per transposed column.
	next := make([]int, a.nrows)
	copy(next, tp[:a.nrows])
	var j, q int
	for j = 0; j < a.ncols; j++ {
		for p = a.colptr[j]; p < a.colptr[j+1]; p++ {
			i = a.rowind[p]
			q = next[i]
			ti[q] = j
			tx[q] = a.values[p]
			next[i] = q + 1
		}
	}

	return &Csc{nrows: a.ncols, ncols: a.nrows, colptr: tp, rowind: ti, values: tx}
}

// String implements fmt.Stringer for debugging: one "(i,j) v" triplet per
// line in column-major storage order.
func (a *Csc) String() string {
	s := fmt.Sprintf("sparse.Csc %dx%d nnz=%d\n", a.nrows, a.ncols, a.NNZ())
	var j, p int
	for j = 0; j < a.ncols; j++ {
		for p = a.colptr[j]; p < a.colptr[j+1]; p++ {
			s += fmt.Sprintf("(%d,%d) %g\n", a.rowind[p], j, a.values[p])
		}
	}

	return s
}
