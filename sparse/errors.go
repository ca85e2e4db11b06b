// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the sparse
// package. All functions return these sentinels and tests check them via
// errors.Is. No function panics on user-triggered error conditions.

package sparse

import "errors"

var (
	// ErrNilMatrix indicates that a nil *Csc (receiver or argument) was used.
	ErrNilMatrix = errors.New("sparse: nil matrix")

	// ErrBadShape is returned when requested dimensions are negative or the
	// index/value slices do not agree with Colptr.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrBadColptr signals a column-pointer array that is missing, does not
	// start at zero, or is not nondecreasing.
	ErrBadColptr = errors.New("sparse: invalid column pointers")

	// ErrOutOfRange indicates that a stored row index is outside [0, nrows).
	ErrOutOfRange = errors.New("sparse: row index out of range")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("sparse: NaN or Inf encountered")

	// ErrNonSquare signals that a square matrix was required but the input
	// was rectangular.
	ErrNonSquare = errors.New("sparse: matrix is not square")

	// ErrDimensionMismatch indicates incompatible dimensions between a matrix
	// and a vector or dense block operand.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")
)
