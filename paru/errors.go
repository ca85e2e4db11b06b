// SPDX-License-Identifier: MIT

// Package paru: sentinel error set and the operation-tag wrapping helper.
// Every exported entry point wraps its failures as "<op>: <sentinel>", so
// callers both match the class with errors.Is and see which call failed.

package paru

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory signals that a workspace or factor allocation would
	// exceed what the process can reasonably serve.
	ErrOutOfMemory = errors.New("paru: out of memory")

	// ErrInvalid flags unusable arguments: nil handles, freed handles,
	// mismatched dimensions, handles from a different analysis.
	ErrInvalid = errors.New("paru: invalid argument")

	// ErrSingular reports a numerically singular matrix. It is not fatal:
	// the factorization completes and the factor handle stays usable, but
	// triangular solves may produce Inf or NaN entries.
	ErrSingular = errors.New("paru: matrix is singular")

	// ErrTooLarge signals a problem whose fronts exceed the addressing
	// range of the dense kernel.
	ErrTooLarge = errors.New("paru: problem too large for dense kernel")
)

// Operation tags used by opWrap.
const (
	opAnalyze      = "Analyze"
	opFactorize    = "Factorize"
	opSolve        = "Solve"
	opLSolve       = "LSolve"
	opUSolve       = "USolve"
	opPerm         = "Perm"
	opInvPerm      = "InvPerm"
	opGet          = "Get"
	opFreeSymbolic = "FreeSymbolic"
	opFreeNumeric  = "FreeNumeric"
)

// opWrap prefixes err with the failing operation, preserving errors.Is.
func opWrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// allocFloats allocates a float64 slice of r*c elements, converting an
// oversized or overflowing request into ErrOutOfMemory instead of a runtime
// abort. Callers pass the two factors separately so the overflow check can
// happen here, once.
func allocFloats(r, c int) ([]float64, error) {
	if r < 0 || c < 0 {
		return nil, ErrInvalid
	}
	if c != 0 && r > (1<<34)/c {
		return nil, ErrOutOfMemory
	}

	return make([]float64, r*c), nil
}
