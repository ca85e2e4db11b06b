// SPDX-License-Identifier: MIT
// Package ordering: sentinel error set.

package ordering

import "errors"

var (
	// ErrBadGraph is returned when the adjacency arrays are inconsistent
	// (wrong pointer length, non-monotone pointers, negative size).
	ErrBadGraph = errors.New("ordering: invalid adjacency structure")

	// ErrOutOfRange indicates an adjacency entry outside [0, n).
	ErrOutOfRange = errors.New("ordering: vertex index out of range")

	// ErrBadPermutation signals a permutation argument that is not a
	// bijection on [0, n).
	ErrBadPermutation = errors.New("ordering: invalid permutation")
)
