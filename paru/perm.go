// SPDX-License-Identifier: MIT

// Package paru: permutation application.
// Perm and InvPerm are the stateless scatter/gather kernels the solve path
// is built from, exported because callers applying the factors manually
// (LSolveInPlace / USolveInPlace) need them too. Right-hand sides with
// several columns are stored column-major in one slice: column c of an
// n-row block occupies [c*n, (c+1)*n).
package paru

// Perm gathers b through a permutation with optional row scaling:
//
//	x[k + c*n] = b[p[k] + c*n] / s[p[k]]
//
// for every k in [0, n) and column c in [0, nrhs). A nil s skips the
// division. b and x must not overlap.
//
// Errors:
//   - ErrInvalid: bad lengths, nrhs < 1, or p not a permutation of [0, n).
//
// Complexity: O(n·nrhs).
func Perm(p []int, s, b []float64, n, nrhs int, x []float64) error {
	if err := checkPerm(p, s, b, n, nrhs, x); err != nil {
		return opWrap(opPerm, err)
	}
	var k, c, off int
	for c = 0; c < nrhs; c++ {
		off = c * n
		if s == nil {
			for k = 0; k < n; k++ {
				x[off+k] = b[off+p[k]]
			}
			continue
		}
		for k = 0; k < n; k++ {
			x[off+k] = b[off+p[k]] / s[p[k]]
		}
	}

	return nil
}

// InvPerm scatters b through a permutation with optional row scaling:
//
//	x[p[k] + c*n] = b[k + c*n]
//
// then, when s is non-nil, divides x elementwise by s. b and x must not
// overlap.
//
// Errors:
//   - ErrInvalid: bad lengths, nrhs < 1, or p not a permutation of [0, n).
//
// Complexity: O(n·nrhs).
func InvPerm(p []int, s, b []float64, n, nrhs int, x []float64) error {
	if err := checkPerm(p, s, b, n, nrhs, x); err != nil {
		return opWrap(opInvPerm, err)
	}
	var k, c, off int
	for c = 0; c < nrhs; c++ {
		off = c * n
		for k = 0; k < n; k++ {
			x[off+p[k]] = b[off+k]
		}
		if s != nil {
			for k = 0; k < n; k++ {
				x[off+k] /= s[k]
			}
		}
	}

	return nil
}

// checkPerm validates the shared argument contract of Perm and InvPerm,
// including that p is a bijection on [0, n).
func checkPerm(p []int, s, b []float64, n, nrhs int, x []float64) error {
	if n < 0 || nrhs < 1 || len(p) != n || len(b) != n*nrhs || len(x) != n*nrhs {
		return ErrInvalid
	}
	if s != nil && len(s) != n {
		return ErrInvalid
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return ErrInvalid
		}
		seen[v] = true
	}

	return nil
}
