// SPDX-License-Identifier: MIT

// Package paru: the solve phase.
// Solving replays the frontal tree: forward substitution visits fronts in
// ascending id order (children before parents), back substitution in the
// reverse. Per front the working values are gathered into a dense panel,
// pushed through the packed L or U blocks, and scattered back; panels
// above the triangular-solve threshold go to the dense-kernel collaborator,
// smaller ones run as plain loops. The traversal is sequential, so solves
// are bit-deterministic.

package paru

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/mmuetzel/SuiteSparse/sparse"
)

// Solve computes x = A⁻¹·b for nrhs right-hand sides without modifying b.
// b and x are n×nrhs column-major and must not overlap.
//
// Implementation:
//   - Stage 1 (Validate): handle liveness and pairing, operand lengths.
//   - Stage 2 (Execute): copy b into x, then SolveInPlace.
//
// Errors:
//   - ErrInvalid, ErrOutOfMemory.
//
// Notes:
//   - A factorization flagged ErrSingular is still accepted here; the
//     result may then contain Inf or NaN entries.
func Solve(sym *Symbolic, num *Numeric, b, x []float64, nrhs int, ctl *Control) error {
	if err := checkHandles(sym, num); err != nil {
		return opWrap(opSolve, err)
	}
	if nrhs < 1 || len(b) != num.n*nrhs || len(x) != num.n*nrhs {
		return opWrap(opSolve, ErrInvalid)
	}
	copy(x, b)

	return SolveInPlace(sym, num, x, nrhs, ctl)
}

// SolveInPlace overwrites x (n×nrhs, column-major) with A⁻¹·x.
//
// Implementation:
//   - Stage 1 (Validate): handles, pairing, lengths, Control.
//   - Stage 2 (Permute in): w = scaled, row-permuted x (Perm).
//   - Stage 3 (Forward): L·y = w in ascending tree order (LSolve core).
//   - Stage 4 (Backward): U·z = y in descending tree order (USolve core).
//   - Stage 5 (Permute out): x = column-permuted z (InvPerm).
//
// Errors:
//   - ErrInvalid, ErrOutOfMemory.
//
// Complexity: O(lnz + unz) per right-hand side, plus the gathers.
func SolveInPlace(sym *Symbolic, num *Numeric, x []float64, nrhs int, ctl *Control) error {
	c := ctl.resolve()
	if err := c.validate(); err != nil {
		return opWrap(opSolve, err)
	}
	if err := checkHandles(sym, num); err != nil {
		return opWrap(opSolve, err)
	}
	n := num.n
	if nrhs < 1 || len(x) != n*nrhs {
		return opWrap(opSolve, ErrInvalid)
	}

	w, err := allocFloats(n, nrhs)
	if err != nil {
		return opWrap(opSolve, err)
	}
	if err = Perm(num.p, num.scale, x, n, nrhs, w); err != nil {
		return opWrap(opSolve, err)
	}
	num.lSolve(w, nrhs, c)
	num.uSolve(w, nrhs, c)
	if err = InvPerm(sym.q, nil, w, n, nrhs, x); err != nil {
		return opWrap(opSolve, err)
	}

	return nil
}

// LSolveInPlace overwrites x with L⁻¹·x. x must already be expressed in
// eliminated coordinates, i.e. the caller has applied Perm with the row
// permutation and scale factors first.
func LSolveInPlace(sym *Symbolic, num *Numeric, x []float64, nrhs int, ctl *Control) error {
	c := ctl.resolve()
	if err := c.validate(); err != nil {
		return opWrap(opLSolve, err)
	}
	if err := checkHandles(sym, num); err != nil {
		return opWrap(opLSolve, err)
	}
	if nrhs < 1 || len(x) != num.n*nrhs {
		return opWrap(opLSolve, ErrInvalid)
	}
	num.lSolve(x, nrhs, c)

	return nil
}

// USolveInPlace overwrites x with U⁻¹·x in eliminated coordinates. Apply
// InvPerm with the column permutation afterwards to return to original
// coordinates.
func USolveInPlace(sym *Symbolic, num *Numeric, x []float64, nrhs int, ctl *Control) error {
	c := ctl.resolve()
	if err := c.validate(); err != nil {
		return opWrap(opUSolve, err)
	}
	if err := checkHandles(sym, num); err != nil {
		return opWrap(opUSolve, err)
	}
	if nrhs < 1 || len(x) != num.n*nrhs {
		return opWrap(opUSolve, ErrInvalid)
	}
	num.uSolve(x, nrhs, c)

	return nil
}

// checkHandles validates liveness and pairing of the two opaque handles.
func checkHandles(sym *Symbolic, num *Numeric) error {
	if sym == nil || num == nil || sym.freed.Load() || num.freed.Load() || num.symID != sym.id {
		return ErrInvalid
	}

	return nil
}

// lSolve runs unit-lower forward substitution on w (n×nrhs column-major,
// indexed by elimination position): singletons first, then every front in
// ascending id order. Front panels above the triangular-solve threshold go
// through blas64.
func (num *Numeric) lSolve(w []float64, nrhs int, c *Control) {
	n := num.n

	// Singleton columns scatter straight from their sparse form.
	var k, cc int
	for k = 0; k < len(num.singL); k++ {
		for _, e := range num.singL[k] {
			dst := num.pinv[e.row]
			for cc = 0; cc < nrhs; cc++ {
				w[cc*n+dst] -= e.val * w[cc*n+k]
			}
		}
	}

	for fi := range num.fronts {
		ff := &num.fronts[fi]
		m, npiv := ff.m, ff.npiv
		if m == 0 || npiv == 0 {
			continue
		}

		// Gather the front's working values: pivots land in rows 0..npiv-1,
		// carried rows follow at their final pivot positions.
		wf := make([]float64, m*nrhs)
		pos := make([]int, m)
		var r int
		for r = 0; r < m; r++ {
			pos[r] = num.pinv[ff.rows[r]]
			for cc = 0; cc < nrhs; cc++ {
				wf[r*nrhs+cc] = w[cc*n+pos[r]]
			}
		}

		if m*npiv <= c.WorthwhileTrsm {
			var j int
			var lrj float64
			for j = 0; j < npiv; j++ {
				for r = j + 1; r < m; r++ {
					lrj = ff.l[r*npiv+j]
					if lrj == 0 {
						continue
					}
					for cc = 0; cc < nrhs; cc++ {
						wf[r*nrhs+cc] -= lrj * wf[j*nrhs+cc]
					}
				}
			}
		} else {
			tri := blas64.Triangular{
				Uplo: blas.Lower, Diag: blas.Unit,
				N: npiv, Stride: npiv, Data: ff.l,
			}
			if nrhs == 1 {
				blas64.Trsv(blas.NoTrans, tri, blas64.Vector{N: npiv, Inc: 1, Data: wf})
				if m > npiv {
					blas64.Gemv(blas.NoTrans, -1,
						blas64.General{Rows: m - npiv, Cols: npiv, Stride: npiv, Data: ff.l[npiv*npiv:]},
						blas64.Vector{N: npiv, Inc: 1, Data: wf[:npiv]},
						1,
						blas64.Vector{N: m - npiv, Inc: 1, Data: wf[npiv:]},
					)
				}
			} else {
				top := blas64.General{Rows: npiv, Cols: nrhs, Stride: nrhs, Data: wf}
				blas64.Trsm(blas.Left, blas.NoTrans, 1, tri, top)
				if m > npiv {
					blas64.Gemm(blas.NoTrans, blas.NoTrans, -1,
						blas64.General{Rows: m - npiv, Cols: npiv, Stride: npiv, Data: ff.l[npiv*npiv:]},
						top,
						1,
						blas64.General{Rows: m - npiv, Cols: nrhs, Stride: nrhs, Data: wf[npiv*nrhs:]},
					)
				}
			}
		}

		for r = 0; r < m; r++ {
			for cc = 0; cc < nrhs; cc++ {
				w[cc*n+pos[r]] = wf[r*nrhs+cc]
			}
		}
	}
}

// uSolve runs upper back substitution on w: fronts in descending id order,
// then singletons in reverse. A zero pivot divides through regardless,
// surfacing as Inf or NaN in the result rather than as an error.
func (num *Numeric) uSolve(w []float64, nrhs int, c *Control) {
	n := num.n
	nsing := len(num.sdiag)

	var cc int
	for fi := len(num.fronts) - 1; fi >= 0; fi-- {
		ff := &num.fronts[fi]
		m, npiv := ff.m, ff.npiv
		if m == 0 || npiv == 0 {
			continue
		}

		// Gather by front column positions; rows beyond npiv are ancestor
		// pivots whose values are already final.
		zf := make([]float64, m*nrhs)
		var idx int
		for idx = 0; idx < m; idx++ {
			g := nsing + ff.cols[idx]
			for cc = 0; cc < nrhs; cc++ {
				zf[idx*nrhs+cc] = w[cc*n+g]
			}
		}

		if m*npiv <= c.WorthwhileTrsm {
			var j, t int
			var ujt float64
			for j = npiv - 1; j >= 0; j-- {
				for t = j + 1; t < m; t++ {
					ujt = ff.u[j*m+t]
					if ujt == 0 {
						continue
					}
					for cc = 0; cc < nrhs; cc++ {
						zf[j*nrhs+cc] -= ujt * zf[t*nrhs+cc]
					}
				}
				for cc = 0; cc < nrhs; cc++ {
					zf[j*nrhs+cc] /= ff.udiag[j]
				}
			}
		} else {
			tri := blas64.Triangular{
				Uplo: blas.Upper, Diag: blas.NonUnit,
				N: npiv, Stride: m, Data: ff.u,
			}
			if nrhs == 1 {
				if m > npiv {
					blas64.Gemv(blas.NoTrans, -1,
						blas64.General{Rows: npiv, Cols: m - npiv, Stride: m, Data: ff.u[npiv:]},
						blas64.Vector{N: m - npiv, Inc: 1, Data: zf[npiv:]},
						1,
						blas64.Vector{N: npiv, Inc: 1, Data: zf[:npiv]},
					)
				}
				blas64.Trsv(blas.NoTrans, tri, blas64.Vector{N: npiv, Inc: 1, Data: zf[:npiv]})
			} else {
				top := blas64.General{Rows: npiv, Cols: nrhs, Stride: nrhs, Data: zf}
				if m > npiv {
					blas64.Gemm(blas.NoTrans, blas.NoTrans, -1,
						blas64.General{Rows: npiv, Cols: m - npiv, Stride: m, Data: ff.u[npiv:]},
						blas64.General{Rows: m - npiv, Cols: nrhs, Stride: nrhs, Data: zf[npiv*nrhs:]},
						1,
						top,
					)
				}
				blas64.Trsm(blas.Left, blas.NoTrans, 1, tri, top)
			}
		}

		// Only the pivot rows changed; scatter them back.
		for idx = 0; idx < npiv; idx++ {
			g := nsing + ff.cols[idx]
			for cc = 0; cc < nrhs; cc++ {
				w[cc*n+g] = zf[idx*nrhs+cc]
			}
		}
	}

	for k := nsing - 1; k >= 0; k-- {
		for cc = 0; cc < nrhs; cc++ {
			acc := w[cc*n+k]
			for _, e := range num.singU[k] {
				acc -= e.val * w[cc*n+e.pos]
			}
			w[cc*n+k] = acc / num.sdiag[k]
		}
	}
}

// ResidualNorm is a convenience wrapper over sparse.Residual for a solve
// produced by this package: it reports the scaled residual of A·x ≈ b.
func ResidualNorm(a *sparse.Csc, x, b []float64) (resid, anorm, xnorm float64, err error) {
	return sparse.Residual(a, x, b)
}
