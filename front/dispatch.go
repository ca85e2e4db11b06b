// SPDX-License-Identifier: MIT

// Package front: size-gated dispatch of the panel-close updates.
// Three tiers, smallest to largest: in-place loops (≤ Trivial elements),
// one BLAS call, BLAS calls on disjoint column strips joined by ForkJoin.
// The strip split never changes results; each strip owns its columns.

package front

import (
	"context"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
)

// trsmUnitLower solves L11 · U12 = A12 in place: rows j0..j1 of the block,
// columns j1..stride, against the unit lower triangle at (j0, j0).
func trsmUnitLower(data []float64, stride, j0, j1 int, cfg *Config) {
	nb := j1 - j0
	width := stride - j1
	elems := nb * width

	if elems <= cfg.Trivial {
		// In-place forward substitution, small enough that a BLAS call
		// would cost more than the arithmetic.
		var i, k, c int
		var lik float64
		for i = j0 + 1; i < j1; i++ {
			for k = j0; k < i; k++ {
				lik = data[i*stride+k]
				if lik == 0 {
					continue
				}
				for c = j1; c < stride; c++ {
					data[i*stride+c] -= lik * data[k*stride+c]
				}
			}
		}

		return
	}

	tri := blas64.Triangular{
		Uplo:   blas.Lower,
		Diag:   blas.Unit,
		N:      nb,
		Stride: stride,
		Data:   data[j0*stride+j0:],
	}

	if elems <= cfg.WorthwhileTrsm || cfg.Workers <= 1 {
		blas64.Trsm(blas.Left, blas.NoTrans, 1, tri, blas64.General{
			Rows: nb, Cols: width, Stride: stride, Data: data[j0*stride+j1:],
		})

		return
	}

	// Task-split across column strips; strips are disjoint by construction.
	var tasks []func(context.Context) error
	for c0 := j1; c0 < stride; c0 += stripWidth(width, cfg.Workers) {
		w := stripWidth(width, cfg.Workers)
		if c0+w > stride {
			w = stride - c0
		}
		start, cols := c0, w
		tasks = append(tasks, func(context.Context) error {
			blas64.Trsm(blas.Left, blas.NoTrans, 1, tri, blas64.General{
				Rows: nb, Cols: cols, Stride: stride, Data: data[j0*stride+start:],
			})

			return nil
		})
	}
	_ = ForkJoin(context.Background(), cfg.Workers, true, tasks...)
}

// gemmUpdate applies A22 -= L21 · U12 in place: the trailing block at
// (j1, j1) updated from the panel's L block and the fresh U12.
func gemmUpdate(data []float64, stride, m, j0, j1 int, cfg *Config) {
	nb := j1 - j0
	rows := m - j1
	width := stride - j1
	elems := rows * width

	if elems <= cfg.Trivial {
		var r, k, c int
		var lrk float64
		for r = j1; r < m; r++ {
			for k = j0; k < j1; k++ {
				lrk = data[r*stride+k]
				if lrk == 0 {
					continue
				}
				for c = j1; c < stride; c++ {
					data[r*stride+c] -= lrk * data[k*stride+c]
				}
			}
		}

		return
	}

	l21 := blas64.General{Rows: rows, Cols: nb, Stride: stride, Data: data[j1*stride+j0:]}

	if elems <= cfg.WorthwhileGemm || cfg.Workers <= 1 {
		blas64.Gemm(blas.NoTrans, blas.NoTrans, -1,
			l21,
			blas64.General{Rows: nb, Cols: width, Stride: stride, Data: data[j0*stride+j1:]},
			1,
			blas64.General{Rows: rows, Cols: width, Stride: stride, Data: data[j1*stride+j1:]},
		)

		return
	}

	var tasks []func(context.Context) error
	for c0 := j1; c0 < stride; c0 += stripWidth(width, cfg.Workers) {
		w := stripWidth(width, cfg.Workers)
		if c0+w > stride {
			w = stride - c0
		}
		start, cols := c0, w
		tasks = append(tasks, func(context.Context) error {
			blas64.Gemm(blas.NoTrans, blas.NoTrans, -1,
				l21,
				blas64.General{Rows: nb, Cols: cols, Stride: stride, Data: data[j0*stride+start:]},
				1,
				blas64.General{Rows: rows, Cols: cols, Stride: stride, Data: data[j1*stride+start:]},
			)

			return nil
		})
	}
	_ = ForkJoin(context.Background(), cfg.Workers, true, tasks...)
}

// stripWidth picks the column strip size for a task-split update: an even
// division over the workers, never below one column.
func stripWidth(width, workers int) int {
	w := (width + workers - 1) / workers
	if w < 1 {
		w = 1
	}

	return w
}
