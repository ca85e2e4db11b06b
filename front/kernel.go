// SPDX-License-Identifier: MIT

// Package front: the panel factorization kernel.
// Factorize eliminates the pivot columns of one assembled front in place,
// leaving L below the diagonal (unit diagonal implied), U on and above it,
// and the Schur complement in the trailing block.

package front

import (
	"math"
)

// maxDim is the largest front dimension the dense collaborator can address.
const maxDim = math.MaxInt32

// Block is a row-major dense matrix: element (r, c) lives at Data[r*Cols+c].
type Block struct {
	Rows, Cols int
	Data       []float64
}

// Config carries the numeric tolerances and dispatch thresholds the kernel
// obeys. It is read-only; the engine derives it from its Control record.
type Config struct {
	PivTol         float64 // threshold for accepting off-diagonal pivots
	DiagTol        float64 // threshold for accepting the preferred diagonal
	PanelWidth     int     // columns factorized per panel
	Trivial        int     // updates with ≤ this many elements stay in-place
	WorthwhileGemm int     // updates above this many elements are task-split
	WorthwhileTrsm int     // triangular solves above this are task-split
	PreferDiagonal bool    // try the diagonal entry first (symmetric strategy)
	Workers        int     // bound for task-split updates; ≤1 disables splits
}

// Result reports what the kernel decided while factorizing one front.
type Result struct {
	// RowPerm is the final local row order: RowPerm[r] is the initial local
	// index of the row now stored at position r. Only the first npiv
	// entries can differ from identity; rows at or beyond npiv never move.
	RowPerm []int

	// Udiag holds the npiv accepted pivot values in elimination order.
	Udiag []float64

	// Singular is set when some column had no candidate satisfying the
	// pivot tolerance (including all-zero columns). The factorization still
	// runs to completion with the best available candidate.
	Singular bool

	// Flops counts the floating-point work performed on this front.
	Flops float64
}

// Factorize eliminates the first npiv columns of f in place.
//
// Implementation:
//   - Stage 1 (Validate): block shape, pivot count, addressing range.
//   - Stage 2 (Execute): for each panel of cfg.PanelWidth columns: pivot
//     search / row swap / column scale / in-panel rank-1 update per column,
//     then one triangular solve on the panel's row block and one
//     matrix-matrix update on the trailing block, both dispatched by size.
//
// Pivot acceptance for column j (candidates are unpivoted fully summed rows
// only; the column maximum is taken over all remaining rows):
//   - diagonal preference (cfg.PreferDiagonal): the row carrying the
//     original diagonal is accepted when |diag| ≥ DiagTol * colmax;
//   - otherwise the largest candidate wins, lowest row index on ties, and
//     is accepted when |best| ≥ PivTol * colmax;
//   - a failed acceptance still installs the best candidate and marks the
//     result singular; a zero pivot skips the column scale entirely.
//
// Errors:
//   - ErrNilBlock, ErrBadShape, ErrTooLarge.
//
// Determinism: fixed column order, fixed scan order, threshold comparisons
// only against deterministic values; the task-split updates write disjoint
// column strips. Identical inputs give bit-identical outputs for any
// Workers setting.
//
// Complexity: the usual dense LU cost, about 2/3·npiv³ + npiv²·(m-npiv)
// flops for an m-by-m front.
func Factorize(f *Block, npiv int, cfg *Config) (*Result, error) {
	if f == nil || cfg == nil {
		return nil, ErrNilBlock
	}
	m, nc := f.Rows, f.Cols
	if m < 0 || nc < 0 || len(f.Data) != m*nc || npiv < 0 || npiv > m || npiv > nc {
		return nil, ErrBadShape
	}
	if m > maxDim || nc > maxDim {
		return nil, ErrTooLarge
	}

	res := &Result{
		RowPerm: make([]int, m),
		Udiag:   make([]float64, npiv),
	}
	for r := 0; r < m; r++ {
		res.RowPerm[r] = r
	}
	if npiv == 0 {
		return res, nil
	}

	panelW := cfg.PanelWidth
	if panelW < 1 {
		panelW = 1
	}

	data := f.Data
	var j0, j1, j, r, c, piv int
	var colmax, best, av, d, lrj float64
	for j0 = 0; j0 < npiv; j0 = j1 {
		j1 = j0 + panelW
		if j1 > npiv {
			j1 = npiv
		}

		for j = j0; j < j1; j++ {
			// Column maximum over all remaining rows.
			colmax = 0
			for r = j; r < m; r++ {
				if av = math.Abs(data[r*nc+j]); av > colmax {
					colmax = av
				}
			}

			// Candidate search over unpivoted fully summed rows.
			piv = -1
			if cfg.PreferDiagonal {
				// The row whose initial index equals j carries the
				// original diagonal; it may have been swapped away already.
				for r = j; r < npiv; r++ {
					if res.RowPerm[r] == j {
						if math.Abs(data[r*nc+j]) >= cfg.DiagTol*colmax && colmax > 0 {
							piv = r
						}
						break
					}
				}
			}
			if piv < 0 {
				// General rule: largest candidate, lowest index on ties.
				best = -1
				for r = j; r < npiv; r++ {
					if av = math.Abs(data[r*nc+j]); av > best {
						best, piv = av, r
					}
				}
				if best < cfg.PivTol*colmax || best == 0 {
					res.Singular = true
				}
			}

			// Swap the full rows j and piv (and the bookkeeping).
			if piv != j {
				swapRows(data, nc, j, piv)
				res.RowPerm[j], res.RowPerm[piv] = res.RowPerm[piv], res.RowPerm[j]
			}

			d = data[j*nc+j]
			res.Udiag[j] = d

			// Scale the L column; a zero pivot leaves the column untouched
			// so the factorization can continue on a singular front.
			if d != 0 {
				for r = j + 1; r < m; r++ {
					data[r*nc+j] /= d
				}
				res.Flops += float64(m - j - 1)
			}

			// Rank-1 update restricted to the rest of the panel.
			for r = j + 1; r < m; r++ {
				lrj = data[r*nc+j]
				if lrj == 0 {
					continue
				}
				for c = j + 1; c < j1; c++ {
					data[r*nc+c] -= lrj * data[j*nc+c]
				}
			}
			res.Flops += 2 * float64(m-j-1) * float64(j1-j-1)
		}

		// Panel close: U12 = L11⁻¹ · A12, then A22 -= L21 · U12.
		if j1 < nc {
			trsmUnitLower(data, nc, j0, j1, cfg)
			res.Flops += float64(j1-j0) * float64(j1-j0) * float64(nc-j1)
		}
		if j1 < nc && j1 < m {
			gemmUpdate(data, nc, m, j0, j1, cfg)
			res.Flops += 2 * float64(m-j1) * float64(j1-j0) * float64(nc-j1)
		}
	}

	return res, nil
}

// swapRows exchanges full rows a and b of a row-major block.
func swapRows(data []float64, stride, a, b int) {
	ra := data[a*stride : a*stride+stride]
	rb := data[b*stride : b*stride+stride]
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}
