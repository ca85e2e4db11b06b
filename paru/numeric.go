// SPDX-License-Identifier: MIT

// Package paru: the numeric phase.
// Factorize walks the frontal tree bottom-up. Each front is assembled from
// its children's contribution blocks (extend-add) plus the matrix entries
// it owns, then eliminated by the dense kernel. Subtrees become tasks on a
// bounded group when their estimated work clears Control.TaskFlops; every
// front writes only its own slots, so the walk needs no locks.

package paru

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync/atomic"

	"github.com/mmuetzel/SuiteSparse/front"
	"github.com/mmuetzel/SuiteSparse/sparse"
)

// uEntry is one off-pivot entry of a singleton's U row.
type uEntry struct {
	pos int // elimination position of the column
	val float64
}

// lEntry is one below-pivot entry of a singleton's L column, already
// divided by the pivot and the row scale.
type lEntry struct {
	row int // original row index
	val float64
}

// frontFactor is the packed numeric factor of one front.
//
// l is m×npiv row-major: the strictly-lower part of its top npiv rows is
// L11 (unit diagonal implied), the rest is L21. u is npiv×m row-major: on
// and above the diagonal it is U11, columns npiv..m-1 are U12. Entries the
// triangular shape does not cover are leftovers of the elimination and are
// never read.
type frontFactor struct {
	m, npiv int
	cols    []int // shared with the analysis; read-only
	rows    []int // local row -> original row, after pivoting
	l       []float64
	u       []float64
	udiag   []float64
}

// Numeric is the opaque factor handle produced by Factorize. It is
// immutable after construction and safe for concurrent solves. Release it
// with FreeNumeric.
type Numeric struct {
	symID uint64
	sym   *Symbolic
	n     int

	fronts []frontFactor
	singU  [][]uEntry // per singleton, the U row beyond the pivot
	singL  [][]lEntry // per singleton, the scaled L column below the pivot
	sdiag  []float64  // singleton pivot values

	p     []int     // elimination position -> original row
	pinv  []int     // original row -> elimination position
	scale []float64 // row divisors actually applied (all 1 when disabled)

	flops    float64
	lnz, unz int64
	minUdiag float64
	maxUdiag float64
	rcond    float64
	singular bool
	tasking  string

	freed atomic.Bool
}

// Factorize computes the numeric factorization P·S·A·Q = L·U for a matrix
// matching the given analysis.
//
// Implementation:
//   - Stage 1 (Validate): Control, handle liveness, and the pairing rule:
//     the matrix must have the analysis' dimension and nonzero count.
//   - Stage 2 (Scale): optional per-row division by the row's largest
//     magnitude; structurally empty rows keep a divisor of 1.
//   - Stage 3 (Singletons): replay the peeled pivots in order, storing
//     their sparse U rows and L columns; no updates are ever needed.
//   - Stage 4 (Tree walk): assemble and eliminate every front bottom-up,
//     forking subtrees whose work estimate clears Control.TaskFlops onto
//     a group bounded by the thread cap. A front's factor is packed into
//     L and U panels, its contribution block is handed to the parent, and
//     the square working block is released.
//   - Stage 5 (Finish): build the final row permutation from the pivot
//     decisions and aggregate the diagnostics.
//
// Returns:
//   - *Numeric: the factor handle. On ErrSingular the handle is still
//     returned and usable; on any other error it is nil.
//
// Errors:
//   - ErrInvalid, ErrOutOfMemory, ErrTooLarge, ErrSingular (non-fatal).
//
// Determinism: children are assembled in ascending id order and parallel
// tasks write disjoint memory, so the factors are bit-identical for any
// MaxThreads setting.
//
// Complexity: the dense flop count reported in the handle dominates;
// assembly adds O(sum of front areas).
func Factorize(a *sparse.Csc, sym *Symbolic, ctl *Control) (*Numeric, error) {
	c := ctl.resolve()
	if err := c.validate(); err != nil {
		return nil, opWrap(opFactorize, err)
	}
	if a == nil || sym == nil || sym.freed.Load() {
		return nil, opWrap(opFactorize, ErrInvalid)
	}
	if a.NRows() != sym.n || a.NCols() != sym.n || a.NNZ() != sym.anz {
		return nil, opWrap(opFactorize, ErrInvalid)
	}

	n := sym.n
	num := &Numeric{symID: sym.id, sym: sym, n: n}

	// Stage 2: row scale factors.
	num.scale = make([]float64, n)
	if c.Prescale {
		copy(num.scale, a.RowMaxAbs())
	}
	for i := range num.scale {
		if num.scale[i] == 0 {
			num.scale[i] = 1
		}
	}
	scale := num.scale

	at := a.Transpose() // row-wise gathers during assembly

	// Stage 3: singleton pivots.
	nsing := sym.nsing()
	num.sdiag = make([]float64, nsing)
	num.singU = make([][]uEntry, nsing)
	num.singL = make([][]lEntry, nsing)
	rowDone := make([]bool, n)
	colDone := make([]bool, n)
	for k, sg := range sym.singletons {
		rows, vals, _ := a.Col(sg.col)
		var d float64
		for p, i := range rows {
			if i == sg.row {
				d += vals[p]
			}
		}
		d /= scale[sg.row]
		num.sdiag[k] = d
		if d == 0 {
			num.singular = true
		}
		switch sg.kind {
		case colSingleton:
			tc, tv, _ := at.Col(sg.row)
			for p, jj := range tc {
				if jj == sg.col || colDone[jj] {
					continue
				}
				num.singU[k] = append(num.singU[k],
					uEntry{pos: sym.colPos[jj], val: tv[p] / scale[sg.row]})
			}
		case rowSingleton:
			if d != 0 {
				for p, i := range rows {
					if i == sg.row || rowDone[i] {
						continue
					}
					num.singL[k] = append(num.singL[k],
						lEntry{row: i, val: vals[p] / (scale[i] * d)})
				}
			}
		}
		rowDone[sg.row], colDone[sg.col] = true, true
		num.lnz += int64(len(num.singL[k]))
		num.unz += int64(len(num.singU[k])) + 1
		num.flops += float64(2 * (len(num.singL[k]) + len(num.singU[k])))
	}

	// Stage 4: the tree walk.
	nf := len(sym.fronts)
	num.fronts = make([]frontFactor, nf)
	cbs := make([][]float64, nf) // contribution blocks in flight
	flopsPer := make([]float64, nf)
	singPer := make([]bool, nf)

	workers := c.threads()
	fcfg := &front.Config{
		PivTol:         c.PivTol,
		DiagTol:        c.DiagTol,
		PanelWidth:     c.PanelWidth,
		Trivial:        c.Trivial,
		WorthwhileGemm: c.WorthwhileGemm,
		WorthwhileTrsm: c.WorthwhileTrsm,
		PreferDiagonal: sym.strategy == StrategySymmetric,
		Workers:        workers,
	}
	num.tasking = "sequential"
	if workers > 1 && nf > 1 {
		num.tasking = "parallel"
	}

	var walk func(ctx context.Context, fi int) error
	walk = func(ctx context.Context, fi int) error {
		f := &sym.fronts[fi]
		if len(f.children) > 0 {
			tasks := make([]func(context.Context) error, len(f.children))
			parallel := false
			for ci, ch := range f.children {
				ch := ch
				tasks[ci] = func(ctx context.Context) error { return walk(ctx, ch) }
				if sym.fronts[ch].subFlops >= float64(c.TaskFlops) {
					parallel = true
				}
			}
			if err := front.ForkJoin(ctx, workers, parallel, tasks...); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err // a sibling subtree failed; start nothing new
		}

		m := len(f.cols)
		npiv := f.npiv()
		dense, err := allocFloats(m, m)
		if err != nil {
			return err
		}

		// Extend-add, children in ascending id order. Both index lists are
		// ascending, so one forward merge maps child slots to ours.
		for _, ch := range f.children {
			g := &sym.fronts[ch]
			cb := cbs[ch]
			cbs[ch] = nil
			gi := g.cols[g.npiv():]
			gm := len(gi)
			if gm == 0 {
				continue
			}
			loc := make([]int, gm)
			w := 0
			for r, pos := range gi {
				for f.cols[w] != pos {
					w++
				}
				loc[r] = w
			}
			for r := 0; r < gm; r++ {
				dr := dense[loc[r]*m:]
				gr := cb[r*gm : (r+1)*gm]
				for ci, v := range gr {
					dr[loc[ci]] += v
				}
			}
		}

		// Matrix entries owned by this front: for pivot position k, the
		// column gather takes rows eliminated at or after k, the row gather
		// takes columns eliminated strictly after k. Earlier positions have
		// already consumed their share; singleton positions are negative
		// here and fall out of both conditions.
		for jj := 0; jj < npiv; jj++ {
			k := f.col1 + jj
			rows, vals, _ := a.Col(sym.q[nsing+k])
			for p, i := range rows {
				t := sym.rowPos[i] - nsing
				if t < k {
					continue
				}
				lr := sort.SearchInts(f.cols, t)
				dense[lr*m+jj] += vals[p] / scale[i]
			}
			r := sym.rowPre[nsing+k]
			tc, tv, _ := at.Col(r)
			for p, j2 := range tc {
				u := sym.colPos[j2] - nsing
				if u <= k {
					continue
				}
				lc := sort.SearchInts(f.cols, u)
				dense[jj*m+lc] += tv[p] / scale[r]
			}
		}

		res, err := front.Factorize(&front.Block{Rows: m, Cols: m, Data: dense}, npiv, fcfg)
		if err != nil {
			return err
		}
		flopsPer[fi] = res.Flops
		singPer[fi] = res.Singular

		// Pack the factor panels and hand the trailing block to the parent.
		ff := &num.fronts[fi]
		ff.m, ff.npiv = m, npiv
		ff.cols = f.cols
		ff.udiag = res.Udiag
		ff.rows = make([]int, m)
		for r := 0; r < m; r++ {
			ff.rows[r] = sym.rowPre[nsing+f.cols[res.RowPerm[r]]]
		}
		if ff.l, err = allocFloats(m, npiv); err != nil {
			return err
		}
		for r := 0; r < m; r++ {
			copy(ff.l[r*npiv:(r+1)*npiv], dense[r*m:r*m+npiv])
		}
		if ff.u, err = allocFloats(npiv, m); err != nil {
			return err
		}
		copy(ff.u, dense[:npiv*m])
		if cm := m - npiv; cm > 0 && f.parent != -1 {
			var cb []float64
			if cb, err = allocFloats(cm, cm); err != nil {
				return err
			}
			for r := 0; r < cm; r++ {
				copy(cb[r*cm:(r+1)*cm], dense[(npiv+r)*m+npiv:(npiv+r)*m+m])
			}
			cbs[fi] = cb
		}

		return nil
	}

	rootTasks := make([]func(context.Context) error, len(sym.roots))
	rootsParallel := false
	for ri, root := range sym.roots {
		root := root
		rootTasks[ri] = func(ctx context.Context) error { return walk(ctx, root) }
		if sym.fronts[root].subFlops >= float64(c.TaskFlops) {
			rootsParallel = true
		}
	}
	if err := front.ForkJoin(context.Background(), workers, rootsParallel, rootTasks...); err != nil {
		switch {
		case errors.Is(err, front.ErrTooLarge):
			err = ErrTooLarge
		case errors.Is(err, ErrOutOfMemory):
		default:
			err = ErrInvalid
		}

		return nil, opWrap(opFactorize, err)
	}

	// Stage 5: permutation and diagnostics.
	num.p = make([]int, n)
	num.pinv = make([]int, n)
	for k := 0; k < nsing; k++ {
		num.p[k] = sym.singletons[k].row
	}
	for fi := range num.fronts {
		f := &sym.fronts[fi]
		ff := &num.fronts[fi]
		for jj := 0; jj < ff.npiv; jj++ {
			num.p[nsing+f.col1+jj] = ff.rows[jj]
		}
	}
	for k := 0; k < n; k++ {
		num.pinv[num.p[k]] = k
	}

	num.minUdiag = math.Inf(1)
	for _, d := range num.sdiag {
		num.noteDiag(d)
	}
	for fi := range num.fronts {
		ff := &num.fronts[fi]
		num.flops += flopsPer[fi]
		if singPer[fi] {
			num.singular = true
		}
		for jj := 0; jj < ff.npiv; jj++ {
			num.lnz += int64(ff.m - jj - 1)
			num.unz += int64(ff.m - jj)
			num.noteDiag(ff.udiag[jj])
		}
	}
	switch {
	case n == 0:
		num.minUdiag, num.maxUdiag, num.rcond = 0, 0, 1
	case num.maxUdiag > 0:
		num.rcond = num.minUdiag / num.maxUdiag
	}

	sym.live.Add(1)
	if num.singular {
		return num, opWrap(opFactorize, ErrSingular)
	}

	return num, nil
}

// noteDiag folds one pivot magnitude into the diagonal extrema.
func (num *Numeric) noteDiag(d float64) {
	ad := math.Abs(d)
	if ad < num.minUdiag {
		num.minUdiag = ad
	}
	if ad > num.maxUdiag {
		num.maxUdiag = ad
	}
}
