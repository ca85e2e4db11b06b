// SPDX-License-Identifier: MIT

// Package paru: the symbolic phase.
// Analyze never looks at numeric values. It peels singletons, resolves the
// strategy from pattern symmetry, orders the symmetrized active pattern,
// and assembles the frontal tree with relaxed amalgamation. Everything the
// numeric phase needs later (permutations, front structures, work
// estimates) is precomputed here once and shared read-only.

package paru

import (
	"sort"
	"sync/atomic"

	"github.com/mmuetzel/SuiteSparse/ordering"
	"github.com/mmuetzel/SuiteSparse/sparse"
)

// Pattern-symmetry thresholds for StrategyAuto: the diagonal-preferring
// strategy pays off only when most off-diagonal entries have a mirrored
// partner and the diagonal is essentially full.
const (
	autoSymmetryMin = 0.5
	autoDiagonalMin = 0.9
)

// symSeq issues unique analysis identifiers, used to pair factor handles
// with the analysis that produced them.
var symSeq atomic.Uint64

type singletonKind uint8

const (
	colSingleton singletonKind = iota // the column holds a single live entry
	rowSingleton                      // the row holds a single live entry
)

// singleton records one peeled pivot in elimination order.
type singleton struct {
	kind singletonKind
	row  int // original row of the pivot entry
	col  int // original column of the pivot entry
}

// frontNode is one node of the frontal tree. Pivot positions [col1, col2)
// refer to the active (post-singleton, postordered) elimination order.
type frontNode struct {
	col1, col2 int
	parent     int   // parent front id, -1 for a root
	children   []int // ascending child front ids

	// cols lists the front's active positions in ascending order; the
	// first col2-col1 entries are the pivots, the rest index the
	// contribution block.
	cols []int

	flops    float64 // dense work estimate for this front alone
	subFlops float64 // flops of this front plus all descendants
}

func (f *frontNode) npiv() int { return f.col2 - f.col1 }

// Symbolic is the opaque result of Analyze. It is immutable after
// construction and safe for concurrent use by any number of Factorize and
// Solve calls. Release it with FreeSymbolic.
type Symbolic struct {
	id  uint64
	n   int
	anz int

	strategy int     // resolved strategy, never StrategyAuto
	ordering int     // ordering actually used
	symmetry float64 // off-diagonal pattern symmetry in [0, 1]

	singletons []singleton
	nColSing   int
	nRowSing   int

	na     int   // active dimension after singleton filtering
	q      []int // elimination position -> original column
	rowPre []int // pre-pivot position -> original row (paired order)
	colPos []int // original column -> elimination position
	rowPos []int // original row -> pre-pivot position

	fronts []frontNode
	roots  []int // ascending root front ids
	depth  int   // longest root-to-leaf path, counted in edges

	estFlops float64
	estLnz   int64
	estUnz   int64

	live  atomic.Int32 // factor handles still referencing this analysis
	freed atomic.Bool
}

// nsing returns the number of peeled singletons.
func (s *Symbolic) nsing() int { return len(s.singletons) }

// Analyze performs the symbolic analysis of a square sparse matrix and
// returns the opaque plan every later phase consumes.
//
// Implementation:
//   - Stage 1 (Validate): Control ranges, non-nil square matrix.
//   - Stage 2 (Strategy): measure off-diagonal pattern symmetry and
//     diagonal coverage; resolve StrategyAuto from them.
//   - Stage 3 (Singletons): repeatedly peel columns, then rows, holding a
//     single live entry; each becomes a 1×1 pivot needing no updates.
//   - Stage 4 (Ordering): pair the remaining rows and columns by ascending
//     index, symmetrize the compact pattern, order it (package ordering),
//     build the elimination tree and postorder it.
//   - Stage 5 (Tree): fuse postorder chains into fronts up to the
//     amalgamation bound, then compute each front's column structure
//     bottom-up (own pattern plus children contributions) and its work
//     and fill estimates.
//
// Returns:
//   - *Symbolic: the analysis handle, or nil with a sentinel error.
//
// Errors:
//   - ErrInvalid: nil or non-square matrix, unusable Control.
//
// Determinism: singleton queues are FIFO seeded in ascending index order,
// the ordering breaks ties by lowest index, children and roots are listed
// ascending. A given pattern and Control always produce the same plan.
//
// Complexity: O(n + nnz) outside the ordering; the explicit minimum-degree
// ordering adds its own O(na²) selection cost.
func Analyze(a *sparse.Csc, ctl *Control) (*Symbolic, error) {
	c := ctl.resolve()
	if err := c.validate(); err != nil {
		return nil, opWrap(opAnalyze, err)
	}
	if a == nil || a.NRows() != a.NCols() {
		return nil, opWrap(opAnalyze, ErrInvalid)
	}

	n := a.NRows()
	at := a.Transpose() // row-wise pattern access; values unused here

	sym := &Symbolic{
		id:       symSeq.Add(1),
		n:        n,
		anz:      a.NNZ(),
		ordering: c.Ordering,
	}

	// Stage 2: strategy resolution.
	offSym, diagFrac := patternSymmetry(a, at)
	sym.symmetry = offSym
	sym.strategy = c.Strategy
	if sym.strategy == StrategyAuto {
		if offSym >= autoSymmetryMin && diagFrac >= autoDiagonalMin {
			sym.strategy = StrategySymmetric
		} else {
			sym.strategy = StrategyUnsymmetric
		}
	}

	// Stage 3: singleton filtering.
	rowAlive := make([]bool, n)
	colAlive := make([]bool, n)
	rowCount := make([]int, n)
	colCount := make([]int, n)
	var j, i int
	for j = 0; j < n; j++ {
		rowAlive[j], colAlive[j] = true, true
		cr, _, _ := a.Col(j)
		colCount[j] = len(cr)
		tr, _, _ := at.Col(j)
		rowCount[j] = len(tr)
	}
	if c.FilterSingletons {
		sym.filterSingletons(a, at, rowAlive, colAlive, rowCount, colCount)
	}

	// Active row/column lists, paired by ascending original index.
	nsing := sym.nsing()
	na := n - nsing
	sym.na = na
	activeRows := make([]int, 0, na)
	activeCols := make([]int, 0, na)
	rowIdxOf := make([]int, n) // original row -> compact vertex, -1 if peeled
	for i = 0; i < n; i++ {
		rowIdxOf[i] = -1
		if rowAlive[i] {
			rowIdxOf[i] = len(activeRows)
			activeRows = append(activeRows, i)
		}
		if colAlive[i] {
			activeCols = append(activeCols, i)
		}
	}

	// Stage 4: symmetrized compact pattern, both directions per entry.
	// Duplicates are tolerated downstream, so a count/fill pair suffices.
	bptr := make([]int, na+1)
	var v, u int
	var rows []int
	for v = 0; v < na; v++ {
		rows, _, _ = a.Col(activeCols[v])
		for _, i = range rows {
			if u = rowIdxOf[i]; u >= 0 && u != v {
				bptr[u+1]++
				bptr[v+1]++
			}
		}
	}
	for v = 0; v < na; v++ {
		bptr[v+1] += bptr[v]
	}
	bind := make([]int, bptr[na])
	next := make([]int, na)
	copy(next, bptr[:na])
	for v = 0; v < na; v++ {
		rows, _, _ = a.Col(activeCols[v])
		for _, i = range rows {
			if u = rowIdxOf[i]; u >= 0 && u != v {
				bind[next[u]] = v
				next[u]++
				bind[next[v]] = u
				next[v]++
			}
		}
	}

	perm0, iperm0, err := ordering.MinimumDegree(na, bptr, bind)
	if err != nil {
		return nil, opWrap(opAnalyze, err)
	}
	parent0, err := ordering.EliminationTree(na, bptr, bind, perm0, iperm0)
	if err != nil {
		return nil, opWrap(opAnalyze, err)
	}
	post, err := ordering.Postorder(parent0)
	if err != nil {
		return nil, opWrap(opAnalyze, err)
	}

	// Relabel positions by postorder so subtrees become contiguous runs.
	posOf := make([]int, na) // old position -> postordered position
	var t int
	for t = 0; t < na; t++ {
		posOf[post[t]] = t
	}
	vtx := make([]int, na) // postordered position -> compact vertex
	parentPos := make([]int, na)
	posOfVertex := make([]int, na)
	for t = 0; t < na; t++ {
		vtx[t] = perm0[post[t]]
		posOfVertex[vtx[t]] = t
		if p := parent0[post[t]]; p == -1 {
			parentPos[t] = -1
		} else {
			parentPos[t] = posOf[p]
		}
	}

	// Global permutations: singletons first, then the active ordering.
	sym.q = make([]int, n)
	sym.rowPre = make([]int, n)
	sym.colPos = make([]int, n)
	sym.rowPos = make([]int, n)
	for k, sg := range sym.singletons {
		sym.q[k] = sg.col
		sym.rowPre[k] = sg.row
	}
	for t = 0; t < na; t++ {
		sym.q[nsing+t] = activeCols[vtx[t]]
		sym.rowPre[nsing+t] = activeRows[vtx[t]]
	}
	for k := 0; k < n; k++ {
		sym.colPos[sym.q[k]] = k
		sym.rowPos[sym.rowPre[k]] = k
	}

	// Stage 5: fuse postorder chains into fronts.
	frontOf := make([]int, na)
	for t = 0; t < na; t++ {
		if nf := len(sym.fronts); nf > 0 {
			f := &sym.fronts[nf-1]
			if f.col2 == t && parentPos[t-1] == t && t+1-f.col1 <= c.Amalgamation {
				f.col2 = t + 1
				frontOf[t] = nf - 1
				continue
			}
		}
		sym.fronts = append(sym.fronts, frontNode{col1: t, col2: t + 1, parent: -1})
		frontOf[t] = len(sym.fronts) - 1
	}
	for fi := range sym.fronts {
		if p := parentPos[sym.fronts[fi].col2-1]; p != -1 {
			sym.fronts[fi].parent = frontOf[p]
		}
	}
	for fi := range sym.fronts {
		if p := sym.fronts[fi].parent; p != -1 {
			sym.fronts[p].children = append(sym.fronts[p].children, fi)
		} else {
			sym.roots = append(sym.roots, fi)
		}
	}

	// Column structures bottom-up; child ids always precede the parent's.
	markF := make([]int, na)
	for t = 0; t < na; t++ {
		markF[t] = -1
	}
	for fi := range sym.fronts {
		f := &sym.fronts[fi]
		npiv := f.npiv()
		list := make([]int, 0, npiv)
		for t = f.col1; t < f.col2; t++ {
			markF[t] = fi
			list = append(list, t)
		}
		for t = f.col1; t < f.col2; t++ {
			for p := bptr[vtx[t]]; p < bptr[vtx[t]+1]; p++ {
				u = posOfVertex[bind[p]]
				if u >= f.col2 && markF[u] != fi {
					markF[u] = fi
					list = append(list, u)
				}
			}
		}
		for _, ch := range f.children {
			g := &sym.fronts[ch]
			for _, u = range g.cols[g.npiv():] {
				if u >= f.col2 && markF[u] != fi {
					markF[u] = fi
					list = append(list, u)
				}
			}
		}
		sort.Ints(list[npiv:])
		f.cols = list

		m := len(list)
		for jj := 0; jj < npiv; jj++ {
			rem := float64(m - jj - 1)
			f.flops += rem + 2*rem*rem
			sym.estLnz += int64(m - jj - 1)
			sym.estUnz += int64(m - jj)
		}
		f.subFlops = f.flops
		for _, ch := range f.children {
			f.subFlops += sym.fronts[ch].subFlops
		}
		sym.estFlops += f.flops
	}

	// Tree depth, top-down; parents carry larger ids than their children.
	depth := make([]int, len(sym.fronts))
	for fi := len(sym.fronts) - 1; fi >= 0; fi-- {
		if p := sym.fronts[fi].parent; p != -1 {
			depth[fi] = depth[p] + 1
		}
		if depth[fi] > sym.depth {
			sym.depth = depth[fi]
		}
	}

	return sym, nil
}

// filterSingletons peels singleton columns, then rows, repeating until
// neither queue moves. Each elimination can expose new singletons on the
// opposite side, which is why the queues feed each other.
func (s *Symbolic) filterSingletons(a, at *sparse.Csc, rowAlive, colAlive []bool, rowCount, colCount []int) {
	n := a.NCols()
	colQ := make([]int, 0, 8)
	rowQ := make([]int, 0, 8)
	var j int
	for j = 0; j < n; j++ {
		if colCount[j] == 1 {
			colQ = append(colQ, j)
		}
		if rowCount[j] == 1 {
			rowQ = append(rowQ, j)
		}
	}

	for len(colQ) > 0 || len(rowQ) > 0 {
		for len(colQ) > 0 {
			j = colQ[0]
			colQ = colQ[1:]
			if !colAlive[j] || colCount[j] != 1 {
				continue // eliminated or refilled since queued
			}
			rows, _, _ := a.Col(j)
			r := -1
			for _, i := range rows {
				if rowAlive[i] {
					r = i
					break
				}
			}
			if r < 0 {
				continue
			}
			s.singletons = append(s.singletons, singleton{kind: colSingleton, row: r, col: j})
			s.nColSing++
			colAlive[j], rowAlive[r] = false, false
			// Row r leaves: columns it touched lose one live entry each.
			tcols, _, _ := at.Col(r)
			live := 0
			for _, jj := range tcols {
				if !colAlive[jj] {
					continue
				}
				live++
				colCount[jj]--
				if colCount[jj] == 1 {
					colQ = append(colQ, jj)
				}
			}
			s.estUnz += int64(live) + 1
		}

		for len(rowQ) > 0 {
			r := rowQ[0]
			rowQ = rowQ[1:]
			if !rowAlive[r] || rowCount[r] != 1 {
				continue
			}
			tcols, _, _ := at.Col(r)
			j = -1
			for _, jj := range tcols {
				if colAlive[jj] {
					j = jj
					break
				}
			}
			if j < 0 {
				continue
			}
			s.singletons = append(s.singletons, singleton{kind: rowSingleton, row: r, col: j})
			s.nRowSing++
			rowAlive[r], colAlive[j] = false, false
			// Column j leaves: rows it touched lose one live entry each.
			rows, _, _ := a.Col(j)
			live := 0
			for _, i := range rows {
				if !rowAlive[i] {
					continue
				}
				live++
				rowCount[i]--
				if rowCount[i] == 1 {
					rowQ = append(rowQ, i)
				}
			}
			s.estLnz += int64(live)
			s.estUnz++
			if len(colQ) > 0 {
				break // fresh column singletons take precedence
			}
		}
	}
}

// patternSymmetry measures, over the off-diagonal pattern, the fraction of
// entries (i, j) whose mirror (j, i) is also present, plus the fraction of
// diagonal entries present. An empty off-diagonal counts as fully
// symmetric.
func patternSymmetry(a, at *sparse.Csc) (offdiag, diagonal float64) {
	n := a.NCols()
	if n == 0 {
		return 1, 1
	}
	mark := make([]int, n)
	for i := range mark {
		mark[i] = -1
	}
	var matched, off, ndiag int
	var j int
	for j = 0; j < n; j++ {
		tr, _, _ := at.Col(j) // columns present in row j
		for _, i := range tr {
			mark[i] = j
		}
		rows, _, _ := a.Col(j)
		hasDiag := false
		for _, i := range rows {
			if i == j {
				hasDiag = true
				continue
			}
			off++
			if mark[i] == j {
				matched++
			}
		}
		if hasDiag {
			ndiag++
		}
	}
	offdiag = 1
	if off > 0 {
		offdiag = float64(matched) / float64(off)
	}

	return offdiag, float64(ndiag) / float64(n)
}
