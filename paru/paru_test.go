package paru_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuetzel/SuiteSparse/paru"
	"github.com/mmuetzel/SuiteSparse/sparse"
)

// fromDense builds a Csc matrix from dense rows, dropping exact zeros.
func fromDense(t *testing.T, d [][]float64) *sparse.Csc {
	t.Helper()
	nr := len(d)
	nc := 0
	if nr > 0 {
		nc = len(d[0])
	}
	colptr := make([]int, nc+1)
	var rowind []int
	var vals []float64
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			if d[i][j] != 0 {
				rowind = append(rowind, i)
				vals = append(vals, d[i][j])
			}
		}
		colptr[j+1] = len(rowind)
	}
	a, err := sparse.New(nr, nc, colptr, rowind, vals)
	require.NoError(t, err)

	return a
}

// matVec returns A*x for building exact right-hand sides.
func matVec(t *testing.T, a *sparse.Csc, x []float64) []float64 {
	t.Helper()
	b := make([]float64, a.NRows())
	require.NoError(t, a.MatVecAcc(b, x))

	return b
}

// mustPipeline analyzes and factorizes, failing the test on any error.
func mustPipeline(t *testing.T, a *sparse.Csc, ctl *paru.Control) (*paru.Symbolic, *paru.Numeric) {
	t.Helper()
	sym, err := paru.Analyze(a, ctl)
	require.NoError(t, err, "analysis must succeed")
	num, err := paru.Factorize(a, sym, ctl)
	require.NoError(t, err, "factorization must succeed")

	return sym, num
}

func tridiag4(t *testing.T) *sparse.Csc {
	t.Helper()

	return fromDense(t, [][]float64{
		{4, 1, 0, 0},
		{1, 4, 1, 0},
		{0, 1, 4, 1},
		{0, 0, 1, 4},
	})
}

// TestAnalyze_Rejects exercises the argument guards of the symbolic phase.
func TestAnalyze_Rejects(t *testing.T) {
	_, err := paru.Analyze(nil, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid, "nil matrix")

	rect := fromDense(t, [][]float64{{1, 2}})
	_, err = paru.Analyze(rect, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid, "rectangular matrix")

	ctl := paru.DefaultControl()
	ctl.PivTol = 2
	_, err = paru.Analyze(tridiag4(t), ctl)
	assert.ErrorIs(t, err, paru.ErrInvalid, "tolerance outside [0,1]")

	ctl = paru.DefaultControl()
	ctl.Strategy = 99
	_, err = paru.Analyze(tridiag4(t), ctl)
	assert.ErrorIs(t, err, paru.ErrInvalid, "unknown strategy")
}

// TestDiagonal_Pipeline runs the full pipeline on diag(2,3,4,5): every
// column is a singleton, the frontal tree is empty, and the solve is exact.
func TestDiagonal_Pipeline(t *testing.T) {
	a := fromDense(t, [][]float64{
		{2, 0, 0, 0},
		{0, 3, 0, 0},
		{0, 0, 4, 0},
		{0, 0, 0, 5},
	})
	sym, num := mustPipeline(t, a, nil)

	assert.Equal(t, 0, sym.TreeDepth(), "diagonal input needs no frontal tree")

	nsing, err := paru.GetInt(sym, nil, paru.FieldColSingletons)
	require.NoError(t, err)
	assert.Equal(t, int64(4), nsing)

	strat, err := paru.GetInt(sym, nil, paru.FieldStrategy)
	require.NoError(t, err)
	assert.Equal(t, int64(paru.StrategySymmetric), strat, "full diagonal resolves symmetric")

	lnz, err := paru.GetInt(sym, num, paru.FieldLnz)
	require.NoError(t, err)
	assert.Equal(t, int64(0), lnz, "L is empty for a diagonal matrix")
	unz, err := paru.GetInt(sym, num, paru.FieldUnz)
	require.NoError(t, err)
	assert.Equal(t, int64(4), unz, "U holds only the diagonal")

	rcond, err := paru.GetFloat(sym, num, paru.FieldRcond)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rcond, "prescaling maps every pivot to 1")

	scales, err := paru.GetFloatArray(sym, num, paru.FieldRowScales)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4, 5}, scales)

	x := []float64{2, 3, 4, 5}
	require.NoError(t, paru.SolveInPlace(sym, num, x, 1, nil))
	assert.Equal(t, []float64{1, 1, 1, 1}, x, "diagonal solve is exact")
}

// TestTridiagonal_Solve factorizes a well-conditioned symmetric matrix and
// recovers a known solution to machine precision.
func TestTridiagonal_Solve(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	want := []float64{1, 1, 1, 1}
	b := matVec(t, a, want)
	x := make([]float64, 4)
	require.NoError(t, paru.Solve(sym, num, b, x, 1, nil))
	assert.Equal(t, []float64{5, 6, 6, 5}, b, "Solve must not touch b")
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-12)
	}

	resid, _, _, err := sparse.Residual(a, x, b)
	require.NoError(t, err)
	assert.Less(t, resid, 1e-14)

	// Determinism: a second solve reproduces the first bit for bit.
	x2 := make([]float64, 4)
	require.NoError(t, paru.Solve(sym, num, b, x2, 1, nil))
	assert.Equal(t, x, x2)
}

// TestUnsymmetric_Solve checks the general strategy end to end.
func TestUnsymmetric_Solve(t *testing.T) {
	a := fromDense(t, [][]float64{
		{2, 1, 0},
		{0, 3, 1},
		{4, 0, 5},
	})
	sym, num := mustPipeline(t, a, nil)

	strat, err := paru.GetInt(sym, nil, paru.FieldStrategy)
	require.NoError(t, err)
	assert.Equal(t, int64(paru.StrategyUnsymmetric), strat, "no mirrored entries at all")
	assert.Equal(t, 0.0, sym.PatternSymmetry())

	want := []float64{1, 2, 3}
	x := matVec(t, a, want)
	require.NoError(t, paru.SolveInPlace(sym, num, x, 1, nil))
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-12)
	}
}

// TestRowSingleton peels a row holding a single entry and still solves the
// remaining 2x2 system exactly.
func TestRowSingleton_Solve(t *testing.T) {
	a := fromDense(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 0, 0},
	})
	sym, num := mustPipeline(t, a, nil)

	nrow, err := paru.GetInt(sym, nil, paru.FieldRowSingletons)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nrow)
	ncol, err := paru.GetInt(sym, nil, paru.FieldColSingletons)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ncol)

	want := []float64{1, 1, 1}
	x := matVec(t, a, want)
	require.NoError(t, paru.SolveInPlace(sym, num, x, 1, nil))
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-12)
	}
}

// TestSingular_NonFatal: a structurally singular matrix factorizes, reports
// ErrSingular, and leaves a usable handle with zero rcond.
func TestSingular_NonFatal(t *testing.T) {
	a := fromDense(t, [][]float64{
		{1, 2, 0},
		{0, 0, 0},
		{3, 4, 5},
	})
	sym, err := paru.Analyze(a, nil)
	require.NoError(t, err)

	num, err := paru.Factorize(a, sym, nil)
	assert.ErrorIs(t, err, paru.ErrSingular)
	require.NotNil(t, num, "singular factorization still returns a handle")

	rcond, err := paru.GetFloat(sym, num, paru.FieldRcond)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rcond)
	minU, err := paru.GetFloat(sym, num, paru.FieldMinUdiag)
	require.NoError(t, err)
	assert.Equal(t, 0.0, minU)

	// Solving is permitted; the dead pivot surfaces as a non-finite entry.
	x := []float64{1, 1, 1}
	require.NoError(t, paru.SolveInPlace(sym, num, x, 1, nil))
	finite := true
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			finite = false
		}
	}
	assert.False(t, finite)
}

// TestFactorize_PairingGuards rejects matrices that do not match the
// analysis and stale or foreign handles.
func TestFactorize_PairingGuards(t *testing.T) {
	a := tridiag4(t)
	sym, err := paru.Analyze(a, nil)
	require.NoError(t, err)

	other := fromDense(t, [][]float64{{1, 2}, {3, 4}})
	_, err = paru.Factorize(other, sym, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid, "dimension mismatch")

	// Same dimension, different nonzero count.
	diag4 := fromDense(t, [][]float64{
		{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1},
	})
	_, err = paru.Factorize(diag4, sym, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid, "nonzero count mismatch")

	_, err = paru.Factorize(a, nil, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid, "nil analysis")
}

// TestDeterminism_Threads: the factors and solutions are bit-identical
// whatever the thread cap, including forced tree tasking.
func TestDeterminism_Threads(t *testing.T) {
	// Two independent tridiagonal blocks give the tree two roots.
	d := make([][]float64, 8)
	for i := range d {
		d[i] = make([]float64, 8)
	}
	for blk := 0; blk < 2; blk++ {
		o := blk * 4
		for i := 0; i < 4; i++ {
			d[o+i][o+i] = 4
			if i > 0 {
				d[o+i][o+i-1] = 1
				d[o+i-1][o+i] = 1
			}
		}
	}
	a := fromDense(t, d)

	seq := paru.DefaultControl()
	seq.MaxThreads = 1
	par := paru.DefaultControl()
	par.MaxThreads = 4
	par.TaskFlops = 0 // fork every subtree

	symSeq, numSeq := mustPipeline(t, a, seq)
	symPar, numPar := mustPipeline(t, a, par)

	want := []float64{1, -1, 2, -2, 3, -3, 4, -4}
	b := matVec(t, a, want)
	xSeq := make([]float64, 8)
	xPar := make([]float64, 8)
	require.NoError(t, paru.Solve(symSeq, numSeq, b, xSeq, 1, seq))
	require.NoError(t, paru.Solve(symPar, numPar, b, xPar, 1, par))
	assert.Equal(t, xSeq, xPar, "thread cap must not change a single bit")

	fSeq, err := paru.GetFloat(symSeq, numSeq, paru.FieldFlops)
	require.NoError(t, err)
	fPar, err := paru.GetFloat(symPar, numPar, paru.FieldFlops)
	require.NoError(t, err)
	assert.Equal(t, fSeq, fPar)
}

// TestAmalgamation_Off splits the tree into single-pivot fronts; results
// stay correct and the tree gains depth.
func TestAmalgamation_Off(t *testing.T) {
	ctl := paru.DefaultControl()
	ctl.Amalgamation = 1
	ctl.MaxThreads = 2

	a := tridiag4(t)
	sym, num := mustPipeline(t, a, ctl)
	assert.Greater(t, sym.TreeDepth(), 0, "unfused chain has depth")

	tasking, err := paru.GetString(sym, num, paru.FieldTreeTasking)
	require.NoError(t, err)
	assert.Equal(t, "parallel", tasking)

	want := []float64{1, 1, 1, 1}
	x := matVec(t, a, want)
	require.NoError(t, paru.SolveInPlace(sym, num, x, 1, ctl))
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-12)
	}
}

// TestSolve_MultiRHS solves two right-hand sides at once, then rebuilds the
// same answer through the exported Perm/LSolve/USolve/InvPerm chain.
func TestSolve_MultiRHS(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	want := []float64{1, 1, 1, 1, 1, 2, 3, 4}
	b := append(matVec(t, a, want[:4]), matVec(t, a, want[4:])...)
	x := make([]float64, 8)
	require.NoError(t, paru.Solve(sym, num, b, x, 2, nil))
	for i := range want {
		assert.InDelta(t, want[i], x[i], 1e-12)
	}

	resid, _, _, err := sparse.ResidualBlock(a, x, b, 2)
	require.NoError(t, err)
	assert.Less(t, resid, 1e-14)

	// Manual chain through the exported pieces.
	p64, err := paru.GetIntArray(sym, num, paru.FieldP)
	require.NoError(t, err)
	q64, err := paru.GetIntArray(sym, num, paru.FieldQ)
	require.NoError(t, err)
	scale, err := paru.GetFloatArray(sym, num, paru.FieldRowScales)
	require.NoError(t, err)
	p := make([]int, len(p64))
	q := make([]int, len(q64))
	for i := range p64 {
		p[i], q[i] = int(p64[i]), int(q64[i])
	}

	w := make([]float64, 8)
	require.NoError(t, paru.Perm(p, scale, b, 4, 2, w))
	require.NoError(t, paru.LSolveInPlace(sym, num, w, 2, nil))
	require.NoError(t, paru.USolveInPlace(sym, num, w, 2, nil))
	manual := make([]float64, 8)
	require.NoError(t, paru.InvPerm(q, nil, w, 4, 2, manual))
	assert.Equal(t, x, manual, "the manual chain is exactly Solve")
}

// TestPerm_Basics pins the gather/scatter semantics and the guards.
func TestPerm_Basics(t *testing.T) {
	p := []int{2, 0, 1}
	s := []float64{2, 4, 8}
	b := []float64{10, 20, 30}

	x := make([]float64, 3)
	require.NoError(t, paru.Perm(p, s, b, 3, 1, x))
	assert.Equal(t, []float64{30.0 / 8, 10.0 / 2, 20.0 / 4}, x)

	// Unscaled round trip: InvPerm undoes Perm exactly.
	y := make([]float64, 3)
	require.NoError(t, paru.Perm(p, nil, b, 3, 1, x))
	require.NoError(t, paru.InvPerm(p, nil, x, 3, 1, y))
	assert.Equal(t, b, y)

	assert.ErrorIs(t, paru.Perm([]int{0, 0, 1}, nil, b, 3, 1, x), paru.ErrInvalid, "duplicate index")
	assert.ErrorIs(t, paru.Perm(p, nil, b, 3, 0, x), paru.ErrInvalid, "nrhs < 1")
	assert.ErrorIs(t, paru.InvPerm(p, []float64{1}, b, 3, 1, x), paru.ErrInvalid, "short scale vector")
}

// TestGet_Guards covers the query surface's failure modes.
func TestGet_Guards(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	_, err := paru.GetInt(nil, nil, paru.FieldN)
	assert.ErrorIs(t, err, paru.ErrInvalid)

	_, err = paru.GetInt(sym, nil, paru.FieldLnz)
	assert.ErrorIs(t, err, paru.ErrInvalid, "Lnz needs a factor handle")

	_, err = paru.GetInt(sym, num, paru.Field(77))
	assert.ErrorIs(t, err, paru.ErrInvalid, "unknown field")

	// A factor handle from a different analysis is rejected.
	sym2, err := paru.Analyze(a, nil)
	require.NoError(t, err)
	_, err = paru.GetInt(sym2, num, paru.FieldN)
	assert.ErrorIs(t, err, paru.ErrInvalid, "mismatched handles")

	name, err := paru.GetString(sym, nil, paru.FieldBlasName)
	require.NoError(t, err)
	assert.Contains(t, name, "gonum")

	n, err := paru.GetInt(sym, nil, paru.FieldN)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	anz, err := paru.GetInt(sym, nil, paru.FieldAnz)
	require.NoError(t, err)
	assert.Equal(t, int64(10), anz)
}

// TestLifecycle enforces the free ordering between the two handles.
func TestLifecycle(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	err := paru.FreeSymbolic(&sym)
	assert.ErrorIs(t, err, paru.ErrInvalid, "factor handle still alive")
	require.NotNil(t, sym)

	require.NoError(t, paru.FreeNumeric(&num))
	assert.Nil(t, num)
	require.NoError(t, paru.FreeNumeric(&num), "freeing nil is a no-op")

	require.NoError(t, paru.FreeSymbolic(&sym))
	assert.Nil(t, sym)

	assert.ErrorIs(t, paru.FreeNumeric(nil), paru.ErrInvalid)
	assert.ErrorIs(t, paru.FreeSymbolic(nil), paru.ErrInvalid)
}

// TestFreed_HandlesRejected: entry points refuse freed handles.
func TestFreed_HandlesRejected(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	keepSym, keepNum := sym, num
	require.NoError(t, paru.FreeNumeric(&num))
	require.NoError(t, paru.FreeSymbolic(&sym))

	x := make([]float64, 4)
	assert.ErrorIs(t, paru.SolveInPlace(keepSym, keepNum, x, 1, nil), paru.ErrInvalid)
	_, err := paru.Factorize(a, keepSym, nil)
	assert.ErrorIs(t, err, paru.ErrInvalid)
	_, err = paru.GetInt(keepSym, nil, paru.FieldN)
	assert.ErrorIs(t, err, paru.ErrInvalid)
}

// TestEmptyMatrix: the 0x0 system is a valid, exactly solved edge case.
func TestEmptyMatrix(t *testing.T) {
	a := fromDense(t, [][]float64{})
	sym, num := mustPipeline(t, a, nil)

	rcond, err := paru.GetFloat(sym, num, paru.FieldRcond)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rcond)

	require.NoError(t, paru.SolveInPlace(sym, num, nil, 1, nil))
}

// TestEstimates_MatchActual: on a nonsingular input the symbolic fill
// prediction equals the numeric fill exactly.
func TestEstimates_MatchActual(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	estL, estU := sym.EstimatedFill()
	lnz, err := paru.GetInt(sym, num, paru.FieldLnz)
	require.NoError(t, err)
	unz, err := paru.GetInt(sym, num, paru.FieldUnz)
	require.NoError(t, err)
	assert.Equal(t, estL, lnz)
	assert.Equal(t, estU, unz)
	assert.Greater(t, sym.EstimatedFlops(), 0.0)
}

// TestVersion pins the release triple shape.
func TestVersion(t *testing.T) {
	v, date := paru.Version()
	assert.Equal(t, [3]int{paru.VersionMajor, paru.VersionMinor, paru.VersionPatch}, v)
	assert.NotEmpty(t, date)
}

// TestSolve_LengthGuards rejects mismatched operand lengths.
func TestSolve_LengthGuards(t *testing.T) {
	a := tridiag4(t)
	sym, num := mustPipeline(t, a, nil)

	assert.ErrorIs(t, paru.SolveInPlace(sym, num, make([]float64, 3), 1, nil), paru.ErrInvalid)
	assert.ErrorIs(t, paru.Solve(sym, num, make([]float64, 4), make([]float64, 8), 1, nil), paru.ErrInvalid)
	assert.ErrorIs(t, paru.SolveInPlace(sym, num, make([]float64, 4), 0, nil), paru.ErrInvalid)
}
