package front_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmuetzel/SuiteSparse/front"
)

// testConfig returns a kernel configuration with the production defaults
// for thresholds and a single worker, so tests stay on deterministic paths.
func testConfig() *front.Config {
	return &front.Config{
		PivTol:         0.1,
		DiagTol:        0.001,
		PanelWidth:     32,
		Trivial:        4,
		WorthwhileGemm: 512,
		WorthwhileTrsm: 4096,
		Workers:        1,
	}
}

// TestFactorize_FullLU factorizes a 2x2 block completely and checks the
// packed L and U values in place.
func TestFactorize_FullLU(t *testing.T) {
	f := &front.Block{Rows: 2, Cols: 2, Data: []float64{2, 1, 1, 2}}
	res, err := front.Factorize(f, 2, testConfig())
	require.NoError(t, err)

	assert.False(t, res.Singular)
	assert.Equal(t, []int{0, 1}, res.RowPerm, "diagonally dominant block needs no swaps")
	assert.InDelta(t, 2.0, res.Udiag[0], 1e-15)
	assert.InDelta(t, 1.5, res.Udiag[1], 1e-15)
	// In-place layout: U on and above the diagonal, L multipliers below.
	assert.InDelta(t, 0.5, f.Data[2], 1e-15, "L(1,0) = 1/2")
	assert.InDelta(t, 1.5, f.Data[3], 1e-15, "U(1,1) = 2 - 1/2")
}

// TestFactorize_RowSwap forces a swap: the zero diagonal entry cannot
// pivot, the larger fully summed row below takes its place.
func TestFactorize_RowSwap(t *testing.T) {
	f := &front.Block{Rows: 2, Cols: 2, Data: []float64{0, 1, 1, 0}}
	res, err := front.Factorize(f, 2, testConfig())
	require.NoError(t, err)

	assert.False(t, res.Singular)
	assert.Equal(t, []int{1, 0}, res.RowPerm)
	assert.Equal(t, []float64{1, 1}, res.Udiag)
	assert.Equal(t, []float64{1, 0, 0, 1}, f.Data, "swap turns the block into the identity")
}

// TestFactorize_SchurComplement eliminates one pivot of a 2x2 front and
// leaves the 1x1 Schur complement in the trailing block.
func TestFactorize_SchurComplement(t *testing.T) {
	f := &front.Block{Rows: 2, Cols: 2, Data: []float64{2, 2, 2, 3}}
	res, err := front.Factorize(f, 1, testConfig())
	require.NoError(t, err)

	assert.Equal(t, []float64{2}, res.Udiag)
	assert.InDelta(t, 1.0, f.Data[2], 1e-15, "L(1,0) = 2/2")
	assert.InDelta(t, 1.0, f.Data[3], 1e-15, "Schur: 3 - 1*2")
}

// TestFactorize_DiagonalPreference accepts a small diagonal that the
// threshold rule alone would reject.
func TestFactorize_DiagonalPreference(t *testing.T) {
	cfg := testConfig()
	cfg.PreferDiagonal = true

	// Column max is 100, diagonal is 1: 1 >= 0.001*100 keeps the diagonal.
	f := &front.Block{Rows: 2, Cols: 2, Data: []float64{1, 0, 100, 1}}
	res, err := front.Factorize(f, 2, cfg)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.RowPerm, "diagonal preferred despite larger entry below")
	assert.False(t, res.Singular)

	// Without the preference the same block swaps.
	f2 := &front.Block{Rows: 2, Cols: 2, Data: []float64{1, 0, 100, 1}}
	res2, err := front.Factorize(f2, 2, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, res2.RowPerm)
}

// TestFactorize_Singular completes on an all-zero block and flags it.
func TestFactorize_Singular(t *testing.T) {
	f := &front.Block{Rows: 2, Cols: 2, Data: []float64{0, 0, 0, 0}}
	res, err := front.Factorize(f, 2, testConfig())
	require.NoError(t, err)
	assert.True(t, res.Singular)
	assert.Equal(t, []float64{0, 0}, res.Udiag)
}

// TestFactorize_NoPivots is a no-op returning the identity permutation.
func TestFactorize_NoPivots(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	f := &front.Block{Rows: 2, Cols: 2, Data: data}
	res, err := front.Factorize(f, 0, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.RowPerm)
	assert.Equal(t, []float64{1, 2, 3, 4}, data)
}

// TestFactorize_Rejects exercises the argument guards.
func TestFactorize_Rejects(t *testing.T) {
	_, err := front.Factorize(nil, 0, testConfig())
	assert.ErrorIs(t, err, front.ErrNilBlock)

	_, err = front.Factorize(&front.Block{Rows: 2, Cols: 2, Data: make([]float64, 3)}, 1, testConfig())
	assert.ErrorIs(t, err, front.ErrBadShape)

	_, err = front.Factorize(&front.Block{Rows: 2, Cols: 2, Data: make([]float64, 4)}, 3, testConfig())
	assert.ErrorIs(t, err, front.ErrBadShape)
}

// TestFactorize_PanelWidthInvariance: the panel split must not change the
// numbers, only the blocking of the arithmetic.
func TestFactorize_PanelWidthInvariance(t *testing.T) {
	src := []float64{
		4, 1, 2, 0,
		1, 5, 0, 3,
		2, 0, 6, 1,
		0, 3, 1, 7,
	}
	run := func(panel int) []float64 {
		data := make([]float64, len(src))
		copy(data, src)
		cfg := testConfig()
		cfg.PanelWidth = panel
		_, err := front.Factorize(&front.Block{Rows: 4, Cols: 4, Data: data}, 4, cfg)
		require.NoError(t, err)

		return data
	}
	assert.Equal(t, run(1), run(32), "panel width must not affect the factor")
	assert.Equal(t, run(2), run(3))
}

// TestForkJoin_Sequential runs tasks in order when parallelism is off and
// stops at the first error.
func TestForkJoin_Sequential(t *testing.T) {
	var order []int
	errBoom := errors.New("boom")
	tasks := []func(context.Context) error{
		func(context.Context) error { order = append(order, 0); return nil },
		func(context.Context) error { order = append(order, 1); return errBoom },
		func(context.Context) error { order = append(order, 2); return nil },
	}
	err := front.ForkJoin(context.Background(), 4, false, tasks...)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []int{0, 1}, order, "third task never starts")
}

// TestForkJoin_Parallel joins all tasks and propagates a task error.
func TestForkJoin_Parallel(t *testing.T) {
	var sum atomic.Int64
	tasks := make([]func(context.Context) error, 8)
	for i := range tasks {
		i := i
		tasks[i] = func(context.Context) error {
			sum.Add(int64(i))

			return nil
		}
	}
	require.NoError(t, front.ForkJoin(context.Background(), 3, true, tasks...))
	assert.Equal(t, int64(28), sum.Load())

	errBoom := errors.New("boom")
	tasks[4] = func(context.Context) error { return errBoom }
	err := front.ForkJoin(context.Background(), 3, true, tasks...)
	assert.ErrorIs(t, err, errBoom)
}

// TestForkJoin_CancelledContext refuses to start work on a dead context.
func TestForkJoin_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	err := front.ForkJoin(ctx, 1, false, func(context.Context) error {
		ran = true

		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
