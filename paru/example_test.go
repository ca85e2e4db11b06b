package paru_test

import (
	"fmt"

	"github.com/mmuetzel/SuiteSparse/paru"
	"github.com/mmuetzel/SuiteSparse/sparse"
)

// ExampleSolve walks the full pipeline on a 4x4 diagonal system:
// analyze once, factorize, solve, query the factorization, free in
// dependency order. Diagonal systems solve exactly, so the output is
// reproducible digit for digit.
func ExampleSolve() {
	// A = diag(2, 3, 4, 5) in compressed-column form.
	a, err := sparse.New(4, 4,
		[]int{0, 1, 2, 3, 4},
		[]int{0, 1, 2, 3},
		[]float64{2, 3, 4, 5},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	ctl := paru.DefaultControl()
	sym, err := paru.Analyze(a, ctl)
	if err != nil {
		fmt.Println(err)
		return
	}
	num, err := paru.Factorize(a, sym, ctl)
	if err != nil {
		fmt.Println(err)
		return
	}

	x := make([]float64, 4)
	b := []float64{2, 3, 4, 5}
	if err = paru.Solve(sym, num, b, x, 1, ctl); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("x =", x)

	unz, _ := paru.GetInt(sym, num, paru.FieldUnz)
	fmt.Println("unz =", unz)

	_ = paru.FreeNumeric(&num)
	_ = paru.FreeSymbolic(&sym)

	// Output:
	// x = [1 1 1 1]
	// unz = 4
}
