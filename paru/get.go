// SPDX-License-Identifier: MIT

// Package paru: the typed query surface over the opaque handles.
// Field values are stable identifiers: scalars below 100, permutation
// arrays in the 100s, floating-point diagnostics in the 200s, scale
// factors in the 300s, library identification in the 400s.

package paru

// Field selects one queryable property of a factorization.
type Field int

// Queryable fields. Integer scalars unless noted otherwise.
const (
	FieldN             Field = 0 // matrix dimension
	FieldAnz           Field = 1 // input nonzero count
	FieldLnz           Field = 2 // nonzeros in L (needs a factor handle)
	FieldUnz           Field = 3 // nonzeros in U (needs a factor handle)
	FieldRowSingletons Field = 4
	FieldColSingletons Field = 5
	FieldStrategy      Field = 6 // resolved strategy constant
	FieldOrdering      Field = 8 // ordering constant used

	FieldP Field = 101 // row permutation, int64 array (needs a factor handle)
	FieldQ Field = 102 // column permutation, int64 array

	FieldFlops    Field = 201 // floating-point operations performed
	FieldRcond    Field = 202 // min |U diag| / max |U diag|
	FieldMinUdiag Field = 203
	FieldMaxUdiag Field = 204

	FieldRowScales Field = 301 // row divisors applied, float64 array

	FieldBlasName    Field = 401 // dense-kernel collaborator identification
	FieldTreeTasking Field = 402 // "parallel" or "sequential"
)

// blasName identifies the dense-kernel collaborator behind the engine.
const blasName = "gonum.org/v1/gonum/blas/blas64"

// GetInt reads an integer scalar field. Fields describing the analysis
// accept a nil factor handle; FieldLnz and FieldUnz do not.
//
// Errors:
//   - ErrInvalid: nil or freed analysis, missing or mismatched factor
//     handle, or a field that is not an integer scalar.
func GetInt(sym *Symbolic, num *Numeric, f Field) (int64, error) {
	if err := checkGet(sym, num, f == FieldLnz || f == FieldUnz); err != nil {
		return 0, opWrap(opGet, err)
	}
	switch f {
	case FieldN:
		return int64(sym.n), nil
	case FieldAnz:
		return int64(sym.anz), nil
	case FieldLnz:
		return num.lnz, nil
	case FieldUnz:
		return num.unz, nil
	case FieldRowSingletons:
		return int64(sym.nRowSing), nil
	case FieldColSingletons:
		return int64(sym.nColSing), nil
	case FieldStrategy:
		return int64(sym.strategy), nil
	case FieldOrdering:
		return int64(sym.ordering), nil
	}

	return 0, opWrap(opGet, ErrInvalid)
}

// GetFloat reads a floating-point diagnostic; all of them need a factor
// handle paired with the analysis.
func GetFloat(sym *Symbolic, num *Numeric, f Field) (float64, error) {
	if err := checkGet(sym, num, true); err != nil {
		return 0, opWrap(opGet, err)
	}
	switch f {
	case FieldFlops:
		return num.flops, nil
	case FieldRcond:
		return num.rcond, nil
	case FieldMinUdiag:
		return num.minUdiag, nil
	case FieldMaxUdiag:
		return num.maxUdiag, nil
	}

	return 0, opWrap(opGet, ErrInvalid)
}

// GetIntArray reads a permutation as a fresh int64 slice: FieldP (row
// permutation, needs a factor handle) or FieldQ (column permutation).
func GetIntArray(sym *Symbolic, num *Numeric, f Field) ([]int64, error) {
	if err := checkGet(sym, num, f == FieldP); err != nil {
		return nil, opWrap(opGet, err)
	}
	var src []int
	switch f {
	case FieldP:
		src = num.p
	case FieldQ:
		src = sym.q
	default:
		return nil, opWrap(opGet, ErrInvalid)
	}
	out := make([]int64, len(src))
	for i, v := range src {
		out[i] = int64(v)
	}

	return out, nil
}

// GetFloatArray reads a floating-point array field as a fresh slice;
// FieldRowScales is the only one.
func GetFloatArray(sym *Symbolic, num *Numeric, f Field) ([]float64, error) {
	if err := checkGet(sym, num, true); err != nil {
		return nil, opWrap(opGet, err)
	}
	if f != FieldRowScales {
		return nil, opWrap(opGet, ErrInvalid)
	}
	out := make([]float64, len(num.scale))
	copy(out, num.scale)

	return out, nil
}

// GetString reads a string field: FieldBlasName or FieldTreeTasking (the
// latter needs a factor handle).
func GetString(sym *Symbolic, num *Numeric, f Field) (string, error) {
	if err := checkGet(sym, num, f == FieldTreeTasking); err != nil {
		return "", opWrap(opGet, err)
	}
	switch f {
	case FieldBlasName:
		return blasName, nil
	case FieldTreeTasking:
		return num.tasking, nil
	}

	return "", opWrap(opGet, ErrInvalid)
}

// checkGet validates the handles for a query; needNum demands a live
// factor handle paired with the analysis.
func checkGet(sym *Symbolic, num *Numeric, needNum bool) error {
	if sym == nil || sym.freed.Load() {
		return ErrInvalid
	}
	if num != nil && (num.freed.Load() || num.symID != sym.id) {
		return ErrInvalid
	}
	if needNum && num == nil {
		return ErrInvalid
	}

	return nil
}

// EstimatedFill reports the analysis' structural prediction of the factor
// nonzero counts. Front storage is dense, so the numeric counts from
// GetInt(FieldLnz/FieldUnz) agree with these on nonsingular inputs.
func (s *Symbolic) EstimatedFill() (lnz, unz int64) {
	return s.estLnz, s.estUnz
}

// EstimatedFlops reports the analysis' dense work estimate.
func (s *Symbolic) EstimatedFlops() float64 { return s.estFlops }

// TreeDepth reports the longest root-to-leaf path of the frontal tree,
// counted in edges. A diagonal matrix reports 0.
func (s *Symbolic) TreeDepth() int { return s.depth }

// PatternSymmetry reports the measured off-diagonal pattern symmetry in
// [0, 1], the figure the automatic strategy choice is based on.
func (s *Symbolic) PatternSymmetry() float64 { return s.symmetry }
