// SPDX-License-Identifier: MIT

// Package paru: handle lifecycle.
// The handles are garbage-collected like any Go value; Free exists for
// callers managing factorization churn explicitly. Freeing enforces the
// dependency order: an analysis stays pinned while factor handles built
// from it are alive.

package paru

// FreeNumeric releases a factor handle and nils the caller's pointer.
// A nil *num is a no-op. Using the handle after freeing it yields
// ErrInvalid from every entry point.
func FreeNumeric(num **Numeric) error {
	if num == nil {
		return opWrap(opFreeNumeric, ErrInvalid)
	}
	n := *num
	if n == nil {
		return nil // nothing to free
	}
	if n.freed.Swap(true) {
		return opWrap(opFreeNumeric, ErrInvalid) // freed through another alias
	}
	n.sym.live.Add(-1)
	n.fronts, n.singU, n.singL = nil, nil, nil
	n.sdiag, n.scale = nil, nil
	n.p, n.pinv = nil, nil
	*num = nil

	return nil
}

// FreeSymbolic releases an analysis handle and nils the caller's pointer.
// A nil *sym is a no-op; an analysis with live factor handles is refused.
func FreeSymbolic(sym **Symbolic) error {
	if sym == nil {
		return opWrap(opFreeSymbolic, ErrInvalid)
	}
	s := *sym
	if s == nil {
		return nil
	}
	if s.live.Load() > 0 {
		return opWrap(opFreeSymbolic, ErrInvalid) // factor handles still depend on it
	}
	if s.freed.Swap(true) {
		return opWrap(opFreeSymbolic, ErrInvalid)
	}
	s.singletons, s.fronts, s.roots = nil, nil, nil
	s.q, s.rowPre, s.colPos, s.rowPos = nil, nil, nil, nil
	*sym = nil

	return nil
}
