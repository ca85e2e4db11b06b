// SPDX-License-Identifier: MIT

// Package paru: the Control record, its defaults, and its factory.
// Every tunable of the engine lives here; the Default* constants are the
// single source of truth for the numbers, and DefaultControl is the only
// constructor. A nil *Control passed to any entry point means defaults.

package paru

import "runtime"

// Factorization strategies. The numeric values are part of the stable
// query surface (FieldStrategy), which is why Symmetric is 3, not 2.
const (
	StrategyAuto        = 0 // pick per matrix from pattern symmetry
	StrategyUnsymmetric = 1 // plain threshold partial pivoting
	StrategySymmetric   = 3 // diagonal-preferring pivoting
)

// Fill-reducing orderings for the analysis phase.
const (
	// OrderingMinDegree orders the symmetrized active pattern by explicit
	// minimum degree with lowest-index tie-breaking.
	OrderingMinDegree = 0
)

// Default Control values.
const (
	DefaultPivTol           = 0.1     // off-diagonal pivot threshold
	DefaultDiagTol          = 0.001   // diagonal-preference threshold
	DefaultPanelWidth       = 32      // dense kernel panel width
	DefaultTrivial          = 4       // updates ≤ this many elements stay in-place
	DefaultWorthwhileGemm   = 512     // matrix-matrix updates above this are split
	DefaultWorthwhileTrsm   = 4096    // triangular solves above this are split
	DefaultAmalgamation     = 32      // max pivots fused into one front
	DefaultStrategy         = StrategyAuto
	DefaultOrdering         = OrderingMinDegree
	DefaultPrescale         = true    // scale rows by their max magnitude
	DefaultFilterSingletons = true    // peel singleton rows/columns first
	DefaultMaxThreads       = 0       // 0: use runtime.GOMAXPROCS(0)
	DefaultTaskFlops        = 1 << 14 // min subtree flops to fork a tree task
)

// Control collects the tunables of analysis, factorization and solve.
// Fields map one-to-one onto the Default* constants above; the zero value
// is NOT usable, always start from DefaultControl.
type Control struct {
	// Numeric tolerances.
	PivTol  float64 // a pivot must reach PivTol × column max
	DiagTol float64 // a preferred diagonal must reach DiagTol × column max

	// Dense kernel shape and dispatch thresholds, in elements.
	PanelWidth     int
	Trivial        int
	WorthwhileGemm int
	WorthwhileTrsm int

	// Analysis knobs.
	Strategy         int  // StrategyAuto, StrategyUnsymmetric or StrategySymmetric
	Ordering         int  // OrderingMinDegree
	Amalgamation     int  // fuse chains of fronts up to this many pivots
	FilterSingletons bool // eliminate singleton rows/columns before ordering

	// Factorization knobs.
	Prescale   bool // divide each row by its largest magnitude
	MaxThreads int  // task-group bound; 0 means runtime.GOMAXPROCS(0)
	TaskFlops  int  // subtrees below this flop estimate run sequentially
}

// DefaultControl returns a fresh Control populated with the Default*
// constants. Pure factory: no shared state, callers own the result and may
// mutate it freely before passing it in.
func DefaultControl() *Control {
	return &Control{
		PivTol:           DefaultPivTol,
		DiagTol:          DefaultDiagTol,
		PanelWidth:       DefaultPanelWidth,
		Trivial:          DefaultTrivial,
		WorthwhileGemm:   DefaultWorthwhileGemm,
		WorthwhileTrsm:   DefaultWorthwhileTrsm,
		Strategy:         DefaultStrategy,
		Ordering:         DefaultOrdering,
		Amalgamation:     DefaultAmalgamation,
		FilterSingletons: DefaultFilterSingletons,
		Prescale:         DefaultPrescale,
		MaxThreads:       DefaultMaxThreads,
		TaskFlops:        DefaultTaskFlops,
	}
}

// resolve returns ctl itself, or a default Control when ctl is nil.
func (c *Control) resolve() *Control {
	if c == nil {
		return DefaultControl()
	}

	return c
}

// validate rejects Control values the engine cannot honor.
func (c *Control) validate() error {
	switch {
	case c.PivTol < 0 || c.PivTol > 1,
		c.DiagTol < 0 || c.DiagTol > 1,
		c.PanelWidth < 1,
		c.Trivial < 0,
		c.WorthwhileGemm < 0,
		c.WorthwhileTrsm < 0,
		c.Amalgamation < 1,
		c.MaxThreads < 0,
		c.TaskFlops < 0:
		return ErrInvalid
	}
	switch c.Strategy {
	case StrategyAuto, StrategyUnsymmetric, StrategySymmetric:
	default:
		return ErrInvalid
	}
	if c.Ordering != OrderingMinDegree {
		return ErrInvalid
	}

	return nil
}

// threads resolves the effective task-group bound.
func (c *Control) threads() int {
	if c.MaxThreads > 0 {
		return c.MaxThreads
	}

	return runtime.GOMAXPROCS(0)
}
