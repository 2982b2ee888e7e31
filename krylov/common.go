// Package krylov implements the iteration cores of spec §4.G: one
// loop per method, each consuming a matfree.Op (or a sparse.Matrix
// directly) and a precond.Precond, built on dvec's BLAS-1 primitives.
// Algorithms are grounded on original_source/base/src/KryPgcr.c and
// KryPvfgmres.c (the FASP C sources this spec distills) translated
// into direct Go loops rather than the resume/reverse-communication
// style of the pack's vladimir-ch-iterative reference, since the
// teacher's own iterative code (maths/lu.go, maths/reducer.go) favors
// straight-line loops with early returns over state machines.
package krylov

import (
	"math"

	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
	"krysolve/matfree"
	"krysolve/precond"
	"krysolve/solvelog"
)

// IterationRecord is one row of convergence history, collected by
// every core when the caller asks for it (diagnostics package
// consumes these to plot residual curves).
type IterationRecord struct {
	Iter     int
	Residual float64 // relative residual per the active StopType
}

// Result is what every Krylov core returns on success.
type Result struct {
	Iter     int
	Residual float64 // final relative residual
	History  []IterationRecord
}

// Input bundles everything a core needs: the matrix-free operator, the
// preconditioner (precond.Identity() if none was supplied), the
// right-hand side, the initial guess (mutated in place to become the
// solution), and the solver parameters.
type Input struct {
	A       matfree.Op
	M       precond.Precond
	B       []float64
	X       []float64 // in/out: initial guess in, solution out
	Param   itparam.Param
	Collect bool              // when true, Result.History is populated
	Printer *solvelog.Printer // nil-safe; gates per-iteration/notice lines
}

// reporter bundles the two independent things a core does with each
// iteration's residual: append it to History (gated on Collect) and
// print it (gated on Printer's own level). A nil Printer is safe.
type reporter struct {
	collect bool
	printer *solvelog.Printer
	history []IterationRecord
}

func newReporter(in Input) *reporter {
	return &reporter{collect: in.Collect, printer: in.Printer}
}

func (r *reporter) report(iter int, rel float64) {
	if r.collect {
		r.history = append(r.history, IterationRecord{Iter: iter, Residual: rel})
	}
	r.printer.Iteration(iter, rel)
}

// stopState carries the quantities the stopping test needs across
// iterations without recomputing ||b|| etc. every time.
type stopState struct {
	stopType itparam.StopType
	bnorm    float64
	r0norm   float64
	mnormB   float64 // ||b||_{M^-1}, for RelPrecRes
}

func newStopState(st itparam.StopType, b []float64, r0 []float64, m precond.Precond, tmp []float64) *stopState {
	s := &stopState{stopType: st, bnorm: dvec.Norm2(b), r0norm: dvec.Norm2(r0)}
	if st == itparam.RelPrecRes {
		m.Apply(b, tmp)
		s.mnormB = math.Sqrt(math.Max(dvec.Dot(b, tmp), 0))
	}
	return s
}

// relative computes the relative residual for the active stop type.
// rnorm is ||r||_2; precInner is <r, M^-1 r> (only needed for
// RelPrecRes, pass 0 otherwise); xnorm is ||x||_2 (only needed for
// RelModRes, pass 0 otherwise).
func (s *stopState) relative(rnorm, precInner, xnorm float64) float64 {
	switch s.stopType {
	case itparam.RelPrecRes:
		denom := s.mnormB
		if denom < itparam.SmallReal {
			denom = itparam.SmallReal
		}
		return math.Sqrt(math.Max(precInner, 0)) / denom
	case itparam.RelModRes:
		denom := math.Max(itparam.SmallReal, xnorm)
		return rnorm / denom
	default: // RelRes
		denom := s.bnorm
		if denom < itparam.SmallReal {
			denom = s.r0norm
		}
		if denom < itparam.SmallReal {
			denom = itparam.SmallReal
		}
		return rnorm / denom
	}
}

// stagnationWindow is how many consecutive iterations of
// non-decreasing residual trigger ErrStagnation.
const stagnationWindow = 20

// divergeFactor bounds how far the residual may grow relative to the
// initial residual before a core reports ErrDiverge.
const divergeFactor = 1e8

// stagnationTracker detects both stagnation (spec's configured window)
// and divergence (bounded multiple of the initial residual).
type stagnationTracker struct {
	prev     float64
	sinceImp int
	r0       float64
}

func newStagnationTracker(r0 float64) *stagnationTracker {
	return &stagnationTracker{prev: r0, r0: r0}
}

func (t *stagnationTracker) update(op string, iter int, r float64) error {
	if r > divergeFactor*math.Max(t.r0, itparam.SmallReal) {
		return kerr.New(op, kerr.ErrDiverge, iter, r)
	}
	if r < t.prev*(1-1e-12) {
		t.sinceImp = 0
	} else {
		t.sinceImp++
		if t.sinceImp >= stagnationWindow {
			return kerr.New(op, kerr.ErrStagnation, iter, r)
		}
	}
	t.prev = r
	return nil
}
