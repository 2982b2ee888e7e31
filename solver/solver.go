// Package solver implements the dispatcher of spec §4.H: a single
// entry point that validates parameters, binds the matrix into a
// matrix-free handle, routes to the chosen Krylov core, times the
// solve, and logs a one-line summary. Grounded on
// original_source/base/src/SolMatFree.c's fasp_solver_itsolver switch,
// generalized from a C switch duplicated per matrix format into one
// Go dispatch table shared across every sparse.Matrix implementation.
package solver

import (
	"time"

	"krysolve/itparam"
	"krysolve/kerr"
	"krysolve/krylov"
	"krysolve/matfree"
	"krysolve/precond"
	"krysolve/solvelog"
	"krysolve/sparse"
)

// Result is returned by Solve: the iteration count, the final
// relative residual, and (if Param asked for it) the convergence
// history.
type Result struct {
	Iterations int
	Residual   float64
	Elapsed    time.Duration
	History    []krylov.IterationRecord
}

type coreFunc func(krylov.Input) (krylov.Result, error)

// effectivePrinter derives the printer's verbosity from param.PrintLevel
// so the two knobs can't diverge: a caller-supplied printer at the
// wrong level (or no printer at all) would otherwise silently print
// more or less than param.PrintLevel asked for.
func effectivePrinter(p *solvelog.Printer, level itparam.PrintLevel) *solvelog.Printer {
	if p == nil {
		return solvelog.New(level, nil)
	}
	p.Level = level
	return p
}

var dispatch = map[itparam.SolverKind]coreFunc{
	itparam.CG:        krylov.CG,
	itparam.BiCGStab:  krylov.BiCGStab,
	itparam.VBiCGStab: krylov.VBiCGStab,
	itparam.MinRes:    krylov.MinRes,
	itparam.GMRES:     krylov.GMRES,
	itparam.VGMRES:    krylov.VGMRES,
	itparam.VFGMRES:   krylov.VFGMRES,
	itparam.GCR:       krylov.GCR,
	itparam.GCG:       krylov.GCG,
}

// Solve implements spec §6's solve(matrix, b, x, precond?, params) ->
// Result<iterations, ErrorKind>. x is both the initial guess (in) and
// the solution (out, mutated in place). A nil pc is treated as the
// identity preconditioner.
func Solve(a sparse.Matrix, b, x []float64, pc precond.Precond, param itparam.Param, printer *solvelog.Printer) (Result, error) {
	start := time.Now()
	printer = effectivePrinter(printer, param.PrintLevel)

	if err := param.Validate(); err != nil {
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}
	if len(b) != len(x) || a.Rows() != len(b) || a.Cols() != len(x) {
		err := kerr.Newf("solver.Solve", kerr.ErrInputPar, 0, 0, "dimension mismatch: A is %dx%d, b has %d, x has %d", a.Rows(), a.Cols(), len(b), len(x))
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}

	core, ok := dispatch[param.SolverKind]
	if !ok {
		err := kerr.New("solver.Solve", kerr.ErrSolverType, 0, 0)
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}

	if pc == nil {
		pc = precond.Identity()
	}
	op := matfree.Bind(a)

	printer.Banner(param.SolverKind)
	res, err := core(krylov.Input{
		A:       op,
		M:       pc,
		B:       b,
		X:       x,
		Param:   param,
		Collect: param.PrintLevel >= itparam.PrintMore,
		Printer: printer,
	})

	elapsed := time.Since(start)
	printer.Summary(solvelog.Summary{Kind: param.SolverKind, Iter: res.Iter, Residual: res.Residual, Elapsed: elapsed, Err: err})

	return Result{Iterations: res.Iter, Residual: res.Residual, Elapsed: elapsed, History: res.History}, err
}

// SolveFree is Solve's matrix-free form, for callers that already
// have a matfree.Op (e.g. a stencil-based operator with no concrete
// sparse.Matrix backing) instead of a sparse.Matrix.
func SolveFree(op matfree.Op, b, x []float64, pc precond.Precond, param itparam.Param, printer *solvelog.Printer) (Result, error) {
	start := time.Now()
	printer = effectivePrinter(printer, param.PrintLevel)

	if err := param.Validate(); err != nil {
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}
	if len(b) != len(x) {
		err := kerr.Newf("solver.SolveFree", kerr.ErrInputPar, 0, 0, "b and x length mismatch: %d vs %d", len(b), len(x))
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}

	core, ok := dispatch[param.SolverKind]
	if !ok {
		err := kerr.New("solver.SolveFree", kerr.ErrSolverType, 0, 0)
		printer.Summary(solvelog.Summary{Kind: param.SolverKind, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}

	if pc == nil {
		pc = precond.Identity()
	}

	printer.Banner(param.SolverKind)
	res, err := core(krylov.Input{
		A:       op,
		M:       pc,
		B:       b,
		X:       x,
		Param:   param,
		Collect: param.PrintLevel >= itparam.PrintMore,
		Printer: printer,
	})

	elapsed := time.Since(start)
	printer.Summary(solvelog.Summary{Kind: param.SolverKind, Iter: res.Iter, Residual: res.Residual, Elapsed: elapsed, Err: err})

	return Result{Iterations: res.Iter, Residual: res.Residual, Elapsed: elapsed, History: res.History}, err
}
