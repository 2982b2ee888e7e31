// Package solvelog prints iteration and outcome summaries at the
// verbosity the caller asked for. It wraps the stdlib log package
// rather than a third-party structured logger, the way the teacher
// reaches for log.Printf/log.Fatalf directly (element/context.go,
// mna/debug/charts.go) instead of any logging framework.
package solvelog

import (
	"fmt"
	"log"
	"time"

	"krysolve/itparam"
)

// Printer gates iteration and summary lines behind a configured level.
// A nil *Printer is valid and suppresses all output, so solvers never
// need a nil check before calling it.
type Printer struct {
	Level  itparam.PrintLevel
	Logger *log.Logger
}

// New builds a Printer writing through l at level lvl. A nil l falls
// back to log.Default().
func New(lvl itparam.PrintLevel, l *log.Logger) *Printer {
	if l == nil {
		l = log.Default()
	}
	return &Printer{Level: lvl, Logger: l}
}

func (p *Printer) enabled(min itparam.PrintLevel) bool {
	return p != nil && p.Level >= min
}

// Banner announces which solver core is about to run, mirroring
// SolMatFree.c's "Calling <Solver> solver (MatFree) ..." line, emitted
// uniformly for every solver kind instead of once per C switch case.
func (p *Printer) Banner(kind itparam.SolverKind) {
	if !p.enabled(itparam.PrintSome) {
		return
	}
	p.Logger.Printf("calling %s solver (matrix-free) ...", kind)
}

// Iteration logs one row of the convergence history: iteration index
// and relative residual.
func (p *Printer) Iteration(iter int, relres float64) {
	if !p.enabled(itparam.PrintMore) {
		return
	}
	p.Logger.Printf("iter %4d: relres = %.6e", iter, relres)
}

// RestartCycle logs a GMRES-family restart-cycle boundary.
func (p *Printer) RestartCycle(cycle, restart int, relres float64) {
	if !p.enabled(itparam.PrintSome) {
		return
	}
	p.Logger.Printf("restart cycle %d (m=%d): relres = %.6e", cycle, restart, relres)
}

// Notice logs a one-off event, such as the explicit-residual
// false-convergence recovery in GMRES (spec §4.G.4).
func (p *Printer) Notice(format string, args ...any) {
	if !p.enabled(itparam.PrintSome) {
		return
	}
	p.Logger.Printf("notice: "+format, args...)
}

// Summary is the single-line outcome report emitted on solve exit when
// print_level >= Min (spec §7).
type Summary struct {
	Kind     itparam.SolverKind
	Iter     int
	Residual float64
	Elapsed  time.Duration
	Err      error
}

func (p *Printer) Summary(s Summary) {
	if !p.enabled(itparam.PrintMin) {
		return
	}
	if s.Err != nil {
		p.Logger.Printf("%s finished: iter=%d residual=%.6e elapsed=%s error=%v",
			s.Kind, s.Iter, s.Residual, s.Elapsed, s.Err)
		return
	}
	p.Logger.Printf("%s finished: iter=%d residual=%.6e elapsed=%s",
		s.Kind, s.Iter, s.Residual, s.Elapsed)
}

func (s Summary) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s: iter=%d residual=%.6e elapsed=%s error=%v", s.Kind, s.Iter, s.Residual, s.Elapsed, s.Err)
	}
	return fmt.Sprintf("%s: iter=%d residual=%.6e elapsed=%s", s.Kind, s.Iter, s.Residual, s.Elapsed)
}
