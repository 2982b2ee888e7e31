// Package itparam holds the parameter record consumed by the solver
// dispatcher (spec §3's ItParam, §6's field enumeration). It favors
// small constructors with sane defaults over the parameter-file reader
// the source package carries — file-based configuration is out of
// scope for the core.
package itparam

import "krysolve/kerr"

// SolverKind selects the Krylov core the dispatcher routes to.
type SolverKind int

const (
	CG SolverKind = iota
	BiCGStab
	VBiCGStab
	MinRes
	GMRES
	VGMRES
	VFGMRES
	GCR
	GCG
)

func (k SolverKind) String() string {
	names := [...]string{"CG", "BiCGStab", "VBiCGStab", "MinRes", "GMRES", "VGMRES", "VFGMRES", "GCR", "GCG"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// StopType selects the stopping test used by every Krylov core.
type StopType int

const (
	// RelRes is ||r||_2 / ||b||_2 <= tol (or ||r||/||r0|| when ||b||=0).
	RelRes StopType = iota
	// RelPrecRes is sqrt(<r,M^-1 r>) / ||b||_{M^-1} <= tol.
	RelPrecRes
	// RelModRes is ||r||_2 / max(eps, ||x||_2) <= tol.
	RelModRes
)

// PrecondHint records what kind of preconditioner the caller intends
// to supply. It is purely informational: neither the dispatcher nor
// the Krylov cores read it, since they always consume the supplied
// precond.Precond opaquely.
type PrecondHint int

const (
	PrecondNone PrecondHint = iota
	PrecondDiag
	PrecondILU
	PrecondAMG
	PrecondSchwarz
	PrecondUser
)

// PrintLevel controls how much the dispatcher and Krylov cores log.
type PrintLevel int

const (
	PrintNone PrintLevel = iota
	PrintMin
	PrintSome
	PrintMore
)

// Tolerance floor and ceiling used throughout the solver layer to
// guard against division by (near) zero and overflowed comparisons.
const (
	SmallReal = 1e-20
	BigReal   = 1e+20
)

// Param is the complete, enumerated parameter record from spec §6.
type Param struct {
	SolverKind   SolverKind
	PrecondType  PrecondHint
	StopType     StopType
	PrintLevel   PrintLevel
	MaxIter      int
	Tol          float64
	Restart      int // GMRES family and GCR; ignored otherwise
	RestartMin   int // VGMRES/VFGMRES lower bound; defaults to 3
	MinIter      int // floor on iteration count, defaults to 0
}

// Default returns the parameter record the dispatcher falls back to
// when a caller only overrides a handful of fields, grounded on the
// teacher's pattern of constructing configuration structs with
// pre-populated defaults (mna/man.go).
func Default() Param {
	return Param{
		SolverKind: CG,
		StopType:   RelRes,
		PrintLevel: PrintNone,
		MaxIter:    500,
		Tol:        1e-8,
		Restart:    30,
		RestartMin: 3,
		MinIter:    0,
	}
}

// Option mutates a Param in place; used with New to build a Param from
// a readable call site instead of a long positional literal.
type Option func(*Param)

// New builds a Param starting from Default and applying opts in order.
func New(opts ...Option) Param {
	p := Default()
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func WithSolverKind(k SolverKind) Option { return func(p *Param) { p.SolverKind = k } }
func WithStopType(s StopType) Option     { return func(p *Param) { p.StopType = s } }
func WithPrintLevel(l PrintLevel) Option { return func(p *Param) { p.PrintLevel = l } }
func WithMaxIter(n int) Option           { return func(p *Param) { p.MaxIter = n } }
func WithTol(tol float64) Option         { return func(p *Param) { p.Tol = tol } }
func WithRestart(r int) Option           { return func(p *Param) { p.Restart = r } }
func WithRestartMin(r int) Option        { return func(p *Param) { p.RestartMin = r } }
func WithPrecondHint(h PrecondHint) Option {
	return func(p *Param) { p.PrecondType = h }
}

// Validate performs the parameter-sanity checks the dispatcher runs
// before routing to a Krylov core (spec §4.H step 1).
func (p Param) Validate() error {
	switch {
	case p.MaxIter < 0:
		return errInputPar("max_iter must be >= 0")
	case p.Tol <= 0:
		return errInputPar("tol must be > 0")
	case needsRestart(p.SolverKind) && p.Restart < 1:
		return errInputPar("restart must be >= 1 for GMRES-family solvers")
	}
	return nil
}

func needsRestart(k SolverKind) bool {
	switch k {
	case GMRES, VGMRES, VFGMRES:
		return true
	default:
		return false
	}
}

func errInputPar(msg string) error {
	return kerr.Newf("itparam.Validate", kerr.ErrInputPar, 0, 0, "%s", msg)
}
