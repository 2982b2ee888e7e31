// Package kerr defines the error taxonomy shared by the matrix and
// solver layers. Errors are values, not exceptions: every failing
// operation returns a *SolverError instead of panicking.
package kerr

import "fmt"

// Kind enumerates the distinct ways a solve or a matrix operation can fail.
type Kind int

const (
	// ErrAlloc is returned when workspace cannot be sized, even after
	// the GMRES-family restart-shrink retry.
	ErrAlloc Kind = iota + 1
	// ErrMaxIter is returned when the stopping test is never satisfied
	// before max_iter iterations.
	ErrMaxIter
	// ErrBreakdown is returned on Krylov-specific numerical breakdown
	// (e.g. a near-zero BiCGStab denominator).
	ErrBreakdown
	// ErrStagnation is returned when the residual fails to decrease
	// over a configured window of iterations.
	ErrStagnation
	// ErrDiverge is returned when the residual grows beyond a bounded
	// multiple of the initial residual.
	ErrDiverge
	// ErrSolverType is returned when the dispatcher does not recognize
	// the requested solver kind.
	ErrSolverType
	// ErrInputPar is returned for invalid parameters (tol <= 0,
	// negative restart, dimension mismatch, ...).
	ErrInputPar
	// ErrFormat is returned when a kernel discovers an invalid matrix
	// structure at entry.
	ErrFormat
)

func (k Kind) String() string {
	switch k {
	case ErrAlloc:
		return "ErrAlloc"
	case ErrMaxIter:
		return "ErrMaxIter"
	case ErrBreakdown:
		return "ErrBreakdown"
	case ErrStagnation:
		return "ErrStagnation"
	case ErrDiverge:
		return "ErrDiverge"
	case ErrSolverType:
		return "ErrSolverType"
	case ErrInputPar:
		return "ErrInputPar"
	case ErrFormat:
		return "ErrFormat"
	default:
		return "ErrUnknown"
	}
}

// SolverError carries the failure kind plus enough solve-time context
// for a caller to decide whether to retry with different parameters.
type SolverError struct {
	Kind      Kind
	Iter      int     // iteration count at the time of failure
	Residual  float64 // last known residual norm, 0 if never computed
	Op        string  // solver or kernel name that raised the error
	Message   string  // optional extra detail
}

func (e *SolverError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s at iter %d (residual %.6e): %s", e.Op, e.Kind, e.Iter, e.Residual, e.Message)
	}
	return fmt.Sprintf("%s: %s at iter %d (residual %.6e)", e.Op, e.Kind, e.Iter, e.Residual)
}

// New builds a *SolverError for the given kind.
func New(op string, kind Kind, iter int, residual float64) *SolverError {
	return &SolverError{Kind: kind, Iter: iter, Residual: residual, Op: op}
}

// Newf is New with an attached formatted message.
func Newf(op string, kind Kind, iter int, residual float64, format string, args ...any) *SolverError {
	return &SolverError{Kind: kind, Iter: iter, Residual: residual, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *SolverError of the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*SolverError)
	return ok && se.Kind == kind
}
