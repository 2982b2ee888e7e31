// Package sparse implements the sparse matrix containers of spec §3
// (CSR, COO, BSR, STR, BLC), the format conversions of spec §4.B/C,
// and the mat-vec kernels of spec §4.D. Containers are grounded on
// maths/sparseMatrix.go's row-pointer/column-index/value layout and on
// mna/mat/matrix.go's Matrix interface, generalized from the teacher's
// single CSR-backed implementation to all five formats named by the
// specification.
package sparse

// Matrix is the capability every sparse container exposes to the
// matrix-free and Krylov layers: shape plus the two mat-vec kernels
// required by spec §4.D. Concrete formats (CSR, COO, BSR, STR, BLC)
// satisfy it; solvers depend on this interface, never on a concrete
// format, the way mna/mat.Matrix lets the teacher's LU and reducer
// code stay format-agnostic.
type Matrix interface {
	Rows() int
	Cols() int
	NNZ() int
	// Axpy computes y <- alpha*A*x + beta*y in place. BSR's kernel
	// allocates one scratch buffer of Workers()*Nb reals per call; the
	// other formats' own kernels allocate no workspace.
	Axpy(alpha float64, x []float64, beta float64, y []float64)
	// MulVec computes y <- A*x in place, allocating exactly as Axpy does.
	MulVec(x, y []float64)
}
