// Package matfree implements the matrix-free dispatch of spec §4.E: a
// single function-pointer trampoline that lets every Krylov core exist
// once, shared across sparse formats, instead of being duplicated per
// format the way original_source/base/src/SolMatFree.c's C switch
// duplicates nine solver calls per format.
package matfree

import "krysolve/sparse"

// Op is the bound matrix-free handle: Apply(x, y) computes y <- A*x.
// Whatever the bound format needs is captured by Apply and borrowed
// for the solver's lifetime; Apply must be pure in x apart from
// writing y.
type Op struct {
	Apply func(x, y []float64)
	Rows  int
	Cols  int
}

// MulVec is a convenience wrapper matching the Matrix.MulVec shape.
func (op Op) MulVec(x, y []float64) { op.Apply(x, y) }

// Bind constructs an Op from any sparse.Matrix, covering the CSR, BSR,
// STR, BLC, and COO tags of spec §4.E's dispatch table in one
// implementation since they all already satisfy sparse.Matrix.
func Bind(a sparse.Matrix) Op {
	return Op{
		Apply: func(x, y []float64) { a.MulVec(x, y) },
		Rows:  a.Rows(),
		Cols:  a.Cols(),
	}
}

// BindCSRL binds the CSRL tag of spec §4.E's table: a CSR matrix with
// cached row-length groups, for callers that already built the
// grouping via sparse.NewCSRL and want to reuse it across repeated
// solves against the same structure.
func BindCSRL(a *sparse.CSRL) Op {
	return Op{
		Apply: func(x, y []float64) { a.MulVec(x, y) },
		Rows:  a.Rows(),
		Cols:  a.Cols(),
	}
}

// BindFunc wraps a caller-supplied pure function directly, for
// matrices that never need a concrete sparse.Matrix representation at
// all (e.g. a stencil computed on the fly).
func BindFunc(rows, cols int, fn func(x, y []float64)) Op {
	return Op{Apply: fn, Rows: rows, Cols: cols}
}
