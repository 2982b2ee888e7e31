// Package dvec implements the dense array primitives of spec §4.A:
// in-place BLAS-1 operations over []float64. The only allocation is
// the slice of per-chunk partial sums that Dot and Norm2 make when
// their reduction is split across more than one worker.
// The arithmetic is delegated to gonum.org/v1/gonum/floats, the
// ecosystem BLAS-1 library the pack's vladimir-ch-iterative reference
// solvers build on, wrapped here with workerpool fan-out for the
// reduction operations (dot, norm) so large vectors exercise spec §5's
// fork-join model.
package dvec

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"krysolve/workerpool"
)

// Copy sets dst[i] = src[i] for all i. len(dst) must equal len(src).
func Copy(dst, src []float64) {
	copy(dst, src)
}

// Zero sets every element of x to 0.
func Zero(x []float64) {
	Fill(x, 0)
}

// Fill sets every element of x to c.
func Fill(x []float64, c float64) {
	for i := range x {
		x[i] = c
	}
}

// Scale sets x[i] *= alpha for all i.
func Scale(alpha float64, x []float64) {
	floats.Scale(alpha, x)
}

// Axpy sets y[i] += alpha*x[i] for all i (y <- alpha*x + y).
func Axpy(alpha float64, x, y []float64) {
	floats.AddScaled(y, alpha, x)
}

// Axpby sets y[i] = alpha*x[i] + beta*y[i] for all i.
func Axpby(alpha float64, x []float64, beta float64, y []float64) {
	if beta == 1 {
		Axpy(alpha, x, y)
		return
	}
	if beta == 0 {
		for i, v := range x {
			y[i] = alpha * v
		}
		return
	}
	for i, v := range x {
		y[i] = alpha*v + beta*y[i]
	}
}

// Dot returns the dot product of x and y, accumulated in worker-sized
// chunks combined in a fixed order so the result is reproducible for a
// given worker count (spec §5).
func Dot(x, y []float64) float64 {
	n := len(x)
	return workerpool.ReduceFloat64(n, func(start, end int) float64 {
		return floats.Dot(x[start:end], y[start:end])
	}, func(acc, partial float64) float64 { return acc + partial }, 0)
}

// Norm2 returns the Euclidean (2-)norm of x.
func Norm2(x []float64) float64 {
	sumSq := workerpool.ReduceFloat64(len(x), func(start, end int) float64 {
		s := 0.0
		for _, v := range x[start:end] {
			s += v * v
		}
		return s
	}, func(acc, partial float64) float64 { return acc + partial }, 0)
	return math.Sqrt(sumSq)
}

// New allocates a zeroed vector of length n.
func New(n int) []float64 {
	return make([]float64, n)
}
