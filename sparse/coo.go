package sparse

import "krysolve/kerr"

// COO is the coordinate container of spec §3, used only as a
// conversion way-point between other formats (never as a solver's
// primary representation).
type COO struct {
	NRow, NCol int
	RowInd     []int
	ColInd     []int
	Val        []float64
}

// NewCOO allocates a COO with nnz entries, all initially zeroed. Fill
// RowInd, ColInd, Val before using it.
func NewCOO(nrow, ncol, nnz int) *COO {
	return &COO{
		NRow: nrow, NCol: ncol,
		RowInd: make([]int, nnz),
		ColInd: make([]int, nnz),
		Val:    make([]float64, nnz),
	}
}

func (a *COO) Rows() int { return a.NRow }
func (a *COO) Cols() int { return a.NCol }
func (a *COO) NNZ() int  { return len(a.Val) }

// Check validates index ranges and parallel-array lengths.
func (a *COO) Check() error {
	if len(a.RowInd) != len(a.ColInd) || len(a.RowInd) != len(a.Val) {
		return kerr.Newf("sparse.COO.Check", kerr.ErrFormat, 0, 0, "mismatched parallel array lengths")
	}
	for k := range a.RowInd {
		if a.RowInd[k] < 0 || a.RowInd[k] >= a.NRow {
			return kerr.Newf("sparse.COO.Check", kerr.ErrFormat, 0, 0, "row index %d out of range", a.RowInd[k])
		}
		if a.ColInd[k] < 0 || a.ColInd[k] >= a.NCol {
			return kerr.Newf("sparse.COO.Check", kerr.ErrFormat, 0, 0, "col index %d out of range", a.ColInd[k])
		}
	}
	return nil
}

// MulVec computes y <- A*x.
func (a *COO) MulVec(x, y []float64) {
	a.Axpy(1, x, 0, y)
}

// Axpy computes y <- alpha*A*x + beta*y via a single scatter-add pass
// (spec §4.D). COO mat-vec is not parallelized here: concurrent
// scatter-add into y would race without per-row locking, and COO is
// documented as a conversion way-point rather than a hot kernel path.
func (a *COO) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	if beta == 0 {
		for i := range y {
			y[i] = 0
		}
	} else if beta != 1 {
		for i := range y {
			y[i] *= beta
		}
	}
	for k := range a.Val {
		y[a.RowInd[k]] += alpha * a.Val[k] * x[a.ColInd[k]]
	}
}
