package sparse

import (
	"krysolve/kerr"
	"krysolve/workerpool"
)

// CSR is the compressed-row container of spec §3. IA has length
// NRow+1, JA and Val have length Nnz. Duplicate (row, col) entries are
// permitted and are not summed; rows are not required to be
// column-sorted, and kernels must not assume they are.
type CSR struct {
	NRow, NCol, Nnz int
	IA              []int
	JA              []int
	Val             []float64
}

// NewCSR allocates a CSR with the given row/column count and nnz
// capacity. Callers fill IA, JA, Val (e.g. via a builder or a format
// conversion) before using it.
func NewCSR(nrow, ncol, nnz int) *CSR {
	return &CSR{
		NRow: nrow, NCol: ncol, Nnz: nnz,
		IA:  make([]int, nrow+1),
		JA:  make([]int, nnz),
		Val: make([]float64, nnz),
	}
}

func (a *CSR) Rows() int { return a.NRow }
func (a *CSR) Cols() int { return a.NCol }
func (a *CSR) NNZ() int  { return a.Nnz }

// Check validates the CSR invariants of spec §3: IA well-formed and
// nondecreasing, JA entries in range. Returns *kerr.SolverError with
// kind ErrFormat on violation.
func (a *CSR) Check() error {
	if a.NRow < 0 || a.NCol < 0 || a.Nnz < 0 {
		return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "negative dimension or nnz")
	}
	if len(a.IA) != a.NRow+1 {
		return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "ia length %d != nrow+1 %d", len(a.IA), a.NRow+1)
	}
	if a.NRow > 0 && a.IA[0] != 0 {
		return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "ia[0] != 0")
	}
	if a.NRow > 0 && a.IA[a.NRow] != a.Nnz {
		return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "ia[nrow] != nnz")
	}
	for i := 0; i < a.NRow; i++ {
		if a.IA[i+1] < a.IA[i] {
			return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "ia not nondecreasing at row %d", i)
		}
	}
	for _, j := range a.JA {
		if j < 0 || j >= a.NCol {
			return kerr.Newf("sparse.CSR.Check", kerr.ErrFormat, 0, 0, "column index %d out of range [0,%d)", j, a.NCol)
		}
	}
	return nil
}

// MulVec computes y <- A*x.
func (a *CSR) MulVec(x, y []float64) {
	a.Axpy(1, x, 0, y)
}

// Axpy computes y <- alpha*A*x + beta*y with a single gather-accumulate
// pass over ia/ja/val (spec §4.D). Row ranges are farmed out across
// workerpool.Workers() goroutines since each row is independent.
func (a *CSR) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	ia, ja, val := a.IA, a.JA, a.Val
	workerpool.Range(a.NRow, func(rs, re int) {
		for i := rs; i < re; i++ {
			var sum float64
			for k := ia[i]; k < ia[i+1]; k++ {
				sum += val[k] * x[ja[k]]
			}
			if beta == 0 {
				y[i] = alpha * sum
			} else {
				y[i] = alpha*sum + beta*y[i]
			}
		}
	})
}

// CSRL is a CSR with its rows pre-grouped by length, a cheap locality
// optimization used by the matrix-free CSRL tag of spec §4.E. Groups
// are computed once by NewCSRL and reused across repeated mat-vecs
// against the same structure.
type CSRL struct {
	*CSR
	GroupPtr []int // row indices delimiting each same-length group
	GroupLen []int // the row length each group shares
}

// NewCSRL groups a's rows by their nonzero count so a row-length-aware
// kernel can avoid recomputing ia[i+1]-ia[i] per row.
func NewCSRL(a *CSR) *CSRL {
	n := a.NRow
	lengths := make([]int, n)
	for i := 0; i < n; i++ {
		lengths[i] = a.IA[i+1] - a.IA[i]
	}
	var groupPtr, groupLen []int
	i := 0
	for i < n {
		j := i + 1
		for j < n && lengths[j] == lengths[i] {
			j++
		}
		groupPtr = append(groupPtr, i)
		groupLen = append(groupLen, lengths[i])
		i = j
	}
	groupPtr = append(groupPtr, n)
	return &CSRL{CSR: a, GroupPtr: groupPtr, GroupLen: groupLen}
}

// Axpy reuses CSR's kernel; the row-length grouping only benefits a
// vectorizing compiler/backend, not this reference implementation, but
// the grouped metadata remains available for callers that want it.
func (a *CSRL) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	a.CSR.Axpy(alpha, x, beta, y)
}

func (a *CSRL) MulVec(x, y []float64) { a.CSR.MulVec(x, y) }
