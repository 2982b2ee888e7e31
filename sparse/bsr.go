package sparse

import (
	"krysolve/kerr"
	"krysolve/workerpool"
)

// StorageManner selects how each dense nb*nb block of a BSR matrix is
// laid out in Val.
type StorageManner int

const (
	RowMajor StorageManner = iota
	ColMajor
)

// BSR is the block-compressed-row container of spec §3. IA/JA index a
// ROW x COL grid of Nb x Nb dense blocks; Val holds Nb*Nb reals per
// stored block, laid out per Manner. Logical row/col count is
// ROW*Nb / COL*Nb.
type BSR struct {
	ROW, COL, Nb int
	Manner       StorageManner
	IA           []int
	JA           []int
	Val          []float64 // len == len(JA) * Nb * Nb
}

// NewBSR allocates a BSR grid with the given block-row/col count, nnz
// blocks, and block size.
func NewBSR(row, col, nnzBlocks, nb int, manner StorageManner) *BSR {
	return &BSR{
		ROW: row, COL: col, Nb: nb, Manner: manner,
		IA:  make([]int, row+1),
		JA:  make([]int, nnzBlocks),
		Val: make([]float64, nnzBlocks*nb*nb),
	}
}

func (a *BSR) Rows() int { return a.ROW * a.Nb }
func (a *BSR) Cols() int { return a.COL * a.Nb }
func (a *BSR) NNZ() int  { return len(a.JA) * a.Nb * a.Nb }

// Check validates the BSR invariants of spec §3.
func (a *BSR) Check() error {
	if a.Nb <= 0 {
		return kerr.Newf("sparse.BSR.Check", kerr.ErrFormat, 0, 0, "block size must be positive")
	}
	if len(a.IA) != a.ROW+1 {
		return kerr.Newf("sparse.BSR.Check", kerr.ErrFormat, 0, 0, "ia length mismatch")
	}
	if len(a.Val) != len(a.JA)*a.Nb*a.Nb {
		return kerr.Newf("sparse.BSR.Check", kerr.ErrFormat, 0, 0, "val length != nnz_blocks*nb^2")
	}
	for _, j := range a.JA {
		if j < 0 || j >= a.COL {
			return kerr.Newf("sparse.BSR.Check", kerr.ErrFormat, 0, 0, "block column %d out of range", j)
		}
	}
	return nil
}

func (a *BSR) MulVec(x, y []float64) {
	a.Axpy(1, x, 0, y)
}

// Axpy computes y <- alpha*A*x + beta*y. For each nonzero block the
// inner nb*nb dense product is accumulated into an nb-length local
// result honoring Manner, then scaled/accumulated into y (spec §4.D).
func (a *BSR) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	nb := a.Nb
	ia, ja, val := a.IA, a.JA, a.Val
	// One scratch buffer for the whole call, sliced per chunk by
	// chunkIdx, instead of allocating inside the Range callback.
	scratch := make([]float64, workerpool.Workers()*nb)
	workerpool.RangeIndexed(a.ROW, func(chunkIdx, rs, re int) {
		local := scratch[chunkIdx*nb : chunkIdx*nb+nb]
		for bi := rs; bi < re; bi++ {
			for k := range local {
				local[k] = 0
			}
			for k := ia[bi]; k < ia[bi+1]; k++ {
				bj := ja[k]
				block := val[k*nb*nb : (k+1)*nb*nb]
				xo := x[bj*nb : bj*nb+nb]
				if a.Manner == RowMajor {
					for r := 0; r < nb; r++ {
						var s float64
						row := block[r*nb : r*nb+nb]
						for c := 0; c < nb; c++ {
							s += row[c] * xo[c]
						}
						local[r] += s
					}
				} else {
					for c := 0; c < nb; c++ {
						xc := xo[c]
						if xc == 0 {
							continue
						}
						col := block[c*nb : c*nb+nb]
						for r := 0; r < nb; r++ {
							local[r] += col[r] * xc
						}
					}
				}
			}
			yo := y[bi*nb : bi*nb+nb]
			if beta == 0 {
				for r := 0; r < nb; r++ {
					yo[r] = alpha * local[r]
				}
			} else {
				for r := 0; r < nb; r++ {
					yo[r] = alpha*local[r] + beta*yo[r]
				}
			}
		}
	})
}
