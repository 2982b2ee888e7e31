package sparse

import "krysolve/kerr"

// BLC is the block-composite container of spec §3: a 2-D grid of
// sub-matrix handles used for saddle-point systems. A nil cell is an
// empty (all-zero) sub-block.
type BLC struct {
	RowBlk, ColBlk int      // block grid shape
	RowDim, ColDim []int    // logical size of each block row / column
	Blocks         []Matrix // RowBlk*ColBlk cells, row-major; nil = empty
}

// NewBLC allocates an empty RowBlk x ColBlk grid with the given
// per-block row/column dimensions.
func NewBLC(rowDim, colDim []int) *BLC {
	return &BLC{
		RowBlk: len(rowDim), ColBlk: len(colDim),
		RowDim: rowDim, ColDim: colDim,
		Blocks: make([]Matrix, len(rowDim)*len(colDim)),
	}
}

func (a *BLC) at(i, j int) Matrix { return a.Blocks[i*a.ColBlk+j] }

// Set installs m as the (i,j) sub-block. m may be nil to clear it.
func (a *BLC) Set(i, j int, m Matrix) { a.Blocks[i*a.ColBlk+j] = m }

func (a *BLC) Rows() int {
	n := 0
	for _, d := range a.RowDim {
		n += d
	}
	return n
}

func (a *BLC) Cols() int {
	n := 0
	for _, d := range a.ColDim {
		n += d
	}
	return n
}

func (a *BLC) NNZ() int {
	n := 0
	for _, b := range a.Blocks {
		if b != nil {
			n += b.NNZ()
		}
	}
	return n
}

// Check validates block-grid shape consistency: each non-empty cell's
// dimensions must match its row/column block's declared size.
func (a *BLC) Check() error {
	for i := 0; i < a.RowBlk; i++ {
		for j := 0; j < a.ColBlk; j++ {
			b := a.at(i, j)
			if b == nil {
				continue
			}
			if b.Rows() != a.RowDim[i] || b.Cols() != a.ColDim[j] {
				return kerr.Newf("sparse.BLC.Check", kerr.ErrFormat, 0, 0,
					"block (%d,%d) shape %dx%d != declared %dx%d", i, j, b.Rows(), b.Cols(), a.RowDim[i], a.ColDim[j])
			}
		}
	}
	return nil
}

func (a *BLC) rowOffset(i int) int {
	o := 0
	for k := 0; k < i; k++ {
		o += a.RowDim[k]
	}
	return o
}

func (a *BLC) colOffset(j int) int {
	o := 0
	for k := 0; k < j; k++ {
		o += a.ColDim[k]
	}
	return o
}

func (a *BLC) MulVec(x, y []float64) {
	a.Axpy(1, x, 0, y)
}

// Axpy dispatches each non-empty sub-block to its own kernel against
// partial views of x and y (spec §4.D). Empty block rows are only
// scaled by beta, never summed into, since an empty row contributes no
// Ax term.
func (a *BLC) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	for i := 0; i < a.RowBlk; i++ {
		ro := a.rowOffset(i)
		yo := y[ro : ro+a.RowDim[i]]
		if beta == 0 {
			for k := range yo {
				yo[k] = 0
			}
		} else if beta != 1 {
			for k := range yo {
				yo[k] *= beta
			}
		}
		for j := 0; j < a.ColBlk; j++ {
			b := a.at(i, j)
			if b == nil {
				continue
			}
			co := a.colOffset(j)
			xo := x[co : co+a.ColDim[j]]
			b.Axpy(alpha, xo, 1, yo)
		}
	}
}
