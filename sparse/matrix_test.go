package sparse

import (
	"math"
	"testing"
)

// tridiagonal4 builds the 4x4 tridiagonal matrix diag=2, off-diag=-1
// (a 1-D Poisson stencil) as both a CSR and a COO container, so tests
// can check that every format's MulVec agrees on the same operator.
func tridiagonal4CSR() *CSR {
	a := NewCSR(4, 4, 10)
	a.IA = []int{0, 2, 5, 8, 10}
	a.JA = []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	a.Val = []float64{2, -1, -1, 2, -1, -1, 2, -1, -1, 2}
	return a
}

func tridiagonal4COO() *COO {
	rows := []int{0, 0, 1, 1, 1, 2, 2, 2, 3, 3}
	cols := []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	vals := []float64{2, -1, -1, 2, -1, -1, 2, -1, -1, 2}
	coo := NewCOO(4, 4, len(vals))
	copy(coo.RowInd, rows)
	copy(coo.ColInd, cols)
	copy(coo.Val, vals)
	return coo
}

func tridiagonal4BSR() *BSR {
	// One 1x1 "block" per nonzero: a degenerate BSR exercising the
	// same mat-vec kernel with Nb=1.
	a := NewBSR(4, 4, 10, 1, RowMajor)
	a.IA = []int{0, 2, 5, 8, 10}
	a.JA = []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	a.Val = []float64{2, -1, -1, 2, -1, -1, 2, -1, -1, 2}
	return a
}

func tridiagonal4STR() *STR {
	return &STR{
		Nx: 4, Ny: 1, Nz: 1, Nc: 1,
		Diag: []float64{2, 2, 2, 2},
		Bands: []Band{
			{Offset: 1, Val: []float64{-1, -1, -1}},
			{Offset: -1, Val: []float64{-1, -1, -1}},
		},
	}
}

func tridiagonal4BLC() *BLC {
	// Split the same operator into a 2x2 grid of 2x2 CSR sub-blocks:
	// block(0,0) and block(1,1) carry the local tridiagonal structure,
	// block(0,1) and block(1,0) carry the single coupling entry that
	// crosses the row/column split.
	blc := NewBLC([]int{2, 2}, []int{2, 2})

	corner := NewCSR(2, 2, 4)
	corner.IA = []int{0, 2, 4}
	corner.JA = []int{0, 1, 0, 1}
	corner.Val = []float64{2, -1, -1, 2}
	blc.Set(0, 0, corner)

	other := NewCSR(2, 2, 4)
	other.IA = []int{0, 2, 4}
	other.JA = []int{0, 1, 0, 1}
	other.Val = []float64{2, -1, -1, 2}
	blc.Set(1, 1, other)

	upperCoupling := NewCSR(2, 2, 1)
	upperCoupling.IA = []int{0, 1, 1}
	upperCoupling.JA = []int{1}
	upperCoupling.Val = []float64{-1} // row2, col1
	blc.Set(1, 0, upperCoupling)

	lowerCoupling := NewCSR(2, 2, 1)
	lowerCoupling.IA = []int{0, 0, 1}
	lowerCoupling.JA = []int{0}
	lowerCoupling.Val = []float64{-1} // row1, col2
	blc.Set(0, 1, lowerCoupling)
	return blc
}

func TestCrossFormatMulVecAgree(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	want := make([]float64, 4)
	tridiagonal4CSR().MulVec(x, want)

	formats := map[string]Matrix{
		"COO": tridiagonal4COO(),
		"BSR": tridiagonal4BSR(),
		"STR": tridiagonal4STR(),
		"BLC": tridiagonal4BLC(),
	}
	for name, m := range formats {
		got := make([]float64, 4)
		m.MulVec(x, got)
		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Errorf("%s: y[%d] = %f, want %f", name, i, got[i], want[i])
			}
		}
	}
}

func TestCSRCheckCatchesMalformedIA(t *testing.T) {
	a := NewCSR(2, 2, 2)
	a.IA = []int{0, 1, 3} // ia[nrow] != nnz
	if err := a.Check(); err == nil {
		t.Fatal("expected Check to reject ia[nrow] != nnz")
	}
}

func TestSTRCheckRejectsZeroOffset(t *testing.T) {
	a := &STR{Nx: 2, Ny: 1, Nz: 1, Nc: 1, Diag: []float64{1, 1}, Bands: []Band{{Offset: 0, Val: []float64{1}}}}
	if err := a.Check(); err == nil {
		t.Fatal("expected Check to reject a zero band offset")
	}
}

func TestBLCCheckRejectsShapeMismatch(t *testing.T) {
	blc := NewBLC([]int{2}, []int{2})
	bad := NewCSR(3, 2, 0)
	blc.Set(0, 0, bad)
	if err := blc.Check(); err == nil {
		t.Fatal("expected Check to reject a block whose shape doesn't match its declared dimension")
	}
}
