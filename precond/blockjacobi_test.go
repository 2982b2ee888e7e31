package precond

import (
	"math"
	"testing"

	"krysolve/sparse"
)

// blockDiagonalBSR builds a 2-block-row BSR matrix with distinct 2x2
// diagonal blocks and no off-diagonal coupling, so block-Jacobi's
// inverse should exactly invert the whole operator.
func blockDiagonalBSR() *sparse.BSR {
	a := sparse.NewBSR(2, 2, 2, 2, sparse.RowMajor)
	a.IA = []int{0, 1, 2}
	a.JA = []int{0, 1}
	a.Val = []float64{
		2, 0, 0, 3, // block 0: diag(2,3)
		4, 0, 0, 5, // block 1: diag(4,5)
	}
	return a
}

func TestNewBlockJacobiInvertsDiagonalBlocks(t *testing.T) {
	a := blockDiagonalBSR()
	m, err := NewBlockJacobi(a)
	if err != nil {
		t.Fatalf("NewBlockJacobi failed: %v", err)
	}

	r := []float64{2, 3, 4, 5}
	z := make([]float64, 4)
	m.Apply(r, z)

	want := []float64{1, 1, 1, 1}
	for i := range want {
		if math.Abs(z[i]-want[i]) > 1e-10 {
			t.Errorf("z[%d] = %f, want %f", i, z[i], want[i])
		}
	}
}

func TestNewBlockJacobiRejectsNil(t *testing.T) {
	if _, err := NewBlockJacobi(nil); err == nil {
		t.Fatal("expected NewBlockJacobi(nil) to return an error")
	}
}

func TestNewBlockJacobiFallsBackOnMissingBlock(t *testing.T) {
	// Block row 1 has no stored (1,1) block at all.
	a := sparse.NewBSR(2, 2, 1, 2, sparse.RowMajor)
	a.IA = []int{0, 1, 1}
	a.JA = []int{0}
	a.Val = []float64{2, 0, 0, 3}

	m, err := NewBlockJacobi(a)
	if err != nil {
		t.Fatalf("NewBlockJacobi failed: %v", err)
	}
	r := []float64{2, 3, 7, 9}
	z := make([]float64, 4)
	m.Apply(r, z)
	// Block row 0 inverted normally; block row 1 falls back to identity.
	want := []float64{1, 1, 7, 9}
	for i := range want {
		if math.Abs(z[i]-want[i]) > 1e-10 {
			t.Errorf("z[%d] = %f, want %f", i, z[i], want[i])
		}
	}
}
