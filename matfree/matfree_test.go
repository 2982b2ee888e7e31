package matfree

import (
	"math"
	"testing"

	"krysolve/sparse"
)

func smallCSR() *sparse.CSR {
	a := sparse.NewCSR(2, 2, 3)
	a.IA = []int{0, 2, 3}
	a.JA = []int{0, 1, 1}
	a.Val = []float64{2, -1, 3}
	return a
}

func TestBindMatchesMatrixMulVec(t *testing.T) {
	a := smallCSR()
	op := Bind(a)
	if op.Rows != 2 || op.Cols != 2 {
		t.Fatalf("Bind shape = %dx%d, want 2x2", op.Rows, op.Cols)
	}
	x := []float64{1, 2}
	want := make([]float64, 2)
	got := make([]float64, 2)
	a.MulVec(x, want)
	op.Apply(x, got)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("op.Apply[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestBindCSRLMatchesCSR(t *testing.T) {
	a := smallCSR()
	l := sparse.NewCSRL(a)
	op := BindCSRL(l)
	x := []float64{1, 2}
	want := make([]float64, 2)
	got := make([]float64, 2)
	a.MulVec(x, want)
	op.Apply(x, got)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("BindCSRL[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestBindFunc(t *testing.T) {
	op := BindFunc(3, 3, func(x, y []float64) {
		for i := range y {
			y[i] = 2 * x[i]
		}
	})
	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	op.MulVec(x, y)
	want := []float64{2, 4, 6}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %f, want %f", i, y[i], want[i])
		}
	}
}
