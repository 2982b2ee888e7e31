package precond

import (
	"math"
	"testing"
)

func TestIdentityIsNoOp(t *testing.T) {
	r := []float64{1, -2, 3.5}
	z := make([]float64, 3)
	Identity().Apply(r, z)
	for i := range r {
		if z[i] != r[i] {
			t.Errorf("z[%d] = %f, want %f", i, z[i], r[i])
		}
	}
}

func TestJacobiInverts(t *testing.T) {
	diag := []float64{2, 4, 0}
	m := NewJacobi(diag)
	r := []float64{2, 4, 5}
	z := make([]float64, 3)
	m.Apply(r, z)
	want := []float64{1, 1, 5} // zero diagonal entry falls back to identity scaling
	for i := range want {
		if math.Abs(z[i]-want[i]) > 1e-12 {
			t.Errorf("z[%d] = %f, want %f", i, z[i], want[i])
		}
	}
}

func TestFuncAdapter(t *testing.T) {
	var called bool
	f := Func(func(r, z []float64) {
		called = true
		copy(z, r)
	})
	r := []float64{1, 2}
	z := make([]float64, 2)
	f.Apply(r, z)
	if !called {
		t.Error("Func.Apply did not invoke the wrapped function")
	}
	if z[0] != 1 || z[1] != 2 {
		t.Errorf("z = %v, want [1 2]", z)
	}
}
