package solver

import (
	"math"
	"testing"

	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
	"krysolve/matfree"
	"krysolve/precond"
	"krysolve/solvelog"
	"krysolve/sparse"
)

func poisson1D(n int) *sparse.CSR {
	nnz := 3*n - 2
	a := sparse.NewCSR(n, n, nnz)
	k := 0
	for i := 0; i < n; i++ {
		a.IA[i] = k
		if i > 0 {
			a.JA[k], a.Val[k] = i-1, -1
			k++
		}
		a.JA[k], a.Val[k] = i, 2
		k++
		if i < n-1 {
			a.JA[k], a.Val[k] = i+1, -1
			k++
		}
	}
	a.IA[n] = k
	return a
}

func TestSolveDispatchesCG(t *testing.T) {
	n := 30
	a := poisson1D(n)
	b := make([]float64, n)
	dvec.Fill(b, 1)
	x := dvec.New(n)

	res, err := Solve(a, b, x, nil, itparam.New(itparam.WithMaxIter(500), itparam.WithTol(1e-10)), solvelog.New(itparam.PrintNone, nil))
	if err != nil {
		t.Fatalf("Solve(CG) returned error: %v", err)
	}
	if res.Residual > 1e-10 {
		t.Errorf("Solve(CG) residual %e exceeds tolerance", res.Residual)
	}

	r := make([]float64, n)
	a.MulVec(x, r)
	dvec.Axpby(1, b, -1, r)
	if dvec.Norm2(r)/dvec.Norm2(b) > 1e-8 {
		t.Errorf("returned x does not solve Ax=b: residual %e", dvec.Norm2(r)/dvec.Norm2(b))
	}
}

func TestSolveRejectsDimensionMismatch(t *testing.T) {
	a := poisson1D(5)
	b := make([]float64, 5)
	x := make([]float64, 4) // wrong length
	_, err := Solve(a, b, x, nil, itparam.Default(), solvelog.New(itparam.PrintNone, nil))
	if !kerr.Is(err, kerr.ErrInputPar) {
		t.Fatalf("expected ErrInputPar for mismatched dimensions, got %v", err)
	}
}

func TestSolveRejectsUnknownSolverKind(t *testing.T) {
	a := poisson1D(5)
	b := make([]float64, 5)
	x := make([]float64, 5)
	param := itparam.New(itparam.WithSolverKind(itparam.SolverKind(999)))
	_, err := Solve(a, b, x, nil, param, solvelog.New(itparam.PrintNone, nil))
	if !kerr.Is(err, kerr.ErrSolverType) {
		t.Fatalf("expected ErrSolverType for an unregistered solver kind, got %v", err)
	}
}

func TestSolveRejectsInvalidParam(t *testing.T) {
	a := poisson1D(5)
	b := make([]float64, 5)
	x := make([]float64, 5)
	param := itparam.New(itparam.WithTol(0))
	_, err := Solve(a, b, x, nil, param, solvelog.New(itparam.PrintNone, nil))
	if !kerr.Is(err, kerr.ErrInputPar) {
		t.Fatalf("expected ErrInputPar for tol=0, got %v", err)
	}
}

func TestSolveFreeMatchesSolve(t *testing.T) {
	n := 20
	a := poisson1D(n)
	b := make([]float64, n)
	dvec.Fill(b, 1)
	x1 := dvec.New(n)
	x2 := dvec.New(n)

	param := itparam.New(itparam.WithMaxIter(500), itparam.WithTol(1e-10))
	if _, err := Solve(a, b, x1, precond.Identity(), param, solvelog.New(itparam.PrintNone, nil)); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	op := matfree.Bind(a)
	if _, err := SolveFree(op, b, x2, precond.Identity(), param, solvelog.New(itparam.PrintNone, nil)); err != nil {
		t.Fatalf("SolveFree failed: %v", err)
	}

	for i := range x1 {
		if math.Abs(x1[i]-x2[i]) > 1e-8 {
			t.Errorf("Solve and SolveFree disagree at %d: %f vs %f", i, x1[i], x2[i])
		}
	}
}
