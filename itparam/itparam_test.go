package itparam

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate cleanly, got %v", err)
	}
}

func TestValidateRejectsNonPositiveTol(t *testing.T) {
	p := New(WithTol(0))
	if err := p.Validate(); err == nil {
		t.Fatal("expected Validate to reject tol=0")
	}
}

func TestValidateRejectsNegativeMaxIter(t *testing.T) {
	p := New(WithMaxIter(-1))
	if err := p.Validate(); err == nil {
		t.Fatal("expected Validate to reject a negative max_iter")
	}
}

func TestValidateRequiresRestartForGMRESFamily(t *testing.T) {
	p := New(WithSolverKind(GMRES), WithRestart(0))
	if err := p.Validate(); err == nil {
		t.Fatal("expected Validate to reject restart=0 for GMRES")
	}
	p = New(WithSolverKind(CG), WithRestart(0))
	if err := p.Validate(); err != nil {
		t.Errorf("CG shouldn't require a restart length, got %v", err)
	}
}

func TestSolverKindString(t *testing.T) {
	cases := map[SolverKind]string{
		CG: "CG", GMRES: "GMRES", GCG: "GCG", SolverKind(-1): "Unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
