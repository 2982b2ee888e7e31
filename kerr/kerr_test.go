package kerr

import "testing"

func TestIsMatchesKind(t *testing.T) {
	err := New("krylov.CG", ErrBreakdown, 5, 1.23)
	if !Is(err, ErrBreakdown) {
		t.Error("Is should match the error's own kind")
	}
	if Is(err, ErrMaxIter) {
		t.Error("Is should not match a different kind")
	}
	if Is(nil, ErrBreakdown) {
		t.Error("Is should report false for a nil error")
	}
}

func TestErrorIncludesMessage(t *testing.T) {
	err := Newf("solver.Solve", ErrInputPar, 0, 0, "restart must be >= 1, got %d", 0)
	want := "solver.Solve: ErrInputPar at iter 0 (residual 0.000000e+00): restart must be >= 1, got 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindStringUnknown(t *testing.T) {
	if got := Kind(0).String(); got != "ErrUnknown" {
		t.Errorf("Kind(0).String() = %q, want ErrUnknown", got)
	}
}
