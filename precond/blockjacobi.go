package precond

import (
	"gonum.org/v1/gonum/mat"

	"krysolve/kerr"
	"krysolve/sparse"
)

// blockJacobi is M = block-diag(A), one dense nb x nb block per
// block-row, each pre-factored and applied via gonum.org/v1/gonum/mat
// instead of hand-rolled small-matrix algebra.
type blockJacobi struct {
	nb      int
	inverse []*mat.Dense // one nb x nb inverse per block row
}

// NewBlockJacobi extracts a's block-diagonal (the (i,i) block of each
// block row) and inverts every block with gonum/mat, the dense-algebra
// library the rest of the pack reaches for in place of hand-rolled
// 3x3/4x4 solves. A block row with no stored diagonal block, or whose
// diagonal block is singular, falls back to the identity block so
// Apply never has to special-case a missing factor.
func NewBlockJacobi(a *sparse.BSR) (Precond, error) {
	if a == nil {
		return nil, kerr.Newf("precond.NewBlockJacobi", kerr.ErrInputPar, 0, 0, "nil BSR matrix")
	}
	nb := a.Nb
	inverse := make([]*mat.Dense, a.ROW)
	for bi := 0; bi < a.ROW; bi++ {
		block := diagBlockDense(a, bi)
		if block == nil {
			inverse[bi] = identityDense(nb)
			continue
		}
		inv := mat.NewDense(nb, nb, nil)
		if err := inv.Inverse(block); err != nil {
			inverse[bi] = identityDense(nb)
			continue
		}
		inverse[bi] = inv
	}
	return &blockJacobi{nb: nb, inverse: inverse}, nil
}

func identityDense(nb int) *mat.Dense {
	d := mat.NewDense(nb, nb, nil)
	for i := 0; i < nb; i++ {
		d.Set(i, i, 1)
	}
	return d
}

// diagBlockDense builds a dense gonum matrix from block row bi's
// (bi,bi) stored block, honoring the BSR storage manner, or returns
// nil if no such block is stored.
func diagBlockDense(a *sparse.BSR, bi int) *mat.Dense {
	nb := a.Nb
	for k := a.IA[bi]; k < a.IA[bi+1]; k++ {
		if a.JA[k] != bi {
			continue
		}
		raw := a.Val[k*nb*nb : (k+1)*nb*nb]
		d := mat.NewDense(nb, nb, nil)
		if a.Manner == sparse.RowMajor {
			for r := 0; r < nb; r++ {
				for c := 0; c < nb; c++ {
					d.Set(r, c, raw[r*nb+c])
				}
			}
		} else {
			for c := 0; c < nb; c++ {
				for r := 0; r < nb; r++ {
					d.Set(r, c, raw[c*nb+r])
				}
			}
		}
		return d
	}
	return nil
}

// Apply computes z <- block-diag(A)^-1 r, one dense mat-vec per block
// row against that row's pre-factored inverse.
func (j *blockJacobi) Apply(r, z []float64) {
	nb := j.nb
	for bi, inv := range j.inverse {
		ro := bi * nb
		x := mat.NewVecDense(nb, r[ro:ro+nb])
		var y mat.VecDense
		y.MulVec(inv, x)
		for k := 0; k < nb; k++ {
			z[ro+k] = y.AtVec(k)
		}
	}
}
