package sparse

import "krysolve/kerr"

// Band is one off-diagonal band of an STR matrix: Offset is the
// grid-stride distance from the main diagonal, Val has length
// (Ngrid - |Offset|) * Nc^2.
type Band struct {
	Offset int
	Val    []float64
}

// STR is the structured/banded container of spec §3, describing a
// regular 3-D grid (Nx, Ny, Nz) with Nc components per grid point.
// Diag has length Ngrid*Nc^2; each Band has length
// (Ngrid-|offset|)*Nc^2. Offsets are pairwise distinct and never zero.
type STR struct {
	Nx, Ny, Nz, Nc int
	Diag           []float64
	Bands          []Band
}

// Ngrid returns Nx*Ny*Nz.
func (a *STR) Ngrid() int { return a.Nx * a.Ny * a.Nz }

func (a *STR) Rows() int { return a.Ngrid() * a.Nc }
func (a *STR) Cols() int { return a.Ngrid() * a.Nc }

func (a *STR) NNZ() int {
	n := len(a.Diag)
	for _, b := range a.Bands {
		n += len(b.Val)
	}
	return n
}

// Check validates the STR invariants of spec §3: distinct nonzero
// offsets, exact band sizing.
func (a *STR) Check() error {
	ngrid := a.Ngrid()
	nc2 := a.Nc * a.Nc
	if len(a.Diag) != ngrid*nc2 {
		return kerr.Newf("sparse.STR.Check", kerr.ErrFormat, 0, 0, "diag length mismatch")
	}
	seen := make(map[int]bool, len(a.Bands))
	for _, b := range a.Bands {
		if b.Offset == 0 {
			return kerr.Newf("sparse.STR.Check", kerr.ErrFormat, 0, 0, "band offset must not be zero")
		}
		if seen[b.Offset] {
			return kerr.Newf("sparse.STR.Check", kerr.ErrFormat, 0, 0, "duplicate band offset %d", b.Offset)
		}
		seen[b.Offset] = true
		want := ngrid - abs(b.Offset)
		if want < 0 {
			want = 0
		}
		if len(b.Val) != want*nc2 {
			return kerr.Newf("sparse.STR.Check", kerr.ErrFormat, 0, 0, "band %d length mismatch", b.Offset)
		}
	}
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func (a *STR) MulVec(x, y []float64) {
	a.Axpy(1, x, 0, y)
}

// Axpy streams the main diagonal block then each off-diagonal band,
// shifting indices by offset grid points and clipping at boundaries
// (spec §4.D). A band whose |offset| >= ngrid contributes nothing,
// the open-boundary behavior spec §9(a) settles on.
func (a *STR) Axpy(alpha float64, x []float64, beta float64, y []float64) {
	ngrid := a.Ngrid()
	nc := a.Nc
	nc2 := nc * nc

	if beta == 0 {
		for i := range y {
			y[i] = 0
		}
	} else if beta != 1 {
		for i := range y {
			y[i] *= beta
		}
	}

	mulAdd := func(block []float64, xo, yo []float64, scale float64) {
		for r := 0; r < nc; r++ {
			var s float64
			row := block[r*nc : r*nc+nc]
			for c := 0; c < nc; c++ {
				s += row[c] * xo[c]
			}
			yo[r] += scale * s
		}
	}

	for g := 0; g < ngrid; g++ {
		block := a.Diag[g*nc2 : g*nc2+nc2]
		mulAdd(block, x[g*nc:g*nc+nc], y[g*nc:g*nc+nc], alpha)
	}

	for _, band := range a.Bands {
		off := band.Offset
		if abs(off) >= ngrid {
			continue
		}
		var gStart, gEnd int
		if off > 0 {
			gStart, gEnd = 0, ngrid-off
		} else {
			gStart, gEnd = -off, ngrid
		}
		for idx, g := 0, gStart; g < gEnd; idx, g = idx+1, g+1 {
			block := band.Val[idx*nc2 : idx*nc2+nc2]
			mulAdd(block, x[(g+off)*nc:(g+off)*nc+nc], y[g*nc:g*nc+nc], alpha)
		}
	}
}
