package krylov

import (
	"math"

	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
)

// GCR runs preconditioned Generalized Conjugate Residual with restart
// (spec §4.G.5), grounded directly on
// original_source/base/src/KryPgcr.c. It maintains orthogonal
// directions c_j = A z_j; at step i, beta = <c_i,r>/<c_i,c_i>,
// x += beta*z_i, r -= beta*c_i, tracking an implicit squared residual
// ||r||^2 - sum alpha^2/gamma that is re-measured explicitly whenever
// it drops below checktol = max(tol^2*||r0||^2, ||r||^2*1e-4).
func GCR(in Input) (Result, error) {
	const op = "krylov.GCR"
	n := len(in.B)
	x, b := in.X, in.B

	restart := in.Param.Restart
	if restart < 1 {
		restart = 1
	}
	if restart > in.Param.MaxIter && in.Param.MaxIter > 0 {
		restart = in.Param.MaxIter
	}

	z := make([][]float64, restart)
	c := make([][]float64, restart)
	h := make([][]float64, restart)
	for i := range z {
		z[i] = dvec.New(n)
		c[i] = dvec.New(n)
		h[i] = dvec.New(restart)
	}
	alp := dvec.New(restart)
	tmpx := dvec.New(restart)

	r := dvec.New(n)
	in.A.Apply(x, r)
	dvec.Axpby(1, b, -1, r)

	absres := dvec.Dot(r, r)
	absres0 := math.Max(itparam.SmallReal, absres)
	checktol := math.Max(in.Param.Tol*in.Param.Tol*absres0, absres*1e-4)

	mr := dvec.New(n)
	stop := newStopState(in.Param.StopType, b, r, in.M, mr)
	track := newStagnationTracker(math.Sqrt(absres0))

	// precInner returns <r, M^-1 r> for RelPrecRes and 0 otherwise.
	precInner := func() float64 {
		if in.Param.StopType != itparam.RelPrecRes {
			return 0
		}
		in.M.Apply(r, mr)
		return dvec.Dot(r, mr)
	}

	rep := newReporter(in)
	rel := stop.relative(math.Sqrt(absres), precInner(), dvec.Norm2(x))
	rep.report(0, rel)

	iter := 0
	for iter < in.Param.MaxIter && rel > in.Param.Tol {
		i := -1
		for i < restart-1 && iter < in.Param.MaxIter {
			i++
			iter++

			in.M.Apply(r, z[i])
			in.A.Apply(z[i], c[i])

			for j := 0; j < i; j++ {
				gamma := dvec.Dot(c[j], c[i])
				h[i][j] = gamma / h[j][j]
				dvec.Axpy(-h[i][j], c[j], c[i])
			}
			gamma := dvec.Dot(c[i], c[i])
			h[i][i] = gamma
			if math.Abs(gamma) < itparam.SmallReal {
				return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, math.Sqrt(math.Max(absres, 0)))
			}

			alpha := dvec.Dot(c[i], r)
			beta := alpha / gamma
			alp[i] = beta

			dvec.Axpy(-beta, c[i], r)
			absres -= alpha * alpha / gamma

			if absres < checktol {
				absres = dvec.Dot(r, r)
				checktol = math.Max(in.Param.Tol*in.Param.Tol*absres0, absres*1e-4)
			}
			if absres < 0 {
				absres = dvec.Dot(r, r)
			}

			rel = stop.relative(math.Sqrt(math.Max(absres, 0)), precInner(), dvec.Norm2(x))
			rep.report(iter, rel)

			if rel <= in.Param.Tol {
				break
			}
			if err := track.update(op, iter, math.Sqrt(math.Max(absres, 0))); err != nil {
				return Result{Iter: iter, Residual: rel, History: rep.history}, err
			}
		}

		for k := i; k >= 0; k-- {
			tmpx[k] = alp[k]
			for j := 0; j < k; j++ {
				alp[j] -= h[k][j] * tmpx[k]
			}
		}
		for k := 0; k <= i; k++ {
			dvec.Axpy(tmpx[k], z[k], x)
		}
	}

	finalRel := stop.relative(math.Sqrt(math.Max(absres, 0)), precInner(), dvec.Norm2(x))
	if iter >= in.Param.MaxIter && rel > in.Param.Tol {
		return Result{Iter: iter, Residual: finalRel, History: rep.history}, kerr.New(op, kerr.ErrMaxIter, iter, finalRel)
	}
	return Result{Iter: iter, Residual: finalRel, History: rep.history}, nil
}
