package krylov

import (
	"math"

	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
)

// MinRes runs preconditioned MINRES (spec §4.G.3) for symmetric
// indefinite systems: a three-term Lanczos recurrence with a Givens
// rotation applied incrementally to the tridiagonal, following the
// Paige-Saunders formulation (as implemented by, e.g., SciPy's
// minres). Requires A symmetric and M symmetric positive-definite.
func MinRes(in Input) (Result, error) {
	const op = "krylov.MinRes"
	n := len(in.B)
	x, b := in.X, in.B

	r1 := dvec.New(n)
	in.A.Apply(x, r1)
	dvec.Axpby(1, b, -1, r1)

	y := dvec.New(n)
	in.M.Apply(r1, y)

	beta1 := math.Sqrt(math.Max(dvec.Dot(r1, y), 0))
	if beta1 == 0 {
		return Result{Iter: 0, Residual: 0}, nil
	}

	stop := newStopState(in.Param.StopType, b, r1, in.M, dvec.New(n))
	track := newStagnationTracker(beta1)

	rep := newReporter(in)

	oldb := 0.0
	beta := beta1
	dbar := 0.0
	epsln := 0.0
	phibar := beta1
	cs, sn := -1.0, 0.0

	r2 := make([]float64, n)
	copy(r2, r1)
	w := dvec.New(n)
	w1 := dvec.New(n)
	w2 := dvec.New(n)
	v := dvec.New(n)

	rel := stop.relative(phibar, phibar*phibar, dvec.Norm2(x))
	rep.report(0, rel)
	if rel <= in.Param.Tol && in.Param.MinIter <= 0 {
		return Result{Iter: 0, Residual: rel, History: rep.history}, nil
	}

	for iter := 1; iter <= in.Param.MaxIter; iter++ {
		s := 1 / beta
		for i := range v {
			v[i] = s * y[i]
		}

		in.A.Apply(v, y)
		if iter >= 2 {
			dvec.Axpy(-beta/oldb, r1, y)
		}
		alfa := dvec.Dot(v, y)
		dvec.Axpy(-alfa/beta, r2, y)

		copy(r1, r2)
		copy(r2, y)
		in.M.Apply(r2, y)

		oldb = beta
		beta = math.Sqrt(math.Max(dvec.Dot(r2, y), 0))

		oldeps := epsln
		delta := cs*dbar + sn*alfa
		gbar := sn*dbar - cs*alfa
		epsln = sn * beta
		dbar = -cs * beta

		gamma := math.Sqrt(gbar*gbar + beta*beta)
		if gamma < itparam.SmallReal {
			gamma = itparam.SmallReal
		}
		cs = gbar / gamma
		sn = beta / gamma
		phi := cs * phibar
		phibar = sn * phibar

		denom := 1 / gamma
		w1, w2 = w2, w1
		copy(w1, w)
		for i := range w {
			w[i] = (v[i] - oldeps*w1[i] - delta*w2[i]) * denom
		}
		dvec.Axpy(phi, w, x)

		rnorm := math.Abs(phibar)
		rel = stop.relative(rnorm, rnorm*rnorm, dvec.Norm2(x))
		rep.report(iter, rel)

		if rel <= in.Param.Tol && iter >= in.Param.MinIter {
			return Result{Iter: iter, Residual: rel, History: rep.history}, nil
		}
		if err := track.update(op, iter, rnorm); err != nil {
			return Result{Iter: iter, Residual: rel, History: rep.history}, err
		}
		if beta < itparam.SmallReal {
			return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}
	}
	return Result{Iter: in.Param.MaxIter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrMaxIter, in.Param.MaxIter, rel)
}
