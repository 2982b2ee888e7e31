package krylov

import (
	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
)

// CG runs classical preconditioned Conjugate Gradient (spec §4.G.1).
// Requires A and M symmetric positive-definite. State: r, z, p, Ap.
func CG(in Input) (Result, error) {
	const op = "krylov.CG"
	n := len(in.B)
	x, b := in.X, in.B
	r := dvec.New(n)
	z := dvec.New(n)
	p := dvec.New(n)
	ap := dvec.New(n)

	in.A.Apply(x, r) // r = A x
	dvec.Axpby(1, b, -1, r)

	stop := newStopState(in.Param.StopType, b, r, in.M, z)
	track := newStagnationTracker(dvec.Norm2(r))

	rep := newReporter(in)

	in.M.Apply(r, z)
	copy(p, z)
	rho := dvec.Dot(r, z)

	rnorm := dvec.Norm2(r)
	rel := stop.relative(rnorm, rho, dvec.Norm2(x))
	rep.report(0, rel)
	if rel <= in.Param.Tol && 0 >= in.Param.MinIter {
		return Result{Iter: 0, Residual: rel, History: rep.history}, nil
	}

	for iter := 1; iter <= in.Param.MaxIter; iter++ {
		in.A.Apply(p, ap)
		pAp := dvec.Dot(p, ap)
		if pAp == 0 || absf(pAp) < itparam.SmallReal {
			return Result{Iter: iter, Residual: rel, History: rep.history},
				kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}
		alpha := rho / pAp

		dvec.Axpy(alpha, p, x)
		dvec.Axpy(-alpha, ap, r)

		rnorm = dvec.Norm2(r)
		in.M.Apply(r, z)
		rhoNew := dvec.Dot(r, z)
		rel = stop.relative(rnorm, rhoNew, dvec.Norm2(x))
		rep.report(iter, rel)

		if rel <= in.Param.Tol && iter >= in.Param.MinIter {
			return Result{Iter: iter, Residual: rel, History: rep.history}, nil
		}
		if err := track.update(op, iter, rnorm); err != nil {
			return Result{Iter: iter, Residual: rel, History: rep.history}, err
		}

		beta := rhoNew / rho
		// p = z + beta*p
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rho = rhoNew
	}
	return Result{Iter: in.Param.MaxIter, Residual: rel, History: rep.history},
		kerr.New(op, kerr.ErrMaxIter, in.Param.MaxIter, rel)
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
