package krylov

import (
	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
)

// BiCGStab runs preconditioned BiCGStab (spec §4.G.2): a shadow
// residual r_hat0 = r0 is fixed for the whole solve. On breakdown it
// returns ErrBreakdown immediately; VBiCGStab is the variant that
// retries once with a fresh shadow vector.
func BiCGStab(in Input) (Result, error) {
	return bicgstab(in, false)
}

// VBiCGStab is BiCGStab with a single restart-with-fresh-shadow-vector
// recovery attempt on breakdown, per spec §4.G.2.
func VBiCGStab(in Input) (Result, error) {
	return bicgstab(in, true)
}

func bicgstab(in Input, variableRestart bool) (Result, error) {
	const op = "krylov.BiCGStab"
	n := len(in.B)
	x, b := in.X, in.B

	r := dvec.New(n)
	rhat := dvec.New(n)
	p := dvec.New(n)
	v := dvec.New(n)
	s := dvec.New(n)
	t := dvec.New(n)
	phat := dvec.New(n)
	shat := dvec.New(n)

	in.A.Apply(x, r)
	dvec.Axpby(1, b, -1, r)
	copy(rhat, r)

	stop := newStopState(in.Param.StopType, b, r, in.M, phat)
	track := newStagnationTracker(dvec.Norm2(r))

	// precInner returns <u, M^-1 u> for RelPrecRes and 0 otherwise.
	mu := dvec.New(n)
	precInner := func(u []float64) float64 {
		if in.Param.StopType != itparam.RelPrecRes {
			return 0
		}
		in.M.Apply(u, mu)
		return dvec.Dot(u, mu)
	}

	rep := newReporter(in)

	rnorm := dvec.Norm2(r)
	rel := stop.relative(rnorm, precInner(r), dvec.Norm2(x))
	rep.report(0, rel)
	if rel <= in.Param.Tol && in.Param.MinIter <= 0 {
		return Result{Iter: 0, Residual: rel, History: rep.history}, nil
	}

	rho, alpha, omega := 1.0, 1.0, 1.0
	restarted := false

	for iter := 1; iter <= in.Param.MaxIter; iter++ {
		rhoNew := dvec.Dot(rhat, r)
		if absf(rhoNew) < itparam.SmallReal {
			if variableRestart && !restarted {
				copy(rhat, r)
				rho, alpha, omega = 1, 1, 1
				dvec.Zero(v)
				dvec.Zero(p)
				restarted = true
				rhoNew = dvec.Dot(rhat, r)
				if absf(rhoNew) < itparam.SmallReal {
					return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
				}
			} else {
				return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
			}
		}

		beta := (rhoNew / rho) * (alpha / omega)
		// p = r + beta*(p - omega*v)
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		in.M.Apply(p, phat)
		in.A.Apply(phat, v)

		rhatV := dvec.Dot(rhat, v)
		if absf(rhatV) < itparam.SmallReal {
			return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}
		alpha = rhoNew / rhatV

		// s = r - alpha*v
		copy(s, r)
		dvec.Axpy(-alpha, v, s)

		snorm := dvec.Norm2(s)
		srel := stop.relative(snorm, precInner(s), dvec.Norm2(x))
		if srel <= in.Param.Tol && iter >= in.Param.MinIter {
			dvec.Axpy(alpha, phat, x)
			rep.report(iter, srel)
			return Result{Iter: iter, Residual: srel, History: rep.history}, nil
		}

		in.M.Apply(s, shat)
		in.A.Apply(shat, t)

		tt := dvec.Dot(t, t)
		if tt < itparam.SmallReal {
			if variableRestart && !restarted {
				copy(rhat, r)
				rho, alpha, omega = 1, 1, 1
				dvec.Zero(v)
				dvec.Zero(p)
				restarted = true
				continue
			}
			return Result{Iter: iter, Residual: srel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, snorm)
		}
		omega = dvec.Dot(t, s) / tt

		dvec.Axpy(alpha, phat, x)
		dvec.Axpy(omega, shat, x)

		copy(r, s)
		dvec.Axpy(-omega, t, r)

		rnorm = dvec.Norm2(r)
		rel = stop.relative(rnorm, precInner(r), dvec.Norm2(x))
		rep.report(iter, rel)

		if rel <= in.Param.Tol && iter >= in.Param.MinIter {
			return Result{Iter: iter, Residual: rel, History: rep.history}, nil
		}
		if err := track.update(op, iter, rnorm); err != nil {
			return Result{Iter: iter, Residual: rel, History: rep.history}, err
		}
		if absf(omega) < itparam.SmallReal {
			return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}

		rho = rhoNew
	}
	return Result{Iter: in.Param.MaxIter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrMaxIter, in.Param.MaxIter, rel)
}
