package krylov

import (
	"krysolve/dvec"
	"krysolve/itparam"
	"krysolve/kerr"
)

// GCG runs preconditioned Generalized Conjugate Gradient (spec
// §4.G.6): a CG-shaped short recurrence -- one search direction
// carried forward, no growing basis -- that drops CG's symmetric-A
// assumption while still requiring an SPD preconditioner M. Unlike CG,
// the A-conjugacy denominator <Ap,p> is not guaranteed positive when A
// is non-symmetric, so GCG treats a non-positive denominator as
// breakdown rather than dividing by it.
func GCG(in Input) (Result, error) {
	const op = "krylov.GCG"
	n := len(in.B)
	x, b := in.X, in.B

	r := dvec.New(n)
	z := dvec.New(n)
	p := dvec.New(n)
	ap := dvec.New(n)

	in.A.Apply(x, r)
	dvec.Axpby(1, b, -1, r)

	stop := newStopState(in.Param.StopType, b, r, in.M, z)
	track := newStagnationTracker(dvec.Norm2(r))

	rep := newReporter(in)

	in.M.Apply(r, z)
	copy(p, z)
	rzOld := dvec.Dot(r, z)

	rnorm := dvec.Norm2(r)
	rel := stop.relative(rnorm, rzOld, dvec.Norm2(x))
	rep.report(0, rel)
	if rel <= in.Param.Tol && in.Param.MinIter <= 0 {
		return Result{Iter: 0, Residual: rel, History: rep.history}, nil
	}

	for iter := 1; iter <= in.Param.MaxIter; iter++ {
		in.A.Apply(p, ap)
		pAp := dvec.Dot(p, ap)
		if pAp <= itparam.SmallReal {
			return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}
		alpha := rzOld / pAp

		dvec.Axpy(alpha, p, x)
		dvec.Axpy(-alpha, ap, r)

		rnorm = dvec.Norm2(r)
		in.M.Apply(r, z)
		rzNew := dvec.Dot(r, z)
		rel = stop.relative(rnorm, rzNew, dvec.Norm2(x))
		rep.report(iter, rel)

		if rel <= in.Param.Tol && iter >= in.Param.MinIter {
			return Result{Iter: iter, Residual: rel, History: rep.history}, nil
		}
		if err := track.update(op, iter, rnorm); err != nil {
			return Result{Iter: iter, Residual: rel, History: rep.history}, err
		}
		if rzOld == 0 {
			return Result{Iter: iter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrBreakdown, iter, rnorm)
		}

		beta := rzNew / rzOld
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rzOld = rzNew
	}
	return Result{Iter: in.Param.MaxIter, Residual: rel, History: rep.history}, kerr.New(op, kerr.ErrMaxIter, in.Param.MaxIter, rel)
}
