// Package workerpool provides the fork-join data-parallel helper used
// by dense BLAS-1 primitives and sparse mat-vec kernels (spec §5).
// There are no suspension points and no blocking I/O inside a solve,
// so a simple goroutine fan-out over index ranges is sufficient; this
// replaces the OpenMP "#ifdef _OPENMP" guard in
// original_source/base/src/itsolver_csr_omp.c with a process-scoped
// worker count that defaults to single-threaded execution when unset,
// matching the C fallback behavior when OpenMP is compiled out.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var workers atomic.Int64

// SetWorkers sets the process-scoped worker count used by parallel
// kernels. n <= 1 forces single-threaded execution. Safe to call
// concurrently with running solves; it only affects kernels started
// afterward.
func SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	workers.Store(int64(n))
}

// Workers returns the current worker count. It defaults to
// runtime.GOMAXPROCS(0) the first time it is read, never to 0.
func Workers() int {
	n := workers.Load()
	if n == 0 {
		n = int64(runtime.GOMAXPROCS(0))
		workers.Store(n)
	}
	return int(n)
}

// minChunk is the smallest problem size worth splitting across
// goroutines; below it, fork-join overhead dominates.
const minChunk = 4096

// Range calls fn(start, end) for each of Workers() contiguous chunks
// covering [0, n), blocking until every chunk has run. For n below
// minChunk, or when Workers() <= 1, fn runs once inline with no
// goroutines spawned, keeping ordering and reduction deterministic for
// small or single-threaded runs.
func Range(n int, fn func(start, end int)) {
	RangeIndexed(n, func(_, start, end int) { fn(start, end) })
}

// RangeIndexed is Range with a chunk index (0-based, < Workers())
// passed alongside each [start, end) range. A kernel that needs its
// own per-chunk scratch space can preallocate a single Workers()-sized
// buffer before calling RangeIndexed and slice into it by chunkIdx,
// instead of allocating inside the callback on every chunk.
func RangeIndexed(n int, fn func(chunkIdx, start, end int)) {
	if n <= 0 {
		return
	}
	w := Workers()
	if w <= 1 || n < minChunk {
		fn(0, 0, n)
		return
	}
	if w > n {
		w = n
	}
	chunk := (n + w - 1) / w
	var wg sync.WaitGroup
	idx := 0
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(idx, start, end int) {
			defer wg.Done()
			fn(idx, start, end)
		}(idx, start, end)
		idx++
	}
	wg.Wait()
}

// ReduceFloat64 is Range specialized for a parallel reduction (e.g.
// dot product, 2-norm accumulation): each chunk computes a partial
// float64 via fn, and the partials are combined serially with combine
// in chunk order, which keeps the reduction order deterministic for a
// fixed worker count — as required by spec §5 ("results must match
// serial execution to within O(n*eps)").
func ReduceFloat64(n int, fn func(start, end int) float64, combine func(acc, partial float64) float64, init float64) float64 {
	if n <= 0 {
		return init
	}
	w := Workers()
	if w <= 1 || n < minChunk {
		return combine(init, fn(0, n))
	}
	if w > n {
		w = n
	}
	chunk := (n + w - 1) / w
	nchunks := (n + chunk - 1) / chunk
	partials := make([]float64, nchunks)
	var wg sync.WaitGroup
	for i := 0; i < nchunks; i++ {
		start := i * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(i, start, end int) {
			defer wg.Done()
			partials[i] = fn(start, end)
		}(i, start, end)
	}
	wg.Wait()
	acc := init
	for _, part := range partials {
		acc = combine(acc, part)
	}
	return acc
}
