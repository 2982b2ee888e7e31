package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestRangeCoversEveryIndexExactlyOnce(t *testing.T) {
	prev := Workers()
	SetWorkers(4)
	defer SetWorkers(prev)

	n := 20000
	var hits [20000]int32
	Range(n, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestRangeSmallRunsInline(t *testing.T) {
	prev := Workers()
	SetWorkers(8)
	defer SetWorkers(prev)

	n := 10 // well below minChunk
	sum := 0
	Range(n, func(start, end int) {
		for i := start; i < end; i++ {
			sum += i
		}
	})
	if sum != 45 {
		t.Errorf("sum = %d, want 45", sum)
	}
}

func TestReduceFloat64MatchesSerial(t *testing.T) {
	prev := Workers()
	SetWorkers(5)
	defer SetWorkers(prev)

	n := 50000
	var serial float64
	got := ReduceFloat64(n, func(start, end int) float64 {
		var s float64
		for i := start; i < end; i++ {
			s += float64(i)
		}
		return s
	}, func(acc, partial float64) float64 { return acc + partial }, 0)

	for i := 0; i < n; i++ {
		serial += float64(i)
	}
	if got != serial {
		t.Errorf("ReduceFloat64 = %f, want %f", got, serial)
	}
}

func TestSetWorkersFloorsAtOne(t *testing.T) {
	prev := Workers()
	defer SetWorkers(prev)

	SetWorkers(0)
	if Workers() != 1 {
		t.Errorf("SetWorkers(0) left Workers() = %d, want 1", Workers())
	}
	SetWorkers(-5)
	if Workers() != 1 {
		t.Errorf("SetWorkers(-5) left Workers() = %d, want 1", Workers())
	}
}
