package sph

import (
	"runtime"
	"sync"
)

// Policy selects serial or parallel execution for a particle dynamic.
type Policy int

const (
	Serial Policy = iota
	Parallel
)

// minChunk is the smallest particle range worth handing to a worker.
const minChunk = 256

// ParallelFor executes fn over disjoint sub-ranges of [0, n). With the
// Serial policy, or for small n, it runs inline. Workers never overlap, so
// fn may write per-index data without synchronization.
func ParallelFor(policy Policy, n int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if policy == Serial || n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ReduceMin evaluates fn over [0, n) and returns the minimum. Partial
// minima are combined per worker, so the result is independent of the
// worker count.
func ReduceMin(policy Policy, n int, init float64, fn func(i int) float64) float64 {
	workers := runtime.NumCPU()
	if policy == Serial || n <= minChunk || workers <= 1 {
		min := init
		for i := 0; i < n; i++ {
			if v := fn(i); v < min {
				min = v
			}
		}
		return min
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(w, s, e int) {
			defer wg.Done()
			min := init
			for i := s; i < e; i++ {
				if v := fn(i); v < min {
					min = v
				}
			}
			partial[w] = min
		}(w, start, end)
	}
	wg.Wait()

	min := init
	for _, v := range partial {
		if v < min {
			min = v
		}
	}
	return min
}

// ReduceMax is the mirror of ReduceMin.
func ReduceMax(policy Policy, n int, init float64, fn func(i int) float64) float64 {
	return -ReduceMin(policy, n, -init, func(i int) float64 { return -fn(i) })
}

// ReduceSum evaluates fn over [0, n) and sums the results. Floating-point
// rounding may differ across worker counts; reproducibility is guaranteed
// only for a fixed worker count and particle order.
func ReduceSum(policy Policy, n int, fn func(i int) float64) float64 {
	workers := runtime.NumCPU()
	if policy == Serial || n <= minChunk || workers <= 1 {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += fn(i)
		}
		return sum
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunk := (n + workers - 1) / workers
	partial := make([]float64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(w, s, e int) {
			defer wg.Done()
			sum := 0.0
			for i := s; i < e; i++ {
				sum += fn(i)
			}
			partial[w] = sum
		}(w, start, end)
	}
	wg.Wait()

	sum := 0.0
	for _, v := range partial {
		sum += v
	}
	return sum
}
