package parallel

import "sync"

// minRowsPerBand keeps bands large enough that scheduling cost stays small
// next to the per-row work.
const minRowsPerBand = 8

var (
	defaultOnce sync.Once
	defaultPool *WorkerPool
)

// Default returns the process-wide pool used for row-level parallelism
// inside a single image operation. It is created on first use with
// GOMAXPROCS workers and is never closed.
func Default() *WorkerPool {
	defaultOnce.Do(func() {
		defaultPool = NewWorkerPool(0)
	})
	return defaultPool
}

// Bands splits [0, n) into at most parts contiguous half-open ranges of
// at least minRowsPerBand items each (except possibly the last).
func Bands(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if maxParts := (n + minRowsPerBand - 1) / minRowsPerBand; parts > maxParts {
		parts = maxParts
	}

	size := (n + parts - 1) / parts
	bands := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		bands = append(bands, [2]int{lo, hi})
	}
	return bands
}

// ForRows calls fn for disjoint bands of [0, n) on pool and returns when
// every band is done. fn must only touch data belonging to its band.
// A nil pool uses Default.
func ForRows(pool *WorkerPool, n int, fn func(lo, hi int)) {
	if pool == nil {
		pool = Default()
	}
	bands := Bands(n, pool.Workers()*2)
	if len(bands) <= 1 {
		if len(bands) == 1 {
			fn(bands[0][0], bands[0][1])
		}
		return
	}

	pool.For(len(bands), func(i int) { fn(bands[i][0], bands[i][1]) })
}
