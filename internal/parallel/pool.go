// Package parallel provides the worker pool used for row-level and
// frame-level parallelism.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs batches of independent work items on a fixed set of
// goroutines.
//
// The goroutine calling ExecuteAll or For claims items from its own batch
// alongside the workers, so a batch always completes even when every worker
// is busy, and a work item may itself submit a batch to the same pool.
//
// A panic in a work item is re-raised on the calling goroutine once the
// rest of the batch has finished.
//
// WorkerPool is safe for concurrent use. Close must not run concurrently
// with ExecuteAll or For.
type WorkerPool struct {
	workers int
	helpers chan *batch
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// batch is one For call. Items are claimed by incrementing next.
type batch struct {
	n    int
	fn   func(i int)
	next atomic.Int64
	left sync.WaitGroup

	panicOnce sync.Once
	panicked  any
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		helpers: make(chan *batch, workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case b := <-p.helpers:
			b.drain()
		}
	}
}

// drain runs unclaimed items until none are left.
func (b *batch) drain() {
	for {
		i := int(b.next.Add(1) - 1)
		if i >= b.n {
			return
		}
		b.run(i)
	}
}

func (b *batch) run(i int) {
	defer b.left.Done()
	defer func() {
		if r := recover(); r != nil {
			b.panicOnce.Do(func() { b.panicked = r })
		}
	}()
	b.fn(i)
}

// For calls fn(i) for every i in [0, n) and returns when all calls are done.
// Calls run concurrently and in no particular order.
func (p *WorkerPool) For(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	b := &batch{n: n, fn: fn}
	b.left.Add(n)

	if p.running.Load() && n > 1 {
		helpers := min(n-1, p.workers)
	offer:
		for range helpers {
			select {
			case p.helpers <- b:
			default:
				break offer
			}
		}
	}
	b.drain()
	b.left.Wait()

	if b.panicked != nil {
		panic(fmt.Sprintf("parallel: work item panicked: %v", b.panicked))
	}
}

// ExecuteAll runs every work item and waits for all of them. Nil items are
// skipped. On a closed pool the items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	p.For(len(work), func(i int) {
		if fn := work[i]; fn != nil {
			fn()
		}
	})
}

// Close stops the workers. Batches already handed to a worker finish first.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still has live workers.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
