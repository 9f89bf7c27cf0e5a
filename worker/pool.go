// Package worker runs pipeline executions off the UI goroutine so the
// shell stays responsive. One run at a time: a trigger that arrives while
// a run is in flight is dropped, not queued behind it.
package worker

import (
	"sync"
	"sync/atomic"
)

type Job func()

type Pool struct {
	jobs     chan Job
	inFlight atomic.Int32
	limit    int32
	wg       sync.WaitGroup
}

// New creates a pool of size workers. Size defaults to 1; the pipeline is
// not safe for concurrent runs against the same output directory within
// one clock tick.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan Job, size), limit: int32(size)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				j()
				p.inFlight.Add(-1)
			}
		}()
	}
}

// Submit hands the job to an idle worker. Returns false while every worker
// is still running a job; the slot frees only when that job finishes, so
// nothing ever queues behind an active run.
func (p *Pool) Submit(j Job) bool {
	for {
		n := p.inFlight.Load()
		if n >= p.limit {
			return false
		}
		if p.inFlight.CompareAndSwap(n, n+1) {
			break
		}
	}
	p.jobs <- j
	return true
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
