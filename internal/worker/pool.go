package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing one result of type R
type Job[R any] func(ctx context.Context) R

// Pool runs jobs across a fixed set of workers and collects their
// results. Submit every job before calling Wait; the pool is one-shot.
type Pool[R any] struct {
	workers   int
	jobs      chan Job[R]
	results   chan R
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool of the given width. Cancelling ctx stops the
// workers between jobs.
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[R]{
		workers: workers,
		jobs:    make(chan Job[R], workers*2), // Buffered to absorb submission bursts
		results: make(chan R, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		// Check cancellation first: a cancelled pool must not start
		// another job even when one is already queued.
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job for execution. Submissions after Shutdown or
// cancellation are dropped; submissions after Wait are not allowed.
func (p *Pool[R]) Submit(job Job[R]) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, lets the workers drain it and returns every
// collected result.
func (p *Pool[R]) Wait() []R {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []R
	for result := range p.results {
		results = append(results, result)
	}

	p.cancel()
	return results
}

// Shutdown cancels outstanding work and releases the workers.
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
