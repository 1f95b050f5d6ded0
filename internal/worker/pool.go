// Package worker provides a small generic worker pool for background
// jobs that should not block request handling.
package worker

import (
	"context"
	"sync"
)

type Job[T any] func(ctx context.Context) T

type Result[T any] struct {
	JobID  string
	Output T
}

// Pool runs submitted jobs on a fixed number of workers. Jobs receive
// the pool's base context so shutdown cancels in-flight work.
type Pool[T any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
}

type jobWrapper[T any] struct {
	id string
	fn Job[T]
}

func NewPool[T any](ctx context.Context, workerCount, bufferSize int) *Pool[T] {
	ctx, cancel := context.WithCancel(ctx)
	p := &Pool[T]{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			output := job.fn(p.ctx)
			select {
			case p.results <- Result[T]{JobID: job.id, Output: output}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Returns false if the pool is shutting down or
// the queue is full.
func (p *Pool[T]) Submit(id string, fn Job[T]) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- jobWrapper[T]{id: id, fn: fn}:
		return true
	default:
		return false
	}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Stop cancels in-flight jobs, waits for the workers to exit, and
// closes the results channel so consumers can drain and return.
func (p *Pool[T]) Stop() {
	p.cancel()
	p.wg.Wait()
	close(p.results)
}
