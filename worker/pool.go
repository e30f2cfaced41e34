package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoHandler is reported for every job when the pool has no handler.
var ErrNoHandler = errors.New("worker: no handler configured")

// Handler processes one payload.
type Handler[T any] func(ctx context.Context, payload []byte) (T, error)

// Job is one unit of work.
type Job struct {
	// Index identifies the job to the caller, typically its input position.
	Index int

	// Payload is handed to the handler unchanged.
	Payload []byte
}

// Result is the outcome of one Job.
type Result[T any] struct {
	Index    int
	Value    T
	Err      error
	Duration time.Duration
}

// Pool runs a Handler on a fixed number of goroutines. Results must be
// drained while jobs are submitted; Results is closed after Close once
// every submitted job has finished.
type Pool[T any] struct {
	workers int
	handler Handler[T]
	jobs    chan Job
	results chan Result[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu     sync.RWMutex // guards closed against sends on jobs
	closed bool

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	jobsFailed    atomic.Uint64
	totalDuration atomic.Int64
}

// NewPool starts a pool with the given number of workers. If workers <= 0,
// it defaults to runtime.NumCPU(). Cancelling ctx makes pending jobs fail
// with the context's error.
func NewPool[T any](ctx context.Context, handler Handler[T], workers int) *Pool[T] {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(ctx)

	p := &Pool[T]{
		workers: workers,
		handler: handler,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result[T], workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Submit queues a job, blocking while the queue is full. It returns false
// if the pool is closed or its context is done.
func (p *Pool[T]) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.ctx.Err() != nil {
		return false
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		p.jobsSubmitted.Add(1)
		return true
	}
}

// Results returns the channel results are delivered on.
func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops accepting jobs, waits for submitted jobs to finish and then
// closes Results. It is safe to call more than once.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	go func() {
		p.wg.Wait()
		close(p.results)
		p.cancel()
	}()
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		r := p.process(job)
		p.jobsCompleted.Add(1)
		p.totalDuration.Add(int64(r.Duration))
		if r.Err != nil {
			p.jobsFailed.Add(1)
		}
		p.results <- r
	}
}

func (p *Pool[T]) process(job Job) Result[T] {
	start := time.Now()
	r := Result[T]{Index: job.Index}

	switch {
	case p.handler == nil:
		r.Err = ErrNoHandler
	case p.ctx.Err() != nil:
		r.Err = p.ctx.Err()
	default:
		r.Value, r.Err = p.handler(p.ctx, job.Payload)
	}

	r.Duration = time.Since(start)
	return r
}

// Stats contains pool statistics.
type Stats struct {
	Workers       int
	JobsSubmitted uint64
	JobsCompleted uint64
	JobsFailed    uint64
	AvgDuration   time.Duration
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	completed := p.jobsCompleted.Load()
	var avg time.Duration
	if completed > 0 {
		avg = time.Duration(p.totalDuration.Load() / int64(completed))
	}
	return Stats{
		Workers:       p.workers,
		JobsSubmitted: p.jobsSubmitted.Load(),
		JobsCompleted: completed,
		JobsFailed:    p.jobsFailed.Load(),
		AvgDuration:   avg,
	}
}
