// Package queue runs persistence jobs in FIFO order on a single worker so
// callers never wait on storage round-trips.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrClosed = errors.New("queue: closed")

// Job is one unit of deferred work. ctx is cancelled when Close gives up waiting.
type Job func(ctx context.Context)

// Queue is an unbounded FIFO drained by one goroutine.
// Enqueue never blocks, so a running job may enqueue follow-up jobs.
type Queue struct {
	mu     sync.Mutex
	jobs   []Job
	closed bool
	busy   bool

	wake    chan struct{}
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	once    sync.Once
}

// New starts the worker. timeout bounds each job's context; 0 disables it.
func New(timeout time.Duration) *Queue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
	go q.run()
	return q
}

// Enqueue appends j. Returns false once the queue is closed.
func (q *Queue) Enqueue(j Job) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

// Len reports queued jobs plus the one currently running.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.jobs)
	if q.busy {
		n++
	}
	return n
}

// Flush waits until the queue is idle, including jobs enqueued by jobs that
// ran during the wait. Must not be called from inside a Job.
func (q *Queue) Flush(ctx context.Context) error {
	for {
		barrier := make(chan struct{})
		if !q.Enqueue(func(context.Context) { close(barrier) }) {
			return q.waitDone(ctx)
		}
		select {
		case <-barrier:
		case <-ctx.Done():
			return ctx.Err()
		}
		// everything ahead of the barrier has run; only follow-ups can remain
		q.mu.Lock()
		idle := len(q.jobs) == 0
		q.mu.Unlock()
		if idle {
			return nil
		}
	}
}

// Close stops intake and drains what is queued. If ctx ends first, running
// jobs see their context cancelled and Close returns ctx.Err().
func (q *Queue) Close(ctx context.Context) error {
	q.once.Do(func() {
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		select {
		case q.wake <- struct{}{}:
		default:
		}
	})
	return q.waitDone(ctx)
}

func (q *Queue) waitDone(ctx context.Context) error {
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	defer q.cancel()
	for {
		q.mu.Lock()
		for len(q.jobs) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		j := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		q.busy = true
		q.mu.Unlock()

		q.exec(j)

		q.mu.Lock()
		q.busy = false
		q.mu.Unlock()
	}
}

func (q *Queue) exec(j Job) {
	ctx := q.ctx
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	j(ctx)
}
