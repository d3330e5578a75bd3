package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestJobsRunInOrder(t *testing.T) {
	ctx := context.Background()
	q := New(0)
	t.Cleanup(func() { _ = q.Close(ctx) })

	var mu sync.Mutex
	var got []int
	for i := 0; i < 50; i++ {
		i := i
		if !q.Enqueue(func(context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatalf("Enqueue rejected on open queue")
		}
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 50 {
		t.Fatalf("ran %d jobs, want 50", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at %d: %v", i, got)
		}
	}
}

func TestFlushWaitsForNestedJobs(t *testing.T) {
	ctx := context.Background()
	q := New(0)
	t.Cleanup(func() { _ = q.Close(ctx) })

	var mu sync.Mutex
	ran := 0
	q.Enqueue(func(context.Context) {
		q.Enqueue(func(context.Context) {
			time.Sleep(10 * time.Millisecond)
			q.Enqueue(func(context.Context) {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		})
	})
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if ran != 1 {
		t.Fatalf("nested job did not run before Flush returned")
	}
}

func TestCloseDrainsAndRejects(t *testing.T) {
	ctx := context.Background()
	q := New(0)

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 10; i++ {
		q.Enqueue(func(context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	if err := q.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	mu.Lock()
	if ran != 10 {
		t.Fatalf("Close did not drain: ran=%d", ran)
	}
	mu.Unlock()

	if q.Enqueue(func(context.Context) {}) {
		t.Fatalf("Enqueue accepted after Close")
	}
	if err := q.Flush(ctx); err != nil {
		t.Fatalf("Flush after Close: %v", err)
	}
	if err := q.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCloseDeadlineCancelsRunningJob(t *testing.T) {
	q := New(0)
	started := make(chan struct{})
	q.Enqueue(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Close(ctx); err == nil {
		t.Fatalf("expected deadline error from Close")
	}
	// the blocked job observes cancellation and the worker exits
	if err := q.Close(context.Background()); err != nil {
		t.Fatalf("Close after cancel: %v", err)
	}
}

func TestJobTimeout(t *testing.T) {
	ctx := context.Background()
	q := New(10 * time.Millisecond)
	t.Cleanup(func() { _ = q.Close(ctx) })

	errCh := make(chan error, 1)
	q.Enqueue(func(jctx context.Context) {
		<-jctx.Done()
		errCh <- jctx.Err()
	})
	select {
	case err := <-errCh:
		if err != context.DeadlineExceeded {
			t.Fatalf("job ctx err=%v want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("job context never expired")
	}
}
