package worker

// These tests use the testing package alone.

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func lengthHandler(calls *atomic.Int32) Handler[int] {
	return func(ctx context.Context, payload []byte) (int, error) {
		calls.Add(1)
		if len(payload) == 0 {
			return 0, errors.New("empty payload")
		}
		return len(payload), nil
	}
}

// drain collects every result until the pool closes Results.
func drain[T any](t *testing.T, p *Pool[T]) []Result[T] {
	t.Helper()
	var out []Result[T]
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r, ok := <-p.Results():
			if !ok {
				return out
			}
			out = append(out, r)
		case <-timeout:
			t.Fatal("timeout waiting for results")
		}
	}
}

func TestPool_DefaultWorkers(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(context.Background(), lengthHandler(&calls), 0)
	defer pool.Close()

	if pool.workers <= 0 {
		t.Errorf("workers = %d; want > 0", pool.workers)
	}
}

func TestPool_SubmitAndReceive(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(context.Background(), lengthHandler(&calls), 3)

	payloads := [][]byte{[]byte("a"), []byte("bb"), nil, []byte("dddd")}
	go func() {
		for i, p := range payloads {
			if !pool.Submit(Job{Index: i, Payload: p}) {
				t.Error("Submit() = false")
			}
		}
		pool.Close()
	}()

	results := drain(t, pool)
	if len(results) != len(payloads) {
		t.Fatalf("got %d results; want %d", len(results), len(payloads))
	}

	byIndex := make(map[int]Result[int])
	for _, r := range results {
		byIndex[r.Index] = r
	}
	for i, p := range payloads {
		r := byIndex[i]
		if len(p) == 0 {
			if r.Err == nil {
				t.Errorf("job %d: expected error", i)
			}
			continue
		}
		if r.Err != nil || r.Value != len(p) {
			t.Errorf("job %d = %d, %v; want %d", i, r.Value, r.Err, len(p))
		}
	}

	stats := pool.Stats()
	if stats.Workers != 3 || stats.JobsSubmitted != 4 || stats.JobsCompleted != 4 || stats.JobsFailed != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if int(calls.Load()) != 4 {
		t.Errorf("handler calls = %d; want 4", calls.Load())
	}
}

func TestPool_SubmitToClosedPool(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(context.Background(), lengthHandler(&calls), 2)
	pool.Close()

	if pool.Submit(Job{Index: 1}) {
		t.Error("expected submit to fail after close")
	}
	drain(t, pool)
}

func TestPool_DoubleClose(t *testing.T) {
	var calls atomic.Int32
	pool := NewPool(context.Background(), lengthHandler(&calls), 2)

	pool.Close()
	pool.Close() // Should not panic
	drain(t, pool)
}

func TestPool_NilHandler(t *testing.T) {
	pool := NewPool[int](context.Background(), nil, 2)
	pool.Submit(Job{Index: 7})
	pool.Close()

	results := drain(t, pool)
	if len(results) != 1 || !errors.Is(results[0].Err, ErrNoHandler) {
		t.Errorf("results = %+v; want one ErrNoHandler", results)
	}
}

func TestPool_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	pool := NewPool(ctx, func(ctx context.Context, _ []byte) (int, error) {
		<-block
		return 1, ctx.Err()
	}, 1)

	pool.Submit(Job{Index: 0})
	cancel()
	close(block)

	if pool.Submit(Job{Index: 1}) {
		t.Error("expected submit to fail after cancel")
	}
	pool.Close()

	for _, r := range drain(t, pool) {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("job %d error = %v; want context.Canceled", r.Index, r.Err)
		}
	}
}
