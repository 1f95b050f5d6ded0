package provider

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// slowProvider blocks until released, tracking peak concurrency.
type slowProvider struct {
	inflight int64
	peak     int64
	release  chan struct{}
}

func newSlowProvider() *slowProvider {
	return &slowProvider{release: make(chan struct{})}
}

func (s *slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	n := atomic.AddInt64(&s.inflight, 1)
	defer atomic.AddInt64(&s.inflight, -1)

	for {
		peak := atomic.LoadInt64(&s.peak)
		if n <= peak || atomic.CompareAndSwapInt64(&s.peak, peak, n) {
			break
		}
	}

	select {
	case <-s.release:
		return &Response{Content: json.RawMessage(`{}`)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *slowProvider) ModelID() string { return "slow" }

func TestLimiter_BoundsConcurrency(t *testing.T) {
	slow := newSlowProvider()
	p := WithLimiter(slow, LimiterConfig{MaxConcurrent: 2})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Generate(context.Background(), Request{Prompt: "x"})
		}()
	}

	// Let goroutines queue up, then drain.
	time.Sleep(50 * time.Millisecond)
	close(slow.release)
	wg.Wait()

	if peak := atomic.LoadInt64(&slow.peak); peak > 2 {
		t.Errorf("expected at most 2 concurrent calls, observed %d", peak)
	}
}

func TestLimiter_FailFast(t *testing.T) {
	slow := newSlowProvider()
	p := WithLimiter(slow, LimiterConfig{MaxConcurrent: 1, FailFast: true})

	started := make(chan struct{})
	go func() {
		close(started)
		p.Generate(context.Background(), Request{Prompt: "x"})
	}()
	<-started
	time.Sleep(20 * time.Millisecond) // let the first call occupy the slot

	_, err := p.Generate(context.Background(), Request{Prompt: "y"})
	var capacity *ErrCapacityExceeded
	if !errors.As(err, &capacity) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	close(slow.release)
}

func TestLimiter_TimeoutReleasesSlot(t *testing.T) {
	slow := newSlowProvider()
	p := WithLimiter(slow, LimiterConfig{MaxConcurrent: 1})

	// First call times out while holding the slot.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Generate(ctx, Request{Prompt: "x"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	// The slot must be free again for the next call.
	close(slow.release)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel2()
	if _, err := p.Generate(ctx2, Request{Prompt: "y"}); err != nil {
		t.Fatalf("slot was not released: %v", err)
	}
}

func TestLimiter_QueuedCallRespectsContext(t *testing.T) {
	slow := newSlowProvider()
	p := WithLimiter(slow, LimiterConfig{MaxConcurrent: 1})

	go p.Generate(context.Background(), Request{Prompt: "x"})
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{Prompt: "queued"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected queued call to give up on deadline, got %v", err)
	}

	close(slow.release)
}
