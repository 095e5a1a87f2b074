package httputil

import (
	"context"
	"testing"
	"time"
)

func TestSemaphoreTryAcquire(t *testing.T) {
	s := NewSemaphore(2)

	if !s.TryAcquire() || !s.TryAcquire() {
		t.Fatal("expected two acquisitions to succeed")
	}
	if s.TryAcquire() {
		t.Fatal("expected third acquisition to fail")
	}
	if s.Dropped() != 1 {
		t.Fatalf("expected 1 drop, got %d", s.Dropped())
	}

	s.Release()
	if !s.TryAcquire() {
		t.Fatal("expected acquisition after release")
	}
}

func TestSemaphoreAcquireContext(t *testing.T) {
	s := NewSemaphore(1)
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := s.Acquire(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestClientCaching(t *testing.T) {
	a := Client(5 * time.Second)
	b := Client(5 * time.Second)
	if a != b {
		t.Fatal("expected cached client per timeout")
	}
	if Client(0) == nil {
		t.Fatal("expected default client for zero timeout")
	}
}
