package httputil

import (
	"context"
	"testing"
	"time"
)

func TestSemaphoreTryAcquire(t *testing.T) {
	s := NewSemaphore(2)

	if !s.TryAcquire() || !s.TryAcquire() {
		t.Fatal("first two acquisitions should succeed")
	}
	if s.TryAcquire() {
		t.Error("third acquisition should fail at capacity")
	}
	if s.DroppedCount() != 1 {
		t.Errorf("dropped = %d, want 1", s.DroppedCount())
	}

	s.Release()
	if !s.TryAcquire() {
		t.Error("acquisition after release should succeed")
	}
}

func TestSemaphoreAcquireCancellation(t *testing.T) {
	s := NewSemaphore(1)
	if err := s.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := s.Acquire(ctx); err == nil {
		t.Error("expected context error when semaphore is full")
	}
}

func TestSemaphoreDefaultCapacity(t *testing.T) {
	s := NewSemaphore(0)
	for i := 0; i < 100; i++ {
		if !s.TryAcquire() {
			t.Fatalf("acquisition %d should succeed with default capacity", i)
		}
	}
	if s.TryAcquire() {
		t.Error("acquisition beyond default capacity should fail")
	}
}
