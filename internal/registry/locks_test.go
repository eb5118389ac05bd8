package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/domain"
)

func TestGiftLocksSerializeSameGift(t *testing.T) {
	locks := newGiftLocks()
	ctx := context.Background()

	release, err := locks.acquire(ctx, "gift-1", time.Second)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := locks.acquire(ctx, "gift-1", 20*time.Millisecond); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}

	release()

	release2, err := locks.acquire(ctx, "gift-1", time.Second)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	release2()
}

func TestGiftLocksIndependentGifts(t *testing.T) {
	locks := newGiftLocks()
	ctx := context.Background()

	release1, err := locks.acquire(ctx, "gift-1", time.Second)
	if err != nil {
		t.Fatalf("acquire gift-1 failed: %v", err)
	}
	defer release1()

	// A different gift must not contend.
	release2, err := locks.acquire(ctx, "gift-2", 20*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire gift-2 failed: %v", err)
	}
	release2()
}

func TestGiftLocksHonorContextCancellation(t *testing.T) {
	locks := newGiftLocks()

	release, err := locks.acquire(context.Background(), "gift-1", time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := locks.acquire(ctx, "gift-1", time.Second); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy on cancelled context, got %v", err)
	}
}

func TestGiftLocksReleaseDropsSlot(t *testing.T) {
	locks := newGiftLocks()
	ctx := context.Background()

	release1, err := locks.acquire(ctx, "gift-1", time.Second)
	if err != nil {
		t.Fatalf("acquire gift-1 failed: %v", err)
	}
	release2, err := locks.acquire(ctx, "gift-2", time.Second)
	if err != nil {
		t.Fatalf("acquire gift-2 failed: %v", err)
	}
	if got := locks.size(); got != 2 {
		t.Fatalf("slot count while held = %d, want 2", got)
	}

	release1()
	release2()
	if got := locks.size(); got != 0 {
		t.Fatalf("slot count after release = %d, want 0", got)
	}
}

func TestGiftLocksTimedOutWaiterDropsSlot(t *testing.T) {
	locks := newGiftLocks()
	ctx := context.Background()

	release, err := locks.acquire(ctx, "gift-1", time.Second)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if _, err := locks.acquire(ctx, "gift-1", 10*time.Millisecond); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy while held, got %v", err)
	}
	if got := locks.size(); got != 1 {
		t.Fatalf("slot count with holder alive = %d, want 1", got)
	}

	release()
	if got := locks.size(); got != 0 {
		t.Fatalf("slot count after release = %d, want 0", got)
	}
}
