package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"server/internal/domain"
)

func TestLedgerSumMatchesRecompute(t *testing.T) {
	store := New()
	ledger := store.Ledger()
	ctx := context.Background()

	amounts := []int64{75000, 40000, 125, 1, 999999}
	for i, amount := range amounts {
		err := ledger.Append(ctx, &domain.Contribution{
			ID:     fmt.Sprintf("c-%d", i),
			GiftID: "gift-1",
			Amount: domain.Money{AmountMinor: amount, Currency: "USD"},
		})
		if err != nil {
			t.Fatalf("Append returned error: %v", err)
		}

		cached, cachedCount, err := ledger.SumFor(ctx, "gift-1")
		if err != nil {
			t.Fatalf("SumFor returned error: %v", err)
		}
		full, fullCount := store.RecomputeSum("gift-1")
		if cached != full || cachedCount != fullCount {
			t.Fatalf("cache drifted after %d appends: cached (%d, %d) recompute (%d, %d)",
				i+1, cached, cachedCount, full, fullCount)
		}
	}
}

func TestLedgerSumIsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	amounts := []int64{100, 2500, 33, 40000}

	forward := New()
	for i, a := range amounts {
		_ = forward.Ledger().Append(ctx, &domain.Contribution{
			ID: fmt.Sprintf("f-%d", i), GiftID: "g", Amount: domain.Money{AmountMinor: a, Currency: "USD"},
		})
	}
	backward := New()
	for i := len(amounts) - 1; i >= 0; i-- {
		_ = backward.Ledger().Append(ctx, &domain.Contribution{
			ID: fmt.Sprintf("b-%d", i), GiftID: "g", Amount: domain.Money{AmountMinor: amounts[i], Currency: "USD"},
		})
	}

	fTotal, fCount, _ := forward.Ledger().SumFor(ctx, "g")
	bTotal, bCount, _ := backward.Ledger().SumFor(ctx, "g")
	if fTotal != bTotal || fCount != bCount {
		t.Fatalf("sum depends on order: forward (%d, %d) backward (%d, %d)", fTotal, fCount, bTotal, bCount)
	}
}

func TestLedgerConcurrentAppends(t *testing.T) {
	store := New()
	ledger := store.Ledger()
	ctx := context.Background()

	const n = 64
	const amount = int64(500)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = ledger.Append(ctx, &domain.Contribution{
				ID:     fmt.Sprintf("c-%d", i),
				GiftID: "gift-1",
				Amount: domain.Money{AmountMinor: amount, Currency: "USD"},
			})
		}(i)
	}
	wg.Wait()

	total, count, err := ledger.SumFor(ctx, "gift-1")
	if err != nil {
		t.Fatalf("SumFor returned error: %v", err)
	}
	if count != n {
		t.Fatalf("lost appends: got %d want %d", count, n)
	}
	if total != n*amount {
		t.Fatalf("lost update: got total %d want %d", total, n*amount)
	}
}

func TestLedgerEntriesForKeepsInsertionOrder(t *testing.T) {
	store := New()
	ledger := store.Ledger()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = ledger.Append(ctx, &domain.Contribution{
			ID:     fmt.Sprintf("c-%d", i),
			GiftID: "gift-1",
			Amount: domain.Money{AmountMinor: int64(i + 1), Currency: "USD"},
		})
	}

	entries, err := ledger.EntriesFor(ctx, "gift-1")
	if err != nil {
		t.Fatalf("EntriesFor returned error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if want := fmt.Sprintf("c-%d", i); e.ID != want {
			t.Fatalf("entry %d out of order: got %q want %q", i, e.ID, want)
		}
	}
}

func TestWeddingArchiveCascadesToGifts(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Weddings().Create(ctx, &domain.WeddingPage{ID: "w-1", OwnerID: "owner", Status: domain.PageActive})
	_ = store.Gifts().Create(ctx, &domain.GiftRecord{ID: "g-1", WeddingID: "w-1", Status: domain.GiftActive})
	_ = store.Gifts().Create(ctx, &domain.GiftRecord{ID: "g-2", WeddingID: "w-other", Status: domain.GiftActive})

	if err := store.Weddings().Archive(ctx, "w-1"); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}

	page, _ := store.Weddings().GetByID(ctx, "w-1")
	if !page.IsArchived() {
		t.Fatalf("page not archived: %q", page.Status)
	}
	gift, _ := store.Gifts().GetByID(ctx, "g-1")
	if !gift.IsArchived() {
		t.Fatalf("gift not archived with page: %q", gift.Status)
	}
	other, _ := store.Gifts().GetByID(ctx, "g-2")
	if other.IsArchived() {
		t.Fatal("unrelated gift must stay active")
	}
}

func TestWeddingUpdateSkipsArchived(t *testing.T) {
	store := New()
	ctx := context.Background()

	_ = store.Weddings().Create(ctx, &domain.WeddingPage{ID: "w-1", OwnerID: "owner", Title: "Before", Status: domain.PageActive})

	if err := store.Weddings().Update(ctx, &domain.WeddingPage{ID: "w-1", Title: "After"}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	page, _ := store.Weddings().GetByID(ctx, "w-1")
	if page.Title != "After" {
		t.Fatalf("update not applied: %q", page.Title)
	}

	if err := store.Weddings().Archive(ctx, "w-1"); err != nil {
		t.Fatalf("Archive returned error: %v", err)
	}
	if err := store.Weddings().Update(ctx, &domain.WeddingPage{ID: "w-1", Title: "Again"}); !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Fatalf("expected ErrWeddingNotFound on archived page, got %v", err)
	}
	if err := store.Weddings().Update(ctx, &domain.WeddingPage{ID: "nope"}); !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Fatalf("expected ErrWeddingNotFound for unknown page, got %v", err)
	}
}

func TestGiftListSortsByCreation(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_ = store.Gifts().Create(ctx, &domain.GiftRecord{ID: "g-2", WeddingID: "w", CreatedAt: base.Add(time.Hour)})
	_ = store.Gifts().Create(ctx, &domain.GiftRecord{ID: "g-1", WeddingID: "w", CreatedAt: base})

	items, err := store.Gifts().ListByWedding(ctx, "w")
	if err != nil {
		t.Fatalf("ListByWedding returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "g-1" || items[1].ID != "g-2" {
		t.Fatalf("unexpected order: %#v", items)
	}
}

func TestGiftNotFoundErrors(t *testing.T) {
	store := New()
	ctx := context.Background()

	if _, err := store.Gifts().GetByID(ctx, "nope"); !errors.Is(err, domain.ErrGiftNotFound) {
		t.Fatalf("expected ErrGiftNotFound, got %v", err)
	}
	if err := store.Gifts().Delete(ctx, "nope"); !errors.Is(err, domain.ErrGiftNotFound) {
		t.Fatalf("expected ErrGiftNotFound on delete, got %v", err)
	}
	if _, err := store.Weddings().GetByID(ctx, "nope"); !errors.Is(err, domain.ErrWeddingNotFound) {
		t.Fatalf("expected ErrWeddingNotFound, got %v", err)
	}
}
