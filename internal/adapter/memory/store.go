// Package memory provides a mutex-guarded in-memory implementation of the
// registry storage interfaces. It backs STORAGE_DRIVER=memory for local
// development and is the storage used by service-level tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"server/internal/domain"
)

// Store holds every entity behind one mutex. The contribution log is
// append-only; per-gift totals are kept incrementally and invalidated only
// by Append, with RecomputeSum available to cross-check the cache.
// Weddings, Gifts and Ledger expose the storage interfaces over the shared
// state.
type Store struct {
	mu sync.RWMutex

	weddings map[string]domain.WeddingPage
	gifts    map[string]domain.GiftRecord
	entries  []domain.Contribution

	sums   map[string]int64
	counts map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		weddings: make(map[string]domain.WeddingPage),
		gifts:    make(map[string]domain.GiftRecord),
		sums:     make(map[string]int64),
		counts:   make(map[string]int),
	}
}

// Weddings returns the WeddingRepository view of the store.
func (s *Store) Weddings() domain.WeddingRepository { return weddingView{s} }

// Gifts returns the GiftRepository view of the store.
func (s *Store) Gifts() domain.GiftRepository { return giftView{s} }

// Ledger returns the ContributionLedger view of the store.
func (s *Store) Ledger() domain.ContributionLedger { return ledgerView{s} }

type weddingView struct{ s *Store }

func (v weddingView) Create(_ context.Context, page *domain.WeddingPage) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.weddings[page.ID] = *page
	return nil
}

func (v weddingView) GetByID(_ context.Context, id string) (*domain.WeddingPage, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	page, ok := v.s.weddings[id]
	if !ok {
		return nil, domain.ErrWeddingNotFound
	}
	return &page, nil
}

func (v weddingView) ListByOwner(_ context.Context, ownerID string) ([]domain.WeddingPage, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var items []domain.WeddingPage
	for _, page := range v.s.weddings {
		if page.OwnerID == ownerID {
			items = append(items, page)
		}
	}
	return items, nil
}

func (v weddingView) Update(_ context.Context, page *domain.WeddingPage) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	current, ok := v.s.weddings[page.ID]
	if !ok || current.Status == domain.PageArchived {
		return domain.ErrWeddingNotFound
	}
	current.Title = page.Title
	current.Story = page.Story
	current.EventDate = page.EventDate
	current.Location = page.Location
	current.CoverImageRef = page.CoverImageRef
	v.s.weddings[page.ID] = current
	return nil
}

// Archive marks the page and every gift under it archived in one critical
// section, mirroring the single-statement cascade of the Postgres backend.
func (v weddingView) Archive(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	page, ok := v.s.weddings[id]
	if !ok {
		return domain.ErrWeddingNotFound
	}
	page.Status = domain.PageArchived
	v.s.weddings[id] = page
	for giftID, gift := range v.s.gifts {
		if gift.WeddingID == id {
			gift.Status = domain.GiftArchived
			v.s.gifts[giftID] = gift
		}
	}
	return nil
}

type giftView struct{ s *Store }

func (v giftView) Create(_ context.Context, gift *domain.GiftRecord) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.gifts[gift.ID] = *gift
	return nil
}

func (v giftView) GetByID(_ context.Context, id string) (*domain.GiftRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	gift, ok := v.s.gifts[id]
	if !ok {
		return nil, domain.ErrGiftNotFound
	}
	return &gift, nil
}

func (v giftView) ListByWedding(_ context.Context, weddingID string) ([]domain.GiftRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var items []domain.GiftRecord
	for _, gift := range v.s.gifts {
		if gift.WeddingID == weddingID {
			items = append(items, gift)
		}
	}
	sortGifts(items)
	return items, nil
}

func (v giftView) Rename(_ context.Context, id, name, description string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	gift, ok := v.s.gifts[id]
	if !ok {
		return domain.ErrGiftNotFound
	}
	gift.Name = name
	gift.Description = description
	v.s.gifts[id] = gift
	return nil
}

func (v giftView) UpdateTarget(_ context.Context, id string, target domain.Money) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	gift, ok := v.s.gifts[id]
	if !ok {
		return domain.ErrGiftNotFound
	}
	gift.TargetAmount = target
	v.s.gifts[id] = gift
	return nil
}

func (v giftView) Archive(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	gift, ok := v.s.gifts[id]
	if !ok {
		return domain.ErrGiftNotFound
	}
	gift.Status = domain.GiftArchived
	v.s.gifts[id] = gift
	return nil
}

func (v giftView) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.gifts[id]; !ok {
		return domain.ErrGiftNotFound
	}
	delete(v.s.gifts, id)
	return nil
}

type ledgerView struct{ s *Store }

// Append records a contribution and advances the incremental totals. This is
// the only write path touching the log or the sums.
func (v ledgerView) Append(_ context.Context, c *domain.Contribution) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.s.entries = append(v.s.entries, *c)
	v.s.sums[c.GiftID] += c.Amount.AmountMinor
	v.s.counts[c.GiftID]++
	return nil
}

func (v ledgerView) SumFor(_ context.Context, giftID string) (int64, int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.sums[giftID], v.s.counts[giftID], nil
}

func (v ledgerView) EntriesFor(_ context.Context, giftID string) ([]domain.Contribution, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var items []domain.Contribution
	for _, c := range v.s.entries {
		if c.GiftID == giftID {
			items = append(items, c)
		}
	}
	return items, nil
}

// RecomputeSum folds the full log for a gift. Tests compare it against
// SumFor to prove the incremental cache never drifts.
func (s *Store) RecomputeSum(giftID string) (int64, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	var count int
	for _, c := range s.entries {
		if c.GiftID == giftID {
			total += c.Amount.AmountMinor
			count++
		}
	}
	return total, count
}

func sortGifts(items []domain.GiftRecord) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

var (
	_ domain.WeddingRepository  = weddingView{}
	_ domain.GiftRepository     = giftView{}
	_ domain.ContributionLedger = ledgerView{}
)
