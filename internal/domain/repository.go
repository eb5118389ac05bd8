package domain

import "context"

// WeddingRepository handles wedding page persistence.
type WeddingRepository interface {
	Create(ctx context.Context, page *WeddingPage) error
	GetByID(ctx context.Context, id string) (*WeddingPage, error)
	ListByOwner(ctx context.Context, ownerID string) ([]WeddingPage, error)
	// Update replaces the page content. Archived pages are reported as
	// ErrWeddingNotFound.
	Update(ctx context.Context, page *WeddingPage) error
	// Archive marks the page and every gift under it as archived in one
	// atomic step. Ledger entries are left untouched.
	Archive(ctx context.Context, id string) error
}

// GiftRepository handles gift persistence. Collected totals live in the
// ledger, never on the gift row.
type GiftRepository interface {
	Create(ctx context.Context, gift *GiftRecord) error
	GetByID(ctx context.Context, id string) (*GiftRecord, error)
	ListByWedding(ctx context.Context, weddingID string) ([]GiftRecord, error)
	Rename(ctx context.Context, id, name, description string) error
	UpdateTarget(ctx context.Context, id string, target Money) error
	Archive(ctx context.Context, id string) error
	// Delete removes a gift outright. Callers must only use it for gifts
	// with an empty ledger; funded gifts are archived instead.
	Delete(ctx context.Context, id string) error
}

// ContributionLedger is the append-only store of contributions. Append is
// the sole write; entries are never edited or deleted.
type ContributionLedger interface {
	Append(ctx context.Context, c *Contribution) error
	// SumFor returns the exact minor-unit total and entry count for a gift.
	// Implementations may fold the entries on every call or keep a cache
	// invalidated only by Append, but the result must always equal a full
	// recompute.
	SumFor(ctx context.Context, giftID string) (totalMinor int64, count int, err error)
	// EntriesFor returns the gift's contributions in insertion order.
	EntriesFor(ctx context.Context, giftID string) ([]Contribution, error)
}
