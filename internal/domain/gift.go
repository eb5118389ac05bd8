package domain

import "time"

// GiftStatus is the gift lifecycle state. The only transition is
// Active -> Archived, triggered by a forced removal or a cascading page
// archive. Archived is terminal.
type GiftStatus string

const (
	GiftActive   GiftStatus = "active"
	GiftArchived GiftStatus = "archived"
)

// GiftRecord is a registry line item with a funding target. Collected totals
// are never stored on the record itself; they are always derived from the
// contribution ledger so the two can never drift apart.
type GiftRecord struct {
	ID           string     `json:"id"`
	WeddingID    string     `json:"wedding_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TargetAmount Money      `json:"target_amount"`
	ImageRef     string     `json:"image_ref"`
	Status       GiftStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsArchived reports whether the gift has left the active registry.
func (g *GiftRecord) IsArchived() bool { return g.Status == GiftArchived }
