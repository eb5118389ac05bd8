package domain

import "time"

// PageStatus tracks the lifecycle of a wedding page. Archiving is one-way;
// the contribution history underneath an archived page is retained.
type PageStatus string

const (
	PageActive   PageStatus = "active"
	PageArchived PageStatus = "archived"
)

// WeddingPage is the couple's public registry page. Gifts reference it by ID.
type WeddingPage struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Title         string     `json:"title"`
	Story         string     `json:"story"`
	EventDate     string     `json:"event_date"`
	Location      string     `json:"location"`
	CoverImageRef string     `json:"cover_image_ref"`
	Status        PageStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsArchived reports whether the page has been taken down by its owner.
func (w *WeddingPage) IsArchived() bool { return w.Status == PageArchived }
