package domain

import "time"

// Contribution is a single guest pledge toward a gift. Contributions are
// immutable once appended to the ledger; totals only ever change by adding
// new entries.
type Contribution struct {
	ID              string    `json:"id"`
	GiftID          string    `json:"gift_id"`
	ContributorName string    `json:"contributor_name"`
	Amount          Money     `json:"amount"`
	Message         string    `json:"message"`
	Country         string    `json:"country,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
