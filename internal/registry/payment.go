package registry

import (
	"context"

	"server/internal/domain"
)

// PaymentAuthorizer is the money-movement collaborator. It is invoked before
// a contribution reaches the ledger; the ledger records pledges, not card
// transactions. A timeout or cancellation while authorizing surfaces to the
// guest as a retryable busy condition, never as silent success.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, giftID string, amount domain.Money, contributor string) error
}

// AcceptAllPayments authorizes every pledge. It stands in until a real
// gateway adapter is wired and keeps development and tests free of external
// calls.
type AcceptAllPayments struct{}

func (AcceptAllPayments) Authorize(context.Context, string, domain.Money, string) error {
	return nil
}

// Authorizer answers ownership questions for owner-only operations. The
// service never inspects sessions or tokens itself; the HTTP layer
// establishes identity and this capability decides ownership.
type Authorizer interface {
	IsOwner(ctx context.Context, userID, weddingID string) (bool, error)
}

// OwnerAuthorizer resolves ownership from the wedding repository.
type OwnerAuthorizer struct {
	Weddings domain.WeddingRepository
}

func (a OwnerAuthorizer) IsOwner(ctx context.Context, userID, weddingID string) (bool, error) {
	page, err := a.Weddings.GetByID(ctx, weddingID)
	if err != nil {
		return false, err
	}
	return page.OwnerID == userID, nil
}
