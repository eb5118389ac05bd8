package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// GiftRepositoryPG implements GiftRepository using PostgreSQL.
type GiftRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewGiftRepository creates a new gift repo.
func NewGiftRepository(sql infra.SQLExecutor) *GiftRepositoryPG {
	return &GiftRepositoryPG{sql: sql}
}

// Create inserts a new gift record.
func (r *GiftRepositoryPG) Create(ctx context.Context, gift *domain.GiftRecord) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertGift,
		gift.ID, gift.WeddingID, gift.Name, gift.Description,
		gift.TargetAmount.AmountMinor, gift.TargetAmount.Currency,
		gift.ImageRef, gift.CreatedAt)
	return err
}

// GetByID returns the gift or domain.ErrGiftNotFound.
func (r *GiftRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GiftRecord, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetGift, id)
	gift, err := scanGift(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGiftNotFound
	}
	if err != nil {
		return nil, err
	}
	return gift, nil
}

// ListByWedding returns the page's gifts in creation order.
func (r *GiftRepositoryPG) ListByWedding(ctx context.Context, weddingID string) ([]domain.GiftRecord, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListGiftsByWedding, weddingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.GiftRecord
	for rows.Next() {
		gift, err := scanGift(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *gift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Rename updates the gift's name and description.
func (r *GiftRepositoryPG) Rename(ctx context.Context, id, name, description string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QRenameGift, id, name, description)
	return err
}

// UpdateTarget replaces the funding target. Invariant checks against the
// collected sum happen in the service under the gift's lock.
func (r *GiftRepositoryPG) UpdateTarget(ctx context.Context, id string, target domain.Money) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateGiftTarget, id, target.AmountMinor, target.Currency)
	return err
}

// Archive transitions the gift to its terminal state.
func (r *GiftRepositoryPG) Archive(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QArchiveGift, id)
	return err
}

// Delete removes a gift row. Only called for gifts with an empty ledger.
func (r *GiftRepositoryPG) Delete(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteGift, id)
	return err
}

func scanGift(scan func(dest ...any) error) (*domain.GiftRecord, error) {
	var gift domain.GiftRecord
	var status string
	if err := scan(&gift.ID, &gift.WeddingID, &gift.Name, &gift.Description,
		&gift.TargetAmount.AmountMinor, &gift.TargetAmount.Currency,
		&gift.ImageRef, &status, &gift.CreatedAt); err != nil {
		return nil, err
	}
	gift.Status = domain.GiftStatus(status)
	return &gift, nil
}

var _ domain.GiftRepository = (*GiftRepositoryPG)(nil)
