package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// ContributionLedgerPG implements the append-only ContributionLedger using
// PostgreSQL. Inserts are atomic at the database, and totals are always a
// SUM over the table, so the ledger and the derived total cannot drift.
type ContributionLedgerPG struct {
	sql infra.SQLExecutor
}

// NewContributionLedger creates a new ledger over the given executor.
func NewContributionLedger(sql infra.SQLExecutor) *ContributionLedgerPG {
	return &ContributionLedgerPG{sql: sql}
}

// Append records a contribution. This is the only write the table sees.
func (r *ContributionLedgerPG) Append(ctx context.Context, c *domain.Contribution) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertContribution,
		c.ID, c.GiftID, c.ContributorName, c.Amount.AmountMinor, c.Amount.Currency,
		c.Message, c.Country, c.CreatedAt)
	return err
}

// SumFor folds the gift's entries server-side.
func (r *ContributionLedgerPG) SumFor(ctx context.Context, giftID string) (int64, int, error) {
	var total int64
	var count int
	row := r.sql.QueryRow(ctx, sqlinline.QSumContributions, giftID)
	if err := row.Scan(&total, &count); err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

// EntriesFor returns the gift's contributions in insertion order.
func (r *ContributionLedgerPG) EntriesFor(ctx context.Context, giftID string) ([]domain.Contribution, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListContributions, giftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		if err := rows.Scan(&c.ID, &c.GiftID, &c.ContributorName,
			&c.Amount.AmountMinor, &c.Amount.Currency,
			&c.Message, &c.Country, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ domain.ContributionLedger = (*ContributionLedgerPG)(nil)
