package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// WeddingRepositoryPG implements WeddingRepository using PostgreSQL.
type WeddingRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewWeddingRepository creates a new wedding repo.
func NewWeddingRepository(sql infra.SQLExecutor) *WeddingRepositoryPG {
	return &WeddingRepositoryPG{sql: sql}
}

// Create inserts a new wedding page.
func (r *WeddingRepositoryPG) Create(ctx context.Context, page *domain.WeddingPage) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertWedding,
		page.ID, page.OwnerID, page.Title, page.Story, page.EventDate,
		page.Location, page.CoverImageRef, page.CreatedAt)
	return err
}

// GetByID returns the page or domain.ErrWeddingNotFound.
func (r *WeddingRepositoryPG) GetByID(ctx context.Context, id string) (*domain.WeddingPage, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetWedding, id)
	page, err := scanWedding(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrWeddingNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ListByOwner returns the owner's pages, newest first.
func (r *WeddingRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.WeddingPage, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListWeddingsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WeddingPage
	for rows.Next() {
		page, err := scanWedding(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *page)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Update replaces the content of an active page.
func (r *WeddingRepositoryPG) Update(ctx context.Context, page *domain.WeddingPage) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateWedding,
		page.ID, page.Title, page.Story, page.EventDate, page.Location, page.CoverImageRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWeddingNotFound
	}
	return nil
}

// Archive marks the page archived and cascades over its gifts atomically.
func (r *WeddingRepositoryPG) Archive(ctx context.Context, id string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QArchiveWedding, id)
	return err
}

func scanWedding(scan func(dest ...any) error) (*domain.WeddingPage, error) {
	var page domain.WeddingPage
	var status string
	if err := scan(&page.ID, &page.OwnerID, &page.Title, &page.Story, &page.EventDate,
		&page.Location, &page.CoverImageRef, &status, &page.CreatedAt); err != nil {
		return nil, err
	}
	page.Status = domain.PageStatus(status)
	return &page, nil
}

var _ domain.WeddingRepository = (*WeddingRepositoryPG)(nil)
