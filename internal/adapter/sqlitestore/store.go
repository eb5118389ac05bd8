// Package sqlitestore implements the registry storage interfaces on a single
// SQLite file, for deployments that do not want to run Postgres. The driver
// is pure Go, so the binary stays CGO-free.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"server/internal/domain"
)

// Store wraps the SQLite handle. Weddings, Gifts and Ledger expose the
// storage interfaces, mirroring the Postgres adapter.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath and applies
// migrations.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Serialized access: the ledger relies on atomic single-statement appends.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Weddings returns the WeddingRepository view of the store.
func (s *Store) Weddings() domain.WeddingRepository { return weddingView{s.db} }

// Gifts returns the GiftRepository view of the store.
func (s *Store) Gifts() domain.GiftRepository { return giftView{s.db} }

// Ledger returns the ContributionLedger view of the store.
func (s *Store) Ledger() domain.ContributionLedger { return ledgerView{s.db} }

type weddingView struct{ db *sql.DB }

func (v weddingView) Create(ctx context.Context, page *domain.WeddingPage) error {
	_, err := v.db.ExecContext(ctx,
		`INSERT INTO weddings (id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?)`,
		page.ID, page.OwnerID, page.Title, page.Story, page.EventDate,
		page.Location, page.CoverImageRef, page.CreatedAt.UnixMicro())
	return err
}

func (v weddingView) GetByID(ctx context.Context, id string) (*domain.WeddingPage, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at
		 FROM weddings WHERE id = ?`, id)
	page, err := scanWedding(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWeddingNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (v weddingView) ListByOwner(ctx context.Context, ownerID string) ([]domain.WeddingPage, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, owner_id, title, story, event_date, location, cover_image_ref, status, created_at
		 FROM weddings WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
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
	return items, rows.Err()
}

func (v weddingView) Update(ctx context.Context, page *domain.WeddingPage) error {
	res, err := v.db.ExecContext(ctx,
		`UPDATE weddings SET title = ?, story = ?, event_date = ?, location = ?, cover_image_ref = ?
		 WHERE id = ? AND status = 'active'`,
		page.Title, page.Story, page.EventDate, page.Location, page.CoverImageRef, page.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrWeddingNotFound
	}
	return nil
}

func (v weddingView) Archive(ctx context.Context, id string) error {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE weddings SET status = 'archived' WHERE id = ? AND status = 'active'`, id); err != nil {
		return fmt.Errorf("archive wedding: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE gifts SET status = 'archived' WHERE wedding_id = ? AND status = 'active'`, id); err != nil {
		return fmt.Errorf("archive gifts: %w", err)
	}
	return tx.Commit()
}

type giftView struct{ db *sql.DB }

func (v giftView) Create(ctx context.Context, gift *domain.GiftRecord) error {
	_, err := v.db.ExecContext(ctx,
		`INSERT INTO gifts (id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'active', ?)`,
		gift.ID, gift.WeddingID, gift.Name, gift.Description,
		gift.TargetAmount.AmountMinor, gift.TargetAmount.Currency,
		gift.ImageRef, gift.CreatedAt.UnixMicro())
	return err
}

func (v giftView) GetByID(ctx context.Context, id string) (*domain.GiftRecord, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at
		 FROM gifts WHERE id = ?`, id)
	gift, err := scanGift(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrGiftNotFound
	}
	if err != nil {
		return nil, err
	}
	return gift, nil
}

func (v giftView) ListByWedding(ctx context.Context, weddingID string) ([]domain.GiftRecord, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, wedding_id, name, description, target_minor, currency, image_ref, status, created_at
		 FROM gifts WHERE wedding_id = ? ORDER BY created_at ASC, id ASC`, weddingID)
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
	return items, rows.Err()
}

func (v giftView) Rename(ctx context.Context, id, name, description string) error {
	return v.mustUpdate(ctx, `UPDATE gifts SET name = ?, description = ? WHERE id = ?`, name, description, id)
}

func (v giftView) UpdateTarget(ctx context.Context, id string, target domain.Money) error {
	return v.mustUpdate(ctx, `UPDATE gifts SET target_minor = ?, currency = ? WHERE id = ?`,
		target.AmountMinor, target.Currency, id)
}

func (v giftView) Archive(ctx context.Context, id string) error {
	_, err := v.db.ExecContext(ctx, `UPDATE gifts SET status = 'archived' WHERE id = ? AND status = 'active'`, id)
	return err
}

func (v giftView) Delete(ctx context.Context, id string) error {
	return v.mustUpdate(ctx, `DELETE FROM gifts WHERE id = ?`, id)
}

func (v giftView) mustUpdate(ctx context.Context, query string, args ...any) error {
	res, err := v.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrGiftNotFound
	}
	return nil
}

type ledgerView struct{ db *sql.DB }

// Append inserts a ledger row. A single INSERT is atomic in SQLite, which is
// all the storage-level guarantee the append-only design needs.
func (v ledgerView) Append(ctx context.Context, c *domain.Contribution) error {
	_, err := v.db.ExecContext(ctx,
		`INSERT INTO contributions (id, gift_id, contributor_name, amount_minor, currency, message, country, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.GiftID, c.ContributorName, c.Amount.AmountMinor, c.Amount.Currency,
		c.Message, c.Country, c.CreatedAt.UnixMicro())
	return err
}

func (v ledgerView) SumFor(ctx context.Context, giftID string) (int64, int, error) {
	var total int64
	var count int
	err := v.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_minor), 0), COUNT(*) FROM contributions WHERE gift_id = ?`,
		giftID).Scan(&total, &count)
	if err != nil {
		return 0, 0, err
	}
	return total, count, nil
}

func (v ledgerView) EntriesFor(ctx context.Context, giftID string) ([]domain.Contribution, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, gift_id, contributor_name, amount_minor, currency, message, country, created_at
		 FROM contributions WHERE gift_id = ? ORDER BY seq ASC`, giftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Contribution
	for rows.Next() {
		var c domain.Contribution
		var createdMicro int64
		if err := rows.Scan(&c.ID, &c.GiftID, &c.ContributorName,
			&c.Amount.AmountMinor, &c.Amount.Currency,
			&c.Message, &c.Country, &createdMicro); err != nil {
			return nil, err
		}
		c.CreatedAt = time.UnixMicro(createdMicro).UTC()
		items = append(items, c)
	}
	return items, rows.Err()
}

func scanWedding(scan func(dest ...any) error) (*domain.WeddingPage, error) {
	var page domain.WeddingPage
	var status string
	var createdMicro int64
	if err := scan(&page.ID, &page.OwnerID, &page.Title, &page.Story, &page.EventDate,
		&page.Location, &page.CoverImageRef, &status, &createdMicro); err != nil {
		return nil, err
	}
	page.Status = domain.PageStatus(status)
	page.CreatedAt = time.UnixMicro(createdMicro).UTC()
	return &page, nil
}

func scanGift(scan func(dest ...any) error) (*domain.GiftRecord, error) {
	var gift domain.GiftRecord
	var status string
	var createdMicro int64
	if err := scan(&gift.ID, &gift.WeddingID, &gift.Name, &gift.Description,
		&gift.TargetAmount.AmountMinor, &gift.TargetAmount.Currency,
		&gift.ImageRef, &status, &createdMicro); err != nil {
		return nil, err
	}
	gift.Status = domain.GiftStatus(status)
	gift.CreatedAt = time.UnixMicro(createdMicro).UTC()
	return &gift, nil
}

var (
	_ domain.WeddingRepository  = weddingView{}
	_ domain.GiftRepository     = giftView{}
	_ domain.ContributionLedger = ledgerView{}
)
