package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/sqlinline"
)

func TestGiftRepoGetByIDNotFound(t *testing.T) {
	sql := &fakeSQL{
		queryRowFunc: func(query string, args ...any) pgx.Row {
			return scanRow{err: pgx.ErrNoRows}
		},
	}
	gifts := NewGiftRepository(sql)

	if _, err := gifts.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrGiftNotFound) {
		t.Fatalf("expected ErrGiftNotFound, got %v", err)
	}
}

func TestGiftRepoGetByIDScansRecord(t *testing.T) {
	created := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	sql := &fakeSQL{
		queryRowFunc: func(query string, args ...any) pgx.Row {
			if query != sqlinline.QGetGift {
				return scanRow{err: fmt.Errorf("unexpected query: %s", query)}
			}
			return scanRow{scan: func(dest ...any) error {
				setString(dest[0], "gift-1")
				setString(dest[1], "wedding-1")
				setString(dest[2], "Wedding Dress")
				setString(dest[3], "Help us fund the perfect wedding dress")
				setInt64(dest[4], 150000)
				setString(dest[5], "USD")
				setString(dest[6], "")
				setString(dest[7], "archived")
				if p, ok := dest[8].(*time.Time); ok {
					*p = created
				}
				return nil
			}}
		},
	}
	gifts := NewGiftRepository(sql)

	gift, err := gifts.GetByID(context.Background(), "gift-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if gift.TargetAmount.AmountMinor != 150000 || gift.TargetAmount.Currency != "USD" {
		t.Fatalf("target mismatch: %+v", gift.TargetAmount)
	}
	if !gift.IsArchived() {
		t.Fatalf("status mismatch: got %q want archived", gift.Status)
	}
	if !gift.CreatedAt.Equal(created) {
		t.Fatalf("created_at mismatch: got %v want %v", gift.CreatedAt, created)
	}
}

func TestGiftRepoUpdateTargetPassesMinorUnits(t *testing.T) {
	var gotArgs []any
	sql := &fakeSQL{
		execFunc: func(query string, args ...any) (pgconn.CommandTag, error) {
			if query != sqlinline.QUpdateGiftTarget {
				return pgconn.CommandTag{}, fmt.Errorf("unexpected query: %s", query)
			}
			gotArgs = args
			return pgconn.CommandTag{}, nil
		},
	}
	gifts := NewGiftRepository(sql)

	err := gifts.UpdateTarget(context.Background(), "gift-1", domain.Money{AmountMinor: 200000, Currency: "USD"})
	if err != nil {
		t.Fatalf("UpdateTarget returned error: %v", err)
	}
	if len(gotArgs) != 3 || gotArgs[1] != int64(200000) || gotArgs[2] != "USD" {
		t.Fatalf("unexpected args: %#v", gotArgs)
	}
}
