// Package registry implements the contribution ledger service: gift CRUD,
// atomic contribution application and read snapshots. All mutation goes
// through this service; HTTP handlers and other callers never touch the
// repositories directly.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/metrics"
)

const (
	defaultLockTimeout    = 2 * time.Second
	defaultPaymentTimeout = 10 * time.Second
)

// Deps carries the collaborators injected into the service. Zero-value
// optional fields fall back to sensible defaults in NewService.
type Deps struct {
	Weddings domain.WeddingRepository
	Gifts    domain.GiftRepository
	Ledger   domain.ContributionLedger

	Auth    Authorizer        // defaults to OwnerAuthorizer over Weddings
	Payment PaymentAuthorizer // defaults to AcceptAllPayments
	Logger  zerolog.Logger
	Metrics *metrics.Metrics // defaults to an isolated registry

	LockTimeout    time.Duration
	PaymentTimeout time.Duration
}

// Service orchestrates the registry. Contributions to the same gift are
// serialized through a per-gift lock; operations across gifts run in
// parallel.
type Service struct {
	weddings domain.WeddingRepository
	gifts    domain.GiftRepository
	ledger   domain.ContributionLedger

	auth    Authorizer
	payment PaymentAuthorizer
	log     zerolog.Logger
	metrics *metrics.Metrics

	locks          *giftLocks
	lockTimeout    time.Duration
	paymentTimeout time.Duration

	now func() time.Time
}

// NewService wires a Service from its dependencies.
func NewService(deps Deps) *Service {
	if deps.Auth == nil {
		deps.Auth = OwnerAuthorizer{Weddings: deps.Weddings}
	}
	if deps.Payment == nil {
		deps.Payment = AcceptAllPayments{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if deps.LockTimeout <= 0 {
		deps.LockTimeout = defaultLockTimeout
	}
	if deps.PaymentTimeout <= 0 {
		deps.PaymentTimeout = defaultPaymentTimeout
	}
	return &Service{
		weddings:       deps.Weddings,
		gifts:          deps.Gifts,
		ledger:         deps.Ledger,
		auth:           deps.Auth,
		payment:        deps.Payment,
		log:            deps.Logger,
		metrics:        deps.Metrics,
		locks:          newGiftLocks(),
		lockTimeout:    deps.LockTimeout,
		paymentTimeout: deps.PaymentTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WeddingInput is the owner-supplied page content.
type WeddingInput struct {
	Title         string
	Story         string
	EventDate     string
	Location      string
	CoverImageRef string
}

// GiftInput is the owner-supplied gift content.
type GiftInput struct {
	Name        string
	Description string
	TargetMinor int64
	Currency    string
	ImageRef    string
}

// ContributionInput is a guest pledge.
type ContributionInput struct {
	GiftID          string
	ContributorName string
	AmountMinor     int64
	Currency        string
	Message         string
	Country         string
}

// CreateWedding creates a page owned by ownerID.
func (s *Service) CreateWedding(ctx context.Context, ownerID string, input WeddingInput) (*domain.WeddingPage, error) {
	page := &domain.WeddingPage{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         input.Title,
		Story:         input.Story,
		EventDate:     input.EventDate,
		Location:      input.Location,
		CoverImageRef: input.CoverImageRef,
		Status:        domain.PageActive,
		CreatedAt:     s.now(),
	}
	if err := s.weddings.Create(ctx, page); err != nil {
		return nil, fmt.Errorf("create wedding: %w", err)
	}
	s.log.Info().Str("wedding_id", page.ID).Str("owner_id", ownerID).Msg("wedding page created")
	return page, nil
}

// ListWeddings returns the owner's pages for the dashboard.
func (s *Service) ListWeddings(ctx context.Context, ownerID string) ([]domain.WeddingPage, error) {
	return s.weddings.ListByOwner(ctx, ownerID)
}

// UpdateWedding replaces the page content. Archived pages cannot be edited.
func (s *Service) UpdateWedding(ctx context.Context, callerID, weddingID string, input WeddingInput) (*domain.WeddingPage, error) {
	if err := s.requireOwner(ctx, callerID, weddingID); err != nil {
		return nil, err
	}
	page, err := s.weddings.GetByID(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if page.IsArchived() {
		return nil, domain.ErrWeddingNotFound
	}

	page.Title = input.Title
	page.Story = input.Story
	page.EventDate = input.EventDate
	page.Location = input.Location
	page.CoverImageRef = input.CoverImageRef
	if err := s.weddings.Update(ctx, page); err != nil {
		return nil, fmt.Errorf("update wedding: %w", err)
	}
	s.log.Info().Str("wedding_id", weddingID).Msg("wedding page updated")
	return page, nil
}

// ArchiveWedding takes the page down. Gifts are archived in cascade and the
// ledger keeps its history.
func (s *Service) ArchiveWedding(ctx context.Context, callerID, weddingID string) error {
	if err := s.requireOwner(ctx, callerID, weddingID); err != nil {
		return err
	}
	if err := s.weddings.Archive(ctx, weddingID); err != nil {
		return fmt.Errorf("archive wedding: %w", err)
	}
	s.log.Info().Str("wedding_id", weddingID).Msg("wedding page archived")
	return nil
}

// CreateGift adds a gift to the caller's page.
func (s *Service) CreateGift(ctx context.Context, callerID, weddingID string, input GiftInput) (*domain.GiftRecord, error) {
	if err := s.requireOwner(ctx, callerID, weddingID); err != nil {
		return nil, err
	}
	page, err := s.weddings.GetByID(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	if page.IsArchived() {
		return nil, domain.ErrWeddingNotFound
	}

	target, err := moneyFromInput(input.TargetMinor, input.Currency)
	if err != nil {
		return nil, err
	}
	pageCur, err := s.pageCurrency(ctx, weddingID, "")
	if err != nil {
		return nil, err
	}
	if pageCur != "" && pageCur != target.Currency {
		return nil, fmt.Errorf("%w: page is funded in %s", domain.ErrCurrencyMismatch, pageCur)
	}

	gift := &domain.GiftRecord{
		ID:           uuid.NewString(),
		WeddingID:    weddingID,
		Name:         input.Name,
		Description:  input.Description,
		TargetAmount: target,
		ImageRef:     input.ImageRef,
		Status:       domain.GiftActive,
		CreatedAt:    s.now(),
	}
	if err := s.gifts.Create(ctx, gift); err != nil {
		return nil, fmt.Errorf("create gift: %w", err)
	}
	s.metrics.GiftsCreatedTotal.Inc()
	s.log.Info().Str("gift_id", gift.ID).Str("wedding_id", weddingID).
		Str("target", target.Display()).Msg("gift created")
	return gift, nil
}

// GiftUpdateInput carries a partial gift edit. Nil fields keep their current
// value.
type GiftUpdateInput struct {
	Name        *string
	Description *string
	TargetMinor *int64
	Currency    string
}

// UpdateGift applies a rename and a retarget as one operation under the gift
// lock. Every check runs before the first write, so a rejected update leaves
// the gift exactly as it was.
func (s *Service) UpdateGift(ctx context.Context, callerID, giftID string, upd GiftUpdateInput) (*domain.GiftRecord, error) {
	release, err := s.acquireGift(ctx, giftID)
	if err != nil {
		return nil, err
	}
	defer release()

	gift, err := s.ownedActiveGift(ctx, callerID, giftID)
	if err != nil {
		return nil, err
	}

	var target *domain.Money
	if upd.TargetMinor != nil {
		currency := upd.Currency
		if currency == "" {
			currency = gift.TargetAmount.Currency
		}
		money, err := moneyFromInput(*upd.TargetMinor, currency)
		if err != nil {
			return nil, err
		}

		collected, count, err := s.ledger.SumFor(ctx, giftID)
		if err != nil {
			return nil, fmt.Errorf("sum ledger: %w", err)
		}
		if money.Currency != gift.TargetAmount.Currency {
			if count > 0 {
				return nil, fmt.Errorf("%w: gift already funded in %s", domain.ErrCurrencyMismatch, gift.TargetAmount.Currency)
			}
			pageCur, err := s.pageCurrency(ctx, gift.WeddingID, giftID)
			if err != nil {
				return nil, err
			}
			if pageCur != "" && pageCur != money.Currency {
				return nil, fmt.Errorf("%w: page is funded in %s", domain.ErrCurrencyMismatch, pageCur)
			}
		}
		if money.AmountMinor < collected {
			return nil, fmt.Errorf("%w: target %d below collected %d", domain.ErrTargetBelowCollected, money.AmountMinor, collected)
		}
		target = &money
	}

	if target != nil {
		if err := s.gifts.UpdateTarget(ctx, giftID, *target); err != nil {
			return nil, fmt.Errorf("update target: %w", err)
		}
		gift.TargetAmount = *target
	}
	if upd.Name != nil || upd.Description != nil {
		name := gift.Name
		description := gift.Description
		if upd.Name != nil {
			name = *upd.Name
		}
		if upd.Description != nil {
			description = *upd.Description
		}
		if err := s.gifts.Rename(ctx, giftID, name, description); err != nil {
			return nil, fmt.Errorf("rename gift: %w", err)
		}
		gift.Name = name
		gift.Description = description
	}
	return gift, nil
}

// RenameGift updates the gift's name and description.
func (s *Service) RenameGift(ctx context.Context, callerID, giftID, name, description string) (*domain.GiftRecord, error) {
	return s.UpdateGift(ctx, callerID, giftID, GiftUpdateInput{Name: &name, Description: &description})
}

// UpdateGiftTarget replaces the funding target. The target can never shrink
// below the amount already pledged.
func (s *Service) UpdateGiftTarget(ctx context.Context, callerID, giftID string, targetMinor int64, currency string) (*domain.GiftRecord, error) {
	return s.UpdateGift(ctx, callerID, giftID, GiftUpdateInput{TargetMinor: &targetMinor, Currency: currency})
}

// Contribute applies a guest pledge to a gift and returns the refreshed
// funding snapshot. Concurrent calls for the same gift are serialized; both
// are recorded and both end up in the sum.
func (s *Service) Contribute(ctx context.Context, input ContributionInput) (*GiftSnapshot, error) {
	contributor := strings.TrimSpace(input.ContributorName)
	if contributor == "" {
		s.countContribution("invalid")
		return nil, fmt.Errorf("%w: contributor name is required", domain.ErrInvalidContributor)
	}
	amount, err := moneyFromInput(input.AmountMinor, input.Currency)
	if err != nil {
		s.countContribution("invalid")
		return nil, err
	}

	release, err := s.acquireGift(ctx, input.GiftID)
	if err != nil {
		s.metrics.LockTimeoutsTotal.Inc()
		s.countContribution("busy")
		return nil, err
	}
	defer release()

	gift, err := s.gifts.GetByID(ctx, input.GiftID)
	if err != nil {
		s.countContribution("not_found")
		return nil, err
	}
	if gift.IsArchived() {
		s.countContribution("archived")
		return nil, domain.ErrGiftArchived
	}
	if amount.Currency != gift.TargetAmount.Currency {
		s.countContribution("invalid")
		return nil, fmt.Errorf("%w: gift is funded in %s", domain.ErrCurrencyMismatch, gift.TargetAmount.Currency)
	}

	if err := s.authorizePayment(ctx, gift.ID, amount, contributor); err != nil {
		return nil, err
	}

	contribution := &domain.Contribution{
		ID:              uuid.NewString(),
		GiftID:          gift.ID,
		ContributorName: contributor,
		Amount:          amount,
		Message:         strings.TrimSpace(input.Message),
		Country:         input.Country,
		CreatedAt:       s.now(),
	}
	if err := s.ledger.Append(ctx, contribution); err != nil {
		s.countContribution("error")
		return nil, fmt.Errorf("append contribution: %w", err)
	}

	// The entry is durable once Append returns, so the outcome counters move
	// here even if the snapshot read below fails.
	s.countContribution("ok")
	s.metrics.ContributedMinorUnits.WithLabelValues(amount.Currency).Add(float64(amount.AmountMinor))

	totalMinor, count, err := s.ledger.SumFor(ctx, gift.ID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}

	s.log.Info().Str("gift_id", gift.ID).Str("contribution_id", contribution.ID).
		Str("amount", amount.Display()).Int("ledger_entries", count).Msg("contribution recorded")

	snapshot := BuildGiftSnapshot(*gift, LedgerTotals{Minor: totalMinor, Count: count})
	return &snapshot, nil
}

// RemoveGift removes a gift from the active registry. A gift without
// contributions is deleted; a funded gift requires force and is archived so
// its ledger history survives.
func (s *Service) RemoveGift(ctx context.Context, callerID, giftID string, force bool) error {
	release, err := s.acquireGift(ctx, giftID)
	if err != nil {
		return err
	}
	defer release()

	gift, err := s.gifts.GetByID(ctx, giftID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, callerID, gift.WeddingID); err != nil {
		return err
	}
	if gift.IsArchived() {
		return nil
	}

	_, count, err := s.ledger.SumFor(ctx, giftID)
	if err != nil {
		return fmt.Errorf("sum ledger: %w", err)
	}
	if count == 0 {
		if err := s.gifts.Delete(ctx, giftID); err != nil {
			return fmt.Errorf("delete gift: %w", err)
		}
		s.log.Info().Str("gift_id", giftID).Msg("gift deleted")
		return nil
	}
	if !force {
		return fmt.Errorf("%w: %d entries", domain.ErrHasContributions, count)
	}
	if err := s.gifts.Archive(ctx, giftID); err != nil {
		return fmt.Errorf("archive gift: %w", err)
	}
	s.log.Info().Str("gift_id", giftID).Int("ledger_entries", count).Msg("gift archived")
	return nil
}

// GiftSnapshot returns the current funding view of one gift.
func (s *Service) GiftSnapshot(ctx context.Context, giftID string) (*GiftSnapshot, error) {
	gift, err := s.gifts.GetByID(ctx, giftID)
	if err != nil {
		return nil, err
	}
	totalMinor, count, err := s.ledger.SumFor(ctx, giftID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	snapshot := BuildGiftSnapshot(*gift, LedgerTotals{Minor: totalMinor, Count: count})
	return &snapshot, nil
}

// PageSnapshot assembles the public page view. Archived gifts stay hidden;
// their ledger entries remain reachable through ListContributions.
func (s *Service) PageSnapshot(ctx context.Context, weddingID string) (*PageSnapshot, error) {
	page, err := s.weddings.GetByID(ctx, weddingID)
	if err != nil {
		return nil, err
	}
	gifts, err := s.gifts.ListByWedding(ctx, weddingID)
	if err != nil {
		return nil, fmt.Errorf("list gifts: %w", err)
	}

	totals := make(map[string]LedgerTotals, len(gifts))
	for _, gift := range gifts {
		if gift.IsArchived() {
			continue
		}
		minor, count, err := s.ledger.SumFor(ctx, gift.ID)
		if err != nil {
			return nil, fmt.Errorf("sum ledger: %w", err)
		}
		totals[gift.ID] = LedgerTotals{Minor: minor, Count: count}
	}

	snapshot := BuildPageSnapshot(*page, gifts, totals)
	return &snapshot, nil
}

// ListContributions returns a gift's ledger entries in insertion order,
// including for archived gifts.
func (s *Service) ListContributions(ctx context.Context, giftID string) ([]domain.Contribution, error) {
	if _, err := s.gifts.GetByID(ctx, giftID); err != nil {
		return nil, err
	}
	return s.ledger.EntriesFor(ctx, giftID)
}

func (s *Service) acquireGift(ctx context.Context, giftID string) (func(), error) {
	return s.locks.acquire(ctx, giftID, s.lockTimeout)
}

func (s *Service) requireOwner(ctx context.Context, callerID, weddingID string) error {
	ok, err := s.auth.IsOwner(ctx, callerID, weddingID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotOwner
	}
	return nil
}

// pageCurrency returns the currency the page's active gifts are funded in, or
// "" when the page has none. Gifts matching excludeGiftID are skipped so an
// update can ignore the gift it is replacing.
func (s *Service) pageCurrency(ctx context.Context, weddingID, excludeGiftID string) (string, error) {
	gifts, err := s.gifts.ListByWedding(ctx, weddingID)
	if err != nil {
		return "", fmt.Errorf("list gifts: %w", err)
	}
	for _, g := range gifts {
		if g.ID == excludeGiftID || g.IsArchived() {
			continue
		}
		return g.TargetAmount.Currency, nil
	}
	return "", nil
}

// ownedActiveGift loads a gift and verifies the caller owns its page and the
// gift is still active.
func (s *Service) ownedActiveGift(ctx context.Context, callerID, giftID string) (*domain.GiftRecord, error) {
	gift, err := s.gifts.GetByID(ctx, giftID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, callerID, gift.WeddingID); err != nil {
		return nil, err
	}
	if gift.IsArchived() {
		return nil, domain.ErrGiftArchived
	}
	return gift, nil
}

// authorizePayment runs the payment collaborator with its own deadline. A
// timeout or cancellation maps to the retryable busy condition; any other
// refusal is surfaced as a declined payment.
func (s *Service) authorizePayment(ctx context.Context, giftID string, amount domain.Money, contributor string) error {
	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	if err := s.payment.Authorize(payCtx, giftID, amount, contributor); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.countContribution("busy")
			return fmt.Errorf("%w: payment authorization timed out", domain.ErrBusy)
		}
		s.countContribution("declined")
		return fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
	}
	return nil
}

func (s *Service) countContribution(outcome string) {
	s.metrics.ContributionsTotal.WithLabelValues(outcome).Inc()
}

func moneyFromInput(minor int64, currency string) (domain.Money, error) {
	money, err := domain.NewMoney(minor, currency)
	if err != nil {
		return domain.Money{}, err
	}
	if !money.IsPositive() {
		return domain.Money{}, fmt.Errorf("%w: amount must be positive, got %d", domain.ErrInvalidAmount, minor)
	}
	return money, nil
}
