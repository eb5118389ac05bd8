package registry

import "server/internal/domain"

// GiftSnapshot is the read-optimized funding view of a single gift.
type GiftSnapshot struct {
	Gift          domain.GiftRecord `json:"gift"`
	Collected     domain.Money      `json:"collected"`
	Target        domain.Money      `json:"target"`
	Remaining     domain.Money      `json:"remaining"`
	Percent       float64           `json:"percent"`
	Contributions int               `json:"contributions"`
}

// PageSnapshot aggregates a wedding page and its gifts for rendering.
type PageSnapshot struct {
	Wedding        domain.WeddingPage `json:"wedding"`
	Gifts          []GiftSnapshot     `json:"gifts"`
	TotalTarget    domain.Money       `json:"total_target"`
	TotalCollected domain.Money       `json:"total_collected"`
	Percent        float64            `json:"percent"`
}

// LedgerTotals carries per-gift ledger sums into the snapshot builder.
type LedgerTotals struct {
	Minor int64
	Count int
}

// BuildGiftSnapshot derives the funding view for one gift. Collected may
// exceed the target; the displayed percent clamps at 100 while remaining
// floors at zero.
func BuildGiftSnapshot(gift domain.GiftRecord, totals LedgerTotals) GiftSnapshot {
	collected := domain.Money{AmountMinor: totals.Minor, Currency: gift.TargetAmount.Currency}
	remainingMinor := gift.TargetAmount.AmountMinor - totals.Minor
	if remainingMinor < 0 {
		remainingMinor = 0
	}
	return GiftSnapshot{
		Gift:          gift,
		Collected:     collected,
		Target:        gift.TargetAmount,
		Remaining:     domain.Money{AmountMinor: remainingMinor, Currency: gift.TargetAmount.Currency},
		Percent:       percentFunded(totals.Minor, gift.TargetAmount.AmountMinor),
		Contributions: totals.Count,
	}
}

// BuildPageSnapshot assembles the page view from already-loaded state. It is
// a pure function of its inputs: identical ledger state yields an identical
// snapshot, so callers may invoke it as often as they like.
func BuildPageSnapshot(page domain.WeddingPage, gifts []domain.GiftRecord, totals map[string]LedgerTotals) PageSnapshot {
	snapshot := PageSnapshot{Wedding: page}

	// Every active gift on a page shares one currency, enforced when gifts
	// are created or retargeted, so the minor units add up directly.
	var targetMinor, collectedMinor int64
	currency := ""
	for _, gift := range gifts {
		if gift.IsArchived() {
			continue
		}
		gs := BuildGiftSnapshot(gift, totals[gift.ID])
		snapshot.Gifts = append(snapshot.Gifts, gs)
		targetMinor += gs.Target.AmountMinor
		collectedMinor += gs.Collected.AmountMinor
		if currency == "" {
			currency = gift.TargetAmount.Currency
		}
	}

	snapshot.TotalTarget = domain.Money{AmountMinor: targetMinor, Currency: currency}
	snapshot.TotalCollected = domain.Money{AmountMinor: collectedMinor, Currency: currency}
	snapshot.Percent = percentFunded(collectedMinor, targetMinor)
	return snapshot
}

// percentFunded computes collected/target as a percentage with two decimals,
// clamped to [0, 100]. The rounding happens in integer basis points, so no
// float enters the division.
func percentFunded(collectedMinor, targetMinor int64) float64 {
	if targetMinor <= 0 || collectedMinor <= 0 {
		return 0
	}
	bp := (collectedMinor*10000 + targetMinor/2) / targetMinor
	if bp > 10000 {
		bp = 10000
	}
	return float64(bp) / 100
}
