package domain

import "errors"

var (
	ErrWeddingNotFound      = errors.New("wedding not found")
	ErrGiftNotFound         = errors.New("gift not found")
	ErrGiftArchived         = errors.New("gift archived")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidContributor   = errors.New("invalid contributor")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrTargetBelowCollected = errors.New("target below collected")
	ErrHasContributions     = errors.New("gift has contributions")
	ErrNotOwner             = errors.New("not the page owner")
	ErrBusy                 = errors.New("gift busy, retry later")
	ErrPaymentDeclined      = errors.New("payment declined")
)
