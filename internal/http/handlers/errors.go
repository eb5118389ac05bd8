package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
)

// domainError writes the HTTP rendering of a service error. Unmapped errors
// become an opaque 500 so storage details never leak to clients.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrWeddingNotFound):
		a.error(w, http.StatusNotFound, "wedding_not_found", "wedding page not found")
	case errors.Is(err, domain.ErrGiftNotFound):
		a.error(w, http.StatusNotFound, "gift_not_found", "gift not found")
	case errors.Is(err, domain.ErrGiftArchived):
		a.error(w, http.StatusConflict, "gift_archived", "gift no longer accepts contributions")
	case errors.Is(err, domain.ErrInvalidAmount):
		a.error(w, http.StatusBadRequest, "invalid_amount", "amount must be a positive sum in a known currency")
	case errors.Is(err, domain.ErrInvalidContributor):
		a.error(w, http.StatusBadRequest, "invalid_contributor", "contributor name required")
	case errors.Is(err, domain.ErrCurrencyMismatch):
		a.error(w, http.StatusBadRequest, "currency_mismatch", "currency does not match the gift")
	case errors.Is(err, domain.ErrTargetBelowCollected):
		a.error(w, http.StatusConflict, "target_below_collected", "target cannot drop below the collected sum")
	case errors.Is(err, domain.ErrHasContributions):
		a.error(w, http.StatusConflict, "has_contributions", "gift has contributions; archive it instead")
	case errors.Is(err, domain.ErrNotOwner):
		a.error(w, http.StatusForbidden, "not_owner", "caller does not own this wedding page")
	case errors.Is(err, domain.ErrBusy):
		w.Header().Set("Retry-After", "1")
		a.error(w, http.StatusServiceUnavailable, "busy", "gift is busy, retry shortly")
	case errors.Is(err, domain.ErrPaymentDeclined):
		a.error(w, http.StatusPaymentRequired, "payment_declined", "payment was declined")
	default:
		a.Logger.Error().Err(err).Msg("unhandled service error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
