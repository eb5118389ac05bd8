package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/middleware"
	"server/internal/registry"
)

type contributionRequest struct {
	ContributorName string `json:"contributor_name"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
	Message         string `json:"message"`
}

func (a *App) ContributionsCreate(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	snapshot, err := a.Registry.Contribute(r.Context(), registry.ContributionInput{
		GiftID:          chi.URLParam(r, "id"),
		ContributorName: req.ContributorName,
		AmountMinor:     req.AmountMinor,
		Currency:        a.currency(req.Currency),
		Message:         req.Message,
		Country:         middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, snapshot)
}

func (a *App) ContributionsList(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Registry.ListContributions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": entries})
}
