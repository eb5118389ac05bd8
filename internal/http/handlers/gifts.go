package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/registry"
)

type giftCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetMinor int64  `json:"target_minor"`
	Currency    string `json:"currency"`
	ImageRef    string `json:"image_ref"`
}

type giftUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TargetMinor *int64  `json:"target_minor"`
	Currency    string  `json:"currency"`
}

func (a *App) GiftsCreate(w http.ResponseWriter, r *http.Request) {
	var req giftCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	gift, err := a.Registry.CreateGift(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), registry.GiftInput{
		Name:        req.Name,
		Description: req.Description,
		TargetMinor: req.TargetMinor,
		Currency:    a.currency(req.Currency),
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, gift)
}

// GiftUpdate handles renames and target changes. Fields absent from the
// payload keep their current value.
func (a *App) GiftUpdate(w http.ResponseWriter, r *http.Request) {
	var req giftUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == nil && req.Description == nil && req.TargetMinor == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "nothing to update")
		return
	}

	gift, err := a.Registry.UpdateGift(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), registry.GiftUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		TargetMinor: req.TargetMinor,
		Currency:    req.Currency,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, gift)
}

func (a *App) GiftGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.Registry.GiftSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, snapshot)
}

// GiftDelete removes an empty gift outright. With ?force=archive a funded
// gift is archived instead, keeping its ledger history.
func (a *App) GiftDelete(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "archive"
	err := a.Registry.RemoveGift(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), force)
	if err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
