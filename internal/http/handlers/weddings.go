package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/registry"
)

type weddingRequest struct {
	Title         string `json:"title"`
	Story         string `json:"story"`
	EventDate     string `json:"event_date"`
	Location      string `json:"location"`
	CoverImageRef string `json:"cover_image_ref"`
}

func (a *App) WeddingsCreate(w http.ResponseWriter, r *http.Request) {
	var req weddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title required")
		return
	}
	page, err := a.Registry.CreateWedding(r.Context(), a.currentUserID(r), registry.WeddingInput{
		Title:         req.Title,
		Story:         req.Story,
		EventDate:     req.EventDate,
		Location:      req.Location,
		CoverImageRef: req.CoverImageRef,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, page)
}

func (a *App) WeddingsList(w http.ResponseWriter, r *http.Request) {
	pages, err := a.Registry.ListWeddings(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": pages})
}

// WeddingGet serves the public page snapshot guests see, with per-gift
// funding progress.
func (a *App) WeddingGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.Registry.PageSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, snapshot)
}

type weddingUpdateRequest struct {
	Title         *string `json:"title"`
	Story         *string `json:"story"`
	EventDate     *string `json:"event_date"`
	Location      *string `json:"location"`
	CoverImageRef *string `json:"cover_image_ref"`
}

// WeddingUpdate edits the page content. Fields absent from the payload keep
// their current value.
func (a *App) WeddingUpdate(w http.ResponseWriter, r *http.Request) {
	var req weddingUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == nil && req.Story == nil && req.EventDate == nil &&
		req.Location == nil && req.CoverImageRef == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "nothing to update")
		return
	}
	if req.Title != nil && *req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title required")
		return
	}

	weddingID := chi.URLParam(r, "id")
	snap, err := a.Registry.PageSnapshot(r.Context(), weddingID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	input := registry.WeddingInput{
		Title:         snap.Wedding.Title,
		Story:         snap.Wedding.Story,
		EventDate:     snap.Wedding.EventDate,
		Location:      snap.Wedding.Location,
		CoverImageRef: snap.Wedding.CoverImageRef,
	}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Story != nil {
		input.Story = *req.Story
	}
	if req.EventDate != nil {
		input.EventDate = *req.EventDate
	}
	if req.Location != nil {
		input.Location = *req.Location
	}
	if req.CoverImageRef != nil {
		input.CoverImageRef = *req.CoverImageRef
	}

	page, err := a.Registry.UpdateWedding(r.Context(), a.currentUserID(r), weddingID, input)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, page)
}

func (a *App) WeddingArchive(w http.ResponseWriter, r *http.Request) {
	err := a.Registry.ArchiveWedding(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
