package handlers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/storage"
)

// maxMediaBytes caps uploads at 5 MiB.
const maxMediaBytes = 5 << 20

// MediaUpload stores a cover or gift image and returns its ref for use in
// page and gift payloads.
func (a *App) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.Media == nil {
		a.error(w, http.StatusNotFound, "not_found", "media storage not configured")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxMediaBytes+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read body")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "empty upload")
		return
	}
	if len(data) > maxMediaBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds 5 MiB")
		return
	}

	ext := path.Ext(r.URL.Query().Get("filename"))
	if len(ext) > 8 {
		ext = ""
	}
	key := a.currentUserID(r) + "/" + uuid.NewString() + ext
	ref, err := a.Media.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("media write failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store media")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"ref": ref})
}

func (a *App) MediaGet(w http.ResponseWriter, r *http.Request) {
	if a.Media == nil {
		a.error(w, http.StatusNotFound, "not_found", "media storage not configured")
		return
	}
	ref := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	data, err := a.Media.Read(r.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "media not found")
			return
		}
		a.Logger.Error().Err(err).Msg("media read failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load media")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(data)
}
