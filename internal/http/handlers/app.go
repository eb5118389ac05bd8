package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/middleware"
	"server/internal/registry"
	"server/internal/storage"
)

type App struct {
	Registry *registry.Service
	Media    *storage.FileStore
	Logger   zerolog.Logger

	// DefaultCurrency fills in payloads that omit a currency code.
	DefaultCurrency string
}

func (a *App) currency(code string) string {
	if code == "" {
		return a.DefaultCurrency
	}
	return code
}

func NewApp(svc *registry.Service, logger zerolog.Logger) *App {
	return &App{Registry: svc, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
