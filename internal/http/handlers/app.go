package handlers

import (
	"encoding/json"
	"net/http"

	"bombom/internal/domain"
	"bombom/internal/infra"
	"bombom/internal/orders"
	"bombom/internal/prompt"
	"bombom/internal/providers/image"
	"bombom/internal/storage"
)

// App wires the HTTP surface to the domain services. The image generator is
// fixed at construction time from configuration.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Builder   *prompt.Builder
	Generator image.Generator
	Relay     *orders.Relay
	Orders    domain.OrderRepository
	Catalog   domain.CatalogRepository
	Store     *storage.FileStore
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}
