package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bombom/internal/domain"
)

// Options returns the active catalog the customizer renders: every option
// group at once, already ordered for display.
func (a *App) Options(w http.ResponseWriter, r *http.Request) {
	options, err := a.Catalog.ListActive(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to load catalog")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load options")
		return
	}
	a.json(w, http.StatusOK, options)
}

// AdminListOptions returns one group's full option list, inactive rows
// included, for the management screens.
func (a *App) AdminListOptions(w http.ResponseWriter, r *http.Request) {
	group, ok := a.optionGroup(w, r)
	if !ok {
		return
	}
	options, err := a.Catalog.ListGroup(r.Context(), group, true)
	if err != nil {
		a.Logger.Error().Err(err).Str("group", string(group)).Msg("failed to list options")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load options")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": options})
}

// AdminCreateOption inserts a new catalog entry into the group's table.
func (a *App) AdminCreateOption(w http.ResponseWriter, r *http.Request) {
	group, ok := a.optionGroup(w, r)
	if !ok {
		return
	}
	var opt domain.CatalogOption
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(opt.Name) == "" {
		a.error(w, http.StatusBadRequest, "validation", "nome is required")
		return
	}
	created, err := a.Catalog.CreateOption(r.Context(), group, &opt)
	if err != nil {
		a.Logger.Error().Err(err).Str("group", string(group)).Msg("failed to create option")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create option")
		return
	}
	a.json(w, http.StatusCreated, created)
}

// AdminUpdateOption rewrites an existing catalog entry.
func (a *App) AdminUpdateOption(w http.ResponseWriter, r *http.Request) {
	group, ok := a.optionGroup(w, r)
	if !ok {
		return
	}
	var opt domain.CatalogOption
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	opt.ID = chi.URLParam(r, "id")
	if opt.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	updated, err := a.Catalog.UpdateOption(r.Context(), group, &opt)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "option not found")
			return
		}
		a.Logger.Error().Err(err).Str("group", string(group)).Msg("failed to update option")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update option")
		return
	}
	a.json(w, http.StatusOK, updated)
}

// AdminDeleteOption removes a catalog entry.
func (a *App) AdminDeleteOption(w http.ResponseWriter, r *http.Request) {
	group, ok := a.optionGroup(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	if err := a.Catalog.DeleteOption(r.Context(), group, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "option not found")
			return
		}
		a.Logger.Error().Err(err).Str("group", string(group)).Msg("failed to delete option")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete option")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *App) optionGroup(w http.ResponseWriter, r *http.Request) (domain.OptionGroup, bool) {
	group := domain.OptionGroup(chi.URLParam(r, "group"))
	if !domain.ValidGroup(group) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown option group")
		return "", false
	}
	return group, true
}
