package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bombom/internal/domain"
	"bombom/internal/middleware"
	"bombom/internal/orders"
)

// Submit persists a finished configuration as an order. The selection must be
// complete and exactly one identity (user or guest contact) must be present;
// nothing is retried on failure.
func (a *App) Submit(w http.ResponseWriter, r *http.Request) {
	var req orders.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		req.UserID = actor.UserID
	}

	order, err := a.Relay.Submit(r.Context(), req)
	if err != nil {
		var verr *orders.ValidationError
		if errors.As(err, &verr) {
			a.json(w, http.StatusBadRequest, map[string]any{
				"error":   "validation",
				"message": verr.Reason,
				"fields":  verr.Fields,
			})
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("order submission failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save order")
		return
	}

	a.json(w, http.StatusOK, map[string]any{"ok": true, "order": order})
}
