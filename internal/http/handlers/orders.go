package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bombom/internal/domain"
	"bombom/internal/providers/image"
	"bombom/pkg/zip"
)

// AdminListOrders returns submitted orders for the fulfillment screens,
// optionally filtered by lifecycle status.
func (a *App) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidStatus(status) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := a.Orders.List(r.Context(), status, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to list orders")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load orders")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": list})
}

// AdminGetOrder returns a single order by id.
func (a *App) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := a.loadOrder(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, order)
}

type orderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// AdminUpdateOrderStatus advances an order through its lifecycle. The
// lifecycle only moves forward; any other transition is rejected.
func (a *App) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	order, ok := a.loadOrder(w, r)
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !domain.ValidStatus(req.Status) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	if !domain.CanTransition(order.Status, req.Status) {
		a.error(w, http.StatusConflict, "invalid_transition",
			fmt.Sprintf("cannot move order from %s to %s", order.Status, req.Status))
		return
	}
	updated, err := a.Orders.UpdateStatus(r.Context(), order.ID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		a.Logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to update order status")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}
	a.json(w, http.StatusOK, updated)
}

// AdminExportOrders bundles the stored render of each matching order into a
// zip download for the production floor.
func (a *App) AdminExportOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !domain.ValidStatus(status) {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown status")
		return
	}
	list, err := a.Orders.List(r.Context(), status, 0)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to list orders for export")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export orders")
		return
	}

	var entries []zip.Entry
	for _, order := range list {
		data, ext := a.orderImage(r, order)
		if data == nil {
			continue
		}
		entries = append(entries, zip.Entry{
			Name: fmt.Sprintf("pedido-%s.%s", order.ID, ext),
			Data: data,
		})
	}

	archive := zip.Archive(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename=pedidos.zip`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// AdminExportOrder downloads a single order's render as a zip.
func (a *App) AdminExportOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := a.loadOrder(w, r)
	if !ok {
		return
	}
	data, ext := a.orderImage(r, *order)
	if data == nil {
		a.error(w, http.StatusNotFound, "not_found", "order has no stored image")
		return
	}
	archive := zip.Archive([]zip.Entry{{
		Name: fmt.Sprintf("pedido-%s.%s", order.ID, ext),
		Data: data,
	}})
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=pedido-%s.zip", order.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// orderImage resolves an order's image reference to raw bytes. The reference
// is either an inline data: URL or a key into the file store.
func (a *App) orderImage(r *http.Request, order domain.Order) ([]byte, string) {
	ref := strings.TrimSpace(order.ImageRef)
	if ref == "" {
		return nil, ""
	}
	if strings.HasPrefix(ref, "data:") {
		mime, data, err := image.DecodeDataURL(ref)
		if err != nil {
			return nil, ""
		}
		return data, extFromMIME(mime)
	}
	if a.Store == nil {
		return nil, ""
	}
	data, err := a.Store.Read(r.Context(), ref)
	if err != nil {
		return nil, ""
	}
	ext := "png"
	if idx := strings.LastIndex(ref, "."); idx >= 0 && idx < len(ref)-1 {
		if candidate := strings.ToLower(ref[idx+1:]); !strings.ContainsAny(candidate, "/\\") {
			ext = candidate
		}
	}
	return data, ext
}

func extFromMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}

func (a *App) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return nil, false
	}
	order, err := a.Orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "order not found")
			return nil, false
		}
		a.Logger.Error().Err(err).Str("order_id", id).Msg("failed to load order")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load order")
		return nil, false
	}
	return order, true
}
