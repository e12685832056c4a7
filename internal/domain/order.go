package domain

import "time"

// OrderStatus enumerates the fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusSubmitted    OrderStatus = "submitted"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusFinished     OrderStatus = "finished"
)

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusSubmitted, OrderStatusInProduction, OrderStatusFinished:
		return true
	}
	return false
}

// CanTransition reports whether staff may move an order from one status to
// another. The lifecycle only moves forward.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case OrderStatusSubmitted:
		return to == OrderStatusInProduction
	case OrderStatusInProduction:
		return to == OrderStatusFinished
	}
	return false
}

// Order is the persisted result of a submitted selection. Exactly one of
// UserID or the guest contact pair is set.
type Order struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id,omitempty"`
	GuestName   string      `json:"guest_nome,omitempty"`
	GuestPhone  string      `json:"guest_telefone,omitempty"`
	ChocolateID string      `json:"chocolate_id"`
	BaseID      string      `json:"base_id,omitempty"`
	GanacheID   string      `json:"ganache_id"`
	JamID       string      `json:"geleia_id,omitempty"`
	ColorID     string      `json:"cor_id"`
	Prompt      string      `json:"prompt_gerado,omitempty"`
	ImageRef    string      `json:"url_imagem,omitempty"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
