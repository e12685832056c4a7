package domain

import "context"

// OrderRepository defines persistence for submitted orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, status OrderStatus, limit int) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}

// CatalogRepository defines access to the customization option tables.
type CatalogRepository interface {
	ListActive(ctx context.Context) (*CatalogOptions, error)
	ListGroup(ctx context.Context, group OptionGroup, includeInactive bool) ([]CatalogOption, error)
	CreateOption(ctx context.Context, group OptionGroup, opt *CatalogOption) (*CatalogOption, error)
	UpdateOption(ctx context.Context, group OptionGroup, opt *CatalogOption) (*CatalogOption, error)
	DeleteOption(ctx context.Context, group OptionGroup, id string) error
}
