package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bombom/internal/domain"
)

// OrderRepositoryPG implements domain.OrderRepository.
type OrderRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new order repository backed by PostgreSQL.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepositoryPG {
	return &OrderRepositoryPG{pool: pool}
}

const orderColumns = `
id, COALESCE(user_id::text, ''), COALESCE(guest_nome, ''), COALESCE(guest_telefone, ''),
chocolate_id, COALESCE(base_id::text, ''), ganache_id, COALESCE(geleia_id::text, ''), cor_id,
COALESCE(prompt_gerado, ''), COALESCE(url_imagem, ''), status, created_at, updated_at`

// Create inserts a new order record and returns it with the server-assigned
// id, status, and timestamps. The insert is a single atomic statement.
func (r *OrderRepositoryPG) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
INSERT INTO bombons (user_id, guest_nome, guest_telefone, chocolate_id, base_id, ganache_id, geleia_id, cor_id, prompt_gerado, url_imagem, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns + `;`
	row := r.pool.QueryRow(ctx, query,
		nullableText(order.UserID),
		nullableText(order.GuestName),
		nullableText(order.GuestPhone),
		order.ChocolateID,
		nullableText(order.BaseID),
		order.GanacheID,
		nullableText(order.JamID),
		order.ColorID,
		nullableText(order.Prompt),
		nullableText(order.ImageRef),
		string(order.Status),
	)
	return scanOrder(row)
}

// GetByID fetches an order by its identifier.
func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM bombons WHERE id = $1;`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return order, err
}

// List returns orders, optionally filtered by status, newest first.
func (r *OrderRepositoryPG) List(ctx context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + orderColumns + ` FROM bombons WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2;`
	rows, err := r.pool.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// UpdateStatus moves an order to a new lifecycle state.
func (r *OrderRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	query := `
UPDATE bombons
SET status = $2, updated_at = NOW()
WHERE id = $1
RETURNING ` + orderColumns + `;`
	row := r.pool.QueryRow(ctx, query, id, string(status))
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return order, err
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	var status string
	if err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.GuestName,
		&order.GuestPhone,
		&order.ChocolateID,
		&order.BaseID,
		&order.GanacheID,
		&order.JamID,
		&order.ColorID,
		&order.Prompt,
		&order.ImageRef,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
