package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bombom/internal/domain"
)

// CatalogRepositoryPG implements domain.CatalogRepository over the five
// customization option tables.
type CatalogRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository backed by PostgreSQL.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepositoryPG {
	return &CatalogRepositoryPG{pool: pool}
}

// groupTables maps each option group to its table. Only validated groups ever
// reach query construction, so interpolating the table name is safe.
var groupTables = map[domain.OptionGroup]string{
	domain.GroupChocolate: "opcoes_chocolate",
	domain.GroupBase:      "opcoes_base",
	domain.GroupGanache:   "opcoes_ganache",
	domain.GroupJam:       "opcoes_geleia",
	domain.GroupColor:     "opcoes_cor",
}

func groupTable(group domain.OptionGroup) (string, error) {
	table, ok := groupTables[group]
	if !ok {
		return "", fmt.Errorf("%w: unknown option group %q", domain.ErrValidation, group)
	}
	return table, nil
}

// hexColumn returns the codigo_hex select expression. Only the color table
// carries the column.
func hexColumn(group domain.OptionGroup) string {
	if group == domain.GroupColor {
		return "COALESCE(codigo_hex, '')"
	}
	return "''"
}

// ListActive returns the active options of every group, ordered for display.
func (r *CatalogRepositoryPG) ListActive(ctx context.Context) (*domain.CatalogOptions, error) {
	options := &domain.CatalogOptions{}
	targets := []struct {
		group domain.OptionGroup
		dst   *[]domain.CatalogOption
	}{
		{domain.GroupChocolate, &options.Chocolates},
		{domain.GroupBase, &options.Bases},
		{domain.GroupGanache, &options.Ganaches},
		{domain.GroupJam, &options.Jams},
		{domain.GroupColor, &options.Colors},
	}
	for _, t := range targets {
		opts, err := r.ListGroup(ctx, t.group, false)
		if err != nil {
			return nil, err
		}
		*t.dst = opts
	}
	return options, nil
}

// ListGroup returns one group's options ordered by position.
func (r *CatalogRepositoryPG) ListGroup(ctx context.Context, group domain.OptionGroup, includeInactive bool) ([]domain.CatalogOption, error) {
	table, err := groupTable(group)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(
		`SELECT id, nome, %s, ativo, ordem FROM %s WHERE ($1 OR ativo) ORDER BY ordem, nome;`,
		hexColumn(group), table,
	)
	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []domain.CatalogOption{}
	for rows.Next() {
		var opt domain.CatalogOption
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Hex, &opt.Active, &opt.Position); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// CreateOption inserts a new option into the group's table.
func (r *CatalogRepositoryPG) CreateOption(ctx context.Context, group domain.OptionGroup, opt *domain.CatalogOption) (*domain.CatalogOption, error) {
	table, err := groupTable(group)
	if err != nil {
		return nil, err
	}
	var query string
	var args []any
	if group == domain.GroupColor {
		query = fmt.Sprintf(
			`INSERT INTO %s (nome, codigo_hex, ativo, ordem) VALUES ($1, $2, $3, $4)
RETURNING id, nome, COALESCE(codigo_hex, ''), ativo, ordem;`, table)
		args = []any{opt.Name, opt.Hex, opt.Active, opt.Position}
	} else {
		query = fmt.Sprintf(
			`INSERT INTO %s (nome, ativo, ordem) VALUES ($1, $2, $3)
RETURNING id, nome, '', ativo, ordem;`, table)
		args = []any{opt.Name, opt.Active, opt.Position}
	}
	return r.scanOption(r.pool.QueryRow(ctx, query, args...))
}

// UpdateOption rewrites an option's editable fields.
func (r *CatalogRepositoryPG) UpdateOption(ctx context.Context, group domain.OptionGroup, opt *domain.CatalogOption) (*domain.CatalogOption, error) {
	table, err := groupTable(group)
	if err != nil {
		return nil, err
	}
	var query string
	var args []any
	if group == domain.GroupColor {
		query = fmt.Sprintf(
			`UPDATE %s SET nome = $2, codigo_hex = $3, ativo = $4, ordem = $5 WHERE id = $1
RETURNING id, nome, COALESCE(codigo_hex, ''), ativo, ordem;`, table)
		args = []any{opt.ID, opt.Name, opt.Hex, opt.Active, opt.Position}
	} else {
		query = fmt.Sprintf(
			`UPDATE %s SET nome = $2, ativo = $3, ordem = $4 WHERE id = $1
RETURNING id, nome, '', ativo, ordem;`, table)
		args = []any{opt.ID, opt.Name, opt.Active, opt.Position}
	}
	updated, err := r.scanOption(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return updated, err
}

// DeleteOption removes an option from the group's table.
func (r *CatalogRepositoryPG) DeleteOption(ctx context.Context, group domain.OptionGroup, id string) error {
	table, err := groupTable(group)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepositoryPG) scanOption(row pgx.Row) (*domain.CatalogOption, error) {
	var opt domain.CatalogOption
	if err := row.Scan(&opt.ID, &opt.Name, &opt.Hex, &opt.Active, &opt.Position); err != nil {
		return nil, err
	}
	return &opt, nil
}
