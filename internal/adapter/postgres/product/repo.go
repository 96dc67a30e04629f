// Package product implements the product record store using PostgreSQL.
// It is the authoritative backend: the cache and the search index hold
// denormalized copies populated from it, never the other way around.
package product

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/adapter/postgres"
	"github.com/ndmitriev/catalog-service/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const table = "products"

// returning lists the columns every read comes back with. price is selected
// as text so it can be parsed into an exact decimal.
const returning = "id, name, description, price::text, stock, category, is_active, created_at, updated_at"

// Repo provides product persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new product repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a product by primary key.
// Returns domain.ErrNotFound if the product does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	sqlStr, args, err := psql.
		Select(returning).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "product", id.String())
	}

	return p, nil
}

// List returns products matching the filter ordered by created_at DESC.
// Skip and Limit values of zero mean no offset and no limit.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	b := psql.
		Select(returning).
		From(table).
		OrderBy("created_at DESC")
	b = applyFilter(b, filter)
	if filter.Skip > 0 {
		b = b.Offset(uint64(filter.Skip))
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, postgres.MapError(err, "product", "")
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "product", "")
	}

	return products, nil
}

// Count returns the number of products matching the filter.
func (r *Repo) Count(ctx context.Context, filter domain.ProductFilter) (int, error) {
	b := psql.Select("COUNT(*)").From(table)
	b = applyFilter(b, filter)

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, postgres.MapError(err, "product", "")
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new product and returns the persisted domain.Product
// with the store-assigned id and timestamps.
func (r *Repo) Create(ctx context.Context, params domain.ProductCreateParams) (*domain.Product, error) {
	sqlStr, args, err := psql.
		Insert(table).
		Columns("name", "description", "price", "stock", "category", "is_active").
		Values(params.Name, params.Description, params.Price.String(), params.Stock, params.Category, params.IsActive).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "product", "")
	}

	return p, nil
}

// Update applies a partial update and refreshes updated_at.
// Returns domain.ErrNotFound if the product does not exist.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.ProductUpdateParams) (*domain.Product, error) {
	if params.Empty() {
		return r.GetByID(ctx, id)
	}

	b := psql.
		Update(table).
		Set("updated_at", sq.Expr("now()"))

	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.Description != nil {
		if *params.Description == "" {
			// ptr("") means clear (set NULL in DB).
			b = b.Set("description", nil)
		} else {
			b = b.Set("description", *params.Description)
		}
	}
	if params.Price != nil {
		b = b.Set("price", params.Price.String())
	}
	if params.Stock != nil {
		b = b.Set("stock", *params.Stock)
	}
	if params.Category != nil {
		b = b.Set("category", *params.Category)
	}
	if params.IsActive != nil {
		b = b.Set("is_active", *params.IsActive)
	}

	sqlStr, args, err := b.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, postgres.MapError(err, "product", id.String())
	}

	return p, nil
}

// Delete removes a product. Returns domain.ErrNotFound if the product
// does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := psql.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return postgres.MapError(err, "product", id.String())
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func applyFilter(b sq.SelectBuilder, filter domain.ProductFilter) sq.SelectBuilder {
	if filter.Category != nil {
		b = b.Where(sq.Eq{"category": *filter.Category})
	}
	if filter.IsActive != nil {
		b = b.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	return b
}

// scanProduct reads one row in the "returning" column order.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&price,
		&p.Stock,
		&p.Category,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d

	return &p, nil
}
