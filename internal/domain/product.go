package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog record. PostgreSQL is the source of truth for it;
// the cache and the search index only ever hold denormalized copies.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductCreateParams holds the fields for inserting a new product.
// ID and timestamps are assigned by the store.
type ProductCreateParams struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	Category    string
	IsActive    bool
}

// ProductUpdateParams holds partial update fields.
// nil means "don't change"; for Description, ptr("") clears the value.
type ProductUpdateParams struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	IsActive    *bool
}

// Empty reports whether no field is set.
func (p ProductUpdateParams) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Stock == nil && p.Category == nil && p.IsActive == nil
}

// ProductFilter selects products for List and Count.
// Category and IsActive are equality filters; nil means "any".
type ProductFilter struct {
	Category *string
	IsActive *bool
	Skip     int
	Limit    int
}
