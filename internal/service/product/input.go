package product

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

const (
	maxNameLen        = 200
	maxDescriptionLen = 2000
	maxCategoryLen    = 100

	defaultListLimit = 100
	maxListLimit     = 1000
)

// CreateInput holds the parameters for creating a product.
type CreateInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Stock       int
	Category    string
	IsActive    *bool // nil defaults to true
}

// Validate checks all fields and collects all errors.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
	}

	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}

	errs = append(errs, validatePrice(i.Price)...)

	if i.Stock < 0 {
		errs = append(errs, domain.FieldError{Field: "stock", Message: "must not be negative"})
	}

	category := strings.TrimSpace(i.Category)
	if category == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
	}
	if len(category) > maxCategoryLen {
		errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i CreateInput) toParams() domain.ProductCreateParams {
	isActive := true
	if i.IsActive != nil {
		isActive = *i.IsActive
	}

	return domain.ProductCreateParams{
		Name:        strings.TrimSpace(i.Name),
		Description: trimOrNil(i.Description),
		Price:       i.Price,
		Stock:       i.Stock,
		Category:    strings.TrimSpace(i.Category),
		IsActive:    isActive,
	}
}

// UpdateInput holds partial update fields. nil means "don't change";
// Description ptr("") clears the value.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	IsActive    *bool
}

// Validate checks all fields and collects all errors.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == nil && i.Description == nil && i.Price == nil &&
		i.Stock == nil && i.Category == nil && i.IsActive == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}

	if i.Name != nil {
		name := strings.TrimSpace(*i.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		}
		if len(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "max 200 characters"})
		}
	}

	if i.Description != nil && len(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "max 2000 characters"})
	}

	if i.Price != nil {
		errs = append(errs, validatePrice(*i.Price)...)
	}

	if i.Stock != nil && *i.Stock < 0 {
		errs = append(errs, domain.FieldError{Field: "stock", Message: "must not be negative"})
	}

	if i.Category != nil {
		category := strings.TrimSpace(*i.Category)
		if category == "" {
			errs = append(errs, domain.FieldError{Field: "category", Message: "required"})
		}
		if len(category) > maxCategoryLen {
			errs = append(errs, domain.FieldError{Field: "category", Message: "max 100 characters"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func (i UpdateInput) toParams() domain.ProductUpdateParams {
	params := domain.ProductUpdateParams{
		Price:    i.Price,
		Stock:    i.Stock,
		IsActive: i.IsActive,
	}
	if i.Name != nil {
		params.Name = ptr(strings.TrimSpace(*i.Name))
	}
	if i.Description != nil {
		// Preserve ptr("") so the repo can clear the column.
		params.Description = ptr(strings.TrimSpace(*i.Description))
	}
	if i.Category != nil {
		params.Category = ptr(strings.TrimSpace(*i.Category))
	}
	return params
}

// ListInput holds filter and pagination parameters for List and Count.
type ListInput struct {
	Category *string
	IsActive *bool
	Skip     int
	Limit    int
}

// toFilter applies defaults and clamps values.
func (i ListInput) toFilter() domain.ProductFilter {
	if i.Skip < 0 {
		i.Skip = 0
	}
	if i.Limit <= 0 {
		i.Limit = defaultListLimit
	}
	if i.Limit > maxListLimit {
		i.Limit = maxListLimit
	}

	return domain.ProductFilter{
		Category: trimOrNil(i.Category),
		IsActive: i.IsActive,
		Skip:     i.Skip,
		Limit:    i.Limit,
	}
}

// validatePrice rejects negative prices and sub-cent precision.
func validatePrice(price decimal.Decimal) []domain.FieldError {
	var errs []domain.FieldError
	if price.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must not be negative"})
	}
	if !price.Equal(price.Truncate(2)) {
		errs = append(errs, domain.FieldError{Field: "price", Message: "max 2 decimal places"})
	}
	return errs
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
