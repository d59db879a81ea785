package product

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CollectionName is the Mongo collection (and Postgres table, pluralised) for products.
const CollectionName = "product"

type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryClothing, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

// ParseCategory rejects anything outside the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

type Product struct {
	ID          string
	Title       string
	Brand       *string
	Description *string
	Category    Category
	Price       decimal.Decimal
	Images      []string
	Sizes       []string
	InStock     bool
}

// Filter narrows a catalog listing. Empty fields do not filter.
type Filter struct {
	Query    string
	Category string
}

func (f Filter) IsZero() bool {
	return f.Query == "" && f.Category == ""
}

// Validate checks the fields a stored product must carry.
func (p *Product) Validate() error {
	if p.Title == "" {
		return ErrTitleRequired
	}
	if !p.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, p.Category)
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
