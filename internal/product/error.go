package product

import "errors"

var (
	ErrInvalidCategory = errors.New("invalid product category")
	ErrTitleRequired   = errors.New("title is required")
	ErrNegativePrice   = errors.New("price cannot be negative")

	// ErrCatalogQuery wraps store failures while listing, e.g. a malformed search pattern.
	ErrCatalogQuery = errors.New("catalog query failed")
)
