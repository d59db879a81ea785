package product

import (
	"sa-fashion-be/internal/utils"

	"github.com/shopspring/decimal"
)

// DemoProducts is the fixed catalog inserted into an empty store.
func DemoProducts() []Product {
	return []Product{
		{
			Title:       "Classic SA Hoodie",
			Brand:       utils.StrPtr("Mzansi Threads"),
			Description: utils.StrPtr("Heavyweight fleece with bold embroidery."),
			Category:    CategoryClothing,
			Price:       decimal.NewFromInt(799),
			Images:      []string{"https://images.unsplash.com/photo-1541099649105-f69ad21f3246?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"S", "M", "L", "XL"},
			InStock:     true,
		},
		{
			Title:       "Street Runner V2",
			Brand:       utils.StrPtr("Joburg Kicks"),
			Description: utils.StrPtr("Lightweight, everyday sneaker."),
			Category:    CategoryShoes,
			Price:       decimal.NewFromInt(1299),
			Images:      []string{"https://images.unsplash.com/photo-1542291026-7eec264c27ff?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"6", "7", "8", "9", "10"},
			InStock:     true,
		},
		{
			Title:       "Signature Tee",
			Brand:       utils.StrPtr("Cape Co."),
			Description: utils.StrPtr("Premium cotton tee with oversized fit."),
			Category:    CategoryClothing,
			Price:       decimal.NewFromInt(349),
			Images:      []string{"https://images.unsplash.com/photo-1520975867597-0af37a22e31b?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"S", "M", "L", "XL"},
			InStock:     true,
		},
	}
}
