package product

type Response struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Brand       *string  `json:"brand"`
	Description *string  `json:"description"`
	Category    Category `json:"category"`
	PriceZAR    float64  `json:"price_zar"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	InStock     bool     `json:"in_stock"`
}

func ToResponse(p *Product) Response {
	return Response{
		ID:          p.ID,
		Title:       p.Title,
		Brand:       p.Brand,
		Description: p.Description,
		Category:    p.Category,
		PriceZAR:    p.Price.InexactFloat64(),
		Images:      nonNil(p.Images),
		Sizes:       nonNil(p.Sizes),
		InStock:     p.InStock,
	}
}

func ToResponseList(products []*Product) []Response {
	out := make([]Response, 0, len(products))
	for _, p := range products {
		out = append(out, ToResponse(p))
	}
	return out
}
