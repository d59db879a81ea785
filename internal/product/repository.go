package product

import (
	"context"

	"sa-fashion-be/internal/db"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Product, error)
	IsEmpty(ctx context.Context) (bool, error)
	Create(ctx context.Context, p *Product) (string, error)
	// CreateMany stores every product or none of them.
	CreateMany(ctx context.Context, products []*Product) error
}

// NewRepository returns the repository for the backend behind conn.
// A nil or empty conn yields a repository that always reports db.ErrUnavailable.
func NewRepository(conn *db.Conn) Repository {
	switch {
	case !conn.Available():
		return unavailableRepository{}
	case conn.Mongo != nil:
		return NewMongoRepository(conn.Mongo.Collection(CollectionName))
	default:
		return NewPostgresRepository(conn.SQL)
	}
}

type unavailableRepository struct{}

func (unavailableRepository) List(context.Context, Filter) ([]*Product, error) {
	return nil, db.ErrUnavailable
}

func (unavailableRepository) IsEmpty(context.Context) (bool, error) {
	return false, db.ErrUnavailable
}

func (unavailableRepository) Create(context.Context, *Product) (string, error) {
	return "", db.ErrUnavailable
}

func (unavailableRepository) CreateMany(context.Context, []*Product) error {
	return db.ErrUnavailable
}
