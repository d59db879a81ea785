package order

import (
	"context"

	"sa-fashion-be/internal/db"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (string, error)
	GetByID(ctx context.Context, id string) (*Order, error)
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

func (unavailableRepository) Create(context.Context, *Order) (string, error) {
	return "", db.ErrUnavailable
}

func (unavailableRepository) GetByID(context.Context, string) (*Order, error) {
	return nil, db.ErrUnavailable
}
