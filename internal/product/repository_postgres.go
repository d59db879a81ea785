package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sa-fashion-be/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const productColumns = `id, title, brand, description, category, price_zar, images, sizes, in_stock`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	where := []string{}
	args := []interface{}{}

	// ---------- FILTER ----------
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	if filter.Query != "" {
		n := len(args) + 1
		where = append(where, fmt.Sprintf(
			"(title ~* $%d OR brand ~* $%d OR description ~* $%d)", n, n, n,
		))
		args = append(args, filter.Query)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	query += " ORDER BY created_at ASC, id ASC"

	logger.FromCtx(ctx).Debug("executing product list query",
		zap.String("query", query),
		zap.Any("args", args),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		var (
			p        Product
			category string
		)
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Brand,
			&p.Description,
			&category,
			&p.Price,
			pq.Array(&p.Images),
			pq.Array(&p.Sizes),
			&p.InStock,
		); err != nil {
			return nil, err
		}
		p.Category = Category(category)
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *postgresRepository) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products)`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProduct(ctx context.Context, ex execer, id string, p *Product) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id,
		p.Title,
		p.Brand,
		p.Description,
		string(p.Category),
		p.Price,
		pq.Array(nonNil(p.Images)),
		pq.Array(nonNil(p.Sizes)),
		p.InStock,
	)
	return err
}

func (r *postgresRepository) Create(ctx context.Context, p *Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	id := uuid.New().String()
	if err := insertProduct(ctx, r.db, id, p); err != nil {
		return "", err
	}

	p.ID = id
	return id, nil
}

// CreateMany inserts all products in one transaction. IDs are assigned only
// after the commit succeeds.
func (r *postgresRepository) CreateMany(ctx context.Context, products []*Product) error {
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%q: %w", p.Title, err)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = uuid.New().String()
		if err := insertProduct(ctx, tx, ids[i], p); err != nil {
			return fmt.Errorf("insert %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for i, p := range products {
		p.ID = ids[i]
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
