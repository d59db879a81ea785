package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const orderColumns = `id, customer_name, email, address, items,
	subtotal_zar, shipping_zar, total_zar, currency,
	plan_type, deposit_percent, months, monthly_amount,
	status, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, o *Order) (string, error) {
	items, err := json.Marshal(toItemDocuments(o.Items))
	if err != nil {
		return "", fmt.Errorf("encode order items: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		id,
		o.CustomerName,
		o.Email,
		o.Address,
		string(items),
		o.Subtotal,
		o.Shipping,
		o.Total,
		string(o.Currency),
		string(o.PaymentPlan.Type),
		o.PaymentPlan.DepositPercent,
		o.PaymentPlan.Months,
		o.PaymentPlan.MonthlyAmount,
		string(o.Status),
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return "", err
	}

	o.ID = id
	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	var (
		o        Order
		items    []byte
		currency string
		planType string
		status   string
	)

	err := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id).Scan(
		&o.ID,
		&o.CustomerName,
		&o.Email,
		&o.Address,
		&items,
		&o.Subtotal,
		&o.Shipping,
		&o.Total,
		&currency,
		&planType,
		&o.PaymentPlan.DepositPercent,
		&o.PaymentPlan.Months,
		&o.PaymentPlan.MonthlyAmount,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var docs []itemDocument
	if err := json.Unmarshal(items, &docs); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}

	o.Items = fromItemDocuments(docs)
	o.Currency = Currency(currency)
	o.PaymentPlan.Type = PlanType(planType)
	o.Status = Status(status)

	return &o, nil
}
