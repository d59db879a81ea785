package order

import (
	"context"
	"errors"
	"time"

	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

// Checkout prices the cart, builds a pending order and stores it.
// Storage failures do not fail the checkout; the result then has no order id.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Int("item_count", len(input.Items)),
		zap.String("plan_type", input.Plan.Type),
	)

	log.Info("checkout started")

	if _, known := ResolvePlanType(input.Plan.Type); !known {
		log.Warn("unrecognised plan type, using once_off")
	}

	quote, err := Price(input.Items, input.Plan)
	if err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	summary := quote.Summary()

	log.Info("price calculated",
		zap.String("subtotal", summary.Subtotal.StringFixed(2)),
		zap.String("shipping", summary.Shipping.StringFixed(2)),
		zap.String("total", summary.Total.StringFixed(2)),
		zap.String("deposit", quote.Deposit.StringFixed(2)),
		zap.String("monthly_amount", summary.PaymentPlan.MonthlyAmount.StringFixed(2)),
	)

	now := s.now().UTC()
	order := &Order{
		CustomerName: input.Customer.Name,
		Email:        input.Customer.Email,
		Address:      input.Customer.Address,
		Items:        append([]CartItem(nil), input.Items...),
		Subtotal:     summary.Subtotal,
		Shipping:     summary.Shipping,
		Total:        summary.Total,
		Currency:     CurrencyZAR,
		PaymentPlan:  summary.PaymentPlan,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result := &CheckoutResult{
		Summary: summary,
		Status:  order.Status,
	}

	id, err := s.repo.Create(ctx, order)
	switch {
	case errors.Is(err, db.ErrUnavailable):
		log.Warn("order store unavailable, order not persisted")
	case err != nil:
		log.Error("failed to persist order", zap.Error(err))
	default:
		result.OrderID = &id
		log.Info("order created", zap.String("order_id", id))
	}

	return result, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.FromCtx(ctx).Warn("get order failed",
			zap.String("layer", "service"),
			zap.String("order_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}
