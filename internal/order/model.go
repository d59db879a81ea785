package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionName is the Mongo collection for orders.
const CollectionName = "order"

type Currency string

// CurrencyZAR is the only settlement currency.
const CurrencyZAR Currency = "ZAR"

type Status string

// Orders are created pending. The other states are set by payment and
// fulfilment processes outside this service.
const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusProcessing, StatusCancelled:
		return true
	}
	return false
}

type PlanType string

const (
	PlanOnceOff    PlanType = "once_off"
	PlanThreeMonth PlanType = "3_month"
)

// ResolvePlanType maps a requested plan name to a supported plan.
// An empty name is the once-off default. Unrecognised names resolve to
// once-off and report ok=false.
func ResolvePlanType(raw string) (plan PlanType, ok bool) {
	switch PlanType(raw) {
	case PlanThreeMonth:
		return PlanThreeMonth, true
	case PlanOnceOff, "":
		return PlanOnceOff, true
	default:
		return PlanOnceOff, false
	}
}

// CartItem is a cart line as the client built it. Title and Price are
// snapshots and are not re-read from the catalog.
type CartItem struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
	Size      *string
	Image     *string
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type PaymentPlan struct {
	Type           PlanType
	DepositPercent int
	Months         int
	MonthlyAmount  decimal.Decimal
}

func OnceOffPlan() PaymentPlan {
	return PaymentPlan{
		Type:           PlanOnceOff,
		DepositPercent: 0,
		Months:         1,
		MonthlyAmount:  decimal.Zero,
	}
}

// PlanRequest is the plan the customer asked for. Only Type and
// DepositPercent influence pricing.
type PlanRequest struct {
	Type           string
	DepositPercent *int
}

type Customer struct {
	Name    string
	Email   string
	Address string
}

type Order struct {
	ID           string
	CustomerName string
	Email        string
	Address      string
	Items        []CartItem
	Subtotal     decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	Currency     Currency
	PaymentPlan  PaymentPlan
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CheckoutInput struct {
	Items    []CartItem
	Plan     PlanRequest
	Customer Customer
}

// Summary holds the emitted, rounded checkout amounts.
type Summary struct {
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	Total       decimal.Decimal
	PaymentPlan PaymentPlan
}

// CheckoutResult carries a nil OrderID when the order could not be stored.
type CheckoutResult struct {
	OrderID *string
	Summary Summary
	Status  Status
}
