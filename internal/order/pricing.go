package order

import "github.com/shopspring/decimal"

const (
	DefaultDepositPercent = 20
	InstallmentMonths     = 3
)

var (
	freeShippingThreshold = decimal.NewFromInt(1000)
	flatShippingFee       = decimal.NewFromInt(80)
	hundred               = decimal.NewFromInt(100)
)

// Quote is the result of pricing a cart. Subtotal is exact; every other
// amount is already rounded to cents.
type Quote struct {
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
	Deposit   decimal.Decimal
	Remaining decimal.Decimal
	Plan      PaymentPlan
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Price computes checkout totals for items under the requested plan.
// An empty cart is the only rejected input.
func Price(items []CartItem, requested PlanRequest) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	shipping := decimal.Zero
	if subtotal.LessThan(freeShippingThreshold) {
		shipping = flatShippingFee
	}

	q := Quote{
		Subtotal:  subtotal,
		Shipping:  round2(shipping),
		Total:     round2(subtotal.Add(shipping)),
		Deposit:   decimal.Zero,
		Remaining: decimal.Zero,
		Plan:      OnceOffPlan(),
	}

	if planType, _ := ResolvePlanType(requested.Type); planType != PlanThreeMonth {
		return q, nil
	}

	percent := DefaultDepositPercent
	if requested.DepositPercent != nil {
		percent = *requested.DepositPercent
	}

	q.Deposit = round2(subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred))
	q.Remaining = subtotal.Sub(q.Deposit)
	q.Plan = PaymentPlan{
		Type:           PlanThreeMonth,
		DepositPercent: percent,
		Months:         InstallmentMonths,
		MonthlyAmount:  round2(q.Remaining.Div(decimal.NewFromInt(InstallmentMonths))),
	}

	return q, nil
}

// Summary returns the amounts as they are emitted and stored.
func (q Quote) Summary() Summary {
	return Summary{
		Subtotal:    round2(q.Subtotal),
		Shipping:    q.Shipping,
		Total:       q.Total,
		PaymentPlan: q.Plan,
	}
}
