package order

// CheckoutMessage is returned with every accepted checkout.
const CheckoutMessage = "Order created. Proceed to payment."

type PaymentPlanResponse struct {
	PlanType       PlanType `json:"plan_type"`
	DepositPercent int      `json:"deposit_percent"`
	Months         int      `json:"months"`
	MonthlyAmount  float64  `json:"monthly_amount"`
}

type SummaryResponse struct {
	SubtotalZAR float64             `json:"subtotal_zar"`
	ShippingZAR float64             `json:"shipping_zar"`
	TotalZAR    float64             `json:"total_zar"`
	PaymentPlan PaymentPlanResponse `json:"payment_plan"`
}

type CheckoutResponse struct {
	OrderID *string         `json:"order_id"`
	Summary SummaryResponse `json:"summary"`
	Status  Status          `json:"status"`
	Message string          `json:"message"`
}

func ToPaymentPlanResponse(p PaymentPlan) PaymentPlanResponse {
	return PaymentPlanResponse{
		PlanType:       p.Type,
		DepositPercent: p.DepositPercent,
		Months:         p.Months,
		MonthlyAmount:  p.MonthlyAmount.InexactFloat64(),
	}
}

func ToSummaryResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		SubtotalZAR: s.Subtotal.InexactFloat64(),
		ShippingZAR: s.Shipping.InexactFloat64(),
		TotalZAR:    s.Total.InexactFloat64(),
		PaymentPlan: ToPaymentPlanResponse(s.PaymentPlan),
	}
}

func ToCheckoutResponse(r *CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		OrderID: r.OrderID,
		Summary: ToSummaryResponse(r.Summary),
		Status:  r.Status,
		Message: CheckoutMessage,
	}
}
