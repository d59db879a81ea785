package order

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// itemDocument is the stored shape of a cart line, shared by the JSONB
// column in Postgres and the embedded array in MongoDB.
type itemDocument struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	PriceZAR  float64 `json:"price_zar" bson:"price_zar"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Size      *string `json:"size" bson:"size"`
	Image     *string `json:"image" bson:"image"`
}

type planDocument struct {
	PlanType       string  `bson:"plan_type"`
	DepositPercent int     `bson:"deposit_percent"`
	Months         int     `bson:"months"`
	MonthlyAmount  float64 `bson:"monthly_amount"`
}

type orderDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName string             `bson:"customer_name"`
	Email        string             `bson:"email"`
	Address      string             `bson:"address"`
	Items        []itemDocument     `bson:"items"`
	SubtotalZAR  float64            `bson:"subtotal_zar"`
	ShippingZAR  float64            `bson:"shipping_zar"`
	TotalZAR     float64            `bson:"total_zar"`
	Currency     string             `bson:"currency"`
	PaymentPlan  planDocument       `bson:"payment_plan"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toItemDocuments(items []CartItem) []itemDocument {
	docs := make([]itemDocument, 0, len(items))
	for _, it := range items {
		docs = append(docs, itemDocument{
			ProductID: it.ProductID,
			Title:     it.Title,
			PriceZAR:  it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
			Size:      it.Size,
			Image:     it.Image,
		})
	}
	return docs
}

func toOrderDocument(o *Order) orderDocument {
	return orderDocument{
		CustomerName: o.CustomerName,
		Email:        o.Email,
		Address:      o.Address,
		Items:        toItemDocuments(o.Items),
		SubtotalZAR:  o.Subtotal.InexactFloat64(),
		ShippingZAR:  o.Shipping.InexactFloat64(),
		TotalZAR:     o.Total.InexactFloat64(),
		Currency:     string(o.Currency),
		PaymentPlan: planDocument{
			PlanType:       string(o.PaymentPlan.Type),
			DepositPercent: o.PaymentPlan.DepositPercent,
			Months:         o.PaymentPlan.Months,
			MonthlyAmount:  o.PaymentPlan.MonthlyAmount.InexactFloat64(),
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func fromItemDocuments(docs []itemDocument) []CartItem {
	items := make([]CartItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, CartItem{
			ProductID: d.ProductID,
			Title:     d.Title,
			Price:     decimal.NewFromFloat(d.PriceZAR),
			Quantity:  d.Quantity,
			Size:      d.Size,
			Image:     d.Image,
		})
	}
	return items
}

func (d orderDocument) toOrder() *Order {
	return &Order{
		ID:           d.ID.Hex(),
		CustomerName: d.CustomerName,
		Email:        d.Email,
		Address:      d.Address,
		Items:        fromItemDocuments(d.Items),
		Subtotal:     decimal.NewFromFloat(d.SubtotalZAR),
		Shipping:     decimal.NewFromFloat(d.ShippingZAR),
		Total:        decimal.NewFromFloat(d.TotalZAR),
		Currency:     Currency(d.Currency),
		PaymentPlan: PaymentPlan{
			Type:           PlanType(d.PaymentPlan.PlanType),
			DepositPercent: d.PaymentPlan.DepositPercent,
			Months:         d.PaymentPlan.Months,
			MonthlyAmount:  decimal.NewFromFloat(d.PaymentPlan.MonthlyAmount),
		},
		Status:    Status(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
