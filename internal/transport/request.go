package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"sa-fashion-be/internal/order"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type cartItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Title     string           `json:"title" validate:"required"`
	PriceZAR  *decimal.Decimal `json:"price_zar" validate:"required"`
	Quantity  *int             `json:"quantity" validate:"omitempty,min=1"`
	Size      *string          `json:"size"`
	Image     *string          `json:"image"`
}

// paymentPlanRequest accepts the full plan shape. Months and
// MonthlyAmount are derived during pricing and ignored here.
type paymentPlanRequest struct {
	PlanType       string           `json:"plan_type"`
	DepositPercent *int             `json:"deposit_percent" validate:"omitempty,min=0,max=100"`
	Months         *int             `json:"months" validate:"omitempty,min=1"`
	MonthlyAmount  *decimal.Decimal `json:"monthly_amount"`
}

type checkoutRequest struct {
	Items        []cartItemRequest   `json:"items" validate:"required,dive"`
	PaymentPlan  *paymentPlanRequest `json:"payment_plan" validate:"required"`
	CustomerName string              `json:"customer_name" validate:"required"`
	Email        string              `json:"email" validate:"required,email"`
	Address      string              `json:"address" validate:"required"`
}

func (req *checkoutRequest) toInput() order.CheckoutInput {
	items := make([]order.CartItem, 0, len(req.Items))
	for _, it := range req.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		items = append(items, order.CartItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     *it.PriceZAR,
			Quantity:  qty,
			Size:      it.Size,
			Image:     it.Image,
		})
	}

	return order.CheckoutInput{
		Items: items,
		Plan: order.PlanRequest{
			Type:           req.PaymentPlan.PlanType,
			DepositPercent: req.PaymentPlan.DepositPercent,
		},
		Customer: order.Customer{
			Name:    req.CustomerName,
			Email:   req.Email,
			Address: req.Address,
		},
	}
}

// fieldError is one entry of a 422 detail list.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeCheckout reads and validates the request body. On failure it
// returns the status and the detail to send.
func (h *Handler) decodeCheckout(w http.ResponseWriter, r *http.Request) (*checkoutRequest, int, any) {
	var req checkoutRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			return nil, http.StatusUnprocessableEntity, []fieldError{{
				Loc:  bodyLoc(typeErr.Field),
				Msg:  "expected " + typeErr.Type.String() + ", got " + typeErr.Value,
				Type: "type_error",
			}}
		case errors.As(err, &maxErr):
			return nil, http.StatusRequestEntityTooLarge, "Request body too large"
		case errors.Is(err, io.EOF):
			return nil, http.StatusBadRequest, "Request body is empty"
		default:
			return nil, http.StatusBadRequest, "Invalid JSON body"
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, http.StatusUnprocessableEntity, err.Error()
		}
		return nil, http.StatusUnprocessableEntity, toFieldErrors(verrs)
	}

	return &req, 0, nil
}

func toFieldErrors(verrs validator.ValidationErrors) []fieldError {
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		out = append(out, fieldError{
			Loc:  bodyLoc(ns),
			Msg:  fieldMessage(fe),
			Type: fe.Tag(),
		})
	}
	return out
}

func bodyLoc(path string) []string {
	loc := []string{"body"}
	if path == "" {
		return loc
	}
	return append(loc, strings.Split(path, ".")...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return "ensure this value is greater than or equal to " + fe.Param()
	case "max":
		return "ensure this value is less than or equal to " + fe.Param()
	default:
		return "failed on the '" + fe.Tag() + "' rule"
	}
}
