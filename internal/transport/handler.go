package transport

import (
	"context"
	"errors"
	"net/http"

	"sa-fashion-be/internal/db"
	"sa-fashion-be/internal/logger"
	"sa-fashion-be/internal/metrics"
	"sa-fashion-be/internal/order"
	"sa-fashion-be/internal/product"
	"sa-fashion-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	rootMessage    = "SA Fashion Store Backend Running"
	backendRunning = "✅ Running"
	dbConnected    = "✅ Connected"
	dbUnavailable  = "❌ Not Available"
	dbErrorPrefix  = "⚠️ Connected but "

	storeErrorLimit = 60
)

// StoreStatus reports on the backing store for the diagnostics route.
// *db.Conn implements it, including when nil.
type StoreStatus interface {
	Available() bool
	Collections(ctx context.Context) ([]string, error)
}

type Handler struct {
	products product.Service
	orders   order.Service
	store    StoreStatus
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func NewHandler(products product.Service, orders order.Service, store StoreStatus, m *metrics.Metrics) *Handler {
	return &Handler{
		products: products,
		orders:   orders,
		store:    store,
		metrics:  m,
		validate: newValidator(),
	}
}

func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /test", h.Diagnostics)
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("POST /api/checkout", h.Checkout)
	mux.Handle("GET /metrics", h.metrics.Handler())
	return mux
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

type diagnosticsResponse struct {
	Backend     string   `json:"backend"`
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
}

func (h *Handler) Diagnostics(w http.ResponseWriter, r *http.Request) {
	resp := diagnosticsResponse{
		Backend:     backendRunning,
		Database:    dbUnavailable,
		Collections: []string{},
	}

	if h.store != nil && h.store.Available() {
		resp.Database = dbConnected

		names, err := h.store.Collections(r.Context())
		if err != nil {
			logger.FromCtx(r.Context()).Warn("collection listing failed",
				zap.String("layer", "handler"),
				zap.Error(err),
			)
			resp.Database = dbErrorPrefix + utils.Truncate(err.Error(), storeErrorLimit)
		} else if names != nil {
			resp.Collections = names
		}
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(zap.String("layer", "handler"))

	filter := product.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		log.Error("catalog query failed, returning empty list",
			zap.Bool("query_error", errors.Is(err, product.ErrCatalogQuery)),
			zap.Error(err),
		)
		h.metrics.ObserveDegraded("catalog", "query_error")
		products = nil
	} else if h.store == nil || !h.store.Available() {
		h.metrics.ObserveDegraded("catalog", "unavailable")
	}

	utils.WriteJSON(w, http.StatusOK, product.ToResponseList(products))
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(zap.String("layer", "handler"))

	req, status, detail := h.decodeCheckout(w, r)
	if detail != nil {
		log.Warn("checkout request rejected", zap.Int("status", status), zap.Any("detail", detail))
		utils.WriteJSONError(w, detail, status)
		return
	}

	result, err := h.orders.Checkout(r.Context(), req.toInput())
	if err != nil {
		var ve *order.ValidationError
		if errors.As(err, &ve) {
			utils.WriteJSONError(w, ve.Message, http.StatusBadRequest)
			return
		}
		log.Error("checkout failed", zap.Error(err))
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveCheckout(string(result.Summary.PaymentPlan.Type), result.OrderID != nil)
	if result.OrderID == nil {
		h.metrics.ObserveDegraded("checkout", "not_persisted")
	}

	utils.WriteJSON(w, http.StatusOK, order.ToCheckoutResponse(result))
}

var _ StoreStatus = (*db.Conn)(nil)
