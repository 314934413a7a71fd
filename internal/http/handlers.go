package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/ui-backend-go/internal/shop"
)

// Shop is what the handlers need from shop.Service.
type Shop interface {
	ListAllProducts(ctx context.Context) []shop.Product
	GetProduct(ctx context.Context, productID string) (shop.Product, error)
	ProductsInCart(ctx context.Context, sessionID string) []shop.LineItem
	UpdateCart(ctx context.Context, sessionID string, deltas []shop.CartDelta) (shop.UpdateReport, error)
	ConfirmOrder(ctx context.Context, req shop.OrderRequest) (shop.Confirmation, error)
}

type ShopHandler struct {
	shop     Shop
	validate *validator.Validate
	log      *zap.Logger
}

func NewShopHandler(s Shop, logger *zap.Logger) *ShopHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShopHandler{shop: s, validate: validator.New(validator.WithRequiredStructEnabled()), log: logger}
}

func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.shop.ListAllProducts(r.Context())

	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, productFromCatalog(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")
	p, err := h.shop.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productFromCatalog(p))
}

func (h *ShopHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	writeJSON(w, http.StatusOK, productsFromLineItems(h.shop.ProductsInCart(r.Context(), sessionID)))
}

func (h *ShopHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	deltas, err := decodeCartDeltas(r.Body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid cart update: "+err.Error())
		return
	}

	report, err := h.shop.UpdateCart(r.Context(), sessionID, deltas)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if failed := report.Failed(); len(failed) > 0 {
		ids := make([]string, 0, len(failed))
		for _, f := range failed {
			ids = append(ids, f.Delta.ProductID)
		}
		logging.FromContext(r.Context(), h.log).Warn("cart update partially applied",
			zap.String("session_id", sessionID),
			zap.Strings("failed_products", ids),
			zap.Int("requested", len(report.Items)))
	}
	writeJSON(w, http.StatusOK, productsFromLineItems(report.Added()))
}

func (h *ShopHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order request: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	conf, err := h.shop.ConfirmOrder(r.Context(), req.order())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfirmResponse{
		Status:    "accepted",
		SessionID: conf.SessionID,
		Total:     conf.Total.Round(2).InexactFloat64(),
	})
}

func (h *ShopHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context(), h.log).Error("request failed",
			zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	writeError(w, r, status, err.Error())
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid order request: " + err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "invalid order request: " + strings.Join(fields, ", ")
}
