package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/altamira/pos-checkout/internal/backoffice"
	"github.com/altamira/pos-checkout/internal/cart"
	"github.com/altamira/pos-checkout/internal/checkout"
	"github.com/altamira/pos-checkout/internal/session"
)

// CheckoutHandler exposes the checkout engine over HTTP. All state
// lives in the session; the handler only parses, dispatches and maps
// errors to status codes.
type CheckoutHandler struct {
	sessions *session.Manager
	log      *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(sessions *session.Manager, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		log:      log,
	}
}

// OpenSessionResponse is returned when a checkout view opens.
type OpenSessionResponse struct {
	SessionID      string      `json:"sessionId"`
	BranchID       string      `json:"branchId"`
	Products       interface{} `json:"products"`
	PaymentMethods interface{} `json:"paymentMethods"`
	Cart           interface{} `json:"cart"`
}

// OpenSession handles POST /api/session
func (h *CheckoutHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Open(r.Context())
	if err != nil {
		h.log.Error("failed to open session", "error", err)
		h.writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, OpenSessionResponse{
		SessionID:      s.ID(),
		BranchID:       s.BranchID(),
		Products:       s.Products(),
		PaymentMethods: s.PaymentMethods(),
		Cart:           s.Cart(),
	}, h.log)
}

// CloseSession handles DELETE /api/session/{sessionId}
func (h *CheckoutHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(chi.URLParam(r, "sessionId"))
	w.WriteHeader(http.StatusNoContent)
}

// GetCart handles GET /api/session/{sessionId}/cart
func (h *CheckoutHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, s.Cart(), h.log)
}

// ListProducts handles GET /api/session/{sessionId}/products
func (h *CheckoutHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, s.Products(), h.log)
}

// ListPaymentMethods handles GET /api/session/{sessionId}/payment-methods
func (h *CheckoutHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, s.PaymentMethods(), h.log)
}

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// AddItem handles POST /api/session/{sessionId}/cart/items
func (h *CheckoutHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := s.AddItem(req.ProductID); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.Cart(), h.log)
}

// SetQuantityRequest updates a cart line quantity.
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// SetQuantity handles PUT /api/session/{sessionId}/cart/items/{productId}
func (h *CheckoutHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := s.SetQuantity(chi.URLParam(r, "productId"), req.Quantity); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.Cart(), h.log)
}

// RemoveItem handles DELETE /api/session/{sessionId}/cart/items/{productId}
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.RemoveItem(chi.URLParam(r, "productId")); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.Cart(), h.log)
}

// SelectTenderRequest activates a payment method.
type SelectTenderRequest struct {
	MethodID string `json:"methodId"`
}

// SelectTender handles PUT /api/session/{sessionId}/tender
func (h *CheckoutHandler) SelectTender(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectTenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := s.SelectMethod(req.MethodID); err != nil {
		h.writeEngineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.Cart(), h.log)
}

// SetAmountRequest records cash received from the customer.
type SetAmountRequest struct {
	AmountTendered decimal.Decimal `json:"amountTendered"`
}

// SetAmountTendered handles PUT /api/session/{sessionId}/tender/amount
func (h *CheckoutHandler) SetAmountTendered(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SetAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := s.SetAmountTendered(req.AmountTendered); err != nil {
		h.writeEngineError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cart":      s.Cart(),
		"changeDue": s.ChangeDue(),
	}, h.log)
}

// Submit handles POST /api/session/{sessionId}/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	sale, err := s.Submit(r.Context())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	h.log.Info("sale submitted", "sale_id", sale.ID, "session_id", s.ID())
	WriteJSON(w, http.StatusOK, sale, h.log)
}

// GetReceipt handles GET /api/session/{sessionId}/receipt
// Returns the receipt of the last completed sale as plain text.
func (h *CheckoutHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	doc, err := s.Receipt()
	if err != nil {
		WriteError(w, http.StatusNotFound, "No completed sale in this session", h.log)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		h.log.Error("failed to write receipt", "error", err)
	}
}

// RefreshCatalog handles POST /api/session/{sessionId}/catalog/refresh
func (h *CheckoutHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.RefreshCatalog(r.Context()); err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, s.Products(), h.log)
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionId")
	s, err := h.sessions.Get(id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "Session not found", h.log)
		return nil, false
	}
	return s, true
}

// writeEngineError maps the engine error taxonomy to status codes and
// wire kinds.
func (h *CheckoutHandler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrUnknownProduct):
		WriteErrorKind(w, http.StatusBadRequest, "Invalid product", string(backoffice.KindValidation), h.log)
	case errors.Is(err, session.ErrUnknownMethod):
		WriteErrorKind(w, http.StatusBadRequest, "Invalid payment method", string(backoffice.KindValidation), h.log)
	case errors.Is(err, cart.ErrOutOfStock):
		WriteErrorKind(w, http.StatusUnprocessableEntity, "Product is out of stock", string(backoffice.KindValidation), h.log)
	case errors.Is(err, cart.ErrInsufficientStock):
		WriteErrorKind(w, http.StatusUnprocessableEntity, "Requested quantity exceeds available stock", string(backoffice.KindValidation), h.log)
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		WriteError(w, http.StatusConflict, "A submission is already in flight", h.log)
	case errors.Is(err, checkout.ErrAlreadyCommitted):
		WriteError(w, http.StatusConflict, "This checkout was already committed", h.log)
	case errors.Is(err, checkout.ErrStockConflict):
		WriteErrorKind(w, http.StatusConflict, "Stock changed on another terminal; catalog refreshed", string(backoffice.KindStockConflict), h.log)
	case errors.Is(err, checkout.ErrValidation):
		WriteErrorKind(w, http.StatusBadRequest, err.Error(), string(backoffice.KindValidation), h.log)
	default:
		h.writeUpstreamError(w, err)
	}
}

// writeUpstreamError maps back-office failures.
func (h *CheckoutHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *backoffice.APIError
	switch {
	case errors.Is(err, backoffice.ErrNetwork):
		WriteErrorKind(w, http.StatusBadGateway, "Back office unreachable", string(backoffice.KindServerError), h.log)
	case errors.As(err, &apiErr) && apiErr.Kind == backoffice.KindServerError:
		WriteErrorKind(w, http.StatusBadGateway, "Back office error", string(backoffice.KindServerError), h.log)
	case errors.As(err, &apiErr):
		WriteErrorKind(w, http.StatusBadRequest, apiErr.Message, string(apiErr.Kind), h.log)
	default:
		h.log.Error("unhandled error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
