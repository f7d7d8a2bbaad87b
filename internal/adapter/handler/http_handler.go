package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clayshop/storefront/internal/core/domain"
	"github.com/clayshop/storefront/internal/core/service"
)

const (
	sessionCookie = "session_id"
	sessionMaxAge = 30 * 24 * 60 * 60
)

type HTTPHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	logger   *zap.Logger
}

func NewHTTPHandler(carts *service.CartService, checkout *service.CheckoutService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{carts: carts, checkout: checkout, logger: logger}
}

type createPaymentIntentRequest struct {
	Items []domain.LineItem `json:"items"`
}

type createPaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type cartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

func (h *HTTPHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createPaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sid := h.session(w, r)

	clientSecret, err := h.checkout.CreatePaymentIntent(r.Context(), sid, req.Items)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCheckout) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No items in cart"})
			return
		}

		var ue *service.UpstreamError
		if errors.As(err, &ue) {
			h.logger.Error("create payment intent", zap.String("op", ue.Op), zap.Error(ue.Err))
		} else {
			h.logger.Error("create payment intent", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "payment session could not be created"})
		return
	}

	writeJSON(w, http.StatusOK, createPaymentIntentResponse{ClientSecret: clientSecret})
}

func (h *HTTPHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("payment_intent_client_secret")
	if secret == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing client secret"})
		return
	}

	sid := h.session(w, r)

	status, err := h.checkout.PaymentStatus(r.Context(), sid, secret)
	if err != nil {
		h.logger.Error("payment status", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "payment status unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]domain.PaymentStatus{"status": status})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	h.writeCart(w, r, sid)
}

type addCartItemRequest struct {
	Product domain.Product `json:"product"`
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Product.ID == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing product"})
		return
	}

	sid := h.session(w, r)
	h.carts.Add(r.Context(), sid, req.Product)
	h.writeCart(w, r, sid)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	sid := h.session(w, r)
	// Quantities below 1 are rejected inside the ledger; the response then
	// reflects the unchanged cart.
	h.carts.SetQuantity(r.Context(), sid, productID, req.Quantity)
	h.writeCart(w, r, sid)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	sid := h.session(w, r)
	h.carts.Remove(r.Context(), sid, productID)
	h.writeCart(w, r, sid)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)
	h.carts.Clear(r.Context(), sid)
	h.writeCart(w, r, sid)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeCart(w http.ResponseWriter, r *http.Request, sid string) {
	ctx := r.Context()
	writeJSON(w, http.StatusOK, cartResponse{
		Items:    h.carts.Lines(ctx, sid),
		Count:    h.carts.Count(ctx, sid),
		Subtotal: h.carts.Subtotal(ctx, sid),
	})
}

// session returns the caller's session ID, minting one into a cookie on
// first contact.
func (h *HTTPHandler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
