package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/service"
)

// PaymentHandler serves the payment leg of checkout.
type PaymentHandler struct {
	checkout service.CheckoutService
}

func NewPaymentHandler(checkout service.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

type createPaymentRequest struct {
	OrderID uuid.UUID `json:"order_id"`
}

type paymentSessionView struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

// Create handles POST /api/payments/create
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.OrderID == uuid.Nil {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "order_id is required"))
		return
	}

	session, err := h.checkout.CreatePayment(r.Context(), req.OrderID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusCreated, paymentSessionView{
		PaymentIntentID: session.PaymentIntentID,
		ClientSecret:    session.ClientSecret,
		AmountCents:     session.AmountCents,
		Currency:        session.Currency,
	})
}

type verifyPaymentRequest struct {
	OrderID         uuid.UUID `json:"order_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
}

// Verify handles POST /api/payments/verify
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.OrderID == uuid.Nil || req.PaymentIntentID == "" {
		handler.ErrorResponse(w, r, domain.Errorf(domain.EINVALID, "", "order_id and payment_intent_id are required"))
		return
	}

	order, err := h.checkout.VerifyPayment(r.Context(), req.OrderID, req.PaymentIntentID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, handler.NewOrderView(order))
}
