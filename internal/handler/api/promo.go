package api

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/telemetry"
)

// PromoHandler validates promo codes for the cart page.
type PromoHandler struct {
	promos domain.PromoService
}

func NewPromoHandler(promos domain.PromoService) *PromoHandler {
	return &PromoHandler{promos: promos}
}

type validatePromoRequest struct {
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

type promoValidationView struct {
	Code          string `json:"code"`
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	DiscountCents int64  `json:"discount_cents"`
}

// Validate handles POST /api/promo/validate
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validatePromoRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.promos.ValidatePromo(r.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if result.Valid {
		telemetry.RecordPromoValidation("valid")
	} else {
		telemetry.RecordPromoValidation("rejected")
	}

	handler.RespondData(w, http.StatusOK, promoValidationView{
		Code:          result.Code,
		Valid:         result.Valid,
		Reason:        result.Reason,
		DiscountCents: result.DiscountCents,
	})
}
