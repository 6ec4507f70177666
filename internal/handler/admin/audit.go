package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/handler"
	"github.com/atelierhq/atelier/internal/service"
)

// AuditHandler serves the audit trail listing.
type AuditHandler struct {
	audit service.AuditService
}

func NewAuditHandler(audit service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/admin/audit
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.audit.ListAudit(r.Context(), offsetPage(q.Get("offset"), q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items := make([]handler.AuditEntryView, len(result.Items))
	for i, entry := range result.Items {
		items[i] = handler.NewAuditEntryView(entry)
	}
	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  result.Total,
		"offset": result.Offset,
		"limit":  result.Limit,
	})
}
