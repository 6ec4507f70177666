package admin

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/domain"
	"github.com/atelierhq/atelier/internal/handler"
)

// InventoryHandler serves the stock management views.
type InventoryHandler struct {
	inventory domain.InventoryService
}

func NewInventoryHandler(inventory domain.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// List handles GET /api/admin/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.InventoryFilter{}
	if raw := q.Get("status"); raw != "" {
		status := domain.StockStatus(raw)
		filter.Status = &status
	}
	if search := q.Get("search"); search != "" {
		filter.Search = &search
	}

	result, err := h.inventory.ListInventory(r.Context(), filter, offsetPage(q.Get("offset"), q.Get("limit")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items := make([]handler.InventoryItemView, len(result.Items))
	for i, item := range result.Items {
		items[i] = handler.NewInventoryItemView(item)
	}
	handler.RespondData(w, http.StatusOK, map[string]any{
		"items":  items,
		"total":  result.Total,
		"offset": result.Offset,
		"limit":  result.Limit,
	})
}

// Stats handles GET /api/admin/inventory/stats
func (h *InventoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventory.GetInventoryStats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondData(w, http.StatusOK, map[string]any{
		"total_variants": stats.TotalVariants,
		"in_stock":       stats.InStock,
		"low_stock":      stats.LowStock,
		"out_of_stock":   stats.OutOfStock,
		"total_units":    stats.TotalUnits,
	})
}

type updateStockRequest struct {
	Action   string `json:"action"`
	Quantity int32  `json:"quantity"`
}

// UpdateStock handles PATCH /api/admin/inventory/{variantID}
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	variantID, err := handler.PathUUID(r, "variantID")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req updateStockRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	item, err := h.inventory.UpdateStock(r.Context(), variantID, domain.UpdateStockParams{
		Action:   domain.StockAction(req.Action),
		Quantity: req.Quantity,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondData(w, http.StatusOK, handler.NewInventoryItemView(*item))
}
