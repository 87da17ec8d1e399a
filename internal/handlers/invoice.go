package handlers

import (
	"net/http"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
)

// InvoiceHandler serves the invoice list and status updates.
type InvoiceHandler struct {
	Coord *coordinator.Coordinator
}

func NewInvoiceHandler(coord *coordinator.Coordinator) *InvoiceHandler {
	return &InvoiceHandler{Coord: coord}
}

// List: GET /invoices - joined with client names, plus per-status sums
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, summary, err := h.Coord.Invoices(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invoices, "stats": summary})
}

// Create: POST /invoices - JSON body
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		ClientID       string  `json:"client_id"`
		SubscriptionID string  `json:"subscription_id"`
		Amount         float64 `json:"amount"`
		Status         string  `json:"status"`
	}
	var req createReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.ClientID == "" || req.Amount < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"client_id": "required", "amount": "non_negative"})
		return
	}
	if req.Status != "" && !models.ValidInvoiceStatus(req.Status) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	created, err := h.Coord.CreateInvoice(r.Context(), models.Invoice{
		ClientID:       req.ClientID,
		SubscriptionID: req.SubscriptionID,
		Amount:         req.Amount,
		Status:         req.Status,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// UpdateStatus: POST /invoices/status?id=...&status=...
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	status := r.URL.Query().Get("status")
	if id == "" || status == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id_or_status", nil)
		return
	}
	if !models.ValidInvoiceStatus(status) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	updated, err := h.Coord.UpdateInvoiceStatus(r.Context(), id, status)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_invoice", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
