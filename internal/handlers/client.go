package handlers

import (
	"net/http"
	"strings"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/viewmodel"
)

// ClientHandler serves the client list and detail views.
type ClientHandler struct {
	Coord *coordinator.Coordinator
}

func NewClientHandler(coord *coordinator.Coordinator) *ClientHandler {
	return &ClientHandler{Coord: coord}
}

// List: GET /clients - decorated rows plus summary stats
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, summary, err := h.Coord.Clients(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "stats": summary})
}

// Create: POST /clients - JSON body
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createReq struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Company string `json:"company"`
		Source  string `json:"source"`
		Status  string `json:"status"`
	}
	var req createReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	created, err := h.Coord.CreateClient(r.Context(), models.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  req.Source,
		Status:  req.Status,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Detail: GET /clients/detail?id=... - the per-client read model
func (h *ClientHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	data, err := h.Coord.ClientData(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_client", nil)
		return
	}
	if data.Client == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	documents, voiceNotes := viewmodel.SplitAssets(data.Assets)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"client":       data.Client,
		"contact":      viewmodel.ContactFromClient(data.Client),
		"billing":      viewmodel.BillingFromSubscription(data.Subscription),
		"subscription": data.Subscription,
		"invoices":     data.Invoices,
		"documents":    documents,
		"voice_notes":  voiceNotes,
	})
}

// Update: POST /clients/update?id=... - partial patch
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var patch models.ClientPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	updated, err := h.Coord.UpdateClient(r.Context(), id, patch)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_client", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete: POST /clients/delete?id=...
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Coord.DeleteClient(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_client", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
