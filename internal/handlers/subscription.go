package handlers

import (
	"net/http"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
	"github.com/yahyahoussini/client-harmony-hub/internal/models"
	"github.com/yahyahoussini/client-harmony-hub/internal/viewmodel"
)

// SubscriptionHandler serves the billing settings card.
type SubscriptionHandler struct {
	Coord *coordinator.Coordinator
}

func NewSubscriptionHandler(coord *coordinator.Coordinator) *SubscriptionHandler {
	return &SubscriptionHandler{Coord: coord}
}

// Get: GET /subscriptions?client_id=... - billing settings, defaults when absent
func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_client_id", nil)
		return
	}
	sub, err := h.Coord.Subscription(r.Context(), clientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_subscription", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, viewmodel.BillingFromSubscription(sub))
}

// Update: POST /subscriptions/update?client_id=... - upsert by client_id
func (h *SubscriptionHandler) Update(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_client_id", nil)
		return
	}
	var patch models.SubscriptionPatch
	if err := httpx.Decode(r, &patch); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if patch.Amount != nil && *patch.Amount < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"amount": "non_negative"})
		return
	}
	updated, err := h.Coord.UpsertSubscription(r.Context(), clientID, patch)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_subscription", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
