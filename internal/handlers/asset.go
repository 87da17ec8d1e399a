package handlers

import (
	"io"
	"net/http"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
	"github.com/yahyahoussini/client-harmony-hub/internal/store"
	"github.com/yahyahoussini/client-harmony-hub/internal/viewmodel"
)

// uploads are capped at 25 MiB, matching the storage bucket policy
const maxUploadBytes = 25 << 20

// AssetHandler serves file uploads, the document list, and voice notes.
type AssetHandler struct {
	Coord *coordinator.Coordinator
}

func NewAssetHandler(coord *coordinator.Coordinator) *AssetHandler {
	return &AssetHandler{Coord: coord}
}

// List: GET /assets?client_id=... splits into documents and voice notes.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_client_id", nil)
		return
	}
	data, err := h.Coord.ClientData(r.Context(), clientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_assets", nil)
		return
	}
	documents, voiceNotes := viewmodel.SplitAssets(data.Assets)
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": documents, "voice_notes": voiceNotes})
}

// Upload: POST /assets/upload takes a multipart form with client_id, bucket, file.
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	clientID := r.FormValue("client_id")
	bucket := r.FormValue("bucket")
	if bucket == "" {
		bucket = store.BucketAssets
	}
	if clientID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_client_id", nil)
		return
	}
	if !store.KnownBucket(bucket) {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_bucket", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "read_failed", nil)
		return
	}
	if len(data) > maxUploadBytes {
		httpx.JSONError(w, http.StatusRequestEntityTooLarge, "file_too_large", nil)
		return
	}
	created, err := h.Coord.UploadAsset(r.Context(), clientID, coordinator.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Bucket:      bucket,
		Data:        data,
	})
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Delete: POST /assets/delete?id=...
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Coord.DeleteAsset(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
