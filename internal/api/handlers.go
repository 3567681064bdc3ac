// Package api exposes HTTP handlers for the metric sync endpoint.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"example.com/healthsync/internal/auth"
	"example.com/healthsync/internal/domain"
	"example.com/healthsync/internal/ingest"
)

// Handler coordinates HTTP requests with the ingestion service.
type Handler struct {
	service *ingest.Service
}

// NewHandler builds a Handler.
func NewHandler(service *ingest.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/sync", h.sync)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeMetricsWrite) {
		writeError(w, http.StatusForbidden, "scope metrics:write required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read body")
		return
	}

	payload, device, err := ingest.DecodeUpload(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	result, err := h.service.Sync(r.Context(), claims.Subject, payload, device)
	if err != nil {
		if errors.Is(err, ingest.ErrPayloadTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := SyncResponse{
		OK:        true,
		Attempted: result.Attempted,
		Inserted:  result.Inserted,
		ByType:    result.ByType,
	}
	if result.Attempted == 0 {
		resp.Note = "no samples parsed from payload"
	}
	writeJSON(w, http.StatusOK, resp)
}

// SyncResponse is the body returned for POST /v1/sync.
type SyncResponse struct {
	OK        bool                      `json:"ok"`
	Attempted int                       `json:"attempted"`
	Inserted  int                       `json:"inserted"`
	ByType    map[domain.MetricType]int `json:"by_type,omitempty"`
	Note      string                    `json:"note,omitempty"`
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]interface{}{
		"ok":    false,
		"error": detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
