package handler

import (
	"log/slog"
	"net/http"

	"nugget/internal/httputil"
	"nugget/internal/service"
	"nugget/internal/service/ingest"
)

// NuggetHandler handles nugget HTTP requests, including AI summary drafting
type NuggetHandler struct {
	nuggetService *service.NuggetService
	ingestService *ingest.Service
	logger        *slog.Logger
}

// NewNuggetHandler creates a new nugget handler
func NewNuggetHandler(nuggetService *service.NuggetService, ingestService *ingest.Service, logger *slog.Logger) *NuggetHandler {
	return &NuggetHandler{
		nuggetService: nuggetService,
		ingestService: ingestService,
		logger:        logger,
	}
}

// HealthCheck responds to health probes
// GET /health
func (h *NuggetHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateNugget registers a content item
// POST /api/nuggets
func (h *NuggetHandler) CreateNugget(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req service.CreateNuggetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nugget, err := h.nuggetService.CreateNugget(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, "create nugget", err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, nugget)
}

// GetNugget retrieves a nugget by ID
// GET /api/nuggets/{id}
func (h *NuggetHandler) GetNugget(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "nugget id is required")
		return
	}

	nugget, err := h.nuggetService.GetNugget(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, "get nugget", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nugget)
}

// DraftSummary generates and stores an AI summary draft for a video nugget
// POST /api/nuggets/{id}/summary
func (h *NuggetHandler) DraftSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "nugget id is required")
		return
	}

	var req ingest.DraftSummaryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nugget, err := h.ingestService.DraftSummary(r.Context(), id, &req)
	if err != nil {
		handleError(w, h.logger, "draft summary", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, nugget)
}
