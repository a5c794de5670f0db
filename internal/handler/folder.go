package handler

import (
	"log/slog"
	"net/http"

	"nugget/internal/httputil"
	"nugget/internal/service"
)

// FolderHandler handles bookmark folder HTTP requests
type FolderHandler struct {
	folderService *service.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService *service.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders returns the user's folders, default folder first by order.
// GET /api/bookmark-folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, "list folders", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder
// POST /api/bookmark-folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, "create folder", err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// UpdateFolder renames a folder
// PATCH /api/bookmark-folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder id is required")
		return
	}

	var req service.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := h.folderService.RenameFolder(r.Context(), userID, id, &req)
	if err != nil {
		handleError(w, h.logger, "rename folder", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a non-default folder and its links
// DELETE /api/bookmark-folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder id is required")
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), userID, id); err != nil {
		handleError(w, h.logger, "delete folder", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
