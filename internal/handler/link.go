package handler

import (
	"log/slog"
	"net/http"

	"nugget/internal/httputil"
	"nugget/internal/service"
)

// LinkHandler handles bookmark-folder link HTTP requests
type LinkHandler struct {
	bookmarkService *service.BookmarkService
	logger          *slog.Logger
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(bookmarkService *service.BookmarkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{
		bookmarkService: bookmarkService,
		logger:          logger,
	}
}

// AddToFolders links a bookmark into one or more folders
// POST /api/bookmark-folder-links
func (h *LinkHandler) AddToFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.AddToFoldersRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bookmarkService.AddToFolders(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, "add to folders", err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// RemoveFromFolder unlinks a bookmark from a folder
// DELETE /api/bookmark-folder-links?bookmark_id=&folder_id=
func (h *LinkHandler) RemoveFromFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	bookmarkID := r.URL.Query().Get("bookmark_id")
	folderID := r.URL.Query().Get("folder_id")
	if bookmarkID == "" || folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "bookmark_id and folder_id query parameters are required")
		return
	}

	if err := h.bookmarkService.RemoveFromFolder(r.Context(), userID, bookmarkID, folderID); err != nil {
		handleError(w, h.logger, "remove from folder", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
