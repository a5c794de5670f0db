package handler

import (
	"log/slog"
	"net/http"

	"nugget/internal/httputil"
	"nugget/internal/service"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkService *service.BookmarkService
	logger          *slog.Logger
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(bookmarkService *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkService: bookmarkService,
		logger:          logger,
	}
}

// ListByFolder returns the nugget ids saved into a folder
// GET /api/bookmarks?folder_id=
func (h *BookmarkHandler) ListByFolder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	folderID := r.URL.Query().Get("folder_id")
	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder_id query parameter is required")
		return
	}

	nuggetIDs, err := h.bookmarkService.ListNuggetsByFolder(r.Context(), userID, folderID)
	if err != nil {
		handleError(w, h.logger, "list bookmarks", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"nugget_ids": nuggetIDs})
}

// CreateBookmark saves a nugget for the user
// POST /api/bookmarks
func (h *BookmarkHandler) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.CreateBookmarkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.bookmarkService.CreateBookmark(r.Context(), userID, &req)
	if err != nil {
		handleError(w, h.logger, "create bookmark", err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// DeleteBookmark removes the user's bookmark for a nugget
// DELETE /api/bookmarks/{nuggetID}
func (h *BookmarkHandler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	nuggetID := r.PathValue("nuggetID")
	if nuggetID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "nugget id is required")
		return
	}

	if err := h.bookmarkService.DeleteBookmark(r.Context(), userID, nuggetID); err != nil {
		handleError(w, h.logger, "delete bookmark", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FoldersOfNugget returns the folder ids containing the user's bookmark
// for a nugget. Never-bookmarked nuggets yield an empty list.
// GET /api/bookmarks/{nuggetID}/folders
func (h *BookmarkHandler) FoldersOfNugget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	nuggetID := r.PathValue("nuggetID")
	if nuggetID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "nugget id is required")
		return
	}

	folderIDs, err := h.bookmarkService.FoldersOfNugget(r.Context(), userID, nuggetID)
	if err != nil {
		handleError(w, h.logger, "folders of nugget", err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"folder_ids": folderIDs})
}
