package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// CreateBookmarkRequest is the payload for saving a nugget
type CreateBookmarkRequest struct {
	NuggetID string `json:"nugget_id"`
}

// Validate implements request validation
func (r CreateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NuggetID, validation.Required),
	)
}

// AddToFoldersRequest is the payload for bulk-adding a bookmark to folders
type AddToFoldersRequest struct {
	BookmarkID string   `json:"bookmark_id"`
	FolderIDs  []string `json:"folder_ids"`
}

// Validate implements request validation
func (r AddToFoldersRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookmarkID, validation.Required),
		validation.Field(&r.FolderIDs, validation.Required, validation.Length(1, 0)),
	)
}

// CreateBookmarkResult reports the bookmark id and the folders it belongs
// to after creation (always includes the default folder).
type CreateBookmarkResult struct {
	BookmarkID string   `json:"bookmark_id"`
	FolderIDs  []string `json:"folder_ids"`
}

// AddToFoldersResult reports how many links were created and how many were
// skipped as already-existing.
type AddToFoldersResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BookmarkService implements bookmark and bookmark-folder-link operations,
// delegating invariant enforcement to the membership coordinator.
type BookmarkService struct {
	bookmarkRepo repositories.BookmarkRepository
	folderRepo   repositories.FolderRepository
	linkRepo     repositories.LinkRepository
	membership   *MembershipService
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewBookmarkService creates a new bookmark service
func NewBookmarkService(
	bookmarkRepo repositories.BookmarkRepository,
	folderRepo repositories.FolderRepository,
	linkRepo repositories.LinkRepository,
	membership *MembershipService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *BookmarkService {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		folderRepo:   folderRepo,
		linkRepo:     linkRepo,
		membership:   membership,
		txManager:    txManager,
		logger:       logger,
	}
}

// CreateBookmark saves a nugget for the user: get-or-create the bookmark,
// materialize the default folder, and idempotently link the bookmark into
// it. Saving the same nugget twice resolves to the same bookmark.
func (s *BookmarkService) CreateBookmark(ctx context.Context, userID string, req *CreateBookmarkRequest) (*CreateBookmarkResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bookmarkID, err := s.membership.GetOrCreateBookmark(ctx, userID, req.NuggetID)
	if err != nil {
		return nil, err
	}

	folderID, err := s.membership.EnsureDefaultFolder(ctx, userID)
	if err != nil {
		return nil, err
	}

	link := &models.BookmarkFolderLink{
		UserID:     userID,
		BookmarkID: bookmarkID,
		FolderID:   folderID,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil && !errors.Is(err, domain.ErrConflict) {
		return nil, fmt.Errorf("link bookmark to default folder: %w", err)
	}

	folderIDs, err := s.linkRepo.ListFolderIDsByBookmark(ctx, bookmarkID)
	if err != nil {
		return nil, err
	}

	return &CreateBookmarkResult{BookmarkID: bookmarkID, FolderIDs: folderIDs}, nil
}

// ListNuggetsByFolder returns the nugget ids saved into a folder. The
// default folder additionally includes bookmarks with no links at all, so
// legacy rows predating the folder feature keep a home.
func (s *BookmarkService) ListNuggetsByFolder(ctx context.Context, userID, folderID string) ([]string, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}

	var nuggetIDs []string
	if folder.IsDefault {
		nuggetIDs, err = s.bookmarkRepo.ListNuggetIDsForDefault(ctx, userID, folder.ID)
	} else {
		nuggetIDs, err = s.bookmarkRepo.ListNuggetIDsByFolder(ctx, userID, folder.ID)
	}
	if err != nil {
		return nil, err
	}

	if nuggetIDs == nil {
		nuggetIDs = []string{}
	}
	return nuggetIDs, nil
}

// DeleteBookmark removes the user's bookmark for a nugget along with all
// of its folder links, in a single transaction.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID, nuggetID string) error {
	bookmark, err := s.bookmarkRepo.GetByUserAndNugget(ctx, userID, nuggetID)
	if err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.linkRepo.DeleteByBookmark(txCtx, bookmark.ID); err != nil {
			return err
		}
		return s.bookmarkRepo.Delete(txCtx, bookmark.ID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("bookmark deleted", "user_id", userID, "nugget_id", nuggetID, "bookmark_id", bookmark.ID)
	return nil
}

// FoldersOfNugget returns the folder ids containing the user's bookmark
// for a nugget. A nugget that was never bookmarked yields an empty list,
// not an error - callers treat "never bookmarked" and "bookmarked, no
// folders" identically.
func (s *BookmarkService) FoldersOfNugget(ctx context.Context, userID, nuggetID string) ([]string, error) {
	bookmark, err := s.bookmarkRepo.GetByUserAndNugget(ctx, userID, nuggetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	folderIDs, err := s.linkRepo.ListFolderIDsByBookmark(ctx, bookmark.ID)
	if err != nil {
		return nil, err
	}
	if folderIDs == nil {
		folderIDs = []string{}
	}
	return folderIDs, nil
}

// AddToFolders links a bookmark into each of the given folders. Every
// folder id must resolve for the requesting user before any link is
// created; duplicate links are skipped, not failed.
func (s *BookmarkService) AddToFolders(ctx context.Context, userID string, req *AddToFoldersRequest) (*AddToFoldersResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.bookmarkRepo.GetByID(ctx, req.BookmarkID, userID); err != nil {
		return nil, err
	}

	for _, folderID := range req.FolderIDs {
		if _, err := s.folderRepo.GetByID(ctx, folderID, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("unknown folder id %s: %w", folderID, domain.ErrValidation)
			}
			return nil, err
		}
	}

	result := &AddToFoldersResult{}
	for _, folderID := range req.FolderIDs {
		link := &models.BookmarkFolderLink{
			UserID:     userID,
			BookmarkID: req.BookmarkID,
			FolderID:   folderID,
		}
		if err := s.linkRepo.Create(ctx, link); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Created++
	}

	s.logger.Info("bookmark added to folders",
		"user_id", userID,
		"bookmark_id", req.BookmarkID,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

// RemoveFromFolder unlinks a bookmark from a folder. Removing the last
// remaining link is rejected when that link points at the default folder;
// after any successful removal the membership coordinator re-checks the
// no-orphan invariant as a safety net.
func (s *BookmarkService) RemoveFromFolder(ctx context.Context, userID, bookmarkID, folderID string) error {
	if _, err := s.bookmarkRepo.GetByID(ctx, bookmarkID, userID); err != nil {
		return err
	}
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return err
	}

	folderIDs, err := s.linkRepo.ListFolderIDsByBookmark(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if len(folderIDs) == 1 && folderIDs[0] == folderID && folder.IsDefault {
		return fmt.Errorf("cannot remove a bookmark from %s when it is the only folder: %w",
			models.DefaultFolderName, domain.ErrValidation)
	}

	if err := s.linkRepo.Delete(ctx, userID, bookmarkID, folderID); err != nil {
		return err
	}

	// Normally a no-op: removal of a non-last link never reaches zero.
	// Guards against pre-existing inconsistencies.
	if err := s.membership.EnsureBookmarkInGeneral(ctx, userID, bookmarkID); err != nil {
		return err
	}

	s.logger.Info("bookmark removed from folder", "user_id", userID, "bookmark_id", bookmarkID, "folder_id", folderID)
	return nil
}
