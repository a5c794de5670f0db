package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// MembershipService owns the cross-entity invariants that individual CRUD
// operations on bookmarks, folders and links cannot enforce alone:
// lazy materialization of the default folder, get-or-create bookmark
// semantics, and the guarantee that no bookmark is ever left in zero
// folders.
type MembershipService struct {
	folderRepo   repositories.FolderRepository
	bookmarkRepo repositories.BookmarkRepository
	linkRepo     repositories.LinkRepository
	logger       *slog.Logger
}

// NewMembershipService creates a new membership coordinator
func NewMembershipService(
	folderRepo repositories.FolderRepository,
	bookmarkRepo repositories.BookmarkRepository,
	linkRepo repositories.LinkRepository,
	logger *slog.Logger,
) *MembershipService {
	return &MembershipService{
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
		linkRepo:     linkRepo,
		logger:       logger,
	}
}

// EnsureDefaultFolder returns the id of the user's default folder,
// creating it lazily on first use. Idempotent - safe to call on every
// request path that touches bookmarks. Concurrent first calls race on the
// partial unique index; the loser re-fetches.
func (s *MembershipService) EnsureDefaultFolder(ctx context.Context, userID string) (string, error) {
	folder, err := s.folderRepo.GetDefault(ctx, userID)
	if err == nil {
		return folder.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("lookup default folder: %w", err)
	}

	created := &models.BookmarkFolder{
		UserID:    userID,
		Name:      models.DefaultFolderName,
		Order:     0,
		IsDefault: true,
	}
	err = s.folderRepo.Create(ctx, created)
	if err == nil {
		s.logger.Info("default folder created", "user_id", userID, "folder_id", created.ID)
		return created.ID, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return "", fmt.Errorf("create default folder: %w", err)
	}

	// Lost the creation race - the folder exists now
	folder, err = s.folderRepo.GetDefault(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("refetch default folder: %w", err)
	}
	return folder.ID, nil
}

// GeneralFolderID returns the default folder id, materializing the folder
// if it is unexpectedly missing. Defensive fallback - the folder is
// normally created lazily elsewhere.
func (s *MembershipService) GeneralFolderID(ctx context.Context, userID string) (string, error) {
	folder, err := s.folderRepo.GetDefault(ctx, userID)
	if err == nil {
		return folder.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	return s.EnsureDefaultFolder(ctx, userID)
}

// GetOrCreateBookmark finds the user's bookmark for a nugget, creating it
// if absent. Exactly one bookmark ever exists per (user, nugget) pair even
// under concurrent calls: the unique index decides the race and the loser
// re-fetches.
func (s *MembershipService) GetOrCreateBookmark(ctx context.Context, userID, nuggetID string) (string, error) {
	bookmark, err := s.bookmarkRepo.GetByUserAndNugget(ctx, userID, nuggetID)
	if err == nil {
		return bookmark.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", fmt.Errorf("lookup bookmark: %w", err)
	}

	created := &models.Bookmark{
		UserID:   userID,
		NuggetID: nuggetID,
	}
	err = s.bookmarkRepo.Create(ctx, created)
	if err == nil {
		s.logger.Info("bookmark created", "user_id", userID, "nugget_id", nuggetID, "bookmark_id", created.ID)
		return created.ID, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return "", fmt.Errorf("create bookmark: %w", err)
	}

	bookmark, err = s.bookmarkRepo.GetByUserAndNugget(ctx, userID, nuggetID)
	if err != nil {
		return "", fmt.Errorf("refetch bookmark: %w", err)
	}
	return bookmark.ID, nil
}

// EnsureBookmarkInGeneral re-links a bookmark into the user's default
// folder when it has no links left. This is the enforcement point for the
// "every bookmark belongs to at least one folder" invariant; callers run
// it after every link-removal path. A duplicate-link race counts as
// success.
func (s *MembershipService) EnsureBookmarkInGeneral(ctx context.Context, userID, bookmarkID string) error {
	count, err := s.linkRepo.CountByBookmark(ctx, bookmarkID)
	if err != nil {
		return fmt.Errorf("count links: %w", err)
	}
	if count > 0 {
		return nil
	}

	folderID, err := s.EnsureDefaultFolder(ctx, userID)
	if err != nil {
		return err
	}

	link := &models.BookmarkFolderLink{
		UserID:     userID,
		BookmarkID: bookmarkID,
		FolderID:   folderID,
	}
	if err := s.linkRepo.Create(ctx, link); err != nil && !errors.Is(err, domain.ErrConflict) {
		return fmt.Errorf("relink bookmark to default folder: %w", err)
	}

	s.logger.Info("bookmark re-linked to default folder", "user_id", userID, "bookmark_id", bookmarkID)
	return nil
}
