package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"nugget/internal/config"
	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

// CreateFolderRequest is the payload for creating a bookmark folder.
// Order is optional; when absent the folder is appended after the user's
// current last folder.
type CreateFolderRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order,omitempty"`
}

// Validate implements request validation
func (r CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
	)
}

// UpdateFolderRequest is the payload for renaming a folder
type UpdateFolderRequest struct {
	Name string `json:"name"`
}

// Validate implements request validation
func (r UpdateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
	)
}

// FolderService implements bookmark folder CRUD on top of the membership
// coordinator's invariants.
type FolderService struct {
	folderRepo repositories.FolderRepository
	linkRepo   repositories.LinkRepository
	membership *MembershipService
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	linkRepo repositories.LinkRepository,
	membership *MembershipService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folderRepo: folderRepo,
		linkRepo:   linkRepo,
		membership: membership,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListFolders returns all folders for a user, materializing the default
// folder first so every user always sees at least "General".
func (s *FolderService) ListFolders(ctx context.Context, userID string) ([]models.BookmarkFolder, error) {
	if _, err := s.membership.EnsureDefaultFolder(ctx, userID); err != nil {
		return nil, err
	}
	return s.folderRepo.List(ctx, userID)
}

// CreateFolder creates a non-default folder. A case-insensitive name
// collision with an existing folder is a conflict.
func (s *FolderService) CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.BookmarkFolder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Materialize the default folder before computing the order, so a
	// fresh user's first folder sorts after General (order 0), not tied
	// with it.
	if _, err := s.membership.EnsureDefaultFolder(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.folderRepo.GetByName(ctx, userID, req.Name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check duplicate name: %w", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a folder named %q already exists", existing.Name),
			ResourceType: "folder",
			ResourceID:   existing.ID,
		}
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		max, err := s.folderRepo.MaxOrder(ctx, userID)
		if err != nil {
			return nil, err
		}
		order = max + 1
	}

	folder := &models.BookmarkFolder{
		UserID: userID,
		Name:   req.Name,
		Order:  order,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Race with a concurrent create of the same name
			return nil, &domain.ConflictError{
				Message:      fmt.Sprintf("a folder named %q already exists", req.Name),
				ResourceType: "folder",
			}
		}
		return nil, err
	}

	s.logger.Info("folder created", "user_id", userID, "folder_id", folder.ID, "name", folder.Name, "order", folder.Order)
	return folder, nil
}

// RenameFolder renames a folder. The default folder is protected; a
// case-insensitive collision with another folder is rejected as invalid
// input. Renaming a folder to its own name (any casing) is a no-op that
// returns the folder unchanged.
func (s *FolderService) RenameFolder(ctx context.Context, userID, folderID string, req *UpdateFolderRequest) (*models.BookmarkFolder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	if folder.IsDefault {
		return nil, fmt.Errorf("the %s folder cannot be renamed: %w", models.DefaultFolderName, domain.ErrForbidden)
	}
	if strings.EqualFold(folder.Name, req.Name) {
		return folder, nil
	}

	other, err := s.folderRepo.GetByName(ctx, userID, req.Name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check duplicate name: %w", err)
	}
	if other != nil && other.ID != folder.ID {
		return nil, fmt.Errorf("a folder named %q already exists: %w", other.Name, domain.ErrValidation)
	}

	if err := s.folderRepo.Rename(ctx, folderID, userID, req.Name); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("a folder named %q already exists: %w", req.Name, domain.ErrValidation)
		}
		return nil, err
	}

	s.logger.Info("folder renamed", "user_id", userID, "folder_id", folderID, "name", req.Name)
	folder.Name = req.Name
	return folder, nil
}

// DeleteFolder deletes a non-default folder and all links pointing at it,
// in a single transaction. Bookmarks themselves are untouched; ones whose
// only link was to this folder surface in the default folder through the
// zero-link union listing.
func (s *FolderService) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return err
	}
	if folder.IsDefault {
		return fmt.Errorf("the %s folder cannot be deleted: %w", models.DefaultFolderName, domain.ErrValidation)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.linkRepo.DeleteByFolder(txCtx, folderID); err != nil {
			return err
		}
		return s.folderRepo.Delete(txCtx, folderID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("folder deleted", "user_id", userID, "folder_id", folderID, "name", folder.Name)
	return nil
}
