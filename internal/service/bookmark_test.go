package service

import (
	"context"
	"errors"
	"testing"

	"nugget/internal/domain"
	"nugget/internal/domain/models"
)

func TestCreateBookmarkLandsInDefaultFolder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	nugget, err := env.nuggets.CreateNugget(ctx, &CreateNuggetRequest{
		URL:   "https://example.com/a",
		Title: "A",
		Kind:  models.NuggetKindArticle,
	})
	if err != nil {
		t.Fatalf("CreateNugget() error = %v", err)
	}

	result, err := env.bookmarks.CreateBookmark(ctx, "user-1", &CreateBookmarkRequest{NuggetID: nugget.ID})
	if err != nil {
		t.Fatalf("CreateBookmark() error = %v", err)
	}

	defaultID, err := env.membership.GeneralFolderID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GeneralFolderID() error = %v", err)
	}
	if len(result.FolderIDs) != 1 || result.FolderIDs[0] != defaultID {
		t.Errorf("CreateBookmark() folder ids = %v, want [%s]", result.FolderIDs, defaultID)
	}
}

func TestCreateBookmarkTwiceResolvesToSameBookmark(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	nugget, err := env.nuggets.CreateNugget(ctx, &CreateNuggetRequest{
		URL:   "https://example.com/a",
		Title: "A",
		Kind:  models.NuggetKindArticle,
	})
	if err != nil {
		t.Fatalf("CreateNugget() error = %v", err)
	}

	first, err := env.bookmarks.CreateBookmark(ctx, "user-1", &CreateBookmarkRequest{NuggetID: nugget.ID})
	if err != nil {
		t.Fatalf("CreateBookmark() error = %v", err)
	}
	second, err := env.bookmarks.CreateBookmark(ctx, "user-1", &CreateBookmarkRequest{NuggetID: nugget.ID})
	if err != nil {
		t.Fatalf("CreateBookmark() second call error = %v", err)
	}
	if first.BookmarkID != second.BookmarkID {
		t.Errorf("saving twice created bookmarks %s and %s, want the same one", first.BookmarkID, second.BookmarkID)
	}
	if len(second.FolderIDs) != 1 {
		t.Errorf("second save folder ids = %v, want exactly one link", second.FolderIDs)
	}
}

func TestListNuggetsByFolder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	nuggetID, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}

	// Not linked yet: the folder lists nothing.
	nuggetIDs, err := env.bookmarks.ListNuggetsByFolder(ctx, "user-1", folder.ID)
	if err != nil {
		t.Fatalf("ListNuggetsByFolder() error = %v", err)
	}
	if len(nuggetIDs) != 0 {
		t.Errorf("unlinked folder listing = %v, want empty", nuggetIDs)
	}

	if _, err := env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID},
	}); err != nil {
		t.Fatalf("AddToFolders() error = %v", err)
	}

	nuggetIDs, err = env.bookmarks.ListNuggetsByFolder(ctx, "user-1", folder.ID)
	if err != nil {
		t.Fatalf("ListNuggetsByFolder() error = %v", err)
	}
	if len(nuggetIDs) != 1 || nuggetIDs[0] != nuggetID {
		t.Errorf("folder listing = %v, want [%s]", nuggetIDs, nuggetID)
	}
}

func TestListNuggetsByFolderUnknownFolder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.bookmarks.ListNuggetsByFolder(ctx, "user-1", "no-such-folder")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ListNuggetsByFolder(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestDefaultFolderListsZeroLinkBookmarks(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	defaultID, err := env.membership.EnsureDefaultFolder(ctx, "user-1")
	if err != nil {
		t.Fatalf("EnsureDefaultFolder() error = %v", err)
	}

	// A legacy bookmark created before folder links existed: a bare row
	// with no links at all.
	legacy := &models.Bookmark{UserID: "user-1", NuggetID: "legacy-nugget"}
	if err := env.bookmarkRepo.Create(ctx, legacy); err != nil {
		t.Fatalf("Create(legacy bookmark) error = %v", err)
	}

	nuggetIDs, err := env.bookmarks.ListNuggetsByFolder(ctx, "user-1", defaultID)
	if err != nil {
		t.Fatalf("ListNuggetsByFolder(default) error = %v", err)
	}
	if len(nuggetIDs) != 1 || nuggetIDs[0] != "legacy-nugget" {
		t.Errorf("default listing = %v, want the zero-link bookmark's nugget", nuggetIDs)
	}
}

func TestDeleteBookmarkRemovesLinks(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	nuggetID, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}

	if err := env.bookmarks.DeleteBookmark(ctx, "user-1", nuggetID); err != nil {
		t.Fatalf("DeleteBookmark() error = %v", err)
	}

	if _, err := env.bookmarkRepo.GetByID(ctx, bookmarkID, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID(deleted bookmark) error = %v, want ErrNotFound", err)
	}
	count, err := env.linkRepo.CountByBookmark(ctx, bookmarkID)
	if err != nil {
		t.Fatalf("CountByBookmark() error = %v", err)
	}
	if count != 0 {
		t.Errorf("links after delete = %d, want 0", count)
	}
}

func TestDeleteBookmarkUnknownNugget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	err := env.bookmarks.DeleteBookmark(ctx, "user-1", "never-saved")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteBookmark(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestFoldersOfNugget(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Never bookmarked: an empty list, not an error.
	folderIDs, err := env.bookmarks.FoldersOfNugget(ctx, "user-1", "never-saved")
	if err != nil {
		t.Fatalf("FoldersOfNugget(unsaved) error = %v", err)
	}
	if len(folderIDs) != 0 {
		t.Errorf("FoldersOfNugget(unsaved) = %v, want empty", folderIDs)
	}

	nuggetID, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID},
	}); err != nil {
		t.Fatalf("AddToFolders() error = %v", err)
	}

	folderIDs, err = env.bookmarks.FoldersOfNugget(ctx, "user-1", nuggetID)
	if err != nil {
		t.Fatalf("FoldersOfNugget() error = %v", err)
	}
	if len(folderIDs) != 2 {
		t.Errorf("FoldersOfNugget() = %v, want default folder plus %s", folderIDs, folder.ID)
	}
}

func TestAddToFoldersSkipsDuplicates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	defaultID, err := env.membership.GeneralFolderID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GeneralFolderID() error = %v", err)
	}

	// The default link already exists from CreateBookmark.
	result, err := env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID, defaultID},
	})
	if err != nil {
		t.Fatalf("AddToFolders() error = %v", err)
	}
	if result.Created != 1 || result.Skipped != 1 {
		t.Errorf("AddToFolders() = created %d skipped %d, want 1 and 1", result.Created, result.Skipped)
	}
}

func TestAddToFoldersUnknownFolderRejectsWhole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}

	_, err = env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID, "no-such-folder"},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("AddToFolders(unknown folder) error = %v, want ErrValidation", err)
	}

	// Nothing was linked: the request fails as a whole.
	folderIDs, err := env.linkRepo.ListFolderIDsByBookmark(ctx, bookmarkID)
	if err != nil {
		t.Fatalf("ListFolderIDsByBookmark() error = %v", err)
	}
	if len(folderIDs) != 1 {
		t.Errorf("links after rejected request = %v, want only the default link", folderIDs)
	}
}

func TestAddToFoldersOtherUsersFolder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	theirs, err := env.folders.CreateFolder(ctx, "user-2", &CreateFolderRequest{Name: "Theirs"})
	if err != nil {
		t.Fatalf("CreateFolder(user-2) error = %v", err)
	}

	_, err = env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{theirs.ID},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("AddToFolders(foreign folder) error = %v, want ErrValidation", err)
	}
}

func TestRemoveFromFolder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID},
	}); err != nil {
		t.Fatalf("AddToFolders() error = %v", err)
	}

	if err := env.bookmarks.RemoveFromFolder(ctx, "user-1", bookmarkID, folder.ID); err != nil {
		t.Fatalf("RemoveFromFolder() error = %v", err)
	}

	folderIDs, err := env.linkRepo.ListFolderIDsByBookmark(ctx, bookmarkID)
	if err != nil {
		t.Fatalf("ListFolderIDsByBookmark() error = %v", err)
	}
	if len(folderIDs) != 1 {
		t.Errorf("links after removal = %v, want only the default link", folderIDs)
	}
}

func TestRemoveLastLinkFromDefaultRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	defaultID, err := env.membership.GeneralFolderID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GeneralFolderID() error = %v", err)
	}

	// The default link is the bookmark's only link.
	err = env.bookmarks.RemoveFromFolder(ctx, "user-1", bookmarkID, defaultID)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("RemoveFromFolder(last default link) error = %v, want ErrValidation", err)
	}
	count, _ := env.linkRepo.CountByBookmark(ctx, bookmarkID)
	if count != 1 {
		t.Errorf("link count after rejected removal = %d, want 1", count)
	}
}

func TestRemoveFromDefaultAllowedWhenOtherLinksExist(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, bookmarkID, err := env.saveNugget(ctx, "user-1", "https://example.com/a")
	if err != nil {
		t.Fatalf("saveNugget() error = %v", err)
	}
	folder, err := env.folders.CreateFolder(ctx, "user-1", &CreateFolderRequest{Name: "Go"})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	defaultID, err := env.membership.GeneralFolderID(ctx, "user-1")
	if err != nil {
		t.Fatalf("GeneralFolderID() error = %v", err)
	}
	if _, err := env.bookmarks.AddToFolders(ctx, "user-1", &AddToFoldersRequest{
		BookmarkID: bookmarkID,
		FolderIDs:  []string{folder.ID},
	}); err != nil {
		t.Fatalf("AddToFolders() error = %v", err)
	}

	if err := env.bookmarks.RemoveFromFolder(ctx, "user-1", bookmarkID, defaultID); err != nil {
		t.Fatalf("RemoveFromFolder(default, with other links) error = %v", err)
	}

	folderIDs, err := env.linkRepo.ListFolderIDsByBookmark(ctx, bookmarkID)
	if err != nil {
		t.Fatalf("ListFolderIDsByBookmark() error = %v", err)
	}
	if len(folderIDs) != 1 || folderIDs[0] != folder.ID {
		t.Errorf("links after removal = %v, want [%s]", folderIDs, folder.ID)
	}
}
