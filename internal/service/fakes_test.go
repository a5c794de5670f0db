package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"nugget/internal/domain"
	"nugget/internal/domain/models"
	"nugget/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs the function directly. The in-memory repos have no
// transaction semantics to coordinate.
type fakeTxManager struct{}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeNuggetRepo struct {
	mu      sync.Mutex
	nuggets map[string]*models.Nugget
}

func newFakeNuggetRepo() *fakeNuggetRepo {
	return &fakeNuggetRepo{nuggets: make(map[string]*models.Nugget)}
}

func (r *fakeNuggetRepo) Create(ctx context.Context, nugget *models.Nugget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nuggets {
		if n.URL == nugget.URL {
			return domain.ErrConflict
		}
	}
	copied := *nugget
	r.nuggets[nugget.ID] = &copied
	return nil
}

func (r *fakeNuggetRepo) GetByID(ctx context.Context, id string) (*models.Nugget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nuggets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNuggetRepo) GetByURL(ctx context.Context, url string) (*models.Nugget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nuggets {
		if n.URL == url {
			copied := *n
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeNuggetRepo) SetSummary(ctx context.Context, id, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.nuggets[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Summary = &summary
	return nil
}

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]*models.BookmarkFolder

	// getDefaultMiss makes the next GetDefault report ErrNotFound even if
	// a default folder exists. Simulates losing a creation race: the
	// lookup misses, the insert conflicts, the refetch succeeds.
	getDefaultMiss bool
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.BookmarkFolder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.BookmarkFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.UserID != folder.UserID {
			continue
		}
		if strings.EqualFold(f.Name, folder.Name) {
			return domain.ErrConflict
		}
		if folder.IsDefault && f.IsDefault {
			return domain.ErrConflict
		}
	}
	folder.ID = uuid.NewString()
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, userID string) (*models.BookmarkFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFolderRepo) GetDefault(ctx context.Context, userID string) (*models.BookmarkFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getDefaultMiss {
		r.getDefaultMiss = false
		return nil, domain.ErrNotFound
	}
	for _, f := range r.folders {
		if f.UserID == userID && f.IsDefault {
			copied := *f
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) GetByName(ctx context.Context, userID, name string) (*models.BookmarkFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.folders {
		if f.UserID == userID && strings.EqualFold(f.Name, name) {
			copied := *f
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) List(ctx context.Context, userID string) ([]models.BookmarkFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookmarkFolder
	for _, f := range r.folders {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Order < out[i].Order {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeFolderRepo) MaxOrder(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := -1
	for _, f := range r.folders {
		if f.UserID == userID && f.Order > max {
			max = f.Order
		}
	}
	return max, nil
}

func (r *fakeFolderRepo) Rename(ctx context.Context, id, userID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return domain.ErrNotFound
	}
	for _, other := range r.folders {
		if other.ID != id && other.UserID == userID && strings.EqualFold(other.Name, name) {
			return domain.ErrConflict
		}
	}
	f.Name = name
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.folders, id)
	return nil
}

type fakeBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[string]*models.Bookmark
	links     *fakeLinkRepo
}

func newFakeBookmarkRepo(links *fakeLinkRepo) *fakeBookmarkRepo {
	return &fakeBookmarkRepo{bookmarks: make(map[string]*models.Bookmark), links: links}
}

func (r *fakeBookmarkRepo) Create(ctx context.Context, bookmark *models.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookmarks {
		if b.UserID == bookmark.UserID && b.NuggetID == bookmark.NuggetID {
			return domain.ErrConflict
		}
	}
	bookmark.ID = uuid.NewString()
	copied := *bookmark
	r.bookmarks[bookmark.ID] = &copied
	return nil
}

func (r *fakeBookmarkRepo) GetByID(ctx context.Context, id, userID string) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookmarks[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookmarkRepo) GetByUserAndNugget(ctx context.Context, userID, nuggetID string) (*models.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.NuggetID == nuggetID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeBookmarkRepo) Delete(ctx context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookmarks[id]
	if !ok || b.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.bookmarks, id)
	return nil
}

func (r *fakeBookmarkRepo) ListNuggetIDsByFolder(ctx context.Context, userID, folderID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.bookmarks {
		if b.UserID != userID {
			continue
		}
		if r.links.hasLink(b.ID, folderID) {
			out = append(out, b.NuggetID)
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) ListNuggetIDsForDefault(ctx context.Context, userID, defaultFolderID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.bookmarks {
		if b.UserID != userID {
			continue
		}
		if r.links.hasLink(b.ID, defaultFolderID) || r.links.countFor(b.ID) == 0 {
			out = append(out, b.NuggetID)
		}
	}
	return out, nil
}

type fakeLinkRepo struct {
	mu    sync.Mutex
	links map[string]*models.BookmarkFolderLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*models.BookmarkFolderLink)}
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *models.BookmarkFolderLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.links {
		if l.BookmarkID == link.BookmarkID && l.FolderID == link.FolderID {
			return domain.ErrConflict
		}
	}
	link.ID = uuid.NewString()
	copied := *link
	r.links[link.ID] = &copied
	return nil
}

func (r *fakeLinkRepo) CountByBookmark(ctx context.Context, bookmarkID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countFor(bookmarkID), nil
}

func (r *fakeLinkRepo) ListFolderIDsByBookmark(ctx context.Context, bookmarkID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, l := range r.links {
		if l.BookmarkID == bookmarkID {
			out = append(out, l.FolderID)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) Delete(ctx context.Context, userID, bookmarkID, folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.links {
		if l.UserID == userID && l.BookmarkID == bookmarkID && l.FolderID == folderID {
			delete(r.links, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeLinkRepo) DeleteByFolder(ctx context.Context, folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.links {
		if l.FolderID == folderID {
			delete(r.links, id)
		}
	}
	return nil
}

func (r *fakeLinkRepo) DeleteByBookmark(ctx context.Context, bookmarkID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.links {
		if l.BookmarkID == bookmarkID {
			delete(r.links, id)
		}
	}
	return nil
}

// countFor and hasLink are called with r.mu already held by the public
// methods, or from the bookmark repo which holds its own lock only.
func (r *fakeLinkRepo) countFor(bookmarkID string) int {
	count := 0
	for _, l := range r.links {
		if l.BookmarkID == bookmarkID {
			count++
		}
	}
	return count
}

func (r *fakeLinkRepo) hasLink(bookmarkID, folderID string) bool {
	for _, l := range r.links {
		if l.BookmarkID == bookmarkID && l.FolderID == folderID {
			return true
		}
	}
	return false
}

// testEnv wires the services over in-memory repos.
type testEnv struct {
	nuggetRepo   *fakeNuggetRepo
	folderRepo   *fakeFolderRepo
	bookmarkRepo *fakeBookmarkRepo
	linkRepo     *fakeLinkRepo

	membership *MembershipService
	folders    *FolderService
	bookmarks  *BookmarkService
	nuggets    *NuggetService
}

func newTestEnv() *testEnv {
	logger := testLogger()
	linkRepo := newFakeLinkRepo()
	folderRepo := newFakeFolderRepo()
	bookmarkRepo := newFakeBookmarkRepo(linkRepo)
	nuggetRepo := newFakeNuggetRepo()
	tx := &fakeTxManager{}

	membership := NewMembershipService(folderRepo, bookmarkRepo, linkRepo, logger)
	return &testEnv{
		nuggetRepo:   nuggetRepo,
		folderRepo:   folderRepo,
		bookmarkRepo: bookmarkRepo,
		linkRepo:     linkRepo,
		membership:   membership,
		folders:      NewFolderService(folderRepo, linkRepo, membership, tx, logger),
		bookmarks:    NewBookmarkService(bookmarkRepo, folderRepo, linkRepo, membership, tx, logger),
		nuggets:      NewNuggetService(nuggetRepo, logger),
	}
}

// saveNugget registers a nugget and bookmarks it for the user, returning
// the nugget id and bookmark id.
func (e *testEnv) saveNugget(ctx context.Context, userID, url string) (string, string, error) {
	nugget, err := e.nuggets.CreateNugget(ctx, &CreateNuggetRequest{
		URL:   url,
		Title: "test " + url,
		Kind:  models.NuggetKindArticle,
	})
	if err != nil {
		return "", "", err
	}
	result, err := e.bookmarks.CreateBookmark(ctx, userID, &CreateBookmarkRequest{NuggetID: nugget.ID})
	if err != nil {
		return "", "", err
	}
	return nugget.ID, result.BookmarkID, nil
}
