package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"nugget/internal/auth"
	"nugget/internal/config"
	"nugget/internal/repository/postgres"
	"nugget/internal/service"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before recreating the schema")
	schemaOnly := flag.Bool("schema-only", false, "Create the schema and exit without seeding demo data")
	clearData := flag.Bool("clear-data", false, "Delete all rows for the demo user and exit")
	demoUser := flag.String("user", "", "User ID to seed demo data under (default: created via the Supabase admin API, or generated)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// Refuse destructive flags against a production database.
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatal("Refusing to drop or clear tables in prod")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	userID := *demoUser
	if userID == "" {
		userID = ensureDemoUser(cfg)
	}

	if *clearData {
		log.Printf("🧹 Clearing data for user %s...", userID)
		if err := clearUserData(ctx, pool, tables, userID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	nuggetRepo := postgres.NewNuggetRepository(repoConfig)
	bookmarkRepo := postgres.NewBookmarkRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	linkRepo := postgres.NewLinkRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	membership := service.NewMembershipService(folderRepo, bookmarkRepo, linkRepo, logger)
	folderService := service.NewFolderService(folderRepo, linkRepo, membership, txManager, logger)
	bookmarkService := service.NewBookmarkService(bookmarkRepo, folderRepo, linkRepo, membership, txManager, logger)
	nuggetService := service.NewNuggetService(nuggetRepo, logger)

	log.Printf("📝 Seeding demo data for user %s...", userID)

	folderIDs := make(map[string]string)
	for _, name := range []string{"Reading List", "Go", "Cooking"} {
		folder, err := folderService.CreateFolder(ctx, userID, &service.CreateFolderRequest{Name: name})
		if err != nil {
			log.Printf("❌ Failed to create folder %q: %v", name, err)
			continue
		}
		folderIDs[name] = folder.ID
		log.Printf("✅ Created folder %q (ID: %s)", name, folder.ID)
	}

	for i, data := range getSeedNuggets() {
		nugget, err := nuggetService.CreateNugget(ctx, data.request)
		if err != nil {
			log.Printf("❌ Failed to create nugget %q: %v", data.request.URL, err)
			continue
		}

		result, err := bookmarkService.CreateBookmark(ctx, userID, &service.CreateBookmarkRequest{NuggetID: nugget.ID})
		if err != nil {
			log.Printf("❌ Failed to bookmark nugget %s: %v", nugget.ID, err)
			continue
		}

		if len(data.folders) > 0 {
			ids := make([]string, 0, len(data.folders))
			for _, name := range data.folders {
				if id, ok := folderIDs[name]; ok {
					ids = append(ids, id)
				}
			}
			if len(ids) > 0 {
				if _, err := bookmarkService.AddToFolders(ctx, userID, &service.AddToFoldersRequest{
					BookmarkID: result.BookmarkID,
					FolderIDs:  ids,
				}); err != nil {
					log.Printf("❌ Failed to file bookmark %s: %v", result.BookmarkID, err)
				}
			}
		}

		log.Printf("✅ Created nugget %d: %s (ID: %s)", i+1, data.request.Title, nugget.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// ensureDemoUser creates a demo auth user through the Supabase admin API
// so the seeded rows belong to an account that can actually log in. Falls
// back to a bare generated id when no service key is configured.
func ensureDemoUser(cfg *config.Config) string {
	const demoEmail = "demo@nugget.local"

	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		id := uuid.NewString()
		log.Printf("⚠️  SUPABASE_KEY not set; seeding under generated user id %s", id)
		return id
	}

	admin := auth.NewAdminClient(cfg.SupabaseURL, cfg.SupabaseKey)
	if err := admin.DeleteUserByEmail(demoEmail); err != nil {
		log.Printf("Warning: could not remove existing demo user: %v", err)
	}
	id, err := admin.CreateUser(demoEmail, "demo-password-123")
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("✅ Created demo user %s (ID: %s)", demoEmail, id)
	return id
}

// runSchema creates tables and indexes if they don't exist.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\""); err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Nuggets + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			kind TEXT NOT NULL,
			summary TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Bookmarks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			nugget_id UUID NOT NULL REFERENCES ` + tables.Nuggets + `(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Links + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			bookmark_id UUID NOT NULL REFERENCES ` + tables.Bookmarks + `(id),
			folder_id UUID NOT NULL REFERENCES ` + tables.Folders + `(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	indexes := []string{
		// One nugget per URL; duplicate saves resolve to the existing row.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `nuggets_url ON ` + tables.Nuggets + `(url)`,
		// Folder names are unique per user, case-insensitively.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_user_name ON ` + tables.Folders + `(user_id, lower(name))`,
		// At most one default folder per user.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_user_default ON ` + tables.Folders + `(user_id) WHERE is_default`,
		// Saving the same nugget twice resolves to the same bookmark.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `bookmarks_user_nugget ON ` + tables.Bookmarks + `(user_id, nugget_id)`,
		// Duplicate folder links are rejected by the database.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `links_bookmark_folder ON ` + tables.Links + `(bookmark_id, folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `links_folder_id ON ` + tables.Links + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `bookmarks_user_id ON ` + tables.Bookmarks + `(user_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys).
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Links,
		tables.Bookmarks,
		tables.Folders,
		tables.Nuggets,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearUserData deletes all rows owned by a user. Nuggets are shared
// content and are left in place.
func clearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, userID string) error {
	for _, table := range []string{tables.Links, tables.Bookmarks, tables.Folders} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table+" WHERE user_id = $1", userID); err != nil {
			return err
		}
	}
	return nil
}

type seedNugget struct {
	request *service.CreateNuggetRequest
	folders []string
}

func getSeedNuggets() []seedNugget {
	return []seedNugget{
		{
			request: &service.CreateNuggetRequest{
				URL:   "https://go.dev/blog/error-handling-and-go",
				Title: "Error handling and Go",
				Kind:  "article",
			},
			folders: []string{"Go", "Reading List"},
		},
		{
			request: &service.CreateNuggetRequest{
				URL:   "https://go.dev/blog/pipelines",
				Title: "Go Concurrency Patterns: Pipelines and cancellation",
				Kind:  "article",
			},
			folders: []string{"Go"},
		},
		{
			request: &service.CreateNuggetRequest{
				URL:   "https://www.youtube.com/watch?v=oV9rvDllKEg",
				Title: "Concurrency is not Parallelism",
				Kind:  "video",
			},
			folders: []string{"Go", "Reading List"},
		},
		{
			request: &service.CreateNuggetRequest{
				URL:   "https://www.seriouseats.com/stovetop-macaroni-and-cheese-recipe",
				Title: "Stovetop Mac and Cheese in 15 Minutes",
				Kind:  "article",
			},
			folders: []string{"Cooking"},
		},
		{
			request: &service.CreateNuggetRequest{
				URL:   "https://example.com/notes",
				Title: "Unfiled scratch notes",
				Kind:  "link",
			},
			// No folders: lands in General via the default membership rule.
		},
	}
}
