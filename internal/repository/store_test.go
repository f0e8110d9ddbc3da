package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/database"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/repository"
	"github.com/rs/zerolog"
)

func strPtr(s string) *string { return &s }

func sampleRepository() *models.Repository {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Repository{
		Articles: []models.Article{
			{
				ID: 4, Title: "নির্বাচন", Author: "প্রতিবেদক", Category: "রাজনীতি",
				Date: "2024-04-01", Status: models.StatusPublished, Featured: true,
				PdfURL: strPtr("/uploads/1_x.pdf"), LocalPdfPath: strPtr("/srv/uploads/1_x.pdf"),
				FirebasePdfURL: strPtr("https://storage.example.com/1_x.pdf"),
				Views:          7, CreatedAt: now, UpdatedAt: now,
			},
			{
				ID: 6, Title: "Draft", Author: "B", Status: models.StatusDraft,
				CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute),
			},
		},
		LastID: 9,
	}
}

// storeContract runs the behaviour every ArticleStore must share
func storeContract(t *testing.T, store repository.ArticleStore) {
	ctx := context.Background()

	t.Run("initialize seeds", func(t *testing.T) {
		if err := store.Initialize(ctx); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		repo, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if repo.LastID != 2 {
			t.Errorf("Expected lastId 2, got %d", repo.LastID)
		}
		if len(repo.Articles) != 2 {
			t.Fatalf("Expected 2 seed articles, got %d", len(repo.Articles))
		}
		if repo.Articles[0].Title != "স্বাধীনতার ৫৩ বছর" || !repo.Articles[0].Featured {
			t.Errorf("Unexpected first seed article: %+v", repo.Articles[0])
		}
		if repo.Articles[1].PdfURL != nil {
			t.Errorf("Expected seed pdfUrl to be null")
		}
	})

	t.Run("initialize is idempotent", func(t *testing.T) {
		repo, _ := store.Load(ctx)
		repo.Articles = repo.Articles[:1]
		repo.LastID = 5
		if err := store.Save(ctx, repo); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		if err := store.Initialize(ctx); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		reloaded, _ := store.Load(ctx)
		if len(reloaded.Articles) != 1 || reloaded.LastID != 5 {
			t.Errorf("Initialize overwrote existing data: %d articles, lastId %d", len(reloaded.Articles), reloaded.LastID)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		want := sampleRepository()
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got.LastID != 9 {
			t.Errorf("Expected lastId 9, got %d", got.LastID)
		}
		if len(got.Articles) != 2 {
			t.Fatalf("Expected 2 articles, got %d", len(got.Articles))
		}

		a := got.Articles[0]
		if a.ID != 4 || a.Title != "নির্বাচন" || a.Views != 7 || !a.Featured {
			t.Errorf("Unexpected article: %+v", a)
		}
		if a.PdfURL == nil || *a.PdfURL != "/uploads/1_x.pdf" {
			t.Errorf("Unexpected pdfUrl: %v", a.PdfURL)
		}
		if a.FirebasePdfURL == nil || *a.FirebasePdfURL != "https://storage.example.com/1_x.pdf" {
			t.Errorf("Unexpected firebasePdfUrl: %v", a.FirebasePdfURL)
		}
		if got.Articles[1].FirebasePdfURL != nil {
			t.Errorf("Expected second firebasePdfUrl to stay null")
		}
		if !a.CreatedAt.Equal(want.Articles[0].CreatedAt) {
			t.Errorf("Expected createdAt %v, got %v", want.Articles[0].CreatedAt, a.CreatedAt)
		}
		if got.Articles[1].Status != models.StatusDraft || got.Articles[1].LocalPdfPath != nil {
			t.Errorf("Unexpected second article: %+v", got.Articles[1])
		}
	})

	t.Run("save empty", func(t *testing.T) {
		if err := store.Save(ctx, &models.Repository{Articles: []models.Article{}, LastID: 9}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(got.Articles) != 0 || got.LastID != 9 {
			t.Errorf("Expected empty repository with lastId 9, got %d articles, lastId %d", len(got.Articles), got.LastID)
		}
	})
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "articles.json")
	storeContract(t, repository.NewJSONStore(path, zerolog.Nop()))

	// No temp files are left next to the data file
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Leftover temp file %s", e.Name())
		}
	}
}

func TestJSONStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	store := repository.NewJSONStore(path, zerolog.Nop())

	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"lastId": 2`, `"pdfUrl": null`, `"localPdfPath": null`, `"firebasePdfUrl": null`, "\n  \"articles\": ["} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected data file to contain %q", want)
		}
	}
}

func TestJSONStore_KeepsBackupURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	existing := `{
  "articles": [
    {
      "id": 1,
      "title": "স্বাধীনতার ৫৩ বছর",
      "author": "সম্পাদকীয় বিভাগ",
      "status": "published",
      "pdfUrl": "/uploads/1_a.pdf",
      "localPdfPath": "/srv/uploads/1_a.pdf",
      "firebasePdfUrl": "https://storage.example.com/1_a.pdf",
      "views": 3,
      "createdAt": "2024-03-26T10:00:00.000Z",
      "updatedAt": "2024-03-26T10:00:00.000Z"
    }
  ],
  "lastId": 1
}`
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	store := repository.NewJSONStore(path, zerolog.Nop())
	repo, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	repo.Articles[0].Views++
	if err := store.Save(context.Background(), repo); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"firebasePdfUrl": "https://storage.example.com/1_a.pdf"`) {
		t.Errorf("Expected firebasePdfUrl to survive a save, got:\n%s", data)
	}
}

func TestJSONStore_LoadFailures(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{"missing file", nil},
		{"corrupt file", strPtr("{not json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "articles.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			repo, err := repository.NewJSONStore(path, zerolog.Nop()).Load(context.Background())
			if err == nil {
				t.Error("Expected an error")
			}
			if repo == nil || len(repo.Articles) != 0 || repo.LastID != 0 {
				t.Errorf("Expected empty repository, got %+v", repo)
			}
		})
	}
}

func TestSQLiteStore(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "articles.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer db.Close()

	storeContract(t, repository.NewSQLStore(db, zerolog.Nop()))
}

func TestPostgresStore(t *testing.T) {
	if os.Getenv("TEST_POSTGRES") == "" {
		t.Skip("set TEST_POSTGRES=1 and DB_* variables to run against PostgreSQL")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	db, err := database.New(&cfg.Database, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New failed: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if _, err := db.Exec("DELETE FROM articles; DELETE FROM article_counter"); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	storeContract(t, repository.NewSQLStore(db, zerolog.Nop()))
}

func TestRebind(t *testing.T) {
	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "x.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer db.Close()

	q := "SELECT * FROM t WHERE a = ? AND b = ?"
	if got := db.Rebind(q); got != q {
		t.Errorf("SQLite rebind changed query: %q", got)
	}
}
