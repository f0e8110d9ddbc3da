package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ranganmag-api/internal/blob"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/mocks"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/repository"
	"github.com/ranganmag-api/internal/service"
	"github.com/ranganmag-api/internal/validation"
	"github.com/rs/zerolog"
)

var categories = []string{"অর্থনীতি", "রাজনীতি", "সমাজ", "সংস্কৃতি"}

// buildRepository returns n published, draft and featured articles across categories
func buildRepository(n int) *models.Repository {
	repo := &models.Repository{Articles: make([]models.Article, 0, n), LastID: n}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		status := models.StatusPublished
		if i%5 == 0 {
			status = models.StatusDraft
		}
		url := fmt.Sprintf("/uploads/%d_article.pdf", i)
		repo.Articles = append(repo.Articles, models.Article{
			ID:          i,
			Title:       fmt.Sprintf("প্রবন্ধ %d", i),
			Author:      "লেখক",
			Description: "বাংলা প্রবন্ধের সংক্ষিপ্ত বিবরণ",
			Date:        base.AddDate(0, 0, i%365).Format("2006-01-02"),
			Category:    categories[i%len(categories)],
			Featured:    i%7 == 0,
			Status:      status,
			PdfURL:      &url,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	return repo
}

func newArticleService(b *testing.B, n int) service.ArticleService {
	b.Helper()
	storage := config.StorageConfig{
		UploadDir:       b.TempDir(),
		PublicPrefix:    "/uploads",
		MaxUploadSize:   100 << 20,
		DefaultCategory: "সাধারণ",
	}
	files, err := blob.NewReceiver(storage, zerolog.Nop())
	if err != nil {
		b.Fatalf("NewReceiver failed: %v", err)
	}
	return service.NewArticleService(mocks.NewMockArticleStore(buildRepository(n)), files, nil, storage, zerolog.Nop())
}

// BenchmarkListFiltered benchmarks a filtered, sorted and limited list
func BenchmarkListFiltered(b *testing.B) {
	svc := newArticleService(b, 1000)
	filter := models.ArticleFilter{Category: "অর্থনীতি", Status: "published", Limit: "10"}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.List(ctx, filter); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "articles/sec")
}

// BenchmarkGetParallel benchmarks concurrent reads, each of which persists a view
func BenchmarkGetParallel(b *testing.B) {
	svc := newArticleService(b, 200)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		id := 1
		for pb.Next() {
			if _, err := svc.Get(ctx, id); err != nil {
				b.Error(err)
				return
			}
			id = id%200 + 1
		}
	})
}

// BenchmarkJSONStoreSave benchmarks the atomic rewrite of the repository file
func BenchmarkJSONStoreSave(b *testing.B) {
	store := repository.NewJSONStore(filepath.Join(b.TempDir(), "articles.json"), zerolog.Nop())
	repo := buildRepository(1000)
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := store.Save(ctx, repo); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkJSONStoreLoad benchmarks reading the repository file back
func BenchmarkJSONStoreLoad(b *testing.B) {
	store := repository.NewJSONStore(filepath.Join(b.TempDir(), "articles.json"), zerolog.Nop())
	ctx := context.Background()
	if err := store.Save(ctx, buildRepository(1000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := store.Load(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSanitizeTitle benchmarks stored filename derivation
func BenchmarkSanitizeTitle(b *testing.B) {
	title := "বাংলাদেশের অর্থনীতি: ২০২৪ সালের বাজেট বিশ্লেষণ ও ভবিষ্যৎ (Budget Analysis)"

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = blob.SanitizeTitle(title)
	}
}

// BenchmarkValidation benchmarks upload metadata validation
func BenchmarkValidation(b *testing.B) {
	in := &models.CreateArticleInput{
		Title:    "বাজেট বিশ্লেষণ",
		Author:   "লেখক",
		Category: "অর্থনীতি",
		Featured: "true",
	}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := validation.ValidateCreate(in); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSiteTrigger benchmarks the non-blocking regeneration trigger under contention
func BenchmarkSiteTrigger(b *testing.B) {
	site := service.NewSiteService(config.SiteConfig{Enabled: true, RetryAttempts: 1}, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			site.Trigger("benchmark")
		}
	})
}
