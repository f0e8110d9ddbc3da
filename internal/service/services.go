package service

import (
	"context"
	"mime/multipart"

	"github.com/ranganmag-api/internal/blob"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines the interface for article operations
type ArticleService interface {
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	Get(ctx context.Context, id int) (*models.Article, error)
	Create(ctx context.Context, in *models.CreateArticleInput, file *multipart.FileHeader) (*models.Article, error)
	Update(ctx context.Context, id int, patch *models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id int) error
}

// SiteService defines the interface for static site regeneration
type SiteService interface {
	Start(ctx context.Context)
	Stop()
	// Trigger queues a regeneration run without blocking. It reports false
	// when a run is already pending and the request was folded into it.
	Trigger(reason string) bool
	Status() models.SiteStatus
	SetRegenerator(regen Regenerator)
}

// Regenerator rebuilds the public static site from published articles
type Regenerator interface {
	Regenerate(ctx context.Context) error
}

// FileStore receives uploaded PDFs
type FileStore interface {
	Check(header *multipart.FileHeader) error
	Store(header *multipart.FileHeader, title string) (*blob.StoredFile, error)
	Remove(path string) error
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Site    SiteService
}

// NewServices creates all services. The site service has no regenerator
// until SetRegenerator is called, since the generator reads articles back
// through the article service.
func NewServices(store repository.ArticleStore, files FileStore, cfg *config.Config, log zerolog.Logger) *Services {
	siteSvc := NewSiteService(cfg.Site, log)
	articleSvc := NewArticleService(store, files, siteSvc, cfg.Storage, log)

	return &Services{
		Article: articleSvc,
		Site:    siteSvc,
	}
}
