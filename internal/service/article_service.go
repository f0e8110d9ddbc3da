package service

import (
	"context"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/repository"
	"github.com/ranganmag-api/internal/validation"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService.
// Every load-modify-save sequence holds mu, so concurrent requests in this
// process never lose each other's writes.
type articleService struct {
	store           repository.ArticleStore
	files           FileStore
	site            SiteService
	defaultCategory string
	now             func() time.Time
	log             zerolog.Logger
	mu              sync.Mutex
}

// NewArticleService creates an ArticleService. site may be nil when no
// regeneration is wanted.
func NewArticleService(store repository.ArticleStore, files FileStore, site SiteService, cfg config.StorageConfig, log zerolog.Logger) ArticleService {
	return &articleService{
		store:           store,
		files:           files,
		site:            site,
		defaultCategory: cfg.DefaultCategory,
		now:             func() time.Time { return time.Now().UTC() },
		log:             log.With().Str("service", "article").Logger(),
	}
}

// load reads the repository. Storage failures degrade to an empty repository.
func (s *articleService) load(ctx context.Context) *models.Repository {
	repo, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load articles, continuing with empty repository")
	}
	if repo == nil {
		repo = models.EmptyRepository()
	}
	return repo
}

// save writes the repository. Failures are logged and not reported to callers.
func (s *articleService) save(ctx context.Context, repo *models.Repository) {
	if err := s.store.Save(ctx, repo); err != nil {
		s.log.Error().Err(err).Int("last_id", repo.LastID).Msg("Failed to save articles")
	}
}

func (s *articleService) regenerate(reason string) {
	if s.site == nil {
		return
	}
	if !s.site.Trigger(reason) {
		s.log.Debug().Str("reason", reason).Msg("Site regeneration already pending")
	}
}

// List returns articles matching every supplied filter, newest first
func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	s.mu.Lock()
	repo := s.load(ctx)
	s.mu.Unlock()

	out := make([]models.Article, 0, len(repo.Articles))
	for _, a := range repo.Articles {
		if filter.Category != "" && !strings.EqualFold(a.Category, filter.Category) {
			continue
		}
		if filter.Status != "" && string(a.Status) != filter.Status {
			continue
		}
		if filter.Featured == "true" && !a.Featured {
			continue
		}
		out = append(out, a)
	}

	// limit cuts the stored order before sorting
	if filter.Limit != "" {
		out = out[:limitLength(filter.Limit, len(out))]
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// limitLength returns how many of n articles a limit keeps. The leading
// integer of raw is used ("3abc" keeps 3); no leading integer keeps none and
// a negative value drops that many from the end.
func limitLength(raw string, n int) int {
	s := strings.TrimLeft(raw, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	limit, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of int range
		if s[0] == '-' {
			return 0
		}
		return n
	}
	if limit < 0 {
		limit += n
	}
	if limit < 0 {
		return 0
	}
	if limit > n {
		return n
	}
	return limit
}

// Get returns an article and counts the view
func (s *articleService) Get(ctx context.Context, id int) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	repo := s.load(ctx)
	idx := repo.Find(id)
	if idx < 0 {
		return nil, models.ErrNotFound
	}

	repo.Articles[idx].Views++
	s.save(ctx, repo)

	article := repo.Articles[idx].Clone()
	return &article, nil
}

// Create validates the upload, stores the PDF and records a new published
// article. Metadata is checked before anything is written to disk.
func (s *articleService) Create(ctx context.Context, in *models.CreateArticleInput, file *multipart.FileHeader) (*models.Article, error) {
	if file == nil {
		return nil, models.ErrNoFile
	}
	if err := s.files.Check(file); err != nil {
		return nil, err
	}
	if err := validation.ValidateCreate(in); err != nil {
		return nil, err
	}

	stored, err := s.files.Store(file, in.Title)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = s.defaultCategory
	}

	s.mu.Lock()
	repo := s.load(ctx)
	now := s.now()
	repo.LastID++
	article := models.Article{
		ID:           repo.LastID,
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		Description:  in.Description,
		Author:       in.Author,
		Date:         now.Format("2006-01-02"),
		Category:     category,
		Featured:     in.Featured == "true",
		Status:       models.StatusPublished,
		PdfURL:       &stored.PublicURL,
		LocalPdfPath: &stored.LocalPath,
		Views:        0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo.Articles = append(repo.Articles, article)
	s.save(ctx, repo)
	s.mu.Unlock()

	s.log.Info().
		Int("article_id", article.ID).
		Str("file", stored.Filename).
		Int64("size", stored.Size).
		Msg("Article uploaded")

	s.regenerate("article created")

	created := article.Clone()
	return &created, nil
}

// Update merges the supplied fields into an existing article
func (s *articleService) Update(ctx context.Context, id int, patch *models.ArticlePatch) (*models.Article, error) {
	if err := validation.ValidatePatch(patch); err != nil {
		return nil, err
	}

	s.mu.Lock()
	repo := s.load(ctx)
	idx := repo.Find(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, models.ErrNotFound
	}

	patch.Apply(&repo.Articles[idx])
	repo.Articles[idx].UpdatedAt = s.now()
	s.save(ctx, repo)
	updated := repo.Articles[idx].Clone()
	s.mu.Unlock()

	s.log.Info().Int("article_id", id).Msg("Article updated")
	s.regenerate("article updated")

	return &updated, nil
}

// Delete removes an article and, best effort, its PDF
func (s *articleService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	repo := s.load(ctx)
	idx := repo.Find(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.ErrNotFound
	}

	article := repo.Articles[idx]
	if article.LocalPdfPath != nil {
		if err := s.files.Remove(*article.LocalPdfPath); err != nil {
			s.log.Warn().Err(err).Int("article_id", id).Str("path", *article.LocalPdfPath).Msg("Failed to delete PDF file")
		}
	}

	repo.Articles = append(repo.Articles[:idx], repo.Articles[idx+1:]...)
	s.save(ctx, repo)
	s.mu.Unlock()

	s.log.Info().Int("article_id", id).Msg("Article deleted")
	s.regenerate("article deleted")

	return nil
}
