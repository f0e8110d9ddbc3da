package mocks

import (
	"context"
	"mime/multipart"
	"sync"
	"sync/atomic"

	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	ListFunc   func(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetFunc    func(ctx context.Context, id int) (*models.Article, error)
	CreateFunc func(ctx context.Context, in *models.CreateArticleInput, file *multipart.FileHeader) (*models.Article, error)
	UpdateFunc func(ctx context.Context, id int, patch *models.ArticlePatch) (*models.Article, error)
	DeleteFunc func(ctx context.Context, id int) error
	Filters    []models.ArticleFilter
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func (m *MockArticleService) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	m.Filters = append(m.Filters, filter)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []models.Article{}, nil
}

func (m *MockArticleService) Get(ctx context.Context, id int) (*models.Article, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockArticleService) Create(ctx context.Context, in *models.CreateArticleInput, file *multipart.FileHeader) (*models.Article, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, in, file)
	}
	return &models.Article{ID: 1, Title: in.Title, Author: in.Author, Status: models.StatusPublished}, nil
}

func (m *MockArticleService) Update(ctx context.Context, id int, patch *models.ArticlePatch) (*models.Article, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil, models.ErrNotFound
}

func (m *MockArticleService) Delete(ctx context.Context, id int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return models.ErrNotFound
}

// MockSiteService records triggers instead of regenerating
type MockSiteService struct {
	mu          sync.Mutex
	Triggers    []string
	StatusValue models.SiteStatus
	Regen       service.Regenerator
	Started     bool
}

// Verify interface compliance
var _ service.SiteService = (*MockSiteService)(nil)

func (m *MockSiteService) Start(ctx context.Context) { m.Started = true }
func (m *MockSiteService) Stop()                     { m.Started = false }

func (m *MockSiteService) Trigger(reason string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Triggers = append(m.Triggers, reason)
	return true
}

func (m *MockSiteService) Status() models.SiteStatus {
	return m.StatusValue
}

func (m *MockSiteService) SetRegenerator(regen service.Regenerator) {
	m.Regen = regen
}

// TriggerCount returns how many triggers were recorded
func (m *MockSiteService) TriggerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Triggers)
}

// MockRegenerator counts regeneration calls
type MockRegenerator struct {
	RegenerateFunc func(ctx context.Context) error
	calls          int32
}

// Verify interface compliance
var _ service.Regenerator = (*MockRegenerator)(nil)

func (m *MockRegenerator) Regenerate(ctx context.Context) error {
	atomic.AddInt32(&m.calls, 1)
	if m.RegenerateFunc != nil {
		return m.RegenerateFunc(ctx)
	}
	return nil
}

// Calls returns how many times Regenerate ran
func (m *MockRegenerator) Calls() int {
	return int(atomic.LoadInt32(&m.calls))
}
