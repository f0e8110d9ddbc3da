package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/repository"
)

// MockArticleStore is an in-memory implementation of ArticleStore
type MockArticleStore struct {
	mu        sync.Mutex
	Repo      *models.Repository
	LoadError error
	SaveError error
	Loads     int
	Saves     int
}

// Verify interface compliance
var _ repository.ArticleStore = (*MockArticleStore)(nil)

// NewMockArticleStore creates a store holding a copy of repo, or the seed
// articles when repo is nil
func NewMockArticleStore(repo *models.Repository) *MockArticleStore {
	if repo == nil {
		repo = repository.Seed(time.Now().UTC())
	}
	return &MockArticleStore{Repo: repo.Clone()}
}

func (m *MockArticleStore) Initialize(ctx context.Context) error {
	return nil
}

func (m *MockArticleStore) Load(ctx context.Context) (*models.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads++
	if m.LoadError != nil {
		return models.EmptyRepository(), m.LoadError
	}
	return m.Repo.Clone(), nil
}

func (m *MockArticleStore) Save(ctx context.Context, repo *models.Repository) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Repo = repo.Clone()
	return nil
}

// Snapshot returns a copy of the stored repository
func (m *MockArticleStore) Snapshot() *models.Repository {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Repo.Clone()
}

// SaveCount returns how many times Save was called
func (m *MockArticleStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}
