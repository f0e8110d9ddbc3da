package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

// jsonStore keeps the repository in a single JSON document on disk
type jsonStore struct {
	path string
	log  zerolog.Logger
}

// NewJSONStore creates a store backed by the file at path
func NewJSONStore(path string, log zerolog.Logger) ArticleStore {
	return &jsonStore{
		path: path,
		log:  log.With().Str("component", "json_store").Str("path", path).Logger(),
	}
}

func (s *jsonStore) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat data file: %w", err)
	}

	s.log.Info().Msg("Data file not found, writing seed articles")
	return s.Save(ctx, Seed(time.Now().UTC()))
}

func (s *jsonStore) Load(ctx context.Context) (*models.Repository, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.EmptyRepository(), fmt.Errorf("failed to read data file: %w", err)
	}

	var repo models.Repository
	if err := json.Unmarshal(data, &repo); err != nil {
		return models.EmptyRepository(), fmt.Errorf("failed to parse data file: %w", err)
	}
	if repo.Articles == nil {
		repo.Articles = []models.Article{}
	}
	return &repo, nil
}

// Save writes to a temporary file next to the target and renames it into
// place, so readers see either the old or the new document.
func (s *jsonStore) Save(ctx context.Context, repo *models.Repository) error {
	data, err := json.MarshalIndent(repo, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode repository: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(s.path), "."+filepath.Base(s.path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
