package repository

import (
	"context"
	"fmt"

	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/database"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

// ArticleStore persists the whole article repository. Implementations load
// and save the complete state; callers serialize load-modify-save sequences.
type ArticleStore interface {
	// Initialize prepares storage and seeds it when nothing exists yet. Idempotent.
	Initialize(ctx context.Context) error
	// Load reads the repository. On failure it returns an empty repository
	// together with the error.
	Load(ctx context.Context) (*models.Repository, error)
	// Save overwrites the repository.
	Save(ctx context.Context, repo *models.Repository) error
}

// Open builds the store selected by cfg.Storage.Driver. The returned close
// function releases any database connection.
func Open(cfg *config.Config, log zerolog.Logger) (ArticleStore, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSON:
		return NewJSONStore(cfg.Storage.DataFile, log), func() error { return nil }, nil

	case config.DriverPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			db.Close()
			return nil, nil, err
		}
		return NewSQLStore(db, log), db.Close, nil

	case config.DriverSQLite:
		db, err := database.NewSQLite(cfg.Database.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLStore(db, log), db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Storage.Driver)
}
