package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ranganmag-api/internal/database"
	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
)

var articleColumns = []string{
	"id", "title", "subtitle", "description", "author", "date", "category",
	"featured", "status", "pdf_url", "local_pdf_path", "firebase_pdf_url", "views", "created_at", "updated_at",
}

// sqlStore keeps the repository in the articles and article_counter tables.
// Save replaces the table contents in a single transaction.
type sqlStore struct {
	db  *database.DB
	log zerolog.Logger
}

// NewSQLStore creates a store on an open PostgreSQL or SQLite connection
func NewSQLStore(db *database.DB, log zerolog.Logger) ArticleStore {
	return &sqlStore{
		db:  db,
		log: log.With().Str("component", "sql_store").Str("dialect", string(db.Dialect())).Logger(),
	}
}

func (s *sqlStore) Initialize(ctx context.Context) error {
	var lastID int
	err := s.db.QueryRowContext(ctx, "SELECT last_id FROM article_counter WHERE id = 1").Scan(&lastID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read article counter: %w", err)
	}

	s.log.Info().Msg("Article counter not found, writing seed articles")
	return s.Save(ctx, Seed(time.Now().UTC()))
}

func (s *sqlStore) Load(ctx context.Context) (*models.Repository, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, subtitle, description, author, date, category,
		       featured, status, pdf_url, local_pdf_path, firebase_pdf_url, views, created_at, updated_at
		FROM articles
		ORDER BY id
	`)
	if err != nil {
		return models.EmptyRepository(), fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	repo := models.EmptyRepository()
	for rows.Next() {
		var (
			a         models.Article
			status    string
			pdfURL    sql.NullString
			localPath sql.NullString
			firebase  sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &a.Subtitle, &a.Description, &a.Author, &a.Date, &a.Category,
			&a.Featured, &status, &pdfURL, &localPath, &firebase, &a.Views, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return models.EmptyRepository(), fmt.Errorf("failed to scan article: %w", err)
		}
		a.Status = models.ArticleStatus(status)
		a.PdfURL = nullToPtr(pdfURL)
		a.LocalPdfPath = nullToPtr(localPath)
		a.FirebasePdfURL = nullToPtr(firebase)
		repo.Articles = append(repo.Articles, a)
		if a.ID > repo.LastID {
			repo.LastID = a.ID
		}
	}
	if err := rows.Err(); err != nil {
		return models.EmptyRepository(), fmt.Errorf("failed to read articles: %w", err)
	}

	var lastID int
	err = s.db.QueryRowContext(ctx, "SELECT last_id FROM article_counter WHERE id = 1").Scan(&lastID)
	switch {
	case err == nil:
		if lastID > repo.LastID {
			repo.LastID = lastID
		}
	case errors.Is(err, sql.ErrNoRows):
	default:
		return models.EmptyRepository(), fmt.Errorf("failed to read article counter: %w", err)
	}

	return repo, nil
}

func (s *sqlStore) Save(ctx context.Context, repo *models.Repository) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM articles"); err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}

	if s.db.Dialect() == database.Postgres {
		err = s.copyArticles(ctx, tx, repo.Articles)
	} else {
		err = s.insertArticles(ctx, tx, repo.Articles)
	}
	if err != nil {
		return err
	}

	upsert := s.db.Rebind(`
		INSERT INTO article_counter (id, last_id) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET last_id = excluded.last_id
	`)
	if _, err := tx.ExecContext(ctx, upsert, repo.LastID); err != nil {
		return fmt.Errorf("failed to update article counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// copyArticles bulk loads rows using PostgreSQL COPY
func (s *sqlStore) copyArticles(ctx context.Context, tx *sql.Tx, articles []models.Article) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("articles", articleColumns...))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}
	defer stmt.Close()

	for i := range articles {
		if _, err := stmt.ExecContext(ctx, articleArgs(&articles[i])...); err != nil {
			return fmt.Errorf("failed to copy article %d: %w", articles[i].ID, err)
		}
	}

	// Flush
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	return nil
}

func (s *sqlStore) insertArticles(ctx context.Context, tx *sql.Tx, articles []models.Article) error {
	stmt, err := tx.PrepareContext(ctx, s.db.Rebind(`
		INSERT INTO articles (id, title, subtitle, description, author, date, category,
			featured, status, pdf_url, local_pdf_path, firebase_pdf_url, views, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range articles {
		if _, err := stmt.ExecContext(ctx, articleArgs(&articles[i])...); err != nil {
			return fmt.Errorf("failed to insert article %d: %w", articles[i].ID, err)
		}
	}
	return nil
}

func articleArgs(a *models.Article) []interface{} {
	return []interface{}{
		a.ID, a.Title, a.Subtitle, a.Description, a.Author, a.Date, a.Category,
		a.Featured, string(a.Status), ptrToNull(a.PdfURL), ptrToNull(a.LocalPdfPath), ptrToNull(a.FirebasePdfURL),
		a.Views, a.CreatedAt, a.UpdatedAt,
	}
}

func nullToPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func ptrToNull(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
