package models

import (
	"time"
)

// ArticleStatus is the publication state of an article
type ArticleStatus string

const (
	StatusPublished ArticleStatus = "published"
	StatusDraft     ArticleStatus = "draft"
	StatusArchived  ArticleStatus = "archived"
)

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusPublished: true,
	StatusDraft:     true,
	StatusArchived:  true,
}

// Article represents a PDF-backed article. The JSON tags are both the API
// wire format and the repository file format.
type Article struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle"`
	Description  string        `json:"description"`
	Author       string        `json:"author"`
	Date         string        `json:"date"`
	Category     string        `json:"category"`
	Featured     bool          `json:"featured"`
	Status       ArticleStatus `json:"status"`
	PdfURL       *string       `json:"pdfUrl"`
	LocalPdfPath *string       `json:"localPdfPath"`
	// FirebasePdfURL is a remote backup copy of the PDF, kept from older
	// repository files. Nothing in this server sets it.
	FirebasePdfURL *string   `json:"firebasePdfUrl"`
	Views          int       `json:"views"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Repository is the whole persisted state: every article plus the id counter.
// LastID never decreases, so ids are not reused after deletes.
type Repository struct {
	Articles []Article `json:"articles"`
	LastID   int       `json:"lastId"`
}

// EmptyRepository returns the state used when nothing could be loaded
func EmptyRepository() *Repository {
	return &Repository{Articles: []Article{}, LastID: 0}
}

// Find returns the index of the article with the given id, or -1
func (r *Repository) Find(id int) int {
	for i := range r.Articles {
		if r.Articles[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy, so callers can mutate it without touching the original
func (r *Repository) Clone() *Repository {
	out := &Repository{LastID: r.LastID, Articles: make([]Article, len(r.Articles))}
	for i, a := range r.Articles {
		out.Articles[i] = a.Clone()
	}
	return out
}

// Clone copies the article including its pointer fields
func (a Article) Clone() Article {
	if a.PdfURL != nil {
		v := *a.PdfURL
		a.PdfURL = &v
	}
	if a.LocalPdfPath != nil {
		v := *a.LocalPdfPath
		a.LocalPdfPath = &v
	}
	if a.FirebasePdfURL != nil {
		v := *a.FirebasePdfURL
		a.FirebasePdfURL = &v
	}
	return a
}

// ArticleFilter holds the list query parameters. Values are kept as the raw
// query strings; empty means "not supplied".
type ArticleFilter struct {
	Category string `form:"category"`
	Status   string `form:"status"`
	Featured string `form:"featured"`
	Limit    string `form:"limit"`
}

// CreateArticleInput represents the metadata fields of an upload request
type CreateArticleInput struct {
	Title       string `form:"title" json:"title"`
	Subtitle    string `form:"subtitle" json:"subtitle"`
	Author      string `form:"author" json:"author"`
	Category    string `form:"category" json:"category"`
	Description string `form:"description" json:"description"`
	Featured    string `form:"featured" json:"featured"`
}

// ArticlePatch holds the client-mutable fields of an update. Nil means the
// field was not supplied.
type ArticlePatch struct {
	Title       *string        `json:"title"`
	Subtitle    *string        `json:"subtitle"`
	Description *string        `json:"description"`
	Author      *string        `json:"author"`
	Date        *string        `json:"date"`
	Category    *string        `json:"category"`
	Featured    *bool          `json:"featured"`
	Status      *ArticleStatus `json:"status"`
}

// Apply shallow-merges the supplied fields over the article
func (p *ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Subtitle != nil {
		a.Subtitle = *p.Subtitle
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
}

// SiteStatus reports the state of the static site regeneration worker
type SiteStatus struct {
	Running       bool       `json:"running"`
	Pending       bool       `json:"pending"`
	Runs          int        `json:"runs"`
	Failures      int        `json:"failures"`
	LastReason    string     `json:"lastReason,omitempty"`
	LastRunAt     *time.Time `json:"lastRunAt,omitempty"`
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}
