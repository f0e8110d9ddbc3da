// Package sitegen renders published articles into a static HTML site.
package sitegen

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ranganmag-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

// maxRelated is how many same-category articles an article page links to
const maxRelated = 3

// ArticleSource supplies the articles to publish
type ArticleSource interface {
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
}

// Generator writes index.html, one page per article, feed.xml and the
// static assets into its output directory
type Generator struct {
	source      ArticleSource
	outDir      string
	meta        Meta
	markdown    goldmark.Markdown
	index       *template.Template
	article     *template.Template
	concurrency int
	now         func() time.Time
	log         zerolog.Logger
}

// NewGenerator parses the embedded templates and returns a Generator
func NewGenerator(source ArticleSource, outDir string, meta Meta, log zerolog.Logger) (*Generator, error) {
	funcs := template.FuncMap{
		"bengaliDate":   bengaliDate,
		"bengaliNumber": bengaliNumber,
		"truncate":      truncate,
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	index, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}
	article, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/article.html")
	if err != nil {
		return nil, fmt.Errorf("parse article template: %w", err)
	}

	return &Generator{
		source:      source,
		outDir:      outDir,
		meta:        meta,
		markdown:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		index:       index,
		article:     article,
		concurrency: 4,
		now:         time.Now,
		log:         log.With().Str("component", "sitegen").Logger(),
	}, nil
}

type pageData struct {
	Meta        Meta
	Title       string
	Description string
	Root        string
}

type indexData struct {
	pageData
	Featured  []models.Article
	Regular   []models.Article
	Total     int
	Generated time.Time
}

type articleData struct {
	pageData
	Article         models.Article
	DescriptionHTML template.HTML
	PdfURL          string
	Related         []models.Article
}

// Regenerate rebuilds the whole site from the published articles
func (g *Generator) Regenerate(ctx context.Context) error {
	start := time.Now()

	articles, err := g.source.List(ctx, models.ArticleFilter{Status: string(models.StatusPublished)})
	if err != nil {
		return fmt.Errorf("fetch published articles: %w", err)
	}

	for _, dir := range []string{g.outDir, filepath.Join(g.outDir, "articles"), filepath.Join(g.outDir, "assets")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := g.writeIndex(articles); err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i := range articles {
		a := articles[i]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return g.writeArticle(a, articles)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := g.writeFeed(articles); err != nil {
		return err
	}
	if err := g.copyAssets(); err != nil {
		return err
	}
	if err := g.removeStalePages(articles); err != nil {
		return err
	}

	g.log.Info().
		Int("articles", len(articles)).
		Str("output", g.outDir).
		Dur("duration", time.Since(start)).
		Msg("Static site generated")
	return nil
}

func (g *Generator) writeIndex(articles []models.Article) error {
	data := indexData{
		pageData: pageData{
			Meta:        g.meta,
			Title:       g.meta.Title + " - " + g.meta.Tagline,
			Description: g.meta.Description,
		},
		Total:     len(articles),
		Generated: g.now(),
	}
	for _, a := range articles {
		if a.Featured {
			data.Featured = append(data.Featured, a)
		} else {
			data.Regular = append(data.Regular, a)
		}
	}

	var buf bytes.Buffer
	if err := g.index.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return writeFile(filepath.Join(g.outDir, "index.html"), buf.Bytes())
}

func (g *Generator) writeArticle(a models.Article, all []models.Article) error {
	description, err := g.renderMarkdown(a.Description)
	if err != nil {
		return fmt.Errorf("render description of article %d: %w", a.ID, err)
	}

	data := articleData{
		pageData: pageData{
			Meta:        g.meta,
			Title:       a.Title + " - " + g.meta.Title,
			Description: truncate(a.Description, 160),
			Root:        "../",
		},
		Article:         a,
		DescriptionHTML: description,
		Related:         related(a, all),
	}
	if a.PdfURL != nil && *a.PdfURL != "" {
		data.PdfURL = g.fileURL(*a.PdfURL)
	}

	var buf bytes.Buffer
	if err := g.article.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render article %d: %w", a.ID, err)
	}
	return writeFile(filepath.Join(g.outDir, "articles", strconv.Itoa(a.ID)+".html"), buf.Bytes())
}

// renderMarkdown converts a description to HTML. Raw HTML in the source is
// not passed through.
func (g *Generator) renderMarkdown(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := g.markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (g *Generator) fileURL(p string) string {
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return g.meta.FilesURL + p
}

func (g *Generator) copyAssets() error {
	entries, err := assetFS.ReadDir("assets")
	if err != nil {
		return fmt.Errorf("read embedded assets: %w", err)
	}
	for _, e := range entries {
		data, err := assetFS.ReadFile("assets/" + e.Name())
		if err != nil {
			return fmt.Errorf("read asset %s: %w", e.Name(), err)
		}
		if err := writeFile(filepath.Join(g.outDir, "assets", e.Name()), data); err != nil {
			return err
		}
	}
	return nil
}

// removeStalePages deletes pages of articles that are no longer published
func (g *Generator) removeStalePages(articles []models.Article) error {
	keep := make(map[string]bool, len(articles))
	for _, a := range articles {
		keep[strconv.Itoa(a.ID)+".html"] = true
	}

	dir := filepath.Join(g.outDir, "articles")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list article pages: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] || filepath.Ext(e.Name()) != ".html" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove stale page %s: %w", e.Name(), err)
		}
		g.log.Debug().Str("page", e.Name()).Msg("Removed stale article page")
	}
	return nil
}

// related returns up to maxRelated other articles in the same category
func related(a models.Article, all []models.Article) []models.Article {
	var out []models.Article
	for _, other := range all {
		if other.ID == a.ID || other.Category != a.Category {
			continue
		}
		out = append(out, other)
		if len(out) == maxRelated {
			break
		}
	}
	return out
}

// writeFile replaces path through a temporary file in the same directory
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
