package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/models"
	"github.com/ranganmag-api/internal/service"
	"github.com/rs/zerolog"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files
const multipartMemory = 32 << 20

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	var filter models.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid query parameters"})
		return
	}

	articles, err := h.services.Article.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "Failed to fetch articles")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    articles,
		"total":   len(articles),
	})
}

// Get handles GET /api/articles/:id and counts the view
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	article, err := h.services.Article.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to fetch article")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": article})
}

// Upload handles POST /api/articles/upload (multipart: file + metadata)
func (h *ArticleHandler) Upload(c *gin.Context) {
	limit := h.cfg.Storage.MaxUploadSize + h.cfg.Storage.MaxFieldsSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			h.log.Warn().Int64("limit_bytes", limit).Msg("Upload rejected: request body too large")
			h.writeError(c, models.ErrTooLarge, "")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File upload failed"})
		return
	}
	defer c.Request.MultipartForm.RemoveAll()

	var in models.CreateArticleInput
	if err := c.ShouldBindWith(&in, binding.FormMultipart); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "File upload failed"})
		return
	}

	files := c.Request.MultipartForm.File["file"]
	if len(files) > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only one PDF file can be uploaded"})
		return
	}
	for field := range c.Request.MultipartForm.File {
		if field != "file" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unexpected file field " + strconv.Quote(field)})
			return
		}
	}

	var file *multipart.FileHeader
	if len(files) == 1 {
		file = files[0]
	}

	article, err := h.services.Article.Create(c.Request.Context(), &in, file)
	if err != nil {
		h.writeError(c, err, "Failed to upload article")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    article,
		"message": "Article uploaded successfully. Static site will be updated shortly.",
	})
}

// Update handles PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.ArticlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), id, &patch)
	if err != nil {
		h.writeError(c, err, "Failed to update article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    article,
		"message": "Article updated successfully",
	})
}

// Delete handles DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.services.Article.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Article deleted successfully",
	})
}

// writeError maps service errors onto status codes
func (h *ArticleHandler) writeError(c *gin.Context, err error, fallback string) {
	var verr *models.ValidationError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Message, "details": verr.Fields})
	case errors.Is(err, models.ErrNoFile):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No PDF file uploaded"})
	case errors.Is(err, models.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Only PDF files are allowed"})
	case errors.Is(err, models.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   fmt.Sprintf("File too large. Maximum size allowed is %s.", formatSize(h.cfg.Storage.MaxUploadSize)),
		})
	default:
		h.log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		body := gin.H{"success": false, "error": fallback}
		if h.cfg.IsDevelopment() {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// parseID reads the :id parameter. Non-numeric ids cannot name an article,
// so they answer 404.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return 0, false
	}
	return id, true
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}

func formatSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	return fmt.Sprintf("%d bytes", n)
}
