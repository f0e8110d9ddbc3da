package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ranganmag-api/internal/service"
	"github.com/rs/zerolog"
)

// SiteHandler exposes the static site regeneration worker
type SiteHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(services *service.Services, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		services: services,
		log:      log.With().Str("handler", "site").Logger(),
	}
}

// Status handles GET /api/site/status
func (h *SiteHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.services.Site.Status()})
}

// Regenerate handles POST /api/site/regenerate
func (h *SiteHandler) Regenerate(c *gin.Context) {
	queued := h.services.Site.Trigger("manual")

	message := "Site regeneration queued"
	if !queued {
		message = "Site regeneration already pending"
	}
	h.log.Info().Bool("queued", queued).Msg("Manual site regeneration requested")

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"queued":  queued,
		"message": message,
	})
}
