// Package api exposes search over HTTP
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/searchmodule/service"
)

// Handler provides the search handler
type Handler struct {
	search *service.SearchService
}

// NewHandler creates a new API handler
func NewHandler(search *service.SearchService) *Handler {
	return &Handler{search: search}
}

// Search handles GET /api/search?q=
func (h *Handler) Search(c *gin.Context) {
	results, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// RegisterRoutes registers the search route
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/api/search", handler.Search)
}
