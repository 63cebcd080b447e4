// Package api exposes the catalog over HTTP
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/service"
)

// Handler provides HTTP handlers for catalog operations
type Handler struct {
	catalog *service.CatalogService
}

// NewHandler creates a new API handler
func NewHandler(catalog *service.CatalogService) *Handler {
	return &Handler{catalog: catalog}
}

// ListAssets handles GET /api/catalog/assets
//
// Query parameters:
//   - kind: films, videos, podcasts, clips or live
//   - content_type, genre, q, source_asset_id, original, premium
//   - limit, offset
func (h *Handler) ListAssets(c *gin.Context) {
	var filter filters.AssetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		apperrors.HandleValidationError(c, "Invalid query: "+err.Error(), "query")
		return
	}

	assets, err := h.catalog.ListAssets(c.Request.Context(), filter)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assets": assets,
		"count":  len(assets),
	})
}

// GetAsset handles GET /api/catalog/assets/:id
func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.catalog.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

// GetSections handles GET /api/catalog/sections
func (h *Handler) GetSections(c *gin.Context) {
	sections, err := h.catalog.Sections(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateAsset handles POST /api/catalog/assets
func (h *Handler) CreateAsset(c *gin.Context) {
	var asset models.MediaAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	asset.ID = ""

	if err := h.catalog.CreateAsset(c.Request.Context(), &asset); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

// ReplaceAsset handles PUT /api/catalog/assets/:id
func (h *Handler) ReplaceAsset(c *gin.Context) {
	var asset models.MediaAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}

	updated, err := h.catalog.ReplaceAsset(c.Request.Context(), c.Param("id"), &asset)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteAsset handles DELETE /api/catalog/assets/:id
func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.catalog.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateClips handles POST /api/catalog/assets/:id/clips
// Responds 201 when every variant was created and 207 when some failed.
func (h *Handler) GenerateClips(c *gin.Context) {
	result, err := h.catalog.GenerateClips(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

// ListSeries handles GET /api/catalog/series?q=
func (h *Handler) ListSeries(c *gin.Context) {
	list, err := h.catalog.ListSeries(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"series": list,
		"count":  len(list),
	})
}

// GetSeries handles GET /api/catalog/series/:id
func (h *Handler) GetSeries(c *gin.Context) {
	sr, err := h.catalog.GetSeries(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// GetEpisode handles GET /api/catalog/episodes/:id
func (h *Handler) GetEpisode(c *gin.Context) {
	sr, ep, err := h.catalog.FindEpisode(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"series_id":    sr.ID,
		"series_title": sr.Title,
		"episode":      ep,
	})
}

// CreateSeries handles POST /api/catalog/series
func (h *Handler) CreateSeries(c *gin.Context) {
	var sr models.Series
	if err := c.ShouldBindJSON(&sr); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}

	if err := h.catalog.CreateSeries(c.Request.Context(), &sr); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sr)
}

// ReplaceSeries handles PUT /api/catalog/series/:id
// The body's revision, or the revision query parameter, must match the stored one.
func (h *Handler) ReplaceSeries(c *gin.Context) {
	var sr models.Series
	if err := c.ShouldBindJSON(&sr); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, sr.Revision)
	if !ok {
		return
	}

	updated, err := h.catalog.ReplaceSeries(c.Request.Context(), c.Param("id"), &sr, revision)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteSeries handles DELETE /api/catalog/series/:id
func (h *Handler) DeleteSeries(c *gin.Context) {
	if err := h.catalog.DeleteSeries(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSeason handles POST /api/catalog/series/:id/seasons?revision=
func (h *Handler) AddSeason(c *gin.Context) {
	var season models.Season
	if err := c.ShouldBindJSON(&season); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}

	sr, added, err := h.catalog.AddSeason(c.Request.Context(), c.Param("id"), revision, season)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"series": sr, "season": added})
}

// RemoveSeason handles DELETE /api/catalog/series/:id/seasons/:seasonId?revision=
func (h *Handler) RemoveSeason(c *gin.Context) {
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}
	sr, err := h.catalog.RemoveSeason(c.Request.Context(), c.Param("id"), revision, c.Param("seasonId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// AddEpisode handles POST /api/catalog/series/:id/seasons/:seasonId/episodes?revision=
func (h *Handler) AddEpisode(c *gin.Context) {
	var ep models.Episode
	if err := c.ShouldBindJSON(&ep); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}

	sr, added, err := h.catalog.AddEpisode(c.Request.Context(), c.Param("id"), revision, c.Param("seasonId"), ep)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"series": sr, "episode": added})
}

// ReplaceEpisode handles PUT /api/catalog/series/:id/episodes/:episodeId?revision=
func (h *Handler) ReplaceEpisode(c *gin.Context) {
	var ep models.Episode
	if err := c.ShouldBindJSON(&ep); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}

	sr, err := h.catalog.ReplaceEpisode(c.Request.Context(), c.Param("id"), revision, c.Param("episodeId"), ep)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// RemoveEpisode handles DELETE /api/catalog/series/:id/episodes/:episodeId?revision=
func (h *Handler) RemoveEpisode(c *gin.Context) {
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}
	sr, err := h.catalog.RemoveEpisode(c.Request.Context(), c.Param("id"), revision, c.Param("episodeId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// MoveEpisode handles POST /api/catalog/series/:id/episodes/:episodeId/move?revision=
//
// Request:
//
//	{"season_number": 2}
func (h *Handler) MoveEpisode(c *gin.Context) {
	var req struct {
		SeasonNumber int `json:"season_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "season_number")
		return
	}
	revision, ok := revisionParam(c, 0)
	if !ok {
		return
	}

	sr, err := h.catalog.MoveEpisode(c.Request.Context(), c.Param("id"), revision, c.Param("episodeId"), req.SeasonNumber)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sr)
}

// revisionParam reads the expected revision from the query string, falling
// back to the If-Match header and then to fallback. It writes a 400 and
// returns false on a malformed value.
func revisionParam(c *gin.Context, fallback int64) (int64, bool) {
	raw := c.Query("revision")
	if raw == "" {
		raw = strings.Trim(c.GetHeader("If-Match"), `"`)
	}
	if raw == "" {
		return fallback, true
	}
	rev, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || rev < 0 {
		apperrors.HandleValidationError(c, "revision must be a non-negative integer", "revision")
		return 0, false
	}
	return rev, true
}
