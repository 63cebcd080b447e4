// Package api exposes ads, ad assignments and playback decisions over HTTP
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/modules/admodule/core/entitlement"
	"github.com/mantonx/lineup/internal/modules/admodule/models"
	"github.com/mantonx/lineup/internal/modules/admodule/service"
)

// Handler provides HTTP handlers for ads
type Handler struct {
	ads *service.AdService
}

// NewHandler creates a new API handler
func NewHandler(ads *service.AdService) *Handler {
	return &Handler{ads: ads}
}

// ListAds handles GET /api/ads
func (h *Handler) ListAds(c *gin.Context) {
	ads, err := h.ads.ListAds(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ads": ads, "count": len(ads)})
}

// GetAd handles GET /api/ads/:id
func (h *Handler) GetAd(c *gin.Context) {
	ad, err := h.ads.GetAd(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// CreateAd handles POST /api/ads
func (h *Handler) CreateAd(c *gin.Context) {
	var ad models.AdMedia
	if err := c.ShouldBindJSON(&ad); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.ads.CreateAd(c.Request.Context(), &ad); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// ReplaceAd handles PUT /api/ads/:id
func (h *Handler) ReplaceAd(c *gin.Context) {
	var ad models.AdMedia
	if err := c.ShouldBindJSON(&ad); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.ads.ReplaceAd(c.Request.Context(), c.Param("id"), &ad); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// DeleteAd handles DELETE /api/ads/:id
func (h *Handler) DeleteAd(c *gin.Context) {
	if err := h.ads.DeleteAd(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAssignments handles GET /api/ad-assignments
func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.ads.ListAssignments(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments, "count": len(assignments)})
}

// GetAssignment handles GET /api/ad-assignments/:id
func (h *Handler) GetAssignment(c *gin.Context) {
	a, err := h.ads.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAssignment handles POST /api/ad-assignments
func (h *Handler) CreateAssignment(c *gin.Context) {
	var a models.AdAssignment
	if err := c.ShouldBindJSON(&a); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.ads.CreateAssignment(c.Request.Context(), &a); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ReplaceAssignment handles PUT /api/ad-assignments/:id
func (h *Handler) ReplaceAssignment(c *gin.Context) {
	var a models.AdAssignment
	if err := c.ShouldBindJSON(&a); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.ads.ReplaceAssignment(c.Request.Context(), c.Param("id"), &a); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAssignment handles DELETE /api/ad-assignments/:id
func (h *Handler) DeleteAssignment(c *gin.Context) {
	if err := h.ads.DeleteAssignment(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDecision handles GET /api/playback/:kind/:id/decision
func (h *Handler) GetDecision(c *gin.Context) {
	kind := entitlement.Kind(c.Param("kind"))
	d, err := h.ads.Decide(c.Request.Context(), kind, c.Param("id"), middleware.ViewerFrom(c))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
