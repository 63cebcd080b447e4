// Package api exposes brands and brand rails over HTTP
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/brandmodule/models"
	"github.com/mantonx/lineup/internal/modules/brandmodule/service"
)

// Handler provides HTTP handlers for brands
type Handler struct {
	brands *service.BrandService
}

// NewHandler creates a new API handler
func NewHandler(brands *service.BrandService) *Handler {
	return &Handler{brands: brands}
}

// ListBrands handles GET /api/brands
func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.brands.ListBrands(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands, "count": len(brands)})
}

// GetBrand handles GET /api/brands/:id
func (h *Handler) GetBrand(c *gin.Context) {
	b, err := h.brands.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetRails handles GET /api/brands/rails
func (h *Handler) GetRails(c *gin.Context) {
	rails, err := h.brands.Rails(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rails": rails, "count": len(rails)})
}

// GetRail handles GET /api/brands/:id/rail
func (h *Handler) GetRail(c *gin.Context) {
	rail, err := h.brands.Rail(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, rail)
}

// CreateBrand handles POST /api/brands
func (h *Handler) CreateBrand(c *gin.Context) {
	var b models.Brand
	if err := c.ShouldBindJSON(&b); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.brands.CreateBrand(c.Request.Context(), &b); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// ReplaceBrand handles PUT /api/brands/:id
func (h *Handler) ReplaceBrand(c *gin.Context) {
	var b models.Brand
	if err := c.ShouldBindJSON(&b); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	if err := h.brands.ReplaceBrand(c.Request.Context(), c.Param("id"), &b); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBrand handles DELETE /api/brands/:id
func (h *Handler) DeleteBrand(c *gin.Context) {
	if err := h.brands.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
