package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/types"
)

// RegisterRoutes registers the brand routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	brands := router.Group("/api/brands")
	admin := middleware.RequireRole(types.RoleAdmin)
	{
		brands.GET("", handler.ListBrands)
		brands.GET("/rails", handler.GetRails)
		brands.GET("/:id", handler.GetBrand)
		brands.GET("/:id/rail", handler.GetRail)

		brands.POST("", admin, handler.CreateBrand)
		brands.PUT("/:id", admin, handler.ReplaceBrand)
		brands.DELETE("/:id", admin, handler.DeleteBrand)
	}
}
