package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/types"
)

// RegisterRoutes registers ad and playback routes. Ad management is admin only.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	admin := middleware.RequireRole(types.RoleAdmin)

	ads := router.Group("/api/ads", admin)
	{
		ads.GET("", handler.ListAds)
		ads.GET("/:id", handler.GetAd)
		ads.POST("", handler.CreateAd)
		ads.PUT("/:id", handler.ReplaceAd)
		ads.DELETE("/:id", handler.DeleteAd)
	}

	assignments := router.Group("/api/ad-assignments", admin)
	{
		assignments.GET("", handler.ListAssignments)
		assignments.GET("/:id", handler.GetAssignment)
		assignments.POST("", handler.CreateAssignment)
		assignments.PUT("/:id", handler.ReplaceAssignment)
		assignments.DELETE("/:id", handler.DeleteAssignment)
	}

	router.GET("/api/playback/:kind/:id/decision", handler.GetDecision)
}
