package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/types"
)

// RegisterRoutes registers all catalog routes. Reads are public; writes
// require an admin viewer resolved by middleware.ViewerMiddleware.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	catalog := router.Group("/api/catalog")
	admin := middleware.RequireRole(types.RoleAdmin)

	catalog.GET("/sections", handler.GetSections)
	catalog.GET("/episodes/:id", handler.GetEpisode)

	assets := catalog.Group("/assets")
	{
		assets.GET("", handler.ListAssets)
		assets.GET("/:id", handler.GetAsset)
		assets.POST("", admin, handler.CreateAsset)
		assets.PUT("/:id", admin, handler.ReplaceAsset)
		assets.DELETE("/:id", admin, handler.DeleteAsset)
		assets.POST("/:id/clips", admin, handler.GenerateClips)
	}

	series := catalog.Group("/series")
	{
		series.GET("", handler.ListSeries)
		series.GET("/:id", handler.GetSeries)
		series.POST("", admin, handler.CreateSeries)
		series.PUT("/:id", admin, handler.ReplaceSeries)
		series.DELETE("/:id", admin, handler.DeleteSeries)

		series.POST("/:id/seasons", admin, handler.AddSeason)
		series.DELETE("/:id/seasons/:seasonId", admin, handler.RemoveSeason)
		series.POST("/:id/seasons/:seasonId/episodes", admin, handler.AddEpisode)
		series.PUT("/:id/episodes/:episodeId", admin, handler.ReplaceEpisode)
		series.DELETE("/:id/episodes/:episodeId", admin, handler.RemoveEpisode)
		series.POST("/:id/episodes/:episodeId/move", admin, handler.MoveEpisode)
	}
}
