package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/types"
)

// RegisterRoutes registers the live TV routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	live := router.Group("/api/live")
	admin := middleware.RequireRole(types.RoleAdmin)

	live.GET("/default-duration", handler.GetDefaultDuration)

	channels := live.Group("/channels")
	{
		channels.GET("", handler.ListChannels)
		channels.GET("/:id", handler.GetChannel)
		channels.GET("/:id/guide", handler.GetGuide)
		channels.GET("/:id/on-air", handler.GetOnAir)

		channels.POST("", admin, handler.CreateChannel)
		channels.PUT("/:id", admin, handler.ReplaceChannel)
		channels.DELETE("/:id", admin, handler.DeleteChannel)
		channels.POST("/:id/slots", admin, handler.AddSlot)
		channels.DELETE("/:id/slots", admin, handler.RemoveSlotAt)
		channels.DELETE("/:id/slots/:slotId", admin, handler.RemoveSlot)
	}
}
