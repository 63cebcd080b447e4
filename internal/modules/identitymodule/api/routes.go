package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/types"
)

// RegisterRoutes registers the user routes
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	users := router.Group("/api/users")
	{
		users.GET("/me", handler.Me)
		users.GET("", middleware.RequireRole(types.RoleAdmin), handler.ListUsers)
		users.PUT("/:id/premium", middleware.RequireRole(types.RoleAdmin), handler.SetPremium)
		users.POST("/:id/promote", middleware.RequireRole(types.RoleMasterAdmin), handler.Promote)
		users.POST("/:id/demote", middleware.RequireRole(types.RoleMasterAdmin), handler.Demote)
	}
}
