// Package api exposes users and roles over HTTP
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/modules/identitymodule/models"
	"github.com/mantonx/lineup/internal/modules/identitymodule/service"
	"github.com/mantonx/lineup/internal/types"
)

// Handler provides HTTP handlers for identity operations
type Handler struct {
	identity *service.IdentityService
}

// NewHandler creates a new API handler
func NewHandler(identity *service.IdentityService) *Handler {
	return &Handler{identity: identity}
}

// Me handles GET /api/users/me
// Guests receive their viewer with no profile.
func (h *Handler) Me(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	if !viewer.Authenticated {
		c.JSON(http.StatusOK, gin.H{"viewer": viewer})
		return
	}

	user, err := h.identity.GetUser(c.Request.Context(), viewer.UserID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewer": viewer, "profile": user})
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.identity.ListUsers(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

type roleRequest struct {
	Role types.Role `json:"role"`
}

// Promote handles POST /api/users/:id/promote
//
// Request (optional):
//
//	{"role": "admin"}
func (h *Handler) Promote(c *gin.Context) {
	h.changeRole(c, h.identity.Promote)
}

// Demote handles POST /api/users/:id/demote
func (h *Handler) Demote(c *gin.Context) {
	h.changeRole(c, h.identity.Demote)
}

type roleChange func(ctx context.Context, actor types.Viewer, userID string, role types.Role) (*models.User, error)

func (h *Handler) changeRole(c *gin.Context, change roleChange) {
	var req roleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "role")
			return
		}
	}

	user, err := change(c.Request.Context(), middleware.ViewerFrom(c), c.Param("id"), req.Role)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPremium handles PUT /api/users/:id/premium
//
// Request:
//
//	{"is_premium": true}
func (h *Handler) SetPremium(c *gin.Context) {
	var req struct {
		IsPremium *bool `json:"is_premium" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "is_premium")
		return
	}

	user, err := h.identity.SetPremium(c.Request.Context(), c.Param("id"), *req.IsPremium)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
