// Package api exposes checkout over HTTP
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/modules/billingmodule/service"
	"github.com/mantonx/lineup/internal/types"
)

// Handler provides HTTP handlers for billing
type Handler struct {
	billing *service.BillingService
}

// NewHandler creates a new API handler
func NewHandler(billing *service.BillingService) *Handler {
	return &Handler{billing: billing}
}

// CreateCheckout handles POST /api/billing/checkout
func (h *Handler) CreateCheckout(c *gin.Context) {
	var in service.CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		apperrors.HandleValidationError(c, "Invalid request: "+err.Error(), "body")
		return
	}
	sess, err := h.billing.CreateCheckoutSession(c.Request.Context(), middleware.ViewerFrom(c), in)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// RegisterRoutes registers the billing routes. Checkout needs a signed-in user.
func RegisterRoutes(router *gin.Engine, handler *Handler) {
	billing := router.Group("/api/billing")
	billing.POST("/checkout", middleware.RequireRole(types.RoleUser), handler.CreateCheckout)
}
