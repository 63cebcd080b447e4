package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/services"
	"github.com/mantonx/lineup/internal/types"
)

// ViewerKey is the gin context key holding the resolved types.Viewer
const ViewerKey = "viewer"

// ViewerMiddleware resolves the bearer token into a Viewer. Requests without
// a token continue as guests; requests with a bad token are rejected.
func ViewerMiddleware(identity services.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || identity == nil {
			c.Set(ViewerKey, types.Guest())
			c.Next()
			return
		}

		viewer, err := identity.ResolveViewer(c.Request.Context(), token)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// RequireRole rejects guests with 401 and viewers below min with 403
func RequireRole(min types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := ViewerFrom(c)
		if !viewer.Authenticated {
			apperrors.NewUnauthorizedError("authentication required").ToGinResponse(c)
			return
		}
		if !viewer.Role.AtLeast(min) {
			apperrors.NewForbiddenError("requires role " + string(min)).ToGinResponse(c)
			return
		}
		c.Next()
	}
}

// ViewerFrom returns the viewer stored by ViewerMiddleware, or a guest
func ViewerFrom(c *gin.Context) types.Viewer {
	if v, ok := c.Get(ViewerKey); ok {
		if viewer, ok := v.(types.Viewer); ok {
			return viewer
		}
	}
	return types.Guest()
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
