package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/types"
	"github.com/stretchr/testify/assert"
)

type stubIdentity map[string]types.Viewer

func (s stubIdentity) ResolveViewer(_ context.Context, token string) (types.Viewer, error) {
	if v, ok := s[token]; ok {
		return v, nil
	}
	return types.Viewer{}, apperrors.Unauthorized("resolve viewer", "invalid token")
}

func newRouter(min types.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	identity := stubIdentity{
		"user-token":  {UserID: "u1", Role: types.RoleUser, Authenticated: true},
		"admin-token": {UserID: "a1", Role: types.RoleAdmin, Authenticated: true},
	}
	r.Use(ViewerMiddleware(identity))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, string(ViewerFrom(c).Role))
	})
	r.GET("/guarded", RequireRole(min), func(c *gin.Context) {
		c.String(http.StatusOK, ViewerFrom(c).UserID)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestViewerMiddleware(t *testing.T) {
	r := newRouter(types.RoleAdmin)

	w := do(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest", w.Body.String())

	w = do(r, "/open", "user-token")
	assert.Equal(t, "user", w.Body.String())

	w = do(r, "/open", "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(types.RoleAdmin)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"guest", "", http.StatusUnauthorized},
		{"user", "user-token", http.StatusForbidden},
		{"admin", "admin-token", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(r, "/guarded", tt.token).Code)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken("abc"))
}
