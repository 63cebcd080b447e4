package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database/databasetest"
	"github.com/mantonx/lineup/internal/middleware"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/service"
	"github.com/mantonx/lineup/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, viewer types.Viewer) (*gin.Engine, *service.CatalogService) {
	gin.SetMode(gin.TestMode)
	db := databasetest.NewSQLite(t, &models.MediaAsset{}, &models.Series{})
	svc := service.NewCatalogService(repository.NewCatalogRepository(db), nil, nil, hclog.NewNullLogger())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ViewerKey, viewer)
		c.Next()
	})
	RegisterRoutes(router, NewHandler(svc))
	return router, svc
}

var admin = types.Viewer{UserID: "a1", Role: types.RoleAdmin, Authenticated: true}

func request(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func filmBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":             title,
		"content_type":      "film",
		"video_url":         "https://cdn.example/" + title + ".m3u8",
		"thumbnail_url":     "https://cdn.example/" + title + ".jpg",
		"available_as_vod":  true,
		"eligible_for_live": true,
	}
}

func TestAssetLifecycle(t *testing.T) {
	r, _ := setupRouter(t, admin)

	w := request(t, r, http.MethodPost, "/api/catalog/assets", filmBody("Heat"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.MediaAsset
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = request(t, r, http.MethodGet, "/api/catalog/assets?kind=films", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Assets []models.MediaAsset `json:"assets"`
		Count  int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	w = request(t, r, http.MethodPost, "/api/catalog/assets/"+created.ID+"/clips", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(t, r, http.MethodGet, "/api/catalog/assets?kind=clips", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Count)

	w = request(t, r, http.MethodDelete, "/api/catalog/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, r, http.MethodGet, "/api/catalog/assets/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssetValidationAndKind(t *testing.T) {
	r, _ := setupRouter(t, admin)

	body := filmBody("NoThumb")
	delete(body, "thumbnail_url")
	w := request(t, r, http.MethodPost, "/api/catalog/assets", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodGet, "/api/catalog/assets?kind=radio", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWritesRequireAdmin(t *testing.T) {
	user := types.Viewer{UserID: "u1", Role: types.RoleUser, Authenticated: true}
	r, _ := setupRouter(t, user)

	w := request(t, r, http.MethodPost, "/api/catalog/assets", filmBody("Heat"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	r, _ = setupRouter(t, types.Guest())
	w = request(t, r, http.MethodPost, "/api/catalog/series", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, r, http.MethodGet, "/api/catalog/sections", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeriesEditingWithRevisions(t *testing.T) {
	r, _ := setupRouter(t, admin)

	w := request(t, r, http.MethodPost, "/api/catalog/series", map[string]interface{}{
		"title":         "Night Shift",
		"thumbnail_url": "https://cdn.example/ns.jpg",
		"seasons": []map[string]interface{}{
			{"season_number": 1, "title": "One"},
			{"season_number": 2, "title": "Two"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sr models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sr))
	require.Len(t, sr.Seasons, 2)
	assert.EqualValues(t, 1, sr.Revision)

	path := "/api/catalog/series/" + sr.ID
	w = request(t, r, http.MethodPost, path+"/seasons/"+sr.Seasons[0].ID+"/episodes?revision=1", map[string]interface{}{
		"episode_number":  1,
		"title":           "Pilot",
		"runtime_minutes": 42,
		"video_url":       "https://cdn.example/pilot.m3u8",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added struct {
		Series  models.Series  `json:"series"`
		Episode models.Episode `json:"episode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &added))
	assert.EqualValues(t, 2, added.Series.Revision)

	// A writer still holding revision 1 loses
	w = request(t, r, http.MethodDelete, path+"/seasons/"+sr.Seasons[1].ID+"?revision=1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, r, http.MethodPost, path+"/episodes/"+added.Episode.ID+"/move?revision=2", map[string]interface{}{"season_number": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved models.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	assert.Empty(t, moved.Seasons[0].Episodes)
	require.Len(t, moved.Seasons[1].Episodes, 1)
	assert.Equal(t, moved.Seasons[1].ID, moved.Seasons[1].Episodes[0].SeasonID)

	w = request(t, r, http.MethodGet, "/api/catalog/episodes/"+added.Episode.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodPut, path+"?revision=abc", moved)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	moved.Title = "Night Shift Redux"
	w = request(t, r, http.MethodPut, path, moved)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
