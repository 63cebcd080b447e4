package backend

import (
	"context"
	"testing"

	"github.com/mantonx/lineup/internal/database/databasetest"
	brand "github.com/mantonx/lineup/internal/modules/brandmodule/models"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBackendSearch(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewSQLite(t, &catalog.MediaAsset{}, &catalog.Series{}, &brand.Brand{})

	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "v1", Title: "Grace Street", ContentType: catalog.ContentTypeMovie}).Error)
	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "c1", Title: "Grace Street (Clip 1)", ContentType: catalog.ContentTypeMovie, IsClip: true}).Error)
	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "p1", Title: "Morning Talk", ContentType: catalog.ContentTypePodcast, Description: "about grace"}).Error)
	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "x1", Title: "Unrelated", ContentType: catalog.ContentTypeNews}).Error)
	require.NoError(t, db.Create(&catalog.Series{ID: "s1", Title: "Amazing Grace", ContentType: catalog.ContentTypeSeries}).Error)
	require.NoError(t, db.Create(&brand.Brand{ID: "b1", Name: "Grace Network"}).Error)

	hits, err := NewGormBackend(db).Search(ctx, "GRACE", 0)
	require.NoError(t, err)

	types := map[string]models.ResultType{}
	for _, h := range hits {
		types[h.ID] = h.ResultType
	}
	assert.Equal(t, map[string]models.ResultType{
		"v1": models.ResultFilm,
		"c1": models.ResultClip,
		"p1": models.ResultVideo,
		"s1": models.ResultSeries,
		"b1": models.ResultBrand,
	}, types)
}

func TestGormBackendWildcardQueries(t *testing.T) {
	ctx := context.Background()
	db := databasetest.NewSQLite(t, &catalog.MediaAsset{}, &catalog.Series{}, &brand.Brand{})

	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "v1", Title: "Grace Street", ContentType: catalog.ContentTypeMovie}).Error)
	require.NoError(t, db.Create(&catalog.Series{ID: "s1", Title: "Amazing Grace", ContentType: catalog.ContentTypeSeries}).Error)
	require.NoError(t, db.Create(&brand.Brand{ID: "b1", Name: "Grace Network"}).Error)
	require.NoError(t, db.Create(&catalog.MediaAsset{ID: "v2", Title: "100% Grace", ContentType: catalog.ContentTypeMovie}).Error)

	b := NewGormBackend(db)
	for _, q := range []string{"_", "%%", "Gr_ce"} {
		hits, err := b.Search(ctx, q, 0)
		require.NoError(t, err)
		assert.Empty(t, hits, q)
	}

	hits, err := b.Search(ctx, "%", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "v2", hits[0].ID)
}

func TestGormBackendWithoutBrands(t *testing.T) {
	db := databasetest.NewSQLite(t, &catalog.MediaAsset{}, &catalog.Series{})
	hits, err := NewGormBackend(db).Search(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFromSeriesPremium(t *testing.T) {
	s := &catalog.Series{ID: "s", Seasons: []catalog.Season{{Episodes: []catalog.Episode{{}, {IsPremium: true}}}}}
	assert.True(t, FromSeries(s).IsPremium)
	assert.False(t, FromSeries(&catalog.Series{ID: "t"}).IsPremium)
}
