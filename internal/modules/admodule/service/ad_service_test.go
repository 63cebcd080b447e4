package service

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database/databasetest"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/admodule/core/entitlement"
	"github.com/mantonx/lineup/internal/modules/admodule/core/resolver"
	"github.com/mantonx/lineup/internal/modules/admodule/models"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	catalogservice "github.com/mantonx/lineup/internal/modules/catalogmodule/service"
	"github.com/mantonx/lineup/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	guest   = types.Guest()
	member  = types.Viewer{UserID: "u1", Role: types.RoleUser, Authenticated: true}
	premium = types.Viewer{UserID: "u2", Role: types.RoleUser, Authenticated: true, IsPremium: true}
)

type fixture struct {
	svc     *AdService
	catalog *catalogservice.CatalogService
	metrics *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	db := databasetest.NewSQLite(t, &catalog.MediaAsset{}, &catalog.Series{}, &models.AdMedia{}, &models.AdAssignment{})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	cat := catalogservice.NewCatalogService(repository.NewCatalogRepository(db), nil, nil, hclog.NewNullLogger())
	return &fixture{
		svc:     NewAdService(db, cat, nil, m, hclog.NewNullLogger()),
		catalog: cat,
		metrics: m,
	}
}

func (f *fixture) ad(t *testing.T, title string) *models.AdMedia {
	ad := &models.AdMedia{Title: title, CreativeURL: "https://ads.example/" + title + ".mp4"}
	require.NoError(t, f.svc.CreateAd(context.Background(), ad))
	return ad
}

func (f *fixture) asset(t *testing.T, title string, isPremium bool) *catalog.MediaAsset {
	a := &catalog.MediaAsset{
		Title:          title,
		ContentType:    catalog.ContentTypeMovie,
		VideoURL:       "https://cdn.example/" + title,
		ThumbnailURL:   "https://cdn.example/" + title + ".jpg",
		AvailableAsVOD: true,
		IsPremium:      isPremium,
	}
	require.NoError(t, f.catalog.CreateAsset(context.Background(), a))
	return a
}

func TestAssignmentValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	err := f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: "banner", AdIDs: []string{"x"}})
	assert.True(t, apperrors.IsValidation(err))

	err = f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeVideo, AdIDs: []string{"x"}})
	assert.True(t, apperrors.IsValidation(err))

	err = f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeGlobal, TargetID: "v", AdIDs: []string{"x"}})
	assert.True(t, apperrors.IsValidation(err))

	err = f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeGlobal})
	assert.True(t, apperrors.IsValidation(err))

	err = f.svc.CreateAd(ctx, &models.AdMedia{Title: "x", CreativeURL: "not a url"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestDecideForAssets(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	free := f.asset(t, "free", false)
	paid := f.asset(t, "paid", true)
	g := f.ad(t, "global")
	v := f.ad(t, "video")

	require.NoError(t, f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeGlobal, AdIDs: []string{g.ID}}))
	require.NoError(t, f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeVideo, TargetID: free.ID, AdIDs: []string{v.ID, "gone"}}))

	d, err := f.svc.Decide(ctx, entitlement.KindAsset, free.ID, guest)
	require.NoError(t, err)
	assert.True(t, d.CanWatch)
	assert.True(t, d.ShowAds)
	require.Len(t, d.Ads, 1)
	assert.Equal(t, v.ID, d.Ads[0].ID)
	assert.Equal(t, resolver.SourceVideo, d.AdSource)

	d, err = f.svc.Decide(ctx, entitlement.KindAsset, paid.ID, member)
	require.NoError(t, err)
	assert.False(t, d.CanWatch)
	assert.Empty(t, d.Ads)

	d, err = f.svc.Decide(ctx, entitlement.KindAsset, paid.ID, premium)
	require.NoError(t, err)
	assert.True(t, d.CanWatch)
	assert.False(t, d.ShowAds)
	assert.Empty(t, d.Ads)

	_, err = f.svc.Decide(ctx, entitlement.KindAsset, "missing", member)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.Decide(ctx, "trailer", free.ID, member)
	assert.True(t, apperrors.IsValidation(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AdsResolved.WithLabelValues("video")))
}

func TestDecideForEpisodes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	g := f.ad(t, "global")
	require.NoError(t, f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeGlobal, AdIDs: []string{g.ID}}))

	series := &catalog.Series{
		Title:        "Lab",
		ThumbnailURL: "https://cdn.example/lab.jpg",
		Seasons: []catalog.Season{{SeasonNumber: 1, Episodes: []catalog.Episode{
			{EpisodeNumber: 1, Title: "Pilot", RuntimeMinutes: 40, IsPremium: true, IsFirstEpisode: true},
			{EpisodeNumber: 2, Title: "Two", RuntimeMinutes: 40, IsPremium: true},
		}}},
	}
	require.NoError(t, f.catalog.CreateSeries(ctx, series))
	pilot := series.Seasons[0].Episodes[0].ID
	second := series.Seasons[0].Episodes[1].ID

	d, err := f.svc.Decide(ctx, entitlement.KindEpisode, pilot, member)
	require.NoError(t, err)
	assert.True(t, d.CanWatch)
	require.Len(t, d.Ads, 1)
	assert.Equal(t, resolver.SourceGlobal, d.AdSource)

	d, err = f.svc.Decide(ctx, entitlement.KindEpisode, second, member)
	require.NoError(t, err)
	assert.False(t, d.CanWatch)
	assert.Empty(t, d.Ads)
}

func TestDeletedAdIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	a := f.ad(t, "a")
	b := f.ad(t, "b")
	require.NoError(t, f.svc.CreateAssignment(ctx, &models.AdAssignment{Scope: models.ScopeGlobal, AdIDs: []string{a.ID, b.ID}}))
	require.NoError(t, f.svc.DeleteAd(ctx, a.ID))

	ads, src, err := f.svc.ResolveAds(ctx, "any", member)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, b.ID, ads[0].ID)
	assert.Equal(t, resolver.SourceGlobal, src)
}
