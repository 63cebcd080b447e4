package service

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database/databasetest"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *CatalogService
	bus     *events.MemoryBus
	metrics *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	db := databasetest.NewSQLite(t, &models.MediaAsset{}, &models.Series{})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	bus := events.NewMemoryBus(hclog.NewNullLogger())
	svc := NewCatalogService(repository.NewCatalogRepository(db), bus, m, hclog.NewNullLogger())
	return &fixture{svc: svc, bus: bus, metrics: m}
}

func film(title string) *models.MediaAsset {
	return &models.MediaAsset{
		Title:           title,
		ContentType:     models.ContentTypeFilm,
		VideoURL:        "https://cdn.example/" + title + ".m3u8",
		ThumbnailURL:    "https://cdn.example/" + title + ".jpg",
		AvailableAsVOD:  true,
		EligibleForLive: true,
	}
}

func TestCreateAssetValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	tests := []struct {
		name  string
		asset models.MediaAsset
		field string
	}{
		{"missing title", models.MediaAsset{ContentType: models.ContentTypeFilm, ThumbnailURL: "t", VideoURL: "v"}, "title"},
		{"missing thumbnail", models.MediaAsset{Title: "x", ContentType: models.ContentTypeFilm, VideoURL: "v"}, "thumbnail_url"},
		{"missing video for non-clip", models.MediaAsset{Title: "x", ContentType: models.ContentTypeFilm, ThumbnailURL: "t"}, "video_url"},
		{"bad content type", models.MediaAsset{Title: "x", ContentType: "hologram", ThumbnailURL: "t", VideoURL: "v"}, "content_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.CreateAsset(ctx, &tt.asset)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.FromError(err).Context["field"])
		})
	}
}

func TestCreateSeriesValidation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	tests := []struct {
		name   string
		series models.Series
		field  string
	}{
		{"missing thumbnail", models.Series{Title: "No Thumb"}, "thumbnail_url"},
		{"blank title", models.Series{Title: "   ", ThumbnailURL: "t"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.CreateSeries(ctx, &tt.series)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.FromError(err).Context["field"])
			assert.Empty(t, tt.series.ID)
		})
	}

	show := &models.Series{Title: "  Trimmed  ", ThumbnailURL: "t"}
	require.NoError(t, f.svc.CreateSeries(ctx, show))
	assert.Equal(t, "Trimmed", show.Title)

	_, err := f.svc.ReplaceSeries(ctx, show.ID, &models.Series{Title: "Trimmed"}, show.Revision)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateClipNeverLiveEligible(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	src := film("grace")
	require.NoError(t, f.svc.CreateAsset(ctx, src))

	clip := &models.MediaAsset{
		Title:           "Director cut",
		ContentType:     models.ContentTypeFilm,
		ThumbnailURL:    "t",
		IsClip:          true,
		EligibleForLive: true,
		SourceAssetID:   src.ID,
	}
	require.NoError(t, f.svc.CreateAsset(ctx, clip))
	stored, err := f.svc.GetAsset(ctx, clip.ID)
	require.NoError(t, err)
	assert.False(t, stored.EligibleForLive)
	assert.Equal(t, models.ClipOriginManual, stored.ClipOrigin)

	orphan := &models.MediaAsset{Title: "x", ContentType: models.ContentTypeFilm, ThumbnailURL: "t", IsClip: true, SourceAssetID: "missing"}
	assert.True(t, apperrors.IsNotFound(f.svc.CreateAsset(ctx, orphan)))
}

func TestGenerateClipsThenListBySection(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	src := film("Grace")
	require.NoError(t, f.svc.CreateAsset(ctx, src))

	result, err := f.svc.GenerateClips(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count())
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.ClipsGenerated.WithLabelValues("ok")))

	clipList, err := f.svc.ListAssets(ctx, filters.AssetFilter{Section: filters.SectionClips})
	require.NoError(t, err)
	assert.Len(t, clipList, 3)

	films, err := f.svc.ListAssets(ctx, filters.AssetFilter{Section: filters.SectionFilms})
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, src.ID, films[0].ID)

	live, err := f.svc.ListAssets(ctx, filters.AssetFilter{Section: filters.SectionLive})
	require.NoError(t, err)
	assert.Len(t, live, 1)

	_, err = f.svc.ListAssets(ctx, filters.AssetFilter{Section: "nope"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.svc.GenerateClips(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListQueryMatchesWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.svc.CreateAsset(ctx, film("Grace")))
	require.NoError(t, f.svc.CreateAsset(ctx, film("50% Off")))
	require.NoError(t, f.svc.CreateSeries(ctx, &models.Series{Title: "Snake_Eyes", ThumbnailURL: "t"}))
	require.NoError(t, f.svc.CreateSeries(ctx, &models.Series{Title: "SnakeXEyes", ThumbnailURL: "t"}))

	all, err := f.svc.ListAssets(ctx, filters.AssetFilter{Query: "%"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "50% Off", all[0].Title)

	none, err := f.svc.ListAssets(ctx, filters.AssetFilter{Query: "_"})
	require.NoError(t, err)
	assert.Empty(t, none)

	shows, err := f.svc.ListSeries(ctx, "snake_eyes")
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "Snake_Eyes", shows[0].Title)
}

func TestSections(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	original := film("Original")
	original.IsOriginal = true
	require.NoError(t, f.svc.CreateAsset(ctx, original))

	doc := film("Doc")
	doc.ContentType = models.ContentTypeDocumentary
	doc.IsPremium = true
	doc.Genre = "History"
	require.NoError(t, f.svc.CreateAsset(ctx, doc))
	_, err := f.svc.GenerateClips(ctx, doc.ID)
	require.NoError(t, err)

	pod := film("Pod")
	pod.ContentType = models.ContentTypePodcast
	require.NoError(t, f.svc.CreateAsset(ctx, pod))

	show := &models.Series{Title: "Show", ThumbnailURL: "t", IsOriginal: true}
	require.NoError(t, f.svc.CreateSeries(ctx, show))

	sections, err := f.svc.Sections(ctx)
	require.NoError(t, err)
	assert.Len(t, sections.Films, 1)
	assert.Len(t, sections.Videos, 1)
	assert.Len(t, sections.Podcasts, 1)
	assert.Len(t, sections.Clips, 3)
	assert.Equal(t, 3, sections.AutoClips)
	assert.Len(t, sections.Series, 1)
	assert.Len(t, sections.Originals, 2)
	require.Len(t, sections.Premium, 1)
	assert.Equal(t, doc.ID, sections.Premium[0].ID())
	assert.Equal(t, []string{"History"}, sections.Genres)
}

func TestReplaceAndDeleteAssetPublishEvents(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	ch, cancel := f.bus.Subscribe(8)
	defer cancel()

	a := film("one")
	require.NoError(t, f.svc.CreateAsset(ctx, a))

	next := film("one renamed")
	updated, err := f.svc.ReplaceAsset(ctx, a.ID, next)
	require.NoError(t, err)
	assert.Equal(t, "one renamed", updated.Title)

	require.NoError(t, f.svc.DeleteAsset(ctx, a.ID))
	assert.True(t, apperrors.IsNotFound(f.svc.DeleteAsset(ctx, a.ID)))

	var types []events.EventType
	for len(ch) > 0 {
		types = append(types, (<-ch).Type)
	}
	assert.Equal(t, []events.EventType{events.EventCreated, events.EventReplaced, events.EventDeleted}, types)
}

func TestSeriesNestedEditsAreRevisionGuarded(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	show := &models.Series{
		Title:        "The Way",
		ThumbnailURL: "t",
		Seasons: []models.Season{
			{SeasonNumber: 1, Episodes: []models.Episode{{EpisodeNumber: 1, Title: "Pilot", RuntimeMinutes: 40, IsFirstEpisode: true}}},
			{SeasonNumber: 2},
		},
	}
	require.NoError(t, f.svc.CreateSeries(ctx, show))
	assert.Equal(t, int64(1), show.Revision)
	assert.Equal(t, models.ContentTypeSeries, show.ContentType)

	pilot := show.Seasons[0].Episodes[0]

	moved, err := f.svc.MoveEpisode(ctx, show.ID, 1, pilot.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved.Revision)

	stored, err := f.svc.GetSeries(ctx, show.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Seasons[0].Episodes)
	require.Len(t, stored.Seasons[1].Episodes, 1)
	assert.Equal(t, stored.Seasons[1].ID, stored.Seasons[1].Episodes[0].SeasonID)

	// A second editor still holding revision 1 loses
	_, err = f.svc.RemoveEpisode(ctx, show.ID, 1, pilot.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsStaleWrite(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaleWrites.WithLabelValues(events.EntitySeries)))

	series, ep, err := f.svc.FindEpisode(ctx, pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, show.ID, series.ID)
	assert.Equal(t, "Pilot", ep.Title)

	_, _, err = f.svc.FindEpisode(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestReplaceSeriesRequiresRevision(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	show := &models.Series{Title: "Show", ThumbnailURL: "t"}
	require.NoError(t, f.svc.CreateSeries(ctx, show))

	_, err := f.svc.ReplaceSeries(ctx, show.ID, &models.Series{Title: "Show 2", ThumbnailURL: "t"}, 0)
	assert.True(t, apperrors.IsValidation(err))

	updated, err := f.svc.ReplaceSeries(ctx, show.ID, &models.Series{Title: "Show 2", ThumbnailURL: "t"}, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Revision)

	_, err = f.svc.ReplaceSeries(ctx, show.ID, &models.Series{Title: "Show 3", ThumbnailURL: "t"}, 1)
	assert.True(t, apperrors.IsStaleWrite(err))

	season, added, err := f.svc.AddSeason(ctx, show.ID, 2, models.Season{SeasonNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), season.Revision)

	_, ep, err := f.svc.AddEpisode(ctx, show.ID, 3, added.ID, models.Episode{EpisodeNumber: 1, Title: "One", RuntimeMinutes: 30})
	require.NoError(t, err)

	_, err = f.svc.ReplaceEpisode(ctx, show.ID, 0, ep.ID, models.Episode{EpisodeNumber: 1, Title: "One (recut)", RuntimeMinutes: 31})
	require.NoError(t, err)

	after, err := f.svc.RemoveSeason(ctx, show.ID, 0, added.ID)
	require.NoError(t, err)
	assert.Empty(t, after.Seasons)

	require.NoError(t, f.svc.DeleteSeries(ctx, show.ID))
	_, err = f.svc.GetSeries(ctx, show.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
