package service

import (
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database/databasetest"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	catalogservice "github.com/mantonx/lineup/internal/modules/catalogmodule/service"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/core/builder"
	"github.com/mantonx/lineup/internal/modules/schedulemodule/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 5, 4, 20, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *ScheduleService
	catalog *catalogservice.CatalogService
	metrics *metrics.Metrics
}

func setup(t *testing.T) *fixture {
	db := databasetest.NewSQLite(t, &catalog.MediaAsset{}, &catalog.Series{}, &models.LiveChannel{})
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	cat := catalogservice.NewCatalogService(repository.NewCatalogRepository(db), nil, nil, hclog.NewNullLogger())
	svc := NewScheduleService(db, cat, builder.Options{}, nil, m, hclog.NewNullLogger())
	return &fixture{svc: svc, catalog: cat, metrics: m}
}

func (f *fixture) asset(t *testing.T, title string, ct catalog.ContentType) *catalog.MediaAsset {
	a := &catalog.MediaAsset{
		Title:           title,
		ContentType:     ct,
		VideoURL:        "https://cdn.example/" + title,
		ThumbnailURL:    "https://cdn.example/" + title + ".jpg",
		AvailableAsVOD:  true,
		EligibleForLive: true,
	}
	require.NoError(t, f.catalog.CreateAsset(context.Background(), a))
	return a
}

func TestChannelScheduleFlow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	movie := f.asset(t, "movie", catalog.ContentTypeMovie)
	pod := f.asset(t, "pod", catalog.ContentTypePodcast)

	ch := &models.LiveChannel{Name: "Prime"}
	require.NoError(t, f.svc.CreateChannel(ctx, ch))
	assert.EqualValues(t, 1, ch.Revision)

	updated, slot, err := f.svc.AddSlot(ctx, ch.ID, 1, builder.SlotRequest{ContentID: movie.ID, StartTime: start, DurationMinutes: 60})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.Revision)
	assert.Equal(t, start.Add(time.Hour), slot.EndTime)

	// podcast is rejected by classification
	_, _, err = f.svc.AddSlot(ctx, ch.ID, 0, builder.SlotRequest{ContentID: pod.ID, StartTime: start.Add(2 * time.Hour)})
	assert.True(t, apperrors.IsValidation(err))

	// stale revision
	_, _, err = f.svc.AddSlot(ctx, ch.ID, 1, builder.SlotRequest{ContentID: movie.ID, StartTime: start.Add(3 * time.Hour)})
	assert.True(t, apperrors.IsStaleWrite(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.StaleWrites.WithLabelValues("channel")))

	_, _, err = f.svc.AddSlot(ctx, ch.ID, 0, builder.SlotRequest{ContentID: "missing", StartTime: start.Add(3 * time.Hour)})
	assert.True(t, apperrors.IsNotFound(err))

	_, early, err := f.svc.AddSlot(ctx, ch.ID, 2, builder.SlotRequest{ContentID: movie.ID, StartTime: start.Add(-2 * time.Hour), DurationMinutes: 30})
	require.NoError(t, err)

	guide, err := f.svc.Guide(ctx, ch.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, guide, 2)
	assert.Equal(t, early.ID, guide[0].ID)
	require.NotNil(t, guide[0].Asset)
	assert.Equal(t, "movie", guide[0].Asset.Title)

	status, err := f.svc.OnAir(ctx, ch.ID, start.Add(10*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, status.Current)
	assert.Equal(t, slot.ID, status.Current.ID)
	assert.Nil(t, status.Next)

	updated, err = f.svc.RemoveSlot(ctx, ch.ID, 3, slot.ID)
	require.NoError(t, err)
	assert.Len(t, updated.Schedule, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ScheduleMutations.WithLabelValues("remove_slot", "ok")))
}

func TestGuideToleratesDeletedAssets(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	movie := f.asset(t, "gone", catalog.ContentTypeFilm)

	ch := &models.LiveChannel{Name: "Prime"}
	require.NoError(t, f.svc.CreateChannel(ctx, ch))
	_, _, err := f.svc.AddSlot(ctx, ch.ID, 0, builder.SlotRequest{ContentID: movie.ID, StartTime: start})
	require.NoError(t, err)
	require.NoError(t, f.catalog.DeleteAsset(ctx, movie.ID))

	guide, err := f.svc.Guide(ctx, ch.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, guide, 1)
	assert.Nil(t, guide[0].Asset)
	assert.Equal(t, 120*time.Minute, guide[0].Duration())
}

func TestReplaceChannel(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	movie := f.asset(t, "m", catalog.ContentTypeMovie)

	ch := &models.LiveChannel{Name: "Prime"}
	require.NoError(t, f.svc.CreateChannel(ctx, ch))

	next := &models.LiveChannel{Name: "Prime", Schedule: []models.ScheduledContent{
		{ContentID: movie.ID, StartTime: start, EndTime: start.Add(time.Hour)},
		{ContentID: movie.ID, StartTime: start.Add(30 * time.Minute), EndTime: start.Add(2 * time.Hour)},
	}}
	_, err := f.svc.ReplaceChannel(ctx, ch.ID, next, 1)
	assert.ErrorIs(t, err, builder.ErrSlotOverlap)

	f.svc.SetAllowOverlap(true)
	replaced, err := f.svc.ReplaceChannel(ctx, ch.ID, next, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, replaced.Revision)
	assert.Len(t, replaced.Schedule, 2)

	_, err = f.svc.ReplaceChannel(ctx, ch.ID, next, 0)
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, f.svc.DeleteChannel(ctx, ch.ID))
	_, err = f.svc.GetChannel(ctx, ch.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDefaultDurationMinutes(t *testing.T) {
	f := setup(t)
	m, err := f.svc.DefaultDurationMinutes(catalog.ContentTypeFilm)
	require.NoError(t, err)
	assert.Equal(t, 120, m)
	m, _ = f.svc.DefaultDurationMinutes(catalog.ContentTypeSeries)
	assert.Equal(t, 45, m)
	m, _ = f.svc.DefaultDurationMinutes(catalog.ContentTypeNews)
	assert.Equal(t, 60, m)
	_, err = f.svc.DefaultDurationMinutes("hologram")
	assert.Error(t, err)
}
