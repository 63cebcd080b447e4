// Package service implements the catalog's business operations on top of
// the repository: validation, clip generation and series tree edits.
package service

import (
	"context"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/classifier"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/clips"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/repository"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/series"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// CatalogService implements services.CatalogService plus the editor operations
type CatalogService struct {
	repo      *repository.CatalogRepository
	generator *clips.Generator
	bus       events.EventBus
	metrics   *metrics.Metrics
	logger    hclog.Logger
}

// NewCatalogService creates a catalog service. bus and m may be nil.
func NewCatalogService(repo *repository.CatalogRepository, bus events.EventBus, m *metrics.Metrics, logger hclog.Logger) *CatalogService {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &CatalogService{
		repo:      repo,
		generator: clips.NewGenerator(repo, logger.Named("clips")),
		bus:       bus,
		metrics:   m,
		logger:    logger,
	}
}

// Sections is the catalog split into its display shelves
type Sections struct {
	Films     []models.MediaAsset  `json:"films"`
	Videos    []models.MediaAsset  `json:"videos"`
	Podcasts  []models.MediaAsset  `json:"podcasts"`
	Clips     []models.MediaAsset  `json:"clips"`
	AutoClips int                  `json:"auto_clips"`
	Series    []models.Series      `json:"series"`
	Originals []models.ContentItem `json:"originals"`
	Premium   []models.ContentItem `json:"premium"`
	Genres    []string             `json:"genres"`
}

// ListAssets returns assets matching filter
func (s *CatalogService) ListAssets(ctx context.Context, filter filters.AssetFilter) ([]models.MediaAsset, error) {
	if !filters.ValidSection(filter.Section) {
		return nil, apperrors.Validationf("list_assets", "kind", "unknown kind %q", filter.Section)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperrors.Validation("list_assets", "limit", "limit and offset must not be negative")
	}
	return s.repo.ListAssets(ctx, filter)
}

// GetAsset returns one asset
func (s *CatalogService) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	return s.repo.GetAsset(ctx, id)
}

// Sections groups every asset by shelf and lists series and originals
func (s *CatalogService) Sections(ctx context.Context) (*Sections, error) {
	assets, err := s.repo.ListAssets(ctx, filters.AssetFilter{})
	if err != nil {
		return nil, err
	}
	allSeries, err := s.repo.ListSeries(ctx, "")
	if err != nil {
		return nil, err
	}

	out := &Sections{
		Films:     []models.MediaAsset{},
		Videos:    []models.MediaAsset{},
		Podcasts:  []models.MediaAsset{},
		Clips:     []models.MediaAsset{},
		Series:    allSeries,
		Originals: []models.ContentItem{},
		Premium:   []models.ContentItem{},
		Genres:    []string{},
	}
	genres := make(map[string]bool)
	for i := range assets {
		a := &assets[i]
		switch classifier.SectionOf(a) {
		case classifier.SectionFilms:
			out.Films = append(out.Films, *a)
		case classifier.SectionPodcasts:
			out.Podcasts = append(out.Podcasts, *a)
		case classifier.SectionClips:
			out.Clips = append(out.Clips, *a)
			if classifier.IsAutoGeneratedClip(a) {
				out.AutoClips++
			}
		default:
			out.Videos = append(out.Videos, *a)
		}
		if a.IsClip {
			continue
		}
		if a.IsOriginal {
			out.Originals = append(out.Originals, models.AssetItem(a))
		}
		if a.IsPremium {
			out.Premium = append(out.Premium, models.AssetItem(a))
		}
		if g := strings.TrimSpace(a.Genre); g != "" && !genres[strings.ToLower(g)] {
			genres[strings.ToLower(g)] = true
			out.Genres = append(out.Genres, g)
		}
	}
	for i := range allSeries {
		if allSeries[i].IsOriginal {
			out.Originals = append(out.Originals, models.SeriesItem(&allSeries[i]))
		}
		if seriesHasPremium(&allSeries[i]) {
			out.Premium = append(out.Premium, models.SeriesItem(&allSeries[i]))
		}
	}
	sort.Strings(out.Genres)
	return out, nil
}

func seriesHasPremium(sr *models.Series) bool {
	for _, season := range sr.Seasons {
		for _, ep := range season.Episodes {
			if ep.IsPremium {
				return true
			}
		}
	}
	return false
}

// CreateAsset validates and stores a new asset
func (s *CatalogService) CreateAsset(ctx context.Context, asset *models.MediaAsset) error {
	if err := s.prepareAsset(ctx, "create_asset", asset); err != nil {
		return err
	}
	asset.ID = ""
	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, events.EntityAsset, asset.ID)
	s.logger.Info("asset created", "id", asset.ID, "title", asset.Title, "clip", asset.IsClip)
	return nil
}

// ReplaceAsset validates and overwrites an existing asset
func (s *CatalogService) ReplaceAsset(ctx context.Context, id string, asset *models.MediaAsset) (*models.MediaAsset, error) {
	if err := s.prepareAsset(ctx, "replace_asset", asset); err != nil {
		return nil, err
	}
	if asset.IsClip && asset.SourceAssetID == id {
		return nil, apperrors.Validation("replace_asset", "source_asset_id", "a clip cannot be its own source")
	}
	if err := s.repo.ReplaceAsset(ctx, id, asset); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventReplaced, events.EntityAsset, id)
	return s.repo.GetAsset(ctx, id)
}

// DeleteAsset removes an asset. Clips cut from it are kept.
func (s *CatalogService) DeleteAsset(ctx context.Context, id string) error {
	if err := s.repo.DeleteAsset(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, events.EntityAsset, id)
	return nil
}

// GenerateClips creates the auto-generated clips for a source asset
func (s *CatalogService) GenerateClips(ctx context.Context, sourceID string) (*clips.Result, error) {
	result, err := s.generator.Generate(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ClipsGenerated.WithLabelValues("ok").Add(float64(result.Count()))
		s.metrics.ClipsGenerated.WithLabelValues("error").Add(float64(len(result.Failed)))
	}
	for _, clip := range result.Created {
		s.publish(ctx, events.EventCreated, events.EntityAsset, clip.ID)
	}
	return result, nil
}

// prepareAsset enforces create/replace rules and normalizes clip fields
func (s *CatalogService) prepareAsset(ctx context.Context, op string, a *models.MediaAsset) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return apperrors.Validation(op, "title", "title is required")
	}
	if strings.TrimSpace(a.ThumbnailURL) == "" {
		return apperrors.Validation(op, "thumbnail_url", "thumbnail is required")
	}
	if !a.ContentType.Valid() {
		return apperrors.Validationf(op, "content_type", "unknown content type %q", a.ContentType)
	}
	if !a.ClipOrigin.Valid() {
		return apperrors.Validationf(op, "clip_origin", "unknown clip origin %q", a.ClipOrigin)
	}
	if a.ReleaseYear != nil && *a.ReleaseYear <= 0 {
		return apperrors.Validation(op, "release_year", "release year must be positive")
	}

	if !a.IsClip {
		if strings.TrimSpace(a.VideoURL) == "" {
			return apperrors.Validation(op, "video_url", "video reference is required")
		}
		a.SourceAssetID = ""
		a.ClipCaption = ""
		a.ClipOrigin = models.ClipOriginUnknown
		return nil
	}

	// Clips never go live
	a.EligibleForLive = false
	if a.ClipOrigin == models.ClipOriginUnknown {
		a.ClipOrigin = models.ClipOriginManual
	}
	if a.SourceAssetID != "" {
		if _, err := s.repo.GetAsset(ctx, a.SourceAssetID); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogService) publish(ctx context.Context, t events.EventType, entity, id string) {
	s.bus.Publish(ctx, events.NewEntityEvent(t, entity, id))
}

// ListSeries returns series, optionally narrowed by a title search
func (s *CatalogService) ListSeries(ctx context.Context, query string) ([]models.Series, error) {
	return s.repo.ListSeries(ctx, query)
}

// GetSeries returns one series
func (s *CatalogService) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	return s.repo.GetSeries(ctx, id)
}

// FindEpisode locates an episode across all series
func (s *CatalogService) FindEpisode(ctx context.Context, episodeID string) (*models.Series, *models.Episode, error) {
	all, err := s.repo.ListSeries(ctx, "")
	if err != nil {
		return nil, nil, err
	}
	for i := range all {
		si, ei, ok := series.FindEpisode(&all[i], episodeID)
		if ok {
			ep := all[i].Seasons[si].Episodes[ei]
			return &all[i], &ep, nil
		}
	}
	return nil, nil, apperrors.NotFound("find_episode", "episode", episodeID)
}

// CreateSeries validates and stores a new series
func (s *CatalogService) CreateSeries(ctx context.Context, sr *models.Series) error {
	if sr.ContentType == "" {
		sr.ContentType = models.ContentTypeSeries
	}
	if err := series.Validate(sr); err != nil {
		return err
	}
	series.Normalize(sr)
	sr.ID = ""
	if err := s.repo.CreateSeries(ctx, sr); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, events.EntitySeries, sr.ID)
	s.logger.Info("series created", "id", sr.ID, "title", sr.Title, "seasons", len(sr.Seasons))
	return nil
}

// ReplaceSeries overwrites a whole series document. revision must match the
// stored revision.
func (s *CatalogService) ReplaceSeries(ctx context.Context, id string, sr *models.Series, revision int64) (*models.Series, error) {
	if revision <= 0 {
		return nil, apperrors.Validation("replace_series", "revision", "revision is required")
	}
	if sr.ContentType == "" {
		sr.ContentType = models.ContentTypeSeries
	}
	if err := series.Validate(sr); err != nil {
		return nil, err
	}
	series.Normalize(sr)
	if err := s.repo.ReplaceSeries(ctx, id, sr, revision); err != nil {
		s.recordStale(err, events.EntitySeries)
		return nil, err
	}
	s.publish(ctx, events.EventReplaced, events.EntitySeries, id)
	return s.repo.GetSeries(ctx, id)
}

// DeleteSeries removes a series with all its seasons and episodes
func (s *CatalogService) DeleteSeries(ctx context.Context, id string) error {
	if err := s.repo.DeleteSeries(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, events.EntitySeries, id)
	return nil
}

// AddSeason appends a season to a series
func (s *CatalogService) AddSeason(ctx context.Context, seriesID string, revision int64, season models.Season) (*models.Series, *models.Season, error) {
	var added models.Season
	updated, err := s.mutateSeries(ctx, "add_season", seriesID, revision, func(sr *models.Series) error {
		var err error
		added, err = series.AddSeason(sr, season)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, &added, nil
}

// RemoveSeason deletes a season and its episodes
func (s *CatalogService) RemoveSeason(ctx context.Context, seriesID string, revision int64, seasonID string) (*models.Series, error) {
	return s.mutateSeries(ctx, "remove_season", seriesID, revision, func(sr *models.Series) error {
		return series.RemoveSeason(sr, seasonID)
	})
}

// AddEpisode appends an episode to a season
func (s *CatalogService) AddEpisode(ctx context.Context, seriesID string, revision int64, seasonID string, ep models.Episode) (*models.Series, *models.Episode, error) {
	var added models.Episode
	updated, err := s.mutateSeries(ctx, "add_episode", seriesID, revision, func(sr *models.Series) error {
		var err error
		added, err = series.AddEpisode(sr, seasonID, ep)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, &added, nil
}

// ReplaceEpisode overwrites an episode in place
func (s *CatalogService) ReplaceEpisode(ctx context.Context, seriesID string, revision int64, episodeID string, ep models.Episode) (*models.Series, error) {
	return s.mutateSeries(ctx, "replace_episode", seriesID, revision, func(sr *models.Series) error {
		_, err := series.ReplaceEpisode(sr, episodeID, ep)
		return err
	})
}

// RemoveEpisode deletes an episode
func (s *CatalogService) RemoveEpisode(ctx context.Context, seriesID string, revision int64, episodeID string) (*models.Series, error) {
	return s.mutateSeries(ctx, "remove_episode", seriesID, revision, func(sr *models.Series) error {
		return series.RemoveEpisode(sr, episodeID)
	})
}

// MoveEpisode moves an episode to the season numbered targetSeason in one write
func (s *CatalogService) MoveEpisode(ctx context.Context, seriesID string, revision int64, episodeID string, targetSeason int) (*models.Series, error) {
	return s.mutateSeries(ctx, "move_episode", seriesID, revision, func(sr *models.Series) error {
		_, err := series.MoveEpisode(sr, episodeID, targetSeason)
		return err
	})
}

// mutateSeries runs fetch, edit and guarded replace for a nested edit. A
// revision of 0 edits whatever is currently stored.
func (s *CatalogService) mutateSeries(ctx context.Context, op, id string, revision int64, edit func(*models.Series) error) (*models.Series, error) {
	current, err := s.repo.GetSeries(ctx, id)
	if err != nil {
		return nil, err
	}
	if revision > 0 && revision != current.Revision {
		err := apperrors.StaleWrite(op, "series", id, revision)
		s.recordStale(err, events.EntitySeries)
		return nil, err
	}

	expected := current.Revision
	if err := edit(current); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceSeries(ctx, id, current, expected); err != nil {
		s.recordStale(err, events.EntitySeries)
		return nil, err
	}

	s.publish(ctx, events.EventReplaced, events.EntitySeries, id)
	s.logger.Debug("series edited", "op", op, "id", id, "revision", current.Revision)
	return current, nil
}

func (s *CatalogService) recordStale(err error, entity string) {
	if s.metrics != nil && apperrors.IsStaleWrite(err) {
		s.metrics.StaleWrites.WithLabelValues(entity).Inc()
	}
}
