// Package service stores ads and assignments and answers playback decisions
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/metrics"
	"github.com/mantonx/lineup/internal/modules/admodule/core/entitlement"
	"github.com/mantonx/lineup/internal/modules/admodule/core/resolver"
	"github.com/mantonx/lineup/internal/modules/admodule/models"
	"github.com/mantonx/lineup/internal/services"
	"github.com/mantonx/lineup/internal/types"
	"gorm.io/gorm"
)

// AdService manages ad creatives and their assignments
type AdService struct {
	ads         *database.Repository[models.AdMedia, *models.AdMedia]
	assignments *database.Repository[models.AdAssignment, *models.AdAssignment]
	catalog     services.CatalogService
	bus         events.EventBus
	metrics     *metrics.Metrics
	logger      hclog.Logger
}

// NewAdService creates the service. bus and m may be nil.
func NewAdService(db *gorm.DB, cat services.CatalogService, bus events.EventBus, m *metrics.Metrics, logger hclog.Logger) *AdService {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &AdService{
		ads:         database.NewRepository[models.AdMedia, *models.AdMedia](db, "ad"),
		assignments: database.NewRepository[models.AdAssignment, *models.AdAssignment](db, "ad_assignment"),
		catalog:     cat,
		bus:         bus,
		metrics:     m,
		logger:      logger,
	}
}

// Migrate creates the ad tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.AdMedia{}, &models.AdAssignment{})
}

// ListAds returns every ad ordered by title
func (s *AdService) ListAds(ctx context.Context) ([]models.AdMedia, error) {
	return s.ads.List(ctx, func(q *gorm.DB) *gorm.DB { return q.Order("title").Order("id") })
}

// GetAd returns one ad
func (s *AdService) GetAd(ctx context.Context, id string) (*models.AdMedia, error) {
	return s.ads.Get(ctx, id)
}

// CreateAd stores a new ad
func (s *AdService) CreateAd(ctx context.Context, ad *models.AdMedia) error {
	if err := validateAd("create_ad", ad); err != nil {
		return err
	}
	ad.ID = ""
	if err := s.ads.Create(ctx, ad); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, events.EntityAd, ad.ID)
	return nil
}

// ReplaceAd overwrites an ad
func (s *AdService) ReplaceAd(ctx context.Context, id string, ad *models.AdMedia) error {
	if err := validateAd("replace_ad", ad); err != nil {
		return err
	}
	if err := s.ads.Replace(ctx, id, ad); err != nil {
		return err
	}
	s.publish(ctx, events.EventReplaced, events.EntityAd, id)
	return nil
}

// DeleteAd removes an ad. Assignments still naming it skip it on resolution.
func (s *AdService) DeleteAd(ctx context.Context, id string) error {
	if err := s.ads.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, events.EntityAd, id)
	return nil
}

// ListAssignments returns assignments in the order they are applied
func (s *AdService) ListAssignments(ctx context.Context) ([]models.AdAssignment, error) {
	return s.assignments.List(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Order("position").Order("created_at").Order("id")
	})
}

// GetAssignment returns one assignment
func (s *AdService) GetAssignment(ctx context.Context, id string) (*models.AdAssignment, error) {
	return s.assignments.Get(ctx, id)
}

// CreateAssignment stores a new assignment
func (s *AdService) CreateAssignment(ctx context.Context, a *models.AdAssignment) error {
	if err := validateAssignment("create_assignment", a); err != nil {
		return err
	}
	a.ID = ""
	if err := s.assignments.Create(ctx, a); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, events.EntityAdAssignment, a.ID)
	return nil
}

// ReplaceAssignment overwrites an assignment
func (s *AdService) ReplaceAssignment(ctx context.Context, id string, a *models.AdAssignment) error {
	if err := validateAssignment("replace_assignment", a); err != nil {
		return err
	}
	if err := s.assignments.Replace(ctx, id, a); err != nil {
		return err
	}
	s.publish(ctx, events.EventReplaced, events.EntityAdAssignment, id)
	return nil
}

// DeleteAssignment removes an assignment
func (s *AdService) DeleteAssignment(ctx context.Context, id string) error {
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, events.EntityAdAssignment, id)
	return nil
}

// ResolveAds returns the ads a viewer sees before targetID
func (s *AdService) ResolveAds(ctx context.Context, targetID string, viewer types.Viewer) ([]models.AdMedia, resolver.Source, error) {
	if !entitlement.ShouldSeeAds(viewer) {
		s.observe(resolver.SourceNone)
		return []models.AdMedia{}, resolver.SourceNone, nil
	}
	assignments, catalog, err := s.load(ctx)
	if err != nil {
		return nil, "", err
	}
	ads, src := resolver.ResolveAds(targetID, assignments, catalog, viewer)
	s.observe(src)
	return ads, src, nil
}

// Decide answers whether viewer may play the asset or episode and which
// ads precede it
func (s *AdService) Decide(ctx context.Context, kind entitlement.Kind, id string, viewer types.Viewer) (*resolver.Decision, error) {
	target, err := s.target(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	var (
		assignments []models.AdAssignment
		catalog     []models.AdMedia
	)
	if entitlement.ShouldSeeAds(viewer) && entitlement.CanWatch(target, viewer) {
		if assignments, catalog, err = s.load(ctx); err != nil {
			return nil, err
		}
	}

	d := resolver.Decide(target, assignments, catalog, viewer)
	s.observe(d.AdSource)
	s.logger.Debug("playback decision", "kind", kind, "id", id, "viewer", viewer.UserID,
		"can_watch", d.CanWatch, "ads", len(d.Ads), "source", d.AdSource)
	return &d, nil
}

func (s *AdService) target(ctx context.Context, kind entitlement.Kind, id string) (entitlement.Target, error) {
	switch kind {
	case entitlement.KindAsset:
		asset, err := s.catalog.GetAsset(ctx, id)
		if err != nil {
			return entitlement.Target{}, err
		}
		return entitlement.Target{ID: asset.ID, Kind: kind, IsPremium: asset.IsPremium}, nil
	case entitlement.KindEpisode:
		_, ep, err := s.catalog.FindEpisode(ctx, id)
		if err != nil {
			return entitlement.Target{}, err
		}
		return entitlement.Target{ID: ep.ID, Kind: kind, IsPremium: ep.IsPremium, IsFirstEpisode: ep.IsFirstEpisode}, nil
	}
	return entitlement.Target{}, apperrors.Validationf("decide", "kind", "unknown playback kind %q", kind)
}

func (s *AdService) load(ctx context.Context) ([]models.AdAssignment, []models.AdMedia, error) {
	assignments, err := s.ListAssignments(ctx)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := s.ads.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return assignments, catalog, nil
}

func validateAd(op string, ad *models.AdMedia) error {
	ad.Title = strings.TrimSpace(ad.Title)
	if ad.Title == "" {
		return apperrors.Validation(op, "title", "title is required")
	}
	if _, err := url.ParseRequestURI(ad.CreativeURL); err != nil {
		return apperrors.Validation(op, "creative_url", "creative_url must be a valid URL")
	}
	if ad.DurationSeconds < 0 {
		return apperrors.Validation(op, "duration_seconds", "duration_seconds cannot be negative")
	}
	return nil
}

func validateAssignment(op string, a *models.AdAssignment) error {
	if !a.Scope.Valid() {
		return apperrors.Validationf(op, "scope", "unknown scope %q", a.Scope)
	}
	a.TargetID = strings.TrimSpace(a.TargetID)
	switch a.Scope {
	case models.ScopeVideo:
		if a.TargetID == "" {
			return apperrors.Validation(op, "target_id", "target_id is required for video scope")
		}
	case models.ScopeGlobal:
		if a.TargetID != "" {
			return apperrors.Validation(op, "target_id", "global assignments cannot have a target")
		}
	}
	if len(a.AdIDs) == 0 {
		return apperrors.Validation(op, "ad_ids", "at least one ad is required")
	}
	for _, id := range a.AdIDs {
		if strings.TrimSpace(id) == "" {
			return apperrors.Validation(op, "ad_ids", "ad ids cannot be blank")
		}
	}
	return nil
}

func (s *AdService) publish(ctx context.Context, t events.EventType, entity, id string) {
	s.bus.Publish(ctx, events.NewEntityEvent(t, entity, id))
}

func (s *AdService) observe(src resolver.Source) {
	if s.metrics != nil {
		s.metrics.AdsResolved.WithLabelValues(string(src)).Inc()
	}
}
