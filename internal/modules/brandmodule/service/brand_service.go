// Package service stores brands and resolves brand rails
package service

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/database"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/modules/brandmodule/core/rails"
	"github.com/mantonx/lineup/internal/modules/brandmodule/models"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/services"
	"gorm.io/gorm"
)

// BrandService manages brands
type BrandService struct {
	brands  *database.Repository[models.Brand, *models.Brand]
	catalog services.CatalogService
	bus     events.EventBus
	logger  hclog.Logger
}

// NewBrandService creates the service. bus may be nil.
func NewBrandService(db *gorm.DB, cat services.CatalogService, bus events.EventBus, logger hclog.Logger) *BrandService {
	if bus == nil {
		bus = events.NopBus{}
	}
	return &BrandService{
		brands:  database.NewRepository[models.Brand, *models.Brand](db, "brand"),
		catalog: cat,
		bus:     bus,
		logger:  logger,
	}
}

// Migrate creates the brands table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Brand{})
}

// ListBrands returns every brand ordered by name
func (s *BrandService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.brands.List(ctx, func(q *gorm.DB) *gorm.DB { return q.Order("name").Order("id") })
}

// GetBrand returns one brand
func (s *BrandService) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	return s.brands.Get(ctx, id)
}

// CreateBrand stores a new brand
func (s *BrandService) CreateBrand(ctx context.Context, b *models.Brand) error {
	if err := validate("create_brand", b); err != nil {
		return err
	}
	b.ID = ""
	if err := s.brands.Create(ctx, b); err != nil {
		return err
	}
	s.publish(ctx, events.EventCreated, b.ID)
	s.logger.Info("brand created", "id", b.ID, "name", b.Name)
	return nil
}

// ReplaceBrand overwrites a brand
func (s *BrandService) ReplaceBrand(ctx context.Context, id string, b *models.Brand) error {
	if err := validate("replace_brand", b); err != nil {
		return err
	}
	if err := s.brands.Replace(ctx, id, b); err != nil {
		return err
	}
	s.publish(ctx, events.EventReplaced, id)
	return nil
}

// DeleteBrand removes a brand. The content it referenced is untouched.
func (s *BrandService) DeleteBrand(ctx context.Context, id string) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventDeleted, id)
	return nil
}

// Rail resolves a single brand, empty or not
func (s *BrandService) Rail(ctx context.Context, id string) (*rails.Rail, error) {
	b, err := s.brands.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rail := rails.Resolve(*b, snap)
	return &rail, nil
}

// Rails resolves every brand and returns the ones with content
func (s *BrandService) Rails(ctx context.Context) ([]rails.Rail, error) {
	brands, err := s.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	if len(brands) == 0 {
		return []rails.Rail{}, nil
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return rails.Build(brands, snap), nil
}

func (s *BrandService) snapshot(ctx context.Context) (*rails.Snapshot, error) {
	assets, err := s.catalog.ListAssets(ctx, filters.AssetFilter{})
	if err != nil {
		return nil, err
	}
	series, err := s.catalog.ListSeries(ctx, "")
	if err != nil {
		return nil, err
	}
	return rails.NewSnapshot(assets, series), nil
}

func validate(op string, b *models.Brand) error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return apperrors.Validation(op, "name", "name is required")
	}
	var err error
	if b.FilmIDs, err = dedupe(op, "film_ids", b.FilmIDs); err != nil {
		return err
	}
	if b.SeriesIDs, err = dedupe(op, "series_ids", b.SeriesIDs); err != nil {
		return err
	}
	if b.ClipIDs, err = dedupe(op, "clip_ids", b.ClipIDs); err != nil {
		return err
	}
	return nil
}

// dedupe drops repeated ids and rejects blanks
func dedupe(op, field string, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, apperrors.Validation(op, field, "ids cannot be blank")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

func (s *BrandService) publish(ctx context.Context, t events.EventType, id string) {
	s.bus.Publish(ctx, events.NewEntityEvent(t, events.EntityBrand, id))
}
