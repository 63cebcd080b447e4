// Package repository provides data access for catalog assets and series
package repository

import (
	"context"
	"strings"

	"github.com/mantonx/lineup/internal/database"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"gorm.io/gorm"
)

// CatalogRepository handles all database operations for assets and series
type CatalogRepository struct {
	assets *database.Repository[models.MediaAsset, *models.MediaAsset]
	series *database.Repository[models.Series, *models.Series]
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		assets: database.NewRepository[models.MediaAsset, *models.MediaAsset](db, "asset"),
		series: database.NewRepository[models.Series, *models.Series](db, "series"),
	}
}

// Migrate creates or updates the catalog tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.MediaAsset{}, &models.Series{})
}

// ListAssets returns assets matching filter
func (r *CatalogRepository) ListAssets(ctx context.Context, filter filters.AssetFilter) ([]models.MediaAsset, error) {
	assets, err := r.assets.List(ctx, filter.ApplyColumns)
	if err != nil {
		return nil, err
	}
	return filter.Apply(assets), nil
}

// GetAsset retrieves an asset by ID
func (r *CatalogRepository) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	return r.assets.Get(ctx, id)
}

// GetAssets retrieves the assets that exist among ids
func (r *CatalogRepository) GetAssets(ctx context.Context, ids []string) ([]models.MediaAsset, error) {
	return r.assets.GetMany(ctx, ids)
}

// CreateAsset inserts a new asset
func (r *CatalogRepository) CreateAsset(ctx context.Context, asset *models.MediaAsset) error {
	return r.assets.Create(ctx, asset)
}

// ReplaceAsset overwrites an asset
func (r *CatalogRepository) ReplaceAsset(ctx context.Context, id string, asset *models.MediaAsset) error {
	return r.assets.Replace(ctx, id, asset)
}

// DeleteAsset removes an asset
func (r *CatalogRepository) DeleteAsset(ctx context.Context, id string) error {
	return r.assets.Delete(ctx, id)
}

// ListSeries returns all series, optionally narrowed by a title search
func (r *CatalogRepository) ListSeries(ctx context.Context, query string) ([]models.Series, error) {
	return r.series.List(ctx, func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(query); q != "" {
			like := database.ContainsPattern(q)
			db = db.Where(database.LikeAny("title", "description"), like, like)
		}
		return db.Order("title").Order("id")
	})
}

// GetSeries retrieves a series by ID
func (r *CatalogRepository) GetSeries(ctx context.Context, id string) (*models.Series, error) {
	return r.series.Get(ctx, id)
}

// CreateSeries inserts a new series at revision 1
func (r *CatalogRepository) CreateSeries(ctx context.Context, s *models.Series) error {
	s.Revision = 0
	return r.series.Create(ctx, s)
}

// ReplaceSeries overwrites a series if it is still at revision expected
func (r *CatalogRepository) ReplaceSeries(ctx context.Context, id string, s *models.Series, expected int64) error {
	return r.series.ReplaceRevision(ctx, id, s, expected)
}

// DeleteSeries removes a series
func (r *CatalogRepository) DeleteSeries(ctx context.Context, id string) error {
	return r.series.Delete(ctx, id)
}
