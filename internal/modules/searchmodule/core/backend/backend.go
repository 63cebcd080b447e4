// Package backend runs the text match for search against the database
package backend

import (
	"context"

	"github.com/mantonx/lineup/internal/database"
	apperrors "github.com/mantonx/lineup/internal/errors"
	brand "github.com/mantonx/lineup/internal/modules/brandmodule/models"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/classifier"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
	"gorm.io/gorm"
)

// Backend returns flat hits for a query
type Backend interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error)
}

// GormBackend matches titles and descriptions with LIKE over the catalog
// and brand tables
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend creates a backend over db
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Search returns hits from assets, series and brands. limit caps each
// table, zero means no cap.
func (b *GormBackend) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	const op = "search"
	like := database.ContainsPattern(query)
	capped := func(q *gorm.DB) *gorm.DB {
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}

	var assets []catalog.MediaAsset
	err := capped(b.db.WithContext(ctx).
		Where(database.LikeAny("title", "description"), like, like).
		Order("title")).
		Find(&assets).Error
	if err != nil {
		return nil, apperrors.Database(op, "asset", "", err)
	}

	var series []catalog.Series
	err = capped(b.db.WithContext(ctx).
		Where(database.LikeAny("title", "description"), like, like).
		Order("title")).
		Find(&series).Error
	if err != nil {
		return nil, apperrors.Database(op, "series", "", err)
	}

	var brands []brand.Brand
	if b.db.Migrator().HasTable(&brand.Brand{}) {
		err = capped(b.db.WithContext(ctx).
			Where(database.LikeAny("name", "description"), like, like).
			Order("name")).
			Find(&brands).Error
		if err != nil {
			return nil, apperrors.Database(op, "brand", "", err)
		}
	}

	hits := make([]models.SearchResult, 0, len(assets)+len(series)+len(brands))
	for i := range assets {
		hits = append(hits, FromAsset(&assets[i]))
	}
	for i := range series {
		hits = append(hits, FromSeries(&series[i]))
	}
	for i := range brands {
		hits = append(hits, FromBrand(&brands[i]))
	}
	return hits, nil
}

// FromAsset projects an asset into a hit
func FromAsset(a *catalog.MediaAsset) models.SearchResult {
	rt := models.ResultVideo
	switch {
	case a.IsClip:
		rt = models.ResultClip
	case classifier.IsMovieLike(a):
		rt = models.ResultFilm
	}
	return models.SearchResult{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		ThumbnailURL: a.ThumbnailURL,
		IsPremium:    a.IsPremium,
		IsOriginal:   a.IsOriginal,
		ResultType:   rt,
	}
}

// FromSeries projects a series into a hit. A series is premium when any
// of its episodes is.
func FromSeries(s *catalog.Series) models.SearchResult {
	premium := false
	for _, season := range s.Seasons {
		for _, ep := range season.Episodes {
			premium = premium || ep.IsPremium
		}
	}
	return models.SearchResult{
		ID:           s.ID,
		Title:        s.Title,
		Description:  s.Description,
		ThumbnailURL: s.ThumbnailURL,
		IsPremium:    premium,
		IsOriginal:   s.IsOriginal,
		ResultType:   models.ResultSeries,
	}
}

// FromBrand projects a brand into a hit
func FromBrand(b *brand.Brand) models.SearchResult {
	return models.SearchResult{
		ID:           b.ID,
		Title:        b.Name,
		Description:  b.Description,
		ThumbnailURL: b.LogoURL,
		ResultType:   models.ResultBrand,
	}
}
