// Package filters narrows catalog listings
package filters

import (
	"strings"

	"github.com/mantonx/lineup/internal/database"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/classifier"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"gorm.io/gorm"
)

// AssetFilter holds listing criteria. Column criteria are applied in SQL;
// Section is applied with the classifier so the bucket rules live in one place.
type AssetFilter struct {
	Section       string             `form:"kind"`
	ContentType   models.ContentType `form:"content_type"`
	Genre         string             `form:"genre"`
	Query         string             `form:"q"`
	SourceAssetID string             `form:"source_asset_id"`
	Original      *bool              `form:"original"`
	Premium       *bool              `form:"premium"`
	Limit         int                `form:"limit"`
	Offset        int                `form:"offset"`
}

// Sections accepted by the kind filter
const (
	SectionFilms    = "films"
	SectionVideos   = "videos"
	SectionPodcasts = "podcasts"
	SectionClips    = "clips"
	SectionLive     = "live"
)

// ValidSection reports whether s is empty or a known section
func ValidSection(s string) bool {
	switch s {
	case "", SectionFilms, SectionVideos, SectionPodcasts, SectionClips, SectionLive:
		return true
	}
	return false
}

// ApplyColumns applies the SQL-level criteria to a query
func (f AssetFilter) ApplyColumns(query *gorm.DB) *gorm.DB {
	if f.ContentType != "" {
		query = query.Where("content_type = ?", f.ContentType)
	}
	if f.Genre != "" {
		query = query.Where("LOWER(genre) = ?", strings.ToLower(f.Genre))
	}
	if f.SourceAssetID != "" {
		query = query.Where("source_asset_id = ?", f.SourceAssetID)
	}
	if f.Original != nil {
		query = query.Where("is_original = ?", *f.Original)
	}
	if f.Premium != nil {
		query = query.Where("is_premium = ?", *f.Premium)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := database.ContainsPattern(q)
		query = query.Where(database.LikeAny("title", "description"), like, like)
	}
	return query.Order("created_at DESC").Order("id")
}

// Matches reports whether an asset belongs to the requested section
func (f AssetFilter) Matches(a *models.MediaAsset) bool {
	switch f.Section {
	case SectionFilms:
		return !a.IsClip && classifier.IsMovieLike(a)
	case SectionVideos:
		return classifier.IsStandalone(a)
	case SectionPodcasts:
		return classifier.IsPodcast(a)
	case SectionClips:
		return a.IsClip
	case SectionLive:
		return classifier.IsLiveEligible(a)
	}
	return true
}

// Apply filters by section and then pages the result
func (f AssetFilter) Apply(assets []models.MediaAsset) []models.MediaAsset {
	out := make([]models.MediaAsset, 0, len(assets))
	for i := range assets {
		if f.Matches(&assets[i]) {
			out = append(out, assets[i])
		}
	}

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.MediaAsset{}
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
