// Package models provides database models for the catalog module
package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ContentType classifies what a piece of content is
type ContentType string

const (
	ContentTypeMovie              ContentType = "movie"
	ContentTypeFilm               ContentType = "film"
	ContentTypeTVSeriesStandalone ContentType = "tvSeriesStandalone"
	ContentTypeSeries             ContentType = "series"
	ContentTypeDocumentary        ContentType = "documentary"
	ContentTypeFaithBased         ContentType = "faithBased"
	ContentTypeEducational        ContentType = "educational"
	ContentTypeNews               ContentType = "news"
	ContentTypeMusic              ContentType = "music"
	ContentTypePodcast            ContentType = "podcast"
)

// AllContentTypes lists every known content type
var AllContentTypes = []ContentType{
	ContentTypeMovie,
	ContentTypeFilm,
	ContentTypeTVSeriesStandalone,
	ContentTypeSeries,
	ContentTypeDocumentary,
	ContentTypeFaithBased,
	ContentTypeEducational,
	ContentTypeNews,
	ContentTypeMusic,
	ContentTypePodcast,
}

// Valid reports whether ct is a known content type
func (ct ContentType) Valid() bool {
	for _, known := range AllContentTypes {
		if ct == known {
			return true
		}
	}
	return false
}

func (ct ContentType) Value() (driver.Value, error) {
	return string(ct), nil
}

func (ct *ContentType) Scan(value interface{}) error {
	if value == nil {
		*ct = ""
		return nil
	}
	switch s := value.(type) {
	case string:
		*ct = ContentType(s)
	case []byte:
		*ct = ContentType(s)
	default:
		return fmt.Errorf("cannot scan %T into ContentType", value)
	}
	return nil
}

// ClipOrigin records how a clip came to exist
type ClipOrigin string

const (
	ClipOriginUnknown       ClipOrigin = ""
	ClipOriginManual        ClipOrigin = "manual"
	ClipOriginAutoGenerated ClipOrigin = "autoGenerated"
)

// Valid reports whether o is a known origin, including unknown
func (o ClipOrigin) Valid() bool {
	switch o {
	case ClipOriginUnknown, ClipOriginManual, ClipOriginAutoGenerated:
		return true
	}
	return false
}

// MediaAsset is a single playable piece of content: a film, a standalone
// video, a podcast episode or a clip derived from another asset.
type MediaAsset struct {
	ID              string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string      `gorm:"not null;index" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	ContentType     ContentType `gorm:"type:varchar(32);not null;index" json:"content_type"`
	IsPremium       bool        `gorm:"not null;default:false;index" json:"is_premium"`
	IsOriginal      bool        `gorm:"not null;default:false;index" json:"is_original"`
	IsClip          bool        `gorm:"not null;default:false;index" json:"is_clip"`
	EligibleForLive bool        `gorm:"not null;default:false" json:"eligible_for_live"`
	AvailableAsVOD  bool        `gorm:"not null" json:"available_as_vod"`

	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	TrailerURL   string `json:"trailer_url,omitempty"`
	PreviewURL   string `json:"preview_url,omitempty"`

	Genre       string `gorm:"index" json:"genre,omitempty"`
	ReleaseYear *int   `json:"release_year,omitempty"`
	Cast        string `gorm:"type:text" json:"cast,omitempty"`

	// Clip fields; SourceAssetID is set only when IsClip is true
	SourceAssetID string     `gorm:"type:varchar(36);index" json:"source_asset_id,omitempty"`
	ClipCaption   string     `json:"clip_caption,omitempty"`
	ClipOrigin    ClipOrigin `gorm:"type:varchar(16)" json:"clip_origin,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MediaAsset) TableName() string { return "media_assets" }

func (a *MediaAsset) GetID() string   { return a.ID }
func (a *MediaAsset) SetID(id string) { a.ID = id }
