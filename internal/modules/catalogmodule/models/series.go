package models

import (
	"time"

	"gorm.io/datatypes"
)

// Series is an episodic show. Seasons and their episodes are stored inline
// with the series and always written together.
type Series struct {
	ID           string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string                      `gorm:"not null;index" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	ContentType  ContentType                 `gorm:"type:varchar(32);not null" json:"content_type"`
	ThumbnailURL string                      `json:"thumbnail_url"`
	TrailerURL   string                      `json:"trailer_url,omitempty"`
	IsOriginal   bool                        `gorm:"not null;default:false;index" json:"is_original"`
	Seasons      datatypes.JSONSlice[Season] `json:"seasons"`
	Revision     int64                       `gorm:"not null;default:1" json:"revision"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (Series) TableName() string { return "series" }

func (s *Series) GetID() string         { return s.ID }
func (s *Series) SetID(id string)       { s.ID = id }
func (s *Series) GetRevision() int64    { return s.Revision }
func (s *Series) SetRevision(rev int64) { s.Revision = rev }

// Season groups episodes of a series
type Season struct {
	ID           string    `json:"id"`
	SeasonNumber int       `json:"season_number"`
	Title        string    `json:"title"`
	IsOriginal   bool      `json:"is_original"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is one playable installment. SeasonID points back at the
// season whose episode list currently holds it.
type Episode struct {
	ID             string      `json:"id"`
	SeasonID       string      `json:"season_id"`
	EpisodeNumber  int         `json:"episode_number"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	RuntimeMinutes int         `json:"runtime_minutes"`
	VideoURL       string      `json:"video_url"`
	ThumbnailURL   string      `json:"thumbnail_url"`
	IsPremium      bool        `json:"is_premium"`
	IsFirstEpisode bool        `json:"is_first_episode"`
	IsOriginal     bool        `json:"is_original"`
	ContentType    ContentType `json:"content_type"`
}
