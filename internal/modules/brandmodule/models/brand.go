// Package models provides database models for the brand module
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Brand groups catalog content under a network or label. The id lists are
// references; a brand owns none of the content it names.
type Brand struct {
	ID          string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string                      `gorm:"not null;index" json:"name"`
	Description string                      `gorm:"type:text" json:"description,omitempty"`
	LogoURL     string                      `json:"logo_url,omitempty"`
	FilmIDs     datatypes.JSONSlice[string] `json:"film_ids"`
	SeriesIDs   datatypes.JSONSlice[string] `json:"series_ids"`
	ClipIDs     datatypes.JSONSlice[string] `json:"clip_ids"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (b *Brand) GetID() string   { return b.ID }
func (b *Brand) SetID(id string) { b.ID = id }
