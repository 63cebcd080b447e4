package models

import (
	"time"

	"gorm.io/datatypes"
)

// AdMedia is one ad creative
type AdMedia struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	CreativeURL     string    `gorm:"not null" json:"creative_url"`
	ClickThroughURL string    `json:"click_through_url,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a *AdMedia) GetID() string   { return a.ID }
func (a *AdMedia) SetID(id string) { a.ID = id }

// Scope says which playbacks an assignment applies to
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeVideo  Scope = "video"
)

// Valid reports whether s is a known scope
func (s Scope) Valid() bool {
	return s == ScopeGlobal || s == ScopeVideo
}

// AdAssignment attaches an ordered list of ads either to every playback or
// to one piece of content. Assignments are applied in Position order.
type AdAssignment struct {
	ID        string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Scope     Scope                       `gorm:"type:varchar(16);not null;index" json:"scope"`
	TargetID  string                      `gorm:"type:varchar(36);index" json:"target_id,omitempty"`
	AdIDs     datatypes.JSONSlice[string] `json:"ad_ids"`
	Position  int                         `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (a *AdAssignment) GetID() string   { return a.ID }
func (a *AdAssignment) SetID(id string) { a.ID = id }
