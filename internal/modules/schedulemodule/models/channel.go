package models

import (
	"time"

	"gorm.io/datatypes"
)

// LiveChannel is a simulated linear channel. Its schedule is stored inline
// and replaced as a whole, guarded by Revision.
type LiveChannel struct {
	ID         string                                `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string                                `gorm:"not null;index" json:"name"`
	IsOriginal bool                                  `gorm:"not null;default:false" json:"is_original"`
	LogoURL    string                                `json:"logo_url,omitempty"`
	Schedule   datatypes.JSONSlice[ScheduledContent] `json:"schedule"`
	Revision   int64                                 `gorm:"not null;default:1" json:"revision"`
	CreatedAt  time.Time                             `json:"created_at"`
	UpdatedAt  time.Time                             `json:"updated_at"`
}

func (c *LiveChannel) GetID() string         { return c.ID }
func (c *LiveChannel) SetID(id string)       { c.ID = id }
func (c *LiveChannel) GetRevision() int64    { return c.Revision }
func (c *LiveChannel) SetRevision(rev int64) { c.Revision = rev }

// ScheduledContent is one slot on a channel. ContentID references a catalog
// asset that the channel does not own.
type ScheduledContent struct {
	ID          string      `json:"id"`
	ContentID   string      `json:"content_id"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	AdLocations []time.Time `json:"ad_locations,omitempty"`
	IsOriginal  bool        `json:"is_original"`
}

// Duration returns the slot length
func (s ScheduledContent) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports whether the half-open intervals [start, end) intersect
func (s ScheduledContent) Overlaps(other ScheduledContent) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// Contains reports whether at falls inside [start, end)
func (s ScheduledContent) Contains(at time.Time) bool {
	return !at.Before(s.StartTime) && at.Before(s.EndTime)
}
