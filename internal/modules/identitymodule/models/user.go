package models

import (
	"time"

	"github.com/mantonx/lineup/internal/types"
)

// User is a known principal. The id is the token subject.
type User struct {
	ID                 string     `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email              string     `gorm:"index" json:"email,omitempty"`
	Name               string     `json:"name,omitempty"`
	Role               types.Role `gorm:"type:varchar(16);not null;index" json:"role"`
	IsPremium          bool       `gorm:"not null;default:false" json:"is_premium"`
	HasPrioritySupport bool       `gorm:"not null;default:false" json:"has_priority_support"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (u *User) GetID() string   { return u.ID }
func (u *User) SetID(id string) { u.ID = id }

// Viewer converts the stored user into the request principal
func (u *User) Viewer() types.Viewer {
	return types.Viewer{
		UserID:        u.ID,
		Role:          u.Role,
		Authenticated: true,
		IsPremium:     u.IsPremium,
	}
}
