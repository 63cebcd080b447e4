// Package entitlement decides whether a viewer may play something and
// whether they see ads
package entitlement

import "github.com/mantonx/lineup/internal/types"

// Kind of playable target
type Kind string

const (
	KindAsset   Kind = "asset"
	KindEpisode Kind = "episode"
)

// Target is the playback subject as far as entitlement cares
type Target struct {
	ID             string `json:"id"`
	Kind           Kind   `json:"kind"`
	IsPremium      bool   `json:"is_premium"`
	IsFirstEpisode bool   `json:"is_first_episode"`
}

// CanWatch reports whether viewer may play target. Free content, first
// episodes, premium viewers and admins always pass.
func CanWatch(target Target, viewer types.Viewer) bool {
	if !target.IsPremium {
		return true
	}
	if target.Kind == KindEpisode && target.IsFirstEpisode {
		return true
	}
	return viewer.IsPremium || viewer.IsAdmin()
}

// ShouldSeeAds reports whether ads are shown to viewer
func ShouldSeeAds(viewer types.Viewer) bool {
	return !(viewer.IsPremium || viewer.IsAdmin())
}
