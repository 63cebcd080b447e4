// Package resolver picks the ads shown for a playback
package resolver

import (
	"github.com/mantonx/lineup/internal/modules/admodule/core/entitlement"
	"github.com/mantonx/lineup/internal/modules/admodule/models"
	"github.com/mantonx/lineup/internal/types"
)

// Source says which assignments produced the ads
type Source string

const (
	SourceNone   Source = "none"
	SourceVideo  Source = "video"
	SourceGlobal Source = "global"
)

// ResolveAds returns the ads for targetID. Video-scoped assignments for the
// target win; when they resolve to nothing, global assignments are used.
// Order follows the assignment list, then each assignment's ad list. Ad ids
// missing from catalog are dropped. Viewers exempt from ads get nothing.
func ResolveAds(targetID string, assignments []models.AdAssignment, catalog []models.AdMedia, viewer types.Viewer) ([]models.AdMedia, Source) {
	if !entitlement.ShouldSeeAds(viewer) {
		return []models.AdMedia{}, SourceNone
	}

	byID := make(map[string]models.AdMedia, len(catalog))
	for _, ad := range catalog {
		byID[ad.ID] = ad
	}

	if ads := collect(assignments, byID, func(a models.AdAssignment) bool {
		return a.Scope == models.ScopeVideo && a.TargetID == targetID
	}); len(ads) > 0 {
		return ads, SourceVideo
	}

	if ads := collect(assignments, byID, func(a models.AdAssignment) bool {
		return a.Scope == models.ScopeGlobal
	}); len(ads) > 0 {
		return ads, SourceGlobal
	}
	return []models.AdMedia{}, SourceNone
}

func collect(assignments []models.AdAssignment, byID map[string]models.AdMedia, match func(models.AdAssignment) bool) []models.AdMedia {
	var out []models.AdMedia
	for _, a := range assignments {
		if !match(a) {
			continue
		}
		for _, id := range a.AdIDs {
			if ad, ok := byID[id]; ok {
				out = append(out, ad)
			}
		}
	}
	return out
}

// Decision is the full answer for one playback request
type Decision struct {
	Target   entitlement.Target `json:"target"`
	CanWatch bool               `json:"can_watch"`
	ShowAds  bool               `json:"show_ads"`
	AdSource Source             `json:"ad_source"`
	Ads      []models.AdMedia   `json:"ads"`
}

// Decide combines entitlement and ad resolution. Ads are only returned for
// playbacks that are allowed.
func Decide(target entitlement.Target, assignments []models.AdAssignment, catalog []models.AdMedia, viewer types.Viewer) Decision {
	d := Decision{
		Target:   target,
		CanWatch: entitlement.CanWatch(target, viewer),
		ShowAds:  entitlement.ShouldSeeAds(viewer),
		AdSource: SourceNone,
		Ads:      []models.AdMedia{},
	}
	if d.CanWatch {
		d.Ads, d.AdSource = ResolveAds(target.ID, assignments, catalog, viewer)
	}
	return d
}
