// Package classifier derives display and scheduling categories from an
// asset's stored flags. Every function here is pure.
package classifier

import (
	"strings"
	"time"

	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// Suffixes appended to a source title by the clip generator
var generatedClipSuffixes = []string{" - Short", " - Highlight", " - Quick View"}

var liveEligibleTypes = map[models.ContentType]bool{
	models.ContentTypeMovie:              true,
	models.ContentTypeFilm:               true,
	models.ContentTypeTVSeriesStandalone: true,
	models.ContentTypeSeries:             true,
	models.ContentTypeDocumentary:        true,
	models.ContentTypeFaithBased:         true,
	models.ContentTypeEducational:        true,
	models.ContentTypeNews:               true,
	models.ContentTypeMusic:              true,
}

// IsMovieLike reports whether the asset belongs in the Films bucket
func IsMovieLike(a *models.MediaAsset) bool {
	return a.ContentType == models.ContentTypeMovie || a.ContentType == models.ContentTypeFilm
}

// IsLiveEligible reports whether the asset may be placed in a live schedule
func IsLiveEligible(a *models.MediaAsset) bool {
	if a.IsClip || a.ContentType == models.ContentTypePodcast {
		return false
	}
	return liveEligibleTypes[a.ContentType]
}

// IsStandalone reports whether the asset belongs in the Videos bucket
func IsStandalone(a *models.MediaAsset) bool {
	if a.IsClip {
		return false
	}
	switch a.ContentType {
	case models.ContentTypeMovie, models.ContentTypeFilm, models.ContentTypePodcast:
		return false
	}
	return true
}

// IsPodcast reports whether the asset is a podcast episode
func IsPodcast(a *models.MediaAsset) bool {
	return !a.IsClip && a.ContentType == models.ContentTypePodcast
}

// IsAutoGeneratedClip reports whether a clip was produced by the clip
// generator. A recorded origin always wins; the caption suffix is only
// consulted for clips stored without one.
func IsAutoGeneratedClip(a *models.MediaAsset) bool {
	if !a.IsClip {
		return false
	}
	switch a.ClipOrigin {
	case models.ClipOriginAutoGenerated:
		return true
	case models.ClipOriginManual:
		return false
	}
	for _, suffix := range generatedClipSuffixes {
		if strings.HasSuffix(a.ClipCaption, suffix) {
			return true
		}
	}
	return false
}

// IsManualClip reports whether a clip was cut by an editor
func IsManualClip(a *models.MediaAsset) bool {
	return a.IsClip && !IsAutoGeneratedClip(a)
}

// DefaultDuration suggests a slot length for scheduling content of the given type
func DefaultDuration(ct models.ContentType) time.Duration {
	switch ct {
	case models.ContentTypeMovie, models.ContentTypeFilm:
		return 120 * time.Minute
	case models.ContentTypeSeries, models.ContentTypeTVSeriesStandalone:
		return 45 * time.Minute
	}
	return 60 * time.Minute
}

// Section names the catalog shelf an asset is displayed on
type Section string

const (
	SectionFilms    Section = "films"
	SectionVideos   Section = "videos"
	SectionPodcasts Section = "podcasts"
	SectionClips    Section = "clips"
)

// SectionOf returns the single shelf an asset belongs on
func SectionOf(a *models.MediaAsset) Section {
	switch {
	case a.IsClip:
		return SectionClips
	case IsMovieLike(a):
		return SectionFilms
	case IsPodcast(a):
		return SectionPodcasts
	}
	return SectionVideos
}
