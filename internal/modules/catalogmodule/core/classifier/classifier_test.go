package classifier

import (
	"testing"
	"time"

	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/stretchr/testify/assert"
)

func TestLiveEligibilityNeverIncludesClipsOrPodcasts(t *testing.T) {
	for _, ct := range models.AllContentTypes {
		for _, isClip := range []bool{false, true} {
			a := &models.MediaAsset{ContentType: ct, IsClip: isClip}
			if IsLiveEligible(a) {
				assert.False(t, a.IsClip, "content type %s", ct)
				assert.NotEqual(t, models.ContentTypePodcast, a.ContentType)
			}
		}
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		asset      models.MediaAsset
		movieLike  bool
		live       bool
		standalone bool
		section    Section
	}{
		{"movie", models.MediaAsset{ContentType: models.ContentTypeMovie}, true, true, false, SectionFilms},
		{"film", models.MediaAsset{ContentType: models.ContentTypeFilm}, true, true, false, SectionFilms},
		{"documentary", models.MediaAsset{ContentType: models.ContentTypeDocumentary}, false, true, true, SectionVideos},
		{"news", models.MediaAsset{ContentType: models.ContentTypeNews}, false, true, true, SectionVideos},
		{"podcast", models.MediaAsset{ContentType: models.ContentTypePodcast}, false, false, false, SectionPodcasts},
		{"clip of a movie", models.MediaAsset{ContentType: models.ContentTypeMovie, IsClip: true}, true, false, false, SectionClips},
		{"unknown type", models.MediaAsset{ContentType: "hologram"}, false, false, true, SectionVideos},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.movieLike, IsMovieLike(&tt.asset))
			assert.Equal(t, tt.live, IsLiveEligible(&tt.asset))
			assert.Equal(t, tt.standalone, IsStandalone(&tt.asset))
			assert.Equal(t, tt.section, SectionOf(&tt.asset))
		})
	}
}

func TestIsAutoGeneratedClip(t *testing.T) {
	tests := []struct {
		name  string
		asset models.MediaAsset
		want  bool
	}{
		{"explicit auto", models.MediaAsset{IsClip: true, ClipOrigin: models.ClipOriginAutoGenerated, ClipCaption: "anything"}, true},
		{"explicit manual with generated-looking caption", models.MediaAsset{IsClip: true, ClipOrigin: models.ClipOriginManual, ClipCaption: "My Film - Highlight"}, false},
		{"legacy caption suffix", models.MediaAsset{IsClip: true, ClipCaption: "My Film - Quick View"}, true},
		{"legacy manual caption", models.MediaAsset{IsClip: true, ClipCaption: "Director interview"}, false},
		{"not a clip", models.MediaAsset{ClipOrigin: models.ClipOriginAutoGenerated}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAutoGeneratedClip(&tt.asset))
			if tt.asset.IsClip {
				assert.Equal(t, !tt.want, IsManualClip(&tt.asset))
			}
		})
	}
}

func TestDefaultDuration(t *testing.T) {
	assert.Equal(t, 120*time.Minute, DefaultDuration(models.ContentTypeMovie))
	assert.Equal(t, 120*time.Minute, DefaultDuration(models.ContentTypeFilm))
	assert.Equal(t, 45*time.Minute, DefaultDuration(models.ContentTypeSeries))
	assert.Equal(t, 45*time.Minute, DefaultDuration(models.ContentTypeTVSeriesStandalone))
	assert.Equal(t, 60*time.Minute, DefaultDuration(models.ContentTypeNews))
	assert.Equal(t, 60*time.Minute, DefaultDuration(models.ContentTypeMusic))
}
