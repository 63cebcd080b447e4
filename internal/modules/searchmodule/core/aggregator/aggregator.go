// Package aggregator ranks search hits and splits them into display buckets
package aggregator

import (
	"sort"
	"strings"

	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
)

// Rank orders hits by how well the title matches query: exact, then
// prefix, then anything else. Ties keep backend order.
func Rank(query string, hits []models.SearchResult) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return
	}
	score := func(r models.SearchResult) int {
		title := strings.ToLower(r.Title)
		switch {
		case title == q:
			return 0
		case strings.HasPrefix(title, q):
			return 1
		case strings.Contains(title, q):
			return 2
		}
		return 3
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return score(hits[i]) < score(hits[j])
	})
}

// Partition splits hits by result type. Unknown types are dropped.
func Partition(query string, hits []models.SearchResult) *models.Results {
	out := &models.Results{
		Query:  query,
		Films:  []catalog.ContentItem{},
		Series: []catalog.ContentItem{},
		Clips:  []catalog.ContentItem{},
		Brands: []models.SearchResult{},
	}
	for _, hit := range hits {
		switch hit.ResultType {
		case models.ResultVideo, models.ResultFilm:
			out.Films = append(out.Films, assetStub(hit, false))
		case models.ResultClip:
			out.Clips = append(out.Clips, assetStub(hit, true))
		case models.ResultSeries:
			out.Series = append(out.Series, seriesStub(hit))
		case models.ResultBrand:
			out.Brands = append(out.Brands, hit)
		default:
			continue
		}
		out.Total++
	}
	return out
}

func assetStub(hit models.SearchResult, clip bool) catalog.ContentItem {
	item := catalog.AssetItem(&catalog.MediaAsset{
		ID:           hit.ID,
		Title:        hit.Title,
		Description:  hit.Description,
		ThumbnailURL: hit.ThumbnailURL,
		IsPremium:    hit.IsPremium,
		IsOriginal:   hit.IsOriginal,
		IsClip:       clip,
	})
	item.Stub = true
	return item
}

func seriesStub(hit models.SearchResult) catalog.ContentItem {
	item := catalog.SeriesItem(&catalog.Series{
		ID:           hit.ID,
		Title:        hit.Title,
		Description:  hit.Description,
		ThumbnailURL: hit.ThumbnailURL,
		IsOriginal:   hit.IsOriginal,
		ContentType:  catalog.ContentTypeSeries,
	})
	item.Stub = true
	return item
}
