// Package models holds search result shapes
package models

import (
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// ResultType says which entity a search hit came from
type ResultType string

const (
	ResultVideo  ResultType = "video"
	ResultFilm   ResultType = "film"
	ResultSeries ResultType = "series"
	ResultClip   ResultType = "clip"
	ResultBrand  ResultType = "brand"
)

// SearchResult is a flattened hit. It is a display projection only and
// carries no playback fields.
type SearchResult struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	IsPremium    bool       `json:"is_premium"`
	IsOriginal   bool       `json:"is_original"`
	ResultType   ResultType `json:"result_type"`
}

// Results are hits partitioned into display buckets. Films, series and
// clips are stub content items rebuilt from the hits.
type Results struct {
	Query  string                `json:"query"`
	Films  []catalog.ContentItem `json:"films"`
	Series []catalog.ContentItem `json:"series"`
	Clips  []catalog.ContentItem `json:"clips"`
	Brands []SearchResult        `json:"brands"`
	Total  int                   `json:"total"`
	Cached bool                  `json:"cached"`
}
