package models

// ItemKind tags which variant a ContentItem holds
type ItemKind string

const (
	ItemKindAsset  ItemKind = "asset"
	ItemKindSeries ItemKind = "series"
)

// ContentItem is either a MediaAsset or a Series, used wherever a rail or
// result list mixes both. Exactly one of Asset and Series is set.
type ContentItem struct {
	Kind   ItemKind    `json:"kind"`
	Asset  *MediaAsset `json:"asset,omitempty"`
	Series *Series     `json:"series,omitempty"`

	// Stub marks items rebuilt from search results. Playback fields are
	// absent and must not be used.
	Stub bool `json:"stub,omitempty"`
}

// AssetItem wraps an asset
func AssetItem(a *MediaAsset) ContentItem {
	return ContentItem{Kind: ItemKindAsset, Asset: a}
}

// SeriesItem wraps a series
func SeriesItem(s *Series) ContentItem {
	return ContentItem{Kind: ItemKindSeries, Series: s}
}

// ID returns the id of whichever variant is set
func (c ContentItem) ID() string {
	switch c.Kind {
	case ItemKindAsset:
		if c.Asset != nil {
			return c.Asset.ID
		}
	case ItemKindSeries:
		if c.Series != nil {
			return c.Series.ID
		}
	}
	return ""
}

// Title returns the title of whichever variant is set
func (c ContentItem) Title() string {
	switch c.Kind {
	case ItemKindAsset:
		if c.Asset != nil {
			return c.Asset.Title
		}
	case ItemKindSeries:
		if c.Series != nil {
			return c.Series.Title
		}
	}
	return ""
}
