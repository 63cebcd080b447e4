// Package rails resolves brands into display rails over catalog snapshots
package rails

import (
	brand "github.com/mantonx/lineup/internal/modules/brandmodule/models"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// Rail is a brand with its references resolved
type Rail struct {
	Brand  brand.Brand          `json:"brand"`
	Films  []catalog.MediaAsset `json:"films"`
	Series []catalog.Series     `json:"series"`
	Clips  []catalog.MediaAsset `json:"clips"`
}

// Empty reports whether nothing on the rail resolved
func (r Rail) Empty() bool {
	return len(r.Films) == 0 && len(r.Series) == 0 && len(r.Clips) == 0
}

// Snapshot indexes catalog content by id for resolution
type Snapshot struct {
	assets map[string]*catalog.MediaAsset
	series map[string]*catalog.Series
}

// NewSnapshot indexes the given assets and series
func NewSnapshot(assets []catalog.MediaAsset, series []catalog.Series) *Snapshot {
	s := &Snapshot{
		assets: make(map[string]*catalog.MediaAsset, len(assets)),
		series: make(map[string]*catalog.Series, len(series)),
	}
	for i := range assets {
		s.assets[assets[i].ID] = &assets[i]
	}
	for i := range series {
		s.series[series[i].ID] = &series[i]
	}
	return s
}

// Resolve looks up every id on the brand, keeping list order and dropping
// ids that no longer resolve
func Resolve(b brand.Brand, snap *Snapshot) Rail {
	rail := Rail{
		Brand:  b,
		Films:  []catalog.MediaAsset{},
		Series: []catalog.Series{},
		Clips:  []catalog.MediaAsset{},
	}
	for _, id := range b.FilmIDs {
		if a, ok := snap.assets[id]; ok {
			rail.Films = append(rail.Films, *a)
		}
	}
	for _, id := range b.SeriesIDs {
		if s, ok := snap.series[id]; ok {
			rail.Series = append(rail.Series, *s)
		}
	}
	for _, id := range b.ClipIDs {
		if a, ok := snap.assets[id]; ok {
			rail.Clips = append(rail.Clips, *a)
		}
	}
	return rail
}

// Build resolves every brand and leaves out brands with nothing to show
func Build(brands []brand.Brand, snap *Snapshot) []Rail {
	out := make([]Rail, 0, len(brands))
	for _, b := range brands {
		if rail := Resolve(b, snap); !rail.Empty() {
			out = append(out, rail)
		}
	}
	return out
}
