package rails

import (
	"testing"

	brand "github.com/mantonx/lineup/internal/modules/brandmodule/models"
	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() *Snapshot {
	return NewSnapshot(
		[]catalog.MediaAsset{{ID: "f1", Title: "Film"}, {ID: "f2", Title: "Other"}, {ID: "c1", Title: "Clip", IsClip: true}},
		[]catalog.Series{{ID: "s1", Title: "Show"}},
	)
}

func TestResolveKeepsOrderAndDropsOrphans(t *testing.T) {
	b := brand.Brand{
		ID:        "b1",
		FilmIDs:   []string{"f2", "gone", "f1"},
		SeriesIDs: []string{"s1", "s-gone"},
		ClipIDs:   []string{"c1"},
	}
	rail := Resolve(b, snapshot())
	require.Len(t, rail.Films, 2)
	assert.Equal(t, "f2", rail.Films[0].ID)
	assert.Equal(t, "f1", rail.Films[1].ID)
	require.Len(t, rail.Series, 1)
	require.Len(t, rail.Clips, 1)
	assert.False(t, rail.Empty())
}

func TestBuildExcludesEmptyRails(t *testing.T) {
	brands := []brand.Brand{
		{ID: "orphaned", FilmIDs: []string{"x"}, SeriesIDs: []string{"y"}, ClipIDs: []string{"z"}},
		{ID: "blank"},
		{ID: "live", SeriesIDs: []string{"s1"}},
	}
	rails := Build(brands, snapshot())
	require.Len(t, rails, 1)
	assert.Equal(t, "live", rails[0].Brand.ID)
	assert.Empty(t, rails[0].Films)
	assert.NotNil(t, rails[0].Films)

	orphan := Resolve(brands[0], snapshot())
	assert.True(t, orphan.Empty())
}
