package aggregator

import (
	"testing"

	catalog "github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionGrace(t *testing.T) {
	hits := []models.SearchResult{
		{ID: "v1", ResultType: models.ResultFilm, Title: "Grace Street"},
		{ID: "s1", ResultType: models.ResultSeries, Title: "Amazing Grace"},
	}
	out := Partition("Grace", hits)

	require.Len(t, out.Films, 1)
	assert.Equal(t, "v1", out.Films[0].ID())
	assert.True(t, out.Films[0].Stub)
	require.Len(t, out.Series, 1)
	assert.Equal(t, "s1", out.Series[0].ID())
	assert.Equal(t, catalog.ItemKindSeries, out.Series[0].Kind)
	assert.Empty(t, out.Clips)
	assert.Empty(t, out.Brands)
	assert.Equal(t, 2, out.Total)
}

func TestPartitionBuckets(t *testing.T) {
	hits := []models.SearchResult{
		{ID: "a", ResultType: models.ResultVideo},
		{ID: "b", ResultType: models.ResultClip},
		{ID: "c", ResultType: models.ResultBrand},
		{ID: "d", ResultType: "podcast"},
	}
	out := Partition("x", hits)
	assert.Len(t, out.Films, 1)
	require.Len(t, out.Clips, 1)
	assert.True(t, out.Clips[0].Asset.IsClip)
	assert.Empty(t, out.Clips[0].Asset.VideoURL)
	assert.Len(t, out.Brands, 1)
	assert.Equal(t, 3, out.Total)
}

func TestRank(t *testing.T) {
	hits := []models.SearchResult{
		{ID: "contains", Title: "Amazing Grace"},
		{ID: "desc", Title: "Other"},
		{ID: "prefix", Title: "Grace Street"},
		{ID: "exact", Title: "grace"},
	}
	Rank("Grace", hits)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"exact", "prefix", "contains", "desc"}, ids)
}
