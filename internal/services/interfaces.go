package services

import (
	"context"

	"github.com/mantonx/lineup/internal/modules/catalogmodule/core/filters"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
	"github.com/mantonx/lineup/internal/types"
)

// Registered service names
const (
	CatalogServiceName  = "catalog"
	IdentityServiceName = "identity"
)

// CatalogService is the read side of the catalog used by other modules.
// Implementations return errors classified by internal/errors.
type CatalogService interface {
	// ListAssets returns assets matching the filter
	ListAssets(ctx context.Context, filter filters.AssetFilter) ([]models.MediaAsset, error)

	// GetAsset returns one asset or a not-found error
	GetAsset(ctx context.Context, id string) (*models.MediaAsset, error)

	// ListSeries returns every series, optionally narrowed by a title search
	ListSeries(ctx context.Context, query string) ([]models.Series, error)

	// GetSeries returns one series or a not-found error
	GetSeries(ctx context.Context, id string) (*models.Series, error)

	// FindEpisode locates an episode and the series holding it
	FindEpisode(ctx context.Context, episodeID string) (*models.Series, *models.Episode, error)
}

// IdentityService resolves request credentials into a Viewer
type IdentityService interface {
	// ResolveViewer returns the guest viewer for an empty token and an
	// unauthorized error for a token that does not verify
	ResolveViewer(ctx context.Context, token string) (types.Viewer, error)
}
