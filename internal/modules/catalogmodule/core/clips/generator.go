// Package clips produces short derived assets from a source asset.
package clips

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/modules/catalogmodule/models"
)

// Variant is one of the fixed clip cuts made from every source
type Variant string

const (
	VariantShort     Variant = "Short"
	VariantHighlight Variant = "Highlight"
	VariantQuickView Variant = "Quick View"
)

// Variants lists the cuts in the order they are created
var Variants = []Variant{VariantShort, VariantHighlight, VariantQuickView}

// AssetStore is the subset of catalog storage the generator needs
type AssetStore interface {
	GetAsset(ctx context.Context, id string) (*models.MediaAsset, error)
	CreateAsset(ctx context.Context, asset *models.MediaAsset) error
}

// Failure records a clip that could not be created
type Failure struct {
	Variant Variant `json:"variant"`
	Error   string  `json:"error"`
}

// Result reports which clips were persisted. Created clips are kept even
// when later ones fail.
type Result struct {
	SourceID string              `json:"source_id"`
	Created  []models.MediaAsset `json:"created"`
	Failed   []Failure           `json:"failed,omitempty"`
}

// Count returns the number of clips that were persisted
func (r *Result) Count() int {
	return len(r.Created)
}

// Partial reports whether fewer than every variant was created
func (r *Result) Partial() bool {
	return len(r.Failed) > 0
}

// Generator creates the fixed set of clips for a source asset
type Generator struct {
	store  AssetStore
	logger hclog.Logger
}

// NewGenerator creates a clip generator backed by store
func NewGenerator(store AssetStore, logger hclog.Logger) *Generator {
	return &Generator{store: store, logger: logger}
}

// Generate creates one clip per variant. The returned error is non-nil only
// when the source cannot be loaded; individual create failures are recorded
// in the result.
func (g *Generator) Generate(ctx context.Context, sourceID string) (*Result, error) {
	source, err := g.store.GetAsset(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	result := &Result{SourceID: sourceID}
	for _, variant := range Variants {
		clip := Derive(source, variant)
		if err := g.store.CreateAsset(ctx, &clip); err != nil {
			g.logger.Warn("clip create failed", "source", sourceID, "variant", variant, "error", err)
			result.Failed = append(result.Failed, Failure{Variant: variant, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, clip)
	}

	if result.Partial() {
		g.logger.Warn("clip generation incomplete", "source", sourceID, "created", result.Count(), "failed", len(result.Failed))
	} else {
		g.logger.Info("clips generated", "source", sourceID, "created", result.Count())
	}
	return result, nil
}

// Derive builds an unsaved clip of source for the given variant
func Derive(source *models.MediaAsset, variant Variant) models.MediaAsset {
	clip := *source
	label := fmt.Sprintf("%s - %s", source.Title, variant)

	clip.ID = uuid.NewString()
	clip.IsClip = true
	clip.SourceAssetID = source.ID
	clip.Title = label
	clip.ClipCaption = label
	clip.ClipOrigin = models.ClipOriginAutoGenerated
	clip.AvailableAsVOD = true
	clip.EligibleForLive = false
	clip.CreatedAt = time.Time{}
	clip.UpdatedAt = time.Time{}
	return clip
}
