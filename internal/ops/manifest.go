package ops

import (
	"context"
	"time"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/manifest"
)

// ManifestInput contains parameters for the Manifest operation.
type ManifestInput struct {
	EntityID string
}

// ManifestOutput contains the classified-record index for an entity.
type ManifestOutput struct {
	Manifest *manifest.Manifest `json:"manifest"`
}

// Manifest classifies every record an entity holds and assembles the index.
func (r *Runner) Manifest(ctx context.Context, input ManifestInput) (*ManifestOutput, error) {
	if input.EntityID == "" {
		return nil, errors.NewInvalidRequest("entity id is required")
	}

	records, err := r.Store.ListRecords(ctx, input.EntityID)
	if err != nil {
		return nil, err
	}

	m := manifest.Build(input.EntityID, records, time.Now().Unix())
	return &ManifestOutput{Manifest: m}, nil
}
