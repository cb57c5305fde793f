package ops

import (
	"context"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	EntityID string
}

// FetchOutput contains the stored capsule for an entity.
type FetchOutput struct {
	Capsule *capsule.Capsule `json:"capsule"`
}

// Fetch reads and decodes the stored capsule for an entity. An entity that
// has never been synced returns NOT_FOUND.
func (r *Runner) Fetch(ctx context.Context, input FetchInput) (*FetchOutput, error) {
	if input.EntityID == "" {
		return nil, errors.NewInvalidRequest("entity id is required")
	}

	rec, err := r.Store.GetRecordByName(ctx, input.EntityID, record.CapsuleName(input.EntityID))
	if err != nil {
		return nil, err
	}

	caps, err := capsule.Decode(rec.Content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &FetchOutput{Capsule: caps}, nil
}
