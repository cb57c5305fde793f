package ops

import (
	"context"
	"time"

	"github.com/TitaniumShinobi/vvault-sub002/internal/inject"
)

// InjectInput contains parameters for the Inject operation.
type InjectInput struct {
	EntityID string
	// MaxSessions overrides the configured projection window when positive.
	MaxSessions int
}

// InjectOutput contains the projected payload and its validation result.
// Payload is omitted when validation fails; a consumer never sees an
// invalid payload.
type InjectOutput struct {
	Payload    *inject.Payload          `json:"payload,omitempty"`
	Validation *inject.ValidationResult `json:"validation"`
}

// Inject projects the stored capsule into a bounded injection payload and
// validates it against the entity.
func (r *Runner) Inject(ctx context.Context, input InjectInput) (*InjectOutput, error) {
	fetched, err := r.Fetch(ctx, FetchInput{EntityID: input.EntityID})
	if err != nil {
		return nil, err
	}

	maxSessions := input.MaxSessions
	if maxSessions <= 0 {
		maxSessions = r.Cfg.MaxSessions
	}

	payload := inject.Project(fetched.Capsule, maxSessions, r.Cfg.MaxHooks, time.Now().Unix())
	result := inject.Validate(payload, input.EntityID)

	output := &InjectOutput{Validation: result}
	if result.Valid {
		output.Payload = payload
	} else {
		r.Log.Warn("injection payload failed validation",
			"entity", input.EntityID, "errors", result.Errors)
	}

	return output, nil
}
