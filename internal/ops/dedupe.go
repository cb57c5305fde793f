package ops

import (
	"context"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// DedupeInput contains parameters for the standalone Dedupe operation.
type DedupeInput struct {
	EntityID string
	// DryRun reports the plan without deleting anything.
	DryRun bool
}

// RemovedRecord identifies one deleted duplicate and the survivor that
// superseded it.
type RemovedRecord struct {
	RecordID      string `json:"record_id"`
	CanonicalPath string `json:"canonical_path"`
	SurvivorID    string `json:"survivor_id"`
}

// DedupeOutput contains the result of a duplicate cleanup pass.
type DedupeOutput struct {
	EntityID  string          `json:"entity_id"`
	Examined  int             `json:"examined"`
	Removed   []RemovedRecord `json:"removed,omitempty"`
	Survivors int             `json:"survivors"`
	DryRun    bool            `json:"dry_run,omitempty"`
}

// Dedupe resolves duplicate records for an entity without touching the
// capsule. Running it twice is a no-op the second time: the survivor set is
// already canonical.
func (r *Runner) Dedupe(ctx context.Context, input DedupeInput) (*DedupeOutput, error) {
	if input.EntityID == "" {
		return nil, errors.NewInvalidRequest("entity id is required")
	}

	records, err := r.Store.ListRecords(ctx, input.EntityID)
	if err != nil {
		return nil, err
	}

	// The capsule record never participates in deduplication.
	var rest []record.Record
	for _, rec := range records {
		if rec.IsCapsule() || rec.Name == record.CapsuleName(input.EntityID) {
			continue
		}
		rest = append(rest, rec)
	}

	plan := record.ResolveDuplicates(rest)
	output := &DedupeOutput{
		EntityID:  input.EntityID,
		Examined:  len(rest),
		Survivors: len(plan.Survivors),
		DryRun:    input.DryRun,
	}

	survivorByPath := make(map[string]string, len(plan.Survivors))
	for _, s := range plan.Survivors {
		survivorByPath[s.CanonicalPath()] = s.ID
	}

	for _, loser := range plan.Losers {
		removed := RemovedRecord{
			RecordID:      loser.ID,
			CanonicalPath: loser.CanonicalPath(),
			SurvivorID:    survivorByPath[loser.CanonicalPath()],
		}
		if !input.DryRun {
			if err := r.Store.DeleteRecord(ctx, loser.ID); err != nil {
				r.Log.Warn("duplicate delete failed",
					"record", loser.ID, "canonical_path", loser.CanonicalPath(), "err", err)
				continue
			}
		}
		output.Removed = append(output.Removed, removed)
	}

	r.Log.Info("dedupe complete",
		"entity", input.EntityID,
		"examined", output.Examined,
		"removed", len(output.Removed),
		"dry_run", input.DryRun)

	return output, nil
}
