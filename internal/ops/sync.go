package ops

import (
	"context"
	"time"

	"github.com/TitaniumShinobi/vvault-sub002/internal/capsule"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
	"github.com/TitaniumShinobi/vvault-sub002/internal/session"
	"github.com/TitaniumShinobi/vvault-sub002/internal/store"
)

// SyncInput contains parameters for the Sync operation.
type SyncInput struct {
	EntityID string
	// DryRun performs classification, parsing, and the merge computation
	// but writes nothing: no duplicate deletes, no capsule write.
	DryRun bool
}

// SyncOutput contains the result of one entity's sync run.
type SyncOutput struct {
	EntityID          string          `json:"entity_id"`
	Added             int             `json:"added"`
	AlreadyPresent    int             `json:"already_present"`
	TotalSessions     int             `json:"total_sessions"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	Skipped           []SkippedRecord `json:"skipped,omitempty"`
	DryRun            bool            `json:"dry_run,omitempty"`
}

// Sync runs the full pipeline for one entity: list records, resolve
// duplicates, classify, parse transcripts, merge into the capsule, and
// persist it. Every step is idempotent, so a rerun after a partial failure
// picks up where the last run left off.
func (r *Runner) Sync(ctx context.Context, input SyncInput) (*SyncOutput, error) {
	if input.EntityID == "" {
		return nil, errors.NewInvalidRequest("entity id is required")
	}

	records, err := r.Store.ListRecords(ctx, input.EntityID)
	if err != nil {
		return nil, err
	}

	output := &SyncOutput{EntityID: input.EntityID, DryRun: input.DryRun}

	// The capsule record is ours to rewrite; everything else feeds the
	// pipeline.
	var capsuleRec *record.Record
	var rest []record.Record
	for i := range records {
		if records[i].IsCapsule() || records[i].Name == record.CapsuleName(input.EntityID) {
			rec := records[i]
			capsuleRec = &rec
			continue
		}
		rest = append(rest, records[i])
	}

	survivors := r.dedupe(ctx, rest, input.DryRun, output)
	entries := r.parseTranscripts(input.EntityID, survivors, output)

	caps, err := r.loadCapsule(input.EntityID, capsuleRec)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	stats := capsule.Merge(caps, entries, now, r.Cfg.HookSampleSize)
	output.Added = stats.Added
	output.AlreadyPresent = stats.AlreadyPresent
	output.TotalSessions = len(caps.Sessions)

	if input.DryRun {
		return output, nil
	}

	if err := r.writeCapsule(ctx, caps, capsuleRec); err != nil {
		return nil, err
	}

	r.Log.Info("sync complete",
		"entity", input.EntityID,
		"added", stats.Added,
		"already_present", stats.AlreadyPresent,
		"skipped", len(output.Skipped))

	return output, nil
}

// dedupe resolves duplicate records and executes the deletions. A failed
// delete is logged and left for the next run; a lingering duplicate only
// affects volume, never correctness, because entry identity comes from the
// canonical path.
func (r *Runner) dedupe(ctx context.Context, records []record.Record, dryRun bool, output *SyncOutput) []record.Record {
	plan := record.ResolveDuplicates(records)

	for _, loser := range plan.Losers {
		if dryRun {
			output.DuplicatesRemoved++
			continue
		}
		if err := r.Store.DeleteRecord(ctx, loser.ID); err != nil {
			r.Log.Warn("duplicate delete failed, will retry next run",
				"record", loser.ID, "canonical_path", loser.CanonicalPath(), "err", err)
			continue
		}
		output.DuplicatesRemoved++
	}

	return plan.Survivors
}

// parseTranscripts classifies survivors and parses the transcripts into
// session entries. A malformed record is skipped and logged with its
// identity; it never aborts the batch.
func (r *Runner) parseTranscripts(entityID string, records []record.Record, output *SyncOutput) []capsule.SessionEntry {
	var entries []capsule.SessionEntry

	for _, rec := range records {
		kind := record.Classify(rec.Name, rec.Content)
		if kind != record.KindTranscript {
			continue
		}

		entry, err := session.Parse(rec.Content, rec.CanonicalPath(), rec.ID)
		if err != nil {
			output.Skipped = append(output.Skipped, SkippedRecord{
				RecordID:      rec.ID,
				CanonicalPath: rec.CanonicalPath(),
				Reason:        err.Error(),
			})
			r.Log.Warn("skipping malformed record",
				"record", rec.ID, "canonical_path", rec.CanonicalPath(), "err", err)
			continue
		}

		entry.EntryID = capsule.DeriveEntryID(entityID, rec.CanonicalPath())
		entries = append(entries, *entry)
	}

	return entries
}

// loadCapsule decodes the stored capsule, or starts a fresh one when none
// exists. A capsule record that fails to decode aborts the run, since
// overwriting accumulated state with a fresh capsule would lose data.
func (r *Runner) loadCapsule(entityID string, capsuleRec *record.Record) (*capsule.Capsule, error) {
	if capsuleRec == nil {
		return capsule.New(entityID, time.Now().Unix()), nil
	}

	caps, err := capsule.Decode(capsuleRec.Content)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return caps, nil
}

// writeCapsule persists the merged capsule: update-if-exists (conditional on
// the content read at the start of the run), insert-if-absent.
func (r *Runner) writeCapsule(ctx context.Context, caps *capsule.Capsule, capsuleRec *record.Record) error {
	content, err := caps.Encode()
	if err != nil {
		return errors.NewInternal(err)
	}

	metadata := map[string]string{
		record.MetaSchema:        record.SchemaCapsule,
		record.MetaCanonicalPath: record.CapsuleName(caps.EntityID),
	}

	if capsuleRec != nil {
		// Conditional write: a concurrent run that rewrote the capsule since
		// our read surfaces as CONFLICT instead of silently losing entries.
		return r.Store.UpdateRecordIf(ctx, capsuleRec.ID, capsuleRec.ContentHash, content, metadata)
	}

	_, err = r.Store.InsertRecord(ctx, store.NewRecord{
		EntityID: caps.EntityID,
		Name:     record.CapsuleName(caps.EntityID),
		Content:  content,
		Metadata: metadata,
	})
	return err
}

// SyncAllOutput aggregates per-entity sync results. A failed entity doesn't
// block the others; its error is recorded and the batch continues.
type SyncAllOutput struct {
	Entities []SyncOutput      `json:"entities"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// SyncAll runs Sync for every entity in the store.
func (r *Runner) SyncAll(ctx context.Context, dryRun bool) (*SyncAllOutput, error) {
	entities, err := r.Store.ListEntities(ctx)
	if err != nil {
		return nil, err
	}

	output := &SyncAllOutput{}
	for _, entityID := range entities {
		result, err := r.Sync(ctx, SyncInput{EntityID: entityID, DryRun: dryRun})
		if err != nil {
			if output.Failed == nil {
				output.Failed = make(map[string]string)
			}
			output.Failed[entityID] = err.Error()
			r.Log.Error("entity sync failed", "entity", entityID, "err", err)
			continue
		}
		output.Entities = append(output.Entities, *result)
	}

	return output, nil
}
