package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

func TestDedupe_RemovesCopies(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	meta := map[string]string{record.MetaCanonicalPath: "instances/x/drift/log.md"}
	seed(t, r, "drift", "copies/one.md", transcriptContent("2024-05-01"), meta)
	seed(t, r, "drift", "copies/two.md", transcriptContent("2024-05-01"), meta)
	seed(t, r, "drift", "transcripts/solo.md", transcriptContent("2024-06-01"), nil)

	out, err := r.Dedupe(ctx, DedupeInput{EntityID: "drift"})
	require.NoError(t, err)
	require.Equal(t, 3, out.Examined)
	require.Len(t, out.Removed, 1)
	require.Equal(t, 2, out.Survivors)
	require.Equal(t, "instances/x/drift/log.md", out.Removed[0].CanonicalPath)
	require.NotEmpty(t, out.Removed[0].SurvivorID)
	require.NotEqual(t, out.Removed[0].RecordID, out.Removed[0].SurvivorID)

	records, err := r.Store.ListRecords(ctx, "drift")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// A second pass finds nothing to remove.
	out, err = r.Dedupe(ctx, DedupeInput{EntityID: "drift"})
	require.NoError(t, err)
	require.Empty(t, out.Removed)
	require.Equal(t, 2, out.Survivors)
}

func TestDedupe_DryRun(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	meta := map[string]string{record.MetaCanonicalPath: "instances/x/drift/log.md"}
	seed(t, r, "drift", "copies/one.md", transcriptContent("2024-05-01"), meta)
	seed(t, r, "drift", "copies/two.md", transcriptContent("2024-05-01"), meta)

	out, err := r.Dedupe(ctx, DedupeInput{EntityID: "drift", DryRun: true})
	require.NoError(t, err)
	require.Len(t, out.Removed, 1)

	records, err := r.Store.ListRecords(ctx, "drift")
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestDedupe_SkipsCapsule(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	seed(t, r, "drift", "transcripts/a.md", transcriptContent("2024-01-10"), nil)
	_, err := r.Sync(ctx, SyncInput{EntityID: "drift"})
	require.NoError(t, err)

	out, err := r.Dedupe(ctx, DedupeInput{EntityID: "drift"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Examined)
	require.Empty(t, out.Removed)
}
