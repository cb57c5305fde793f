package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

func TestManifest_ClassifiesEverything(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	seed(t, r, "drift", "transcripts/a.md", transcriptContent("2024-01-10"), nil)
	seed(t, r, "drift", "blueprint.json", `{"name":"drift"}`, nil)
	seed(t, r, "drift", "overlay.yaml", "tone: warm\n", nil)
	_, err := r.Sync(ctx, SyncInput{EntityID: "drift"})
	require.NoError(t, err)

	out, err := r.Manifest(ctx, ManifestInput{EntityID: "drift"})
	require.NoError(t, err)

	m := out.Manifest
	require.Equal(t, "drift", m.EntityID)
	require.Equal(t, 4, m.TotalFiles)
	require.Equal(t, 1, m.TypeDistribution[record.KindTranscript])
	require.Equal(t, 1, m.TypeDistribution[record.KindBlueprint])
	require.Equal(t, 1, m.TypeDistribution[record.KindOverlay])
	require.Equal(t, 1, m.TypeDistribution[record.KindCanonicalAggregate])
}

func TestManifest_EmptyEntity(t *testing.T) {
	r := newTestRunner(t)

	out, err := r.Manifest(context.Background(), ManifestInput{EntityID: "ghost"})
	require.NoError(t, err)
	require.Equal(t, 0, out.Manifest.TotalFiles)
}
