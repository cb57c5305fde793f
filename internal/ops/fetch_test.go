package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
)

func TestFetch_NotSynced(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Fetch(context.Background(), FetchInput{EntityID: "drift"})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestFetch_AfterSync(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	seed(t, r, "drift", "transcripts/a.md", transcriptContent("2024-01-10"), nil)
	_, err := r.Sync(ctx, SyncInput{EntityID: "drift"})
	require.NoError(t, err)

	out, err := r.Fetch(ctx, FetchInput{EntityID: "drift"})
	require.NoError(t, err)
	require.Equal(t, "drift", out.Capsule.EntityID)
	require.Len(t, out.Capsule.Sessions, 1)
	require.Equal(t, "2024-01-10", out.Capsule.Sessions[0].EstimatedDate)
}

func TestFetch_EmptyEntityID(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Fetch(context.Background(), FetchInput{})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
