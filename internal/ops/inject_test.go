package ops

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/inject"
)

func TestInject_ValidPayload(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	seed(t, r, "drift", "transcripts/a.md", transcriptContent("2024-01-10"), nil)
	seed(t, r, "drift", "transcripts/b.md", transcriptContent("2024-02-11"), nil)
	_, err := r.Sync(ctx, SyncInput{EntityID: "drift"})
	require.NoError(t, err)

	out, err := r.Inject(ctx, InjectInput{EntityID: "drift"})
	require.NoError(t, err)
	require.True(t, out.Validation.Valid)
	require.NotNil(t, out.Payload)
	require.Equal(t, inject.Schema, out.Payload.Schema)
	require.Equal(t, "drift", out.Payload.EntityID)
	require.Len(t, out.Payload.Sessions, 2)
	require.False(t, out.Payload.Metadata.Truncated)
}

func TestInject_MaxSessionsOverride(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("transcripts/s%d.md", i)
		seed(t, r, "drift", name, transcriptContent(fmt.Sprintf("2024-01-%02d", i)), nil)
	}
	_, err := r.Sync(ctx, SyncInput{EntityID: "drift"})
	require.NoError(t, err)

	out, err := r.Inject(ctx, InjectInput{EntityID: "drift", MaxSessions: 2})
	require.NoError(t, err)
	require.Len(t, out.Payload.Sessions, 2)
	require.True(t, out.Payload.Metadata.Truncated)
	require.Equal(t, 5, out.Payload.Metadata.OriginalCount)
	// The window is the most recent tail.
	require.Equal(t, "2024-01-04", out.Payload.Sessions[0].EstimatedDate)
	require.Equal(t, "2024-01-05", out.Payload.Sessions[1].EstimatedDate)
}

func TestInject_NoCapsule(t *testing.T) {
	r := newTestRunner(t)

	_, err := r.Inject(context.Background(), InjectInput{EntityID: "drift"})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}
