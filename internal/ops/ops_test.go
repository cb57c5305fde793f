package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
	"github.com/TitaniumShinobi/vvault-sub002/internal/store"
)

// newTestRunner builds a runner over a throwaway SQLite store.
func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := config.DefaultConfig()
	st, err := store.OpenSQLite(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewRunner(st, cfg, nil)
}

func seed(t *testing.T, r *Runner, entityID, name, content string, metadata map[string]string) *record.Record {
	t.Helper()
	rec, err := r.Store.InsertRecord(context.Background(), store.NewRecord{
		EntityID: entityID,
		Name:     name,
		Content:  content,
		Metadata: metadata,
	})
	require.NoError(t, err)
	return rec
}

// transcriptContent produces a conversational document carrying an explicit
// date line so the estimator resolves it with high confidence.
func transcriptContent(date string) string {
	return "# Session notes\n\nDate: " + date + "\n\n" +
		"User: the garden is finally coming together, the tomatoes survived\n" +
		"Assistant: that's wonderful, the garden took real patience this year\n" +
		"User: remember this: we agreed to start the seedlings in February\n" +
		"Assistant: noted, February seedlings it is\n"
}
