// Package ops is the operation layer: one typed Input/Output pair per
// operation, executed against a Runner.
package ops

import (
	"io"
	"log/slog"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/store"
)

// Runner carries the per-run dependencies: the record store, configuration,
// and the run's own logger sink. Runs for different entities are independent;
// nothing here is global.
type Runner struct {
	Store store.Store
	Cfg   *config.Config
	Log   *slog.Logger
}

// NewRunner creates a runner. A nil logger discards output, which keeps
// library callers and tests quiet by default.
func NewRunner(st store.Store, cfg *config.Config, log *slog.Logger) *Runner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{Store: st, Cfg: cfg, Log: log}
}

// SkippedRecord identifies a record excluded from a run and why.
type SkippedRecord struct {
	RecordID      string `json:"record_id"`
	CanonicalPath string `json:"canonical_path"`
	Reason        string `json:"reason"`
}
