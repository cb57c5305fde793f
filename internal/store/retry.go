package store

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// Retrying wraps a Store with bounded exponential backoff and a circuit
// breaker. Transient failures are retried; exhaustion or an open breaker
// surfaces as STORE_UNAVAILABLE, fatal for the current entity's run only.
//
// Coded errors from the inner store (NOT_FOUND, CONFLICT, INVALID_REQUEST)
// are permanent and returned immediately.
type Retrying struct {
	inner    Store
	attempts int
	base     time.Duration
	breaker  *gobreaker.CircuitBreaker
}

var _ Store = (*Retrying)(nil)

// NewRetrying wraps inner with retry and breaker settings from cfg.
func NewRetrying(inner Store, cfg *config.Config) *Retrying {
	r := &Retrying{
		inner:    inner,
		attempts: cfg.RetryAttempts,
		base:     time.Duration(cfg.RetryBaseMs) * time.Millisecond,
	}
	if r.attempts < 1 {
		r.attempts = 1
	}

	if cfg.BreakerMaxFailures > 0 {
		maxFailures := uint32(cfg.BreakerMaxFailures)
		r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "record-store",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		})
	}

	return r
}

// permanent reports whether err should not be retried.
func permanent(err error) bool {
	return errors.Is(err, errors.ErrNotFound) ||
		errors.Is(err, errors.ErrConflict) ||
		errors.Is(err, errors.ErrInvalidRequest)
}

// call runs fn once through the breaker when one is configured.
// Permanent errors don't count against the breaker.
func (r *Retrying) call(fn func() error) error {
	if r.breaker == nil {
		return fn()
	}

	var ran bool
	var inner error
	_, brkErr := r.breaker.Execute(func() (any, error) {
		ran = true
		inner = fn()
		if permanent(inner) {
			return nil, nil
		}
		return nil, inner
	})
	if !ran {
		// Breaker rejected the call (open or half-open limit).
		return brkErr
	}
	return inner
}

// do runs fn with retries and the breaker; op names the call for errors.
func (r *Retrying) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			delay := r.base << (attempt - 1)
			select {
			case <-ctx.Done():
				return errors.NewStoreUnavailable(op, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := r.call(fn)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return errors.NewStoreUnavailable(op, err)
		}
		lastErr = err
	}

	return errors.NewStoreUnavailable(op, lastErr)
}

func (r *Retrying) ListRecords(ctx context.Context, entityID string) ([]record.Record, error) {
	var out []record.Record
	err := r.do(ctx, "list_records", func() error {
		var err error
		out, err = r.inner.ListRecords(ctx, entityID)
		return err
	})
	return out, err
}

func (r *Retrying) ListEntities(ctx context.Context) ([]string, error) {
	var out []string
	err := r.do(ctx, "list_entities", func() error {
		var err error
		out, err = r.inner.ListEntities(ctx)
		return err
	})
	return out, err
}

func (r *Retrying) GetRecordByName(ctx context.Context, entityID, name string) (*record.Record, error) {
	var out *record.Record
	err := r.do(ctx, "get_record", func() error {
		var err error
		out, err = r.inner.GetRecordByName(ctx, entityID, name)
		return err
	})
	return out, err
}

func (r *Retrying) InsertRecord(ctx context.Context, nr NewRecord) (*record.Record, error) {
	var out *record.Record
	err := r.do(ctx, "insert_record", func() error {
		var err error
		out, err = r.inner.InsertRecord(ctx, nr)
		return err
	})
	return out, err
}

func (r *Retrying) UpdateRecord(ctx context.Context, id, content string, metadata map[string]string) error {
	return r.do(ctx, "update_record", func() error {
		return r.inner.UpdateRecord(ctx, id, content, metadata)
	})
}

func (r *Retrying) UpdateRecordIf(ctx context.Context, id, expectedHash, content string, metadata map[string]string) error {
	return r.do(ctx, "update_record_if", func() error {
		return r.inner.UpdateRecordIf(ctx, id, expectedHash, content, metadata)
	})
}

func (r *Retrying) DeleteRecord(ctx context.Context, id string) error {
	return r.do(ctx, "delete_record", func() error {
		return r.inner.DeleteRecord(ctx, id)
	})
}

func (r *Retrying) Close() error {
	return r.inner.Close()
}
