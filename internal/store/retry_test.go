package store

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/TitaniumShinobi/vvault-sub002/internal/config"
	"github.com/TitaniumShinobi/vvault-sub002/internal/errors"
	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// flaky is a Store stub that fails a fixed number of times per call site
// before succeeding.
type flaky struct {
	failures int
	calls    int
	err      error
}

func (f *flaky) attempt() error {
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return f.err
		}
		return stderrors.New("transient")
	}
	return nil
}

func (f *flaky) ListRecords(ctx context.Context, entityID string) ([]record.Record, error) {
	if err := f.attempt(); err != nil {
		return nil, err
	}
	return []record.Record{{ID: "01A", EntityID: entityID}}, nil
}

func (f *flaky) ListEntities(ctx context.Context) ([]string, error) {
	if err := f.attempt(); err != nil {
		return nil, err
	}
	return []string{"drift"}, nil
}

func (f *flaky) GetRecordByName(ctx context.Context, entityID, name string) (*record.Record, error) {
	if err := f.attempt(); err != nil {
		return nil, err
	}
	return &record.Record{ID: "01A", EntityID: entityID, Name: name}, nil
}

func (f *flaky) InsertRecord(ctx context.Context, nr NewRecord) (*record.Record, error) {
	if err := f.attempt(); err != nil {
		return nil, err
	}
	return &record.Record{ID: "01A", EntityID: nr.EntityID, Name: nr.Name}, nil
}

func (f *flaky) UpdateRecord(ctx context.Context, id, content string, metadata map[string]string) error {
	return f.attempt()
}

func (f *flaky) UpdateRecordIf(ctx context.Context, id, expectedHash, content string, metadata map[string]string) error {
	return f.attempt()
}

func (f *flaky) DeleteRecord(ctx context.Context, id string) error {
	return f.attempt()
}

func (f *flaky) Close() error { return nil }

func retryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.RetryAttempts = 3
	cfg.RetryBaseMs = 1
	return cfg
}

func TestRetrying_RecoversFromTransientFailure(t *testing.T) {
	inner := &flaky{failures: 2}
	r := NewRetrying(inner, retryConfig())

	records, err := r.ListRecords(context.Background(), "drift")
	if err != nil {
		t.Fatalf("ListRecords failed after retries: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetrying_ExhaustionIsStoreUnavailable(t *testing.T) {
	inner := &flaky{failures: 10}
	r := NewRetrying(inner, retryConfig())

	_, err := r.ListRecords(context.Background(), "drift")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Errorf("err = %v, want STORE_UNAVAILABLE", err)
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3 (bounded)", inner.calls)
	}
}

func TestRetrying_PermanentErrorNotRetried(t *testing.T) {
	inner := &flaky{failures: 10, err: errors.NewNotFound("x")}
	r := NewRetrying(inner, retryConfig())

	_, err := r.GetRecordByName(context.Background(), "drift", "x")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on permanent error)", inner.calls)
	}
}

func TestRetrying_BreakerTripsAfterConsecutiveFailures(t *testing.T) {
	cfg := retryConfig()
	cfg.BreakerMaxFailures = 3

	inner := &flaky{failures: 1000}
	r := NewRetrying(inner, cfg)

	// First call burns through 3 attempts and trips the breaker.
	_, err := r.ListRecords(context.Background(), "drift")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want STORE_UNAVAILABLE", err)
	}
	callsAfterFirst := inner.calls

	// Breaker is open: the inner store must not be touched again.
	_, err = r.ListRecords(context.Background(), "drift")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want STORE_UNAVAILABLE", err)
	}
	if inner.calls != callsAfterFirst {
		t.Errorf("calls = %d, want %d (breaker open)", inner.calls, callsAfterFirst)
	}
}

func TestRetrying_CancelledContext(t *testing.T) {
	inner := &flaky{failures: 10}
	r := NewRetrying(inner, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ListRecords(ctx, "drift")
	if !errors.Is(err, errors.ErrStoreUnavailable) {
		t.Errorf("err = %v, want STORE_UNAVAILABLE on cancelled context", err)
	}
}
