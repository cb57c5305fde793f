// Package store defines the record store contract and its backends.
//
// The record store itself is an external collaborator: the pipeline only
// depends on the Store interface. The SQLite backend in this package is the
// reference implementation and test harness.
package store

import (
	"context"

	"github.com/TitaniumShinobi/vvault-sub002/internal/record"
)

// NewRecord holds the caller-supplied fields for an insert. The store
// assigns ID, ContentHash, CreatedAt, and UpdatedAt.
type NewRecord struct {
	OwnerID  string
	EntityID string
	Name     string
	Content  string
	Metadata map[string]string
}

// Store is the record store contract used by the pipeline. All methods take
// a context so a run can be cancelled at any record boundary.
type Store interface {
	// ListRecords returns all records for an entity.
	ListRecords(ctx context.Context, entityID string) ([]record.Record, error)

	// ListEntities returns the distinct entity ids present in the store.
	ListEntities(ctx context.Context) ([]string, error)

	// GetRecordByName returns the record with the given storage name for an
	// entity, or a NOT_FOUND error.
	GetRecordByName(ctx context.Context, entityID, name string) (*record.Record, error)

	// InsertRecord stores a new record and returns it with store-assigned fields.
	InsertRecord(ctx context.Context, r NewRecord) (*record.Record, error)

	// UpdateRecord rewrites content and metadata of an existing record in place.
	UpdateRecord(ctx context.Context, id, content string, metadata map[string]string) error

	// UpdateRecordIf rewrites a record only when its current content hash
	// matches expectedHash, returning a CONFLICT error otherwise. This is the
	// conditional write used for the capsule read-modify-write cycle.
	UpdateRecordIf(ctx context.Context, id, expectedHash, content string, metadata map[string]string) error

	// DeleteRecord removes a record permanently.
	DeleteRecord(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
