package record

import (
	"crypto/sha256"
	"encoding/hex"
)

// Metadata keys recognized on records.
const (
	MetaCanonicalPath = "canonical_path"
	MetaSchema        = "schema"
	MetaCreatedAt     = "created_at"
)

// SchemaCapsule marks the one record per entity that holds its capsule.
const SchemaCapsule = "capsule"

// Record represents one stored blob in the record store.
// Records are immutable once written, except the canonical aggregate and
// the capsule record, which are rewritten in place.
type Record struct {
	// ID is the store-assigned identifier (ULID for the SQLite backend).
	ID string

	// OwnerID identifies the account the record belongs to.
	OwnerID string

	// EntityID identifies the subject (construct/profile) of the record.
	EntityID string

	// Name is the storage path. It may be renamed over time; canonical
	// identity lives in metadata, not here.
	Name string

	// Content is the record body.
	Content string

	// ContentHash is the SHA-256 of Content, hex encoded.
	ContentHash string

	// Metadata holds optional key-value pairs, including canonical_path.
	Metadata map[string]string

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the record was last updated.
	UpdatedAt int64
}

// CanonicalPath returns the record's canonical identity: the rename-independent
// logical path used to detect duplicates. Falls back to the storage name when
// no canonical_path metadata is present.
func (r *Record) CanonicalPath() string {
	if r.Metadata != nil {
		if p, ok := r.Metadata[MetaCanonicalPath]; ok && p != "" {
			return p
		}
	}
	return r.Name
}

// IsCapsule reports whether the record is an entity's capsule document.
func (r *Record) IsCapsule() bool {
	return r.Metadata != nil && r.Metadata[MetaSchema] == SchemaCapsule
}

// HashContent returns the hex-encoded SHA-256 of content, the convention
// used for the content_hash column.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CapsuleName returns the storage name convention for an entity's capsule.
func CapsuleName(entityID string) string {
	return "entities/" + entityID + "/capsule"
}
